// Package deps probes for the external binaries the publish workflow shells
// out to.
package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Binary describes an external command the workflow invokes.
type Binary struct {
	Name     string
	Command  string
	Optional bool
}

// Status reports whether a binary is resolvable on PATH.
type Status struct {
	Binary
	Available bool
	Detail    string
}

// Check resolves each binary with exec.LookPath and reports the outcomes in
// input order.
func Check(binaries ...Binary) []Status {
	statuses := make([]Status, 0, len(binaries))
	for _, bin := range binaries {
		bin.Command = strings.TrimSpace(bin.Command)
		status := Status{Binary: bin}
		switch {
		case bin.Command == "":
			status.Detail = "command not configured"
		default:
			if path, err := exec.LookPath(bin.Command); err != nil {
				status.Detail = fmt.Sprintf("binary %q not found", bin.Command)
			} else {
				status.Available = true
				status.Detail = path
			}
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// Missing filters statuses down to required binaries that are unavailable.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status)
		}
	}
	return missing
}
