package workflow

import (
	"errors"

	"airlift/internal/release"
	"airlift/internal/services"
)

// Exit codes follow the sysexits convention so scripts can distinguish
// environment problems from failures of the publish itself.
const (
	// ExitOK covers a completed publish and a user-declined confirmation.
	ExitOK = 0
	// ExitUnavailable reports a host platform that cannot produce the
	// requested build at all, such as an iOS build on Linux.
	ExitUnavailable = 69
	// ExitSoftware reports failures of the workflow proper: build errors,
	// upload errors, remote conflicts, activation failures.
	ExitSoftware = 70
	// ExitConfig reports unmet preconditions and unusable configuration.
	// The operator fixes the environment and re-runs.
	ExitConfig = 78
)

// Outcome summarizes a finished publish. Err stays nil when the user declined
// the confirmation; Aborted distinguishes that path from a real publish.
type Outcome struct {
	State           State
	Release         *release.Release
	ArtifactPath    string
	FlutterRevision string
	Aborted         bool
}

// ExitCodeFor maps an error to a process exit code using the service error
// markers. Unrecognized errors count as software failures.
func ExitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, services.ErrUnsupported):
		return ExitUnavailable
	case errors.Is(err, services.ErrPrecondition),
		errors.Is(err, services.ErrConfiguration),
		errors.Is(err, services.ErrValidation):
		return ExitConfig
	default:
		return ExitSoftware
	}
}
