package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"airlift/internal/workflow"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(workflow.ExitCodeFor(err))
	}
}
