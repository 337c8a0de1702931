package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers used to classify stage failures. The workflow maps each
// marker to a process exit code in one place; callers wrap underlying errors
// with the marker that matches the failure kind.
var (
	// ErrPrecondition marks an unmet environment, auth, or project requirement.
	ErrPrecondition = errors.New("precondition failure")
	// ErrUnsupported marks a host platform that cannot run the requested build.
	ErrUnsupported = errors.New("unsupported platform")
	// ErrExternalTool marks a failure inside an invoked toolchain binary.
	ErrExternalTool = errors.New("external tool error")
	// ErrValidation marks invalid user input or project state.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks unusable configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound marks a missing remote resource.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a release that is already active for the target platform.
	ErrConflict = errors.New("release already published")
	// ErrUpload marks an artifact upload failure. The release stays in draft and
	// the workflow can be re-run.
	ErrUpload = errors.New("artifact upload failed")
	// ErrActivation marks a status transition failure after the artifact was
	// uploaded. The remote outcome is ambiguous and needs manual verification.
	ErrActivation = errors.New("release activation failed")
	// ErrTransient marks remote failures with no more specific classification.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
