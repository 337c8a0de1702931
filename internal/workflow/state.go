package workflow

// State names the step a publish has reached. States only advance; a failure
// leaves the publish at the last state it completed, which the error message
// reports so the operator knows what already happened remotely.
type State string

const (
	StateValidating             State = "validating"
	StateAppResolved            State = "app-resolved"
	StateExistingReleaseChecked State = "existing-release-checked"
	StateBuilt                  State = "built"
	StateConfirmed              State = "confirmed"
	StateReleaseResolved        State = "release-resolved"
	StateArtifactPublished      State = "artifact-published"
	StateActivated              State = "activated"

	// StateAbortedByUser is the terminal state of a declined confirmation. It
	// is only reachable from the confirmation step and is reported as success.
	StateAbortedByUser State = "aborted-by-user"
)
