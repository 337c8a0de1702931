// Package services holds the shared error classification and context
// annotation helpers used by the external service clients and the publish
// workflow. Every stage failure is wrapped with one of the sentinel markers so
// the workflow can map it to a user-facing message and process exit code
// without inspecting error strings.
package services
