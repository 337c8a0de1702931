// Package logging builds the slog loggers used across airlift and defines the
// standardized attribute keys (component, stage, run_id) so console and JSON
// output stay consistent between commands and the publish workflow.
package logging
