// Package history persists a local record of completed publishes so
// "airlift releases --local" works offline. Recording is best-effort and never
// fails a publish.
package history
