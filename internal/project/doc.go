// Package project reads and writes airlift.yaml, the per-repository marker
// that binds a working directory to a remote app.
package project
