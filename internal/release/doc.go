// Package release defines the domain model shared by the publish workflow and
// the remote API client: apps, releases, platforms, and lifecycle states.
package release
