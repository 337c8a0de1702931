// Package releaseapi is the HTTP client for the release-tracking service.
// Every method is a single atomic remote call; the publish workflow sequences
// them and owns all failure policy.
package releaseapi
