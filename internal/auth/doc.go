// Package auth stores the API token used to authenticate against the
// release-tracking service.
package auth
