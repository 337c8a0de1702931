package release

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Platform identifies a publish target. One release invocation covers exactly
// one platform.
type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
)

var titleCaser = cases.Title(language.English)

// ParsePlatform validates a platform flag value.
func ParsePlatform(value string) (Platform, error) {
	switch Platform(strings.ToLower(strings.TrimSpace(value))) {
	case PlatformAndroid:
		return PlatformAndroid, nil
	case PlatformIOS:
		return PlatformIOS, nil
	default:
		return "", fmt.Errorf("unknown platform %q (expected %q or %q)", value, PlatformAndroid, PlatformIOS)
	}
}

// Label returns the user-facing platform name.
func (p Platform) Label() string {
	if p == PlatformIOS {
		return "iOS"
	}
	return titleCaser.String(string(p))
}

// SupportedOnHost reports whether the current host OS can build this platform.
// iOS framework builds require the Apple toolchain.
func (p Platform) SupportedOnHost() bool {
	return p.supportedOn(runtime.GOOS)
}

func (p Platform) supportedOn(goos string) bool {
	if p == PlatformIOS {
		return goos == "darwin"
	}
	return true
}

// ArtifactName returns the artifact file name the build toolchain produces for
// the platform.
func (p Platform) ArtifactName() string {
	if p == PlatformIOS {
		return "App.xcframework"
	}
	return "app.aar"
}

// ArtifactPath resolves the deterministic build output location beneath the
// project root: build/<platform>/framework/Release/<artifact>.
func (p Platform) ArtifactPath(projectRoot string) string {
	return filepath.Join(projectRoot, "build", string(p), "framework", "Release", p.ArtifactName())
}

// Status is a release lifecycle state. Transitions are monotonic: draft may
// become active, active never changes again.
type Status string

const (
	StatusDraft  Status = "draft"
	StatusActive Status = "active"
)

var semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(?:[-+][0-9A-Za-z.\-+]+)?$`)

// ValidateVersion checks the release version string is a semantic version.
func ValidateVersion(version string) error {
	trimmed := strings.TrimSpace(version)
	if trimmed == "" {
		return errors.New("release version is required")
	}
	if !semverPattern.MatchString(trimmed) {
		return fmt.Errorf("release version %q is not a semantic version (expected e.g. 1.2.3)", version)
	}
	return nil
}

// App is the remote application a release belongs to. Fetched once per
// invocation and treated as read-only.
type App struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Release is the remote release record. Status is tracked per platform so one
// version can ship to Android while the iOS bundle is still in draft.
type Release struct {
	ID              int64               `json:"id"`
	AppID           string              `json:"app_id"`
	Version         string              `json:"version"`
	FlutterRevision string              `json:"flutter_revision"`
	PlatformStatus  map[Platform]Status `json:"platform_status"`
}

// StatusFor returns the lifecycle state recorded for the platform. A release
// with no entry for the platform has never been published there and behaves
// like a draft.
func (r *Release) StatusFor(platform Platform) Status {
	if r == nil || r.PlatformStatus == nil {
		return StatusDraft
	}
	if status, ok := r.PlatformStatus[platform]; ok {
		return status
	}
	return StatusDraft
}

// ActiveFor reports whether the release has already been activated for the
// platform. Active releases are immutable for that platform.
func (r *Release) ActiveFor(platform Platform) bool {
	return r.StatusFor(platform) == StatusActive
}
