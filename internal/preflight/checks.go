package preflight

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"golang.org/x/sys/unix"

	"airlift/internal/auth"
	"airlift/internal/config"
	"airlift/internal/deps"
	"airlift/internal/project"
	"airlift/internal/release"
)

const checkNameHostPlatform = "Host platform"

// CheckHostPlatform verifies the host OS can build the requested platform.
func CheckHostPlatform(platform release.Platform) Result {
	if platform.SupportedOnHost() {
		return Result{Name: checkNameHostPlatform, Passed: true, Detail: fmt.Sprintf("%s builds supported on %s", platform.Label(), runtime.GOOS)}
	}
	return Result{
		Name:   checkNameHostPlatform,
		Detail: fmt.Sprintf("%s framework builds require macOS (running on %s)", platform.Label(), runtime.GOOS),
	}
}

// CheckAuthenticated verifies stored API credentials exist.
func CheckAuthenticated(creds *auth.Store) Result {
	const name = "Authentication"
	if creds == nil {
		return Result{Name: name, Detail: "credential store unavailable"}
	}
	if _, err := creds.Token(); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("credentials at %s", creds.Path())}
}

// CheckProjectInitialized verifies the working directory carries a project file.
func CheckProjectInitialized(dir string) Result {
	const name = "Project"
	if _, err := project.Load(dir); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s found", project.FileName)}
}

// CheckToolchain verifies the build toolchain binaries are installed.
func CheckToolchain(cfg *config.Config) Result {
	const name = "Toolchain"
	if cfg == nil {
		return Result{Name: name, Detail: "configuration unavailable"}
	}

	statuses := deps.Check(
		deps.Binary{Name: "Flutter", Command: cfg.Flutter.Binary},
		deps.Binary{Name: "Git", Command: cfg.Flutter.GitBinary},
	)

	missing := deps.Missing(statuses)
	if len(missing) > 0 {
		parts := make([]string, 0, len(missing))
		for _, status := range missing {
			parts = append(parts, fmt.Sprintf("%s (%s)", status.Name, status.Detail))
		}
		return Result{Name: name, Detail: strings.Join(parts, "; ")}
	}
	return Result{Name: name, Passed: true, Detail: "flutter and git available"}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}
