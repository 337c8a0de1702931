package preflight_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"airlift/internal/auth"
	"airlift/internal/config"
	"airlift/internal/preflight"
	"airlift/internal/project"
	"airlift/internal/release"
	"airlift/internal/services"
	"airlift/internal/testsupport"
)

func readyEnvironment(t *testing.T) (*config.Config, *auth.Store, string) {
	t.Helper()

	cfg := testsupport.NewConfig(t,
		testsupport.WithStubbedBinaries(),
		testsupport.WithSavedToken("tok-123"),
	)
	creds := auth.NewStore(cfg.Paths.CredentialsFile)

	projectDir := t.TempDir()
	if err := project.Write(projectDir, &project.Project{AppID: "app-1"}); err != nil {
		t.Fatalf("write project: %v", err)
	}

	return cfg, creds, projectDir
}

func TestValidatePassesOnReadyEnvironment(t *testing.T) {
	cfg, creds, dir := readyEnvironment(t)

	validator := preflight.NewValidator(cfg, creds)
	err := validator.Validate(context.Background(), preflight.Request{
		Platform:   release.PlatformAndroid,
		ProjectDir: dir,
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateUnsupportedPlatformHasDistinctMarker(t *testing.T) {
	if runtime.GOOS == "darwin" {
		t.Skip("ios builds are supported on darwin hosts")
	}
	cfg, creds, dir := readyEnvironment(t)

	validator := preflight.NewValidator(cfg, creds)
	err := validator.Validate(context.Background(), preflight.Request{
		Platform:   release.PlatformIOS,
		ProjectDir: dir,
	})
	if !errors.Is(err, services.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestValidateStopsAtFirstFailure(t *testing.T) {
	cfg, _, dir := readyEnvironment(t)
	emptyCreds := auth.NewStore(filepath.Join(t.TempDir(), "absent"))

	validator := preflight.NewValidator(cfg, emptyCreds)
	err := validator.Validate(context.Background(), preflight.Request{
		Platform:   release.PlatformAndroid,
		ProjectDir: dir,
	})
	if !errors.Is(err, services.ErrPrecondition) {
		t.Fatalf("expected ErrPrecondition, got %v", err)
	}
	if !strings.Contains(err.Error(), "Authentication") {
		t.Errorf("error %q should name the failing check", err)
	}
}

func TestValidateRequiresProjectFile(t *testing.T) {
	cfg, creds, _ := readyEnvironment(t)
	bareDir := t.TempDir()

	validator := preflight.NewValidator(cfg, creds)
	err := validator.Validate(context.Background(), preflight.Request{
		Platform:   release.PlatformAndroid,
		ProjectDir: bareDir,
	})
	if !errors.Is(err, services.ErrPrecondition) {
		t.Fatalf("expected ErrPrecondition, got %v", err)
	}
	if !strings.Contains(err.Error(), project.FileName) {
		t.Errorf("error %q should mention %s", err, project.FileName)
	}
}

func TestValidateRunsExtraChecks(t *testing.T) {
	cfg, creds, dir := readyEnvironment(t)

	validator := preflight.NewValidator(cfg, creds)
	err := validator.Validate(context.Background(), preflight.Request{
		Platform:   release.PlatformAndroid,
		ProjectDir: dir,
		Extra: []preflight.Check{
			func(context.Context) preflight.Result {
				return preflight.Result{Name: "Custom", Detail: "custom requirement unmet"}
			},
		},
	})
	if !errors.Is(err, services.ErrPrecondition) {
		t.Fatalf("expected ErrPrecondition, got %v", err)
	}
	if !strings.Contains(err.Error(), "Custom") {
		t.Errorf("error %q should name the extra check", err)
	}
}

func TestRunAllReportsEveryCheck(t *testing.T) {
	cfg, _, dir := readyEnvironment(t)
	emptyCreds := auth.NewStore(filepath.Join(t.TempDir(), "absent"))

	validator := preflight.NewValidator(cfg, emptyCreds)
	results := validator.RunAll(context.Background(), preflight.Request{
		Platform:   release.PlatformAndroid,
		ProjectDir: dir,
	})
	if len(results) != 5 {
		t.Fatalf("results = %d, want 5", len(results))
	}

	var sawAuthFailure, sawProjectPass bool
	for _, result := range results {
		if result.Name == "Authentication" && !result.Passed {
			sawAuthFailure = true
		}
		if result.Name == "Project" && result.Passed {
			sawProjectPass = true
		}
	}
	if !sawAuthFailure || !sawProjectPass {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	if result := preflight.CheckDirectoryAccess("Dir", dir); !result.Passed {
		t.Errorf("expected pass for %s: %+v", dir, result)
	}
	if result := preflight.CheckDirectoryAccess("Dir", filepath.Join(dir, "missing")); result.Passed {
		t.Error("expected failure for missing directory")
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if result := preflight.CheckDirectoryAccess("Dir", file); result.Passed {
		t.Error("expected failure for non-directory")
	}
}
