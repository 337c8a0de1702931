package project_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"airlift/internal/project"
)

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := project.Load(t.TempDir())
	if !errors.Is(err, project.ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func TestLoadRequiresAppID(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, project.FileName), []byte("flavors: {}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := project.Load(dir); err == nil || !strings.Contains(err.Error(), "app_id") {
		t.Fatalf("expected app_id error, got %v", err)
	}
}

func TestWriteThenLoadRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	want := &project.Project{
		AppID: "app-prod",
		Flavors: map[string]string{
			"staging": "app-staging",
		},
	}
	if err := project.Write(dir, want); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := project.Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.AppID != "app-prod" {
		t.Errorf("app id = %q", got.AppID)
	}
	if got.Flavors["staging"] != "app-staging" {
		t.Errorf("staging flavor = %q", got.Flavors["staging"])
	}

	if err := project.Write(dir, want); err == nil {
		t.Fatal("expected overwrite refusal")
	}
}

func TestResolveAppID(t *testing.T) {
	t.Parallel()

	proj := &project.Project{
		AppID: "app-prod",
		Flavors: map[string]string{
			"staging": "app-staging",
			"dev":     "app-dev",
		},
	}

	if id, err := proj.ResolveAppID(""); err != nil || id != "app-prod" {
		t.Errorf("default app = %q, err = %v", id, err)
	}
	if id, err := proj.ResolveAppID("staging"); err != nil || id != "app-staging" {
		t.Errorf("staging app = %q, err = %v", id, err)
	}
	if _, err := proj.ResolveAppID("qa"); err == nil || !strings.Contains(err.Error(), "dev, staging") {
		t.Errorf("expected sorted flavor list in error, got %v", err)
	}

	bare := &project.Project{AppID: "solo"}
	if _, err := bare.ResolveAppID("staging"); err == nil || !strings.Contains(err.Error(), "declares no flavors") {
		t.Errorf("expected no-flavors error, got %v", err)
	}
}
