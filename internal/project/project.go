package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
)

// FileName is the project marker airlift looks for in the working directory.
const FileName = "airlift.yaml"

// ErrNotInitialized indicates the working directory has no airlift.yaml.
var ErrNotInitialized = errors.New("project not initialized")

// Project is the per-repository configuration committed alongside the app
// source. Flavors map a build flavor name to the app identifier it publishes
// under; the top-level AppID is used when no flavor is selected.
type Project struct {
	AppID   string            `yaml:"app_id"`
	Flavors map[string]string `yaml:"flavors,omitempty"`
}

// Load reads the project file from the given directory.
func Load(dir string) (*Project, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s not found in %s", ErrNotInitialized, FileName, dir)
		}
		return nil, fmt.Errorf("read project file: %w", err)
	}

	var proj Project
	if err := yaml.Unmarshal(data, &proj); err != nil {
		return nil, fmt.Errorf("parse %s: %w", FileName, err)
	}
	if strings.TrimSpace(proj.AppID) == "" {
		return nil, fmt.Errorf("parse %s: app_id is required", FileName)
	}
	return &proj, nil
}

// Write persists a project file into the given directory. Existing files are
// never overwritten.
func Write(dir string, proj *Project) error {
	if proj == nil || strings.TrimSpace(proj.AppID) == "" {
		return errors.New("project app_id is required")
	}
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	data, err := yaml.Marshal(proj)
	if err != nil {
		return fmt.Errorf("encode project file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ResolveAppID returns the app identifier for the selected flavor, or the
// project's default app when flavor is empty.
func (p *Project) ResolveAppID(flavor string) (string, error) {
	flavor = strings.TrimSpace(flavor)
	if flavor == "" {
		return p.AppID, nil
	}
	appID, ok := p.Flavors[flavor]
	if !ok {
		known := make([]string, 0, len(p.Flavors))
		for name := range p.Flavors {
			known = append(known, name)
		}
		if len(known) == 0 {
			return "", fmt.Errorf("flavor %q requested but %s declares no flavors", flavor, FileName)
		}
		sort.Strings(known)
		return "", fmt.Errorf("unknown flavor %q (declared: %s)", flavor, strings.Join(known, ", "))
	}
	if strings.TrimSpace(appID) == "" {
		return "", fmt.Errorf("flavor %q has an empty app_id", flavor)
	}
	return appID, nil
}
