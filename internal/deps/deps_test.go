package deps_test

import (
	"os"
	"path/filepath"
	"testing"

	"airlift/internal/deps"
)

func TestCheckReportsMissing(t *testing.T) {
	statuses := deps.Check(
		deps.Binary{Name: "Nope", Command: "definitely-not-a-real-binary-xyz"},
		deps.Binary{Name: "Unset", Command: "  "},
	)
	if len(statuses) != 2 {
		t.Fatalf("statuses = %d", len(statuses))
	}
	if statuses[0].Available {
		t.Error("expected missing binary to be unavailable")
	}
	if statuses[1].Available || statuses[1].Detail != "command not configured" {
		t.Errorf("unset binary = %+v", statuses[1])
	}
}

func TestCheckFindsStub(t *testing.T) {
	binDir := t.TempDir()
	stub := filepath.Join(binDir, "airlift-test-tool")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))

	statuses := deps.Check(deps.Binary{Name: "Tool", Command: "airlift-test-tool"})
	if !statuses[0].Available {
		t.Fatalf("expected stub to be found: %+v", statuses[0])
	}
	if statuses[0].Detail != stub {
		t.Errorf("detail = %q, want resolved path %q", statuses[0].Detail, stub)
	}
}

func TestMissingIgnoresOptional(t *testing.T) {
	statuses := deps.Check(
		deps.Binary{Name: "Required", Command: "definitely-not-a-real-binary-xyz"},
		deps.Binary{Name: "Extra", Command: "also-not-a-real-binary-xyz", Optional: true},
	)
	missing := deps.Missing(statuses)
	if len(missing) != 1 || missing[0].Name != "Required" {
		t.Fatalf("missing = %+v", missing)
	}
}
