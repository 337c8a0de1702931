package auth_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"airlift/internal/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	store := auth.NewStore(filepath.Join(t.TempDir(), "creds", "token"))

	if _, err := store.Token(); !errors.Is(err, auth.ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
	if store.LoggedIn() {
		t.Fatal("expected LoggedIn to be false before Save")
	}

	if err := store.Save("  tok-123  "); err != nil {
		t.Fatalf("Save: %v", err)
	}
	token, err := store.Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if token != "tok-123" {
		t.Errorf("token = %q", token)
	}
	if !store.LoggedIn() {
		t.Error("expected LoggedIn after Save")
	}

	info, err := os.Stat(store.Path())
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("credentials mode = %o, want 600", perm)
	}
}

func TestSaveRejectsEmptyToken(t *testing.T) {
	t.Parallel()

	store := auth.NewStore(filepath.Join(t.TempDir(), "token"))
	if err := store.Save("   "); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	t.Parallel()

	store := auth.NewStore(filepath.Join(t.TempDir(), "token"))
	if err := store.Delete(); err != nil {
		t.Fatalf("Delete on absent file: %v", err)
	}
	if err := store.Save("tok"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if store.LoggedIn() {
		t.Error("expected logged out after delete")
	}
}

func TestEmptyFileTreatedAsLoggedOut(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("   \n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := auth.NewStore(path)
	if _, err := store.Token(); !errors.Is(err, auth.ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn for empty file, got %v", err)
	}
}
