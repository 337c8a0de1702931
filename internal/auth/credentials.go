package auth

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotLoggedIn is returned when no API token has been stored yet.
var ErrNotLoggedIn = errors.New("not logged in")

// Store persists the release-tracking service API token on disk. The token
// file is written with owner-only permissions.
type Store struct {
	path string
}

// NewStore constructs a credential store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the credentials file location.
func (s *Store) Path() string {
	return s.path
}

// Token reads the stored API token.
func (s *Store) Token() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: no credentials at %s (run 'airlift login')", ErrNotLoggedIn, s.path)
		}
		return "", fmt.Errorf("read credentials: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("%w: credentials file %s is empty (run 'airlift login')", ErrNotLoggedIn, s.path)
	}
	return token, nil
}

// Save stores the API token, replacing any previous one.
func (s *Store) Save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token is required")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create credentials directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// Delete removes the stored token. Deleting absent credentials is not an error.
func (s *Store) Delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

// LoggedIn reports whether a usable token is stored.
func (s *Store) LoggedIn() bool {
	_, err := s.Token()
	return err == nil
}
