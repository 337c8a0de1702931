package workflow

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"

	"airlift/internal/services"
)

const lockFileName = ".airlift.lock"

// acquireProjectLock guards against two publishes racing in the same working
// copy on this machine. The service side still enforces the one-release-per-
// version invariant; this just fails fast with a readable message.
func acquireProjectLock(projectDir string) (func(), error) {
	path := filepath.Join(projectDir, lockFileName)
	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrPrecondition, "lock", path, "could not create project lock", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrPrecondition, "lock", path,
			fmt.Sprintf("another publish is already running in %s", projectDir), nil)
	}
	return func() { _ = lock.Unlock() }, nil
}
