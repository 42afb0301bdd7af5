// Package osutil resolves the per-user directory jobcounter keeps its files in.
package osutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// AppName names the directory under the user config dir.
const AppName = "jobcounter"

// PathProvider is the OS seam behind AppDir.
type PathProvider interface {
	UserConfigDir() (string, error)
	MkdirAll(path string, perm os.FileMode) error
}

// DefaultPathProvider uses real OS functions.
type DefaultPathProvider struct{}

// UserConfigDir returns the default root directory for user-specific configuration data.
func (DefaultPathProvider) UserConfigDir() (string, error) {
	return os.UserConfigDir()
}

// MkdirAll creates a directory named path, along with any necessary parents.
func (DefaultPathProvider) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Provider is the package-level path provider instance.
// In production, this is DefaultPathProvider. Tests can replace it.
var Provider PathProvider = DefaultPathProvider{}

// SetProvider sets a custom provider (for testing).
func SetProvider(p PathProvider) {
	Provider = p
}

// ResetProvider resets to the default provider.
func ResetProvider() {
	Provider = DefaultPathProvider{}
}

// AppDir returns override, or <user config dir>/jobcounter when override is
// empty, after making sure the directory exists.
func AppDir(override string) (string, error) {
	dir := override
	if dir == "" {
		base, err := Provider.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("no user config directory: %w", err)
		}
		dir = filepath.Join(base, AppName)
	}

	if err := Provider.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return dir, nil
}
