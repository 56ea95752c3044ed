// Package appdir locates and creates the files asnmap reads and writes.
package appdir

import (
	"fmt"
	"os"
	"path/filepath"
)

// Name is the directory name used under the user config dir.
const Name = "asnmap"

// ConfigDir returns the OS-specific config directory for asnmap.
// Linux: $XDG_CONFIG_HOME/asnmap  macOS: ~/Library/Application Support/asnmap
// Windows: %AppData%/asnmap
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("getting user config dir: %w", err)
	}
	return filepath.Join(base, Name), nil
}

// EnsureParent creates the parent directories of path. Report prefixes such
// as "out/2024/top" rely on it.
func EnsureParent(path string, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, perm); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}

// EnsureFile creates path (mode 0600) and its parent directories (mode 0700)
// if they do not exist. A no-op if the file already exists.
func EnsureFile(path string) error {
	if err := EnsureParent(path, 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return fmt.Errorf("creating config file: %w", err)
	}
	return f.Close()
}
