package utils

import (
	"fmt"
	"os"
	"path/filepath"

	coreconfig "github.com/AzielCF/watercooler-fc/core/config"
)

// EnsureDir creates dir and its parents when missing.
func EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// StoragePath joins parts under the configured base directory.
func StoragePath(parts ...string) string {
	base := "storages"
	if coreconfig.Global != nil && coreconfig.Global.Paths.BaseDir != "" {
		base = coreconfig.Global.Paths.BaseDir
	}
	return filepath.Join(append([]string{base}, parts...)...)
}

// EnsureStorageDirectories creates the base directory and the parent of a
// file backed database.
func EnsureStorageDirectories() error {
	if err := EnsureDir(StoragePath()); err != nil {
		return err
	}
	if coreconfig.Global != nil && coreconfig.Global.Database.Driver != "postgres" {
		name := coreconfig.Global.Database.Name
		if name != "" && name != ":memory:" {
			return EnsureDir(filepath.Dir(name))
		}
	}
	return nil
}
