//go:build prod

package database

import (
	"os"
	"path/filepath"
)

// DefaultPath places the database under the user's config directory.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "uiloop.db"
	}
	return filepath.Join(configDir, "uiloop", "uiloop.db")
}
