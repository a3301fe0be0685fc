package utils

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// LoadEnv loads .env from the current directory, falling back to the
// repository root when running from a subdirectory.
func LoadEnv() error {
	if err := godotenv.Load(); err == nil {
		return nil
	}
	root, err := FindProjectRoot()
	if err != nil {
		return err
	}
	return godotenv.Load(filepath.Join(root, ".env"))
}
