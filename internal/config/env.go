package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// envFiles are consulted in order; values already present in the process
// environment are never overridden.
var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads every existing env file next to the working directory.
func loadEnvFiles() error {
	for _, path := range envFiles {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return err
		}
		slog.Debug("Loaded environment file", slog.String("path", path))
	}
	return nil
}
