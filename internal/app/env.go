package app

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads environment files, .env in the working directory by default.
// Missing files are ignored; variables already set in the environment win.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}
