package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// envFilesVar lists extra dotenv files, comma separated, loaded instead of .env.
const envFilesVar = "DESKCALC_ENV_FILES"

// loadDotEnv loads environment variables from .env (or the files named in
// DESKCALC_ENV_FILES) when present. Existing process environment variables
// are not overridden.
func loadDotEnv() error {
	files := []string{".env"}
	if v := os.Getenv(envFilesVar); v != "" {
		files = strings.Split(v, ",")
	}

	for _, f := range files {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}

		err := godotenv.Load(f)
		if err == nil || errors.Is(err, os.ErrNotExist) {
			continue
		}
		return fmt.Errorf("load %s: %w", f, err)
	}
	return nil
}
