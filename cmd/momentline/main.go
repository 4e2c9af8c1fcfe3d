package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/runnerr0/momentline/internal/cli"
)

var version = "dev"

func main() {
	// A .env in the working directory may set MOMENTLINE_CONFIG.
	if err := loadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	if err := cli.Run(version); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadEnv loads the given .env files (default ".env"). A missing file is
// not an error; a file that cannot be read or parsed is.
func loadEnv(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load .env: %w", err)
}
