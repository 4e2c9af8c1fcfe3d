package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/momentline/internal/logging"
)

// Execute implements the go-flags Commander interface for PurgeCommand.
func (c *PurgeCommand) Execute(args []string) error {
	if !c.All {
		return fmt.Errorf("purge requires --all flag for safety")
	}

	e, closeEnv, err := openEnv(c.globals, loggingSetup)
	if err != nil {
		return err
	}
	defer closeEnv()

	return c.executeWith(e)
}

func (c *PurgeCommand) executeWith(e *env) error {
	if !c.All {
		return fmt.Errorf("purge requires --all flag for safety")
	}

	if !c.Force {
		fmt.Println("⚠ WARNING: This will permanently delete ALL Momentline data.")
		fmt.Println("  - All moments on every timeline")
		fmt.Println("  - All saved canvas views")
		fmt.Println()
		fmt.Println("This action cannot be undone.")
		fmt.Println()

		input, err := prompt(c.stdin, `Type "PURGE" to confirm: `)
		if err != nil {
			return err
		}
		if input != "PURGE" {
			return fmt.Errorf("aborted: confirmation text did not match")
		}
	}

	if err := e.store.PurgeAll(context.Background()); err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}
	logging.Warnf("purge: all data deleted from %s", e.dbPath)

	if c.globals.JSON {
		return printJSON(map[string]interface{}{
			"purged":  true,
			"message": "all data deleted",
		})
	}

	fmt.Println("Purged all data. Momentline is empty.")
	return nil
}
