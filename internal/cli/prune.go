package cli

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/runnerr0/momentline/internal/logging"
	"github.com/runnerr0/momentline/internal/storage"
)

// Execute implements the go-flags Commander interface for PruneCommand.
func (c *PruneCommand) Execute(args []string) error {
	e, closeEnv, err := openEnv(c.globals, loggingSetup)
	if err != nil {
		return err
	}
	defer closeEnv()

	return c.executeWith(e)
}

func (c *PruneCommand) executeWith(e *env) error {
	var retention time.Duration
	if c.OlderThan != "" {
		d, err := parseDuration(c.OlderThan)
		if err != nil {
			return fmt.Errorf("invalid --older-than value %q: %w", c.OlderThan, err)
		}
		retention = d
	} else {
		if e.cfg.Retention.Days == 0 {
			fmt.Println("Retention is disabled (retention.days = 0); nothing to prune.")
			return nil
		}
		retention = time.Duration(e.cfg.Retention.Days) * 24 * time.Hour
	}

	ctx := context.Background()
	cutoff := e.now().Add(-retention)

	// PruneBefore is exclusive of the cutoff; ListMoments' Until is inclusive.
	doomed, err := e.store.ListMoments(ctx, storage.MomentQuery{
		Until: cutoff.Add(-time.Millisecond),
		Limit: math.MaxInt32,
	})
	if err != nil {
		return fmt.Errorf("count moments to prune: %w", err)
	}

	if c.DryRun {
		if c.globals.JSON {
			return printJSON(map[string]interface{}{
				"dry_run": true,
				"cutoff":  cutoff.UTC().Format(time.RFC3339),
				"count":   len(doomed),
			})
		}
		fmt.Printf("Would prune %d moment(s) older than %s (before %s)\n",
			len(doomed), formatDurationHuman(retention), cutoff.Format("2006-01-02 15:04"))
		return nil
	}

	if len(doomed) == 0 {
		if c.globals.JSON {
			return printJSON(map[string]interface{}{"pruned": 0, "cutoff": cutoff.UTC().Format(time.RFC3339)})
		}
		fmt.Println("Nothing to prune.")
		return nil
	}

	if !c.Force {
		answer, err := prompt(c.stdin, fmt.Sprintf("Delete %d moment(s) older than %s? [y/N]: ",
			len(doomed), formatDurationHuman(retention)))
		if err != nil {
			return err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
		default:
			return fmt.Errorf("aborted")
		}
	}

	n, err := e.store.PruneBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("prune failed: %w", err)
	}
	logging.Infof("prune: deleted %d moments before %s", n, cutoff.UTC().Format(time.RFC3339))

	if c.globals.JSON {
		return printJSON(map[string]interface{}{"pruned": n, "cutoff": cutoff.UTC().Format(time.RFC3339)})
	}
	fmt.Printf("Pruned %d moment(s) older than %s.\n", n, formatDurationHuman(retention))
	return nil
}
