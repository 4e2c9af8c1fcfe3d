package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/runnerr0/momentline/internal/storage"
)

// Execute implements the go-flags Commander interface for AddCommand.
func (c *AddCommand) Execute(args []string) error {
	if c.Title == "" {
		return fmt.Errorf("--title is required for add command")
	}

	e, closeEnv, err := openEnv(c.globals, loggingSetup)
	if err != nil {
		return err
	}
	defer closeEnv()

	return c.executeWith(e)
}

// executeWith runs the add logic against a prepared env (used by tests).
func (c *AddCommand) executeWith(e *env) error {
	if c.Title == "" {
		return fmt.Errorf("--title is required for add command")
	}

	// Note and note-file are mutually exclusive
	if c.Note != "" && c.NoteFile != "" {
		return fmt.Errorf("--note and --note-file are mutually exclusive")
	}
	note := c.Note
	if c.NoteFile != "" {
		data, err := os.ReadFile(c.NoteFile)
		if err != nil {
			return fmt.Errorf("reading note file: %w", err)
		}
		note = string(data)
	}

	loc, err := e.cfg.Location()
	if err != nil {
		return err
	}
	now := e.now()
	at, err := parseTime(c.At, loc, now)
	if err != nil {
		return fmt.Errorf("--at: %w", err)
	}

	m := &storage.Moment{
		TimelineID: c.Timeline,
		Timestamp:  at,
		Title:      c.Title,
		Note:       note,
		Y:          c.Y,
	}
	if c.End != "" {
		end, err := parseTime(c.End, loc, now)
		if err != nil {
			return fmt.Errorf("--end: %w", err)
		}
		m.EndTime = &end
	}

	ctx := context.Background()
	if err := e.store.AddMoment(ctx, m); err != nil {
		return fmt.Errorf("storing moment: %w", err)
	}

	// Placing the new card is a move to its own y: neighbours it lands on
	// are pushed aside.
	engine, err := neighbourhood(ctx, e, m)
	if err != nil {
		return err
	}
	placements, err := engine.MoveTo(ctx, m.ID, m.Y)
	if err != nil {
		return err
	}
	warnOverlaps(engine)

	if c.globals.JSON {
		out := map[string]interface{}{
			"id":       m.ID,
			"timeline": m.TimelineID,
			"title":    m.Title,
			"ts":       m.Timestamp.Format(time.RFC3339),
			"y":        m.Y,
			"pushed":   len(placements) - 1,
		}
		if m.EndTime != nil {
			out["end"] = m.EndTime.Format(time.RFC3339)
		}
		return printJSON(out)
	}

	fmt.Printf("Added moment %s (%s)\n", m.ID, m.Timestamp.In(loc).Format(time.RFC3339))
	fmt.Printf("  Title:    %s\n", m.Title)
	fmt.Printf("  Timeline: %s\n", m.TimelineID)
	if m.EndTime != nil {
		fmt.Printf("  Ends:     %s\n", m.EndTime.In(loc).Format(time.RFC3339))
	}
	if n := len(placements) - 1; n > 0 {
		fmt.Printf("  Pushed %d overlapping card(s)\n", n)
	}

	return nil
}
