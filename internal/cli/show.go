package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/runnerr0/momentline/internal/layout"
	"github.com/runnerr0/momentline/internal/storage"
)

// Execute implements the go-flags Commander interface for ShowCommand.
func (c *ShowCommand) Execute(args []string) error {
	if c.ID == "" {
		return fmt.Errorf("--id is required for show command")
	}

	e, closeEnv, err := openEnv(c.globals, loggingSetup)
	if err != nil {
		return err
	}
	defer closeEnv()

	return c.executeWith(e)
}

func (c *ShowCommand) executeWith(e *env) error {
	if c.ID == "" {
		return fmt.Errorf("--id is required for show command")
	}

	m, err := e.store.GetMoment(context.Background(), c.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("moment not found: %s", c.ID)
		}
		return err
	}

	engine := layout.NewEngine()
	engine.Upsert(m.Layout())
	size, err := engine.SizeOf(m.ID)
	if err != nil {
		return err
	}

	loc, err := e.cfg.Location()
	if err != nil {
		return err
	}

	if c.globals.JSON || c.Format == "json" {
		return c.outputJSON(m, size)
	}

	switch c.Format {
	case "md":
		c.outputMarkdown(m, loc)
	case "full", "":
		c.outputFull(m, size, loc)
	default:
		return fmt.Errorf("unknown --format %q (use full, md or json)", c.Format)
	}
	return nil
}

func (c *ShowCommand) outputFull(m *storage.Moment, size layout.Size, loc *time.Location) {
	fmt.Println(m.ID)
	fmt.Printf("Title:     %s\n", m.Title)
	fmt.Printf("Timeline:  %s\n", m.TimelineID)
	fmt.Printf("At:        %s\n", m.Timestamp.In(loc).Format("2006-01-02 15:04:05"))
	if m.EndTime != nil {
		fmt.Printf("Ends:      %s\n", m.EndTime.In(loc).Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Y:         %.1f\n", m.Y)
	fmt.Printf("Card:      %.0f × %.0f px", size.Width, size.Height)
	if m.Width == 0 || m.Height == 0 {
		fmt.Print(" (measured)")
	}
	fmt.Println()
	fmt.Println()
	fmt.Println("--- Note ---")
	if m.Note == "" {
		fmt.Println("No note")
	} else {
		fmt.Println(m.Note)
	}
}

func (c *ShowCommand) outputMarkdown(m *storage.Moment, loc *time.Location) {
	fmt.Println("---")
	fmt.Printf("id: %s\n", m.ID)
	fmt.Printf("title: %s\n", m.Title)
	fmt.Printf("timeline: %s\n", m.TimelineID)
	fmt.Printf("at: %s\n", m.Timestamp.In(loc).Format(time.RFC3339))
	if m.EndTime != nil {
		fmt.Printf("end: %s\n", m.EndTime.In(loc).Format(time.RFC3339))
	}
	fmt.Println("---")
	if m.Note != "" {
		fmt.Println()
		fmt.Println(m.Note)
	}
}

func (c *ShowCommand) outputJSON(m *storage.Moment, size layout.Size) error {
	return printJSON(struct {
		jsonMoment
		CardWidth  float64 `json:"card_width"`
		CardHeight float64 `json:"card_height"`
	}{toJSONMoment(*m), size.Width, size.Height})
}
