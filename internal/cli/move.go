package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/runnerr0/momentline/internal/layout"
)

// Execute implements the go-flags Commander interface for MoveCommand.
func (c *MoveCommand) Execute(args []string) error {
	if c.ID == "" {
		return fmt.Errorf("--id is required for move command")
	}
	if c.Y == "" {
		return fmt.Errorf("--y is required for move command")
	}

	e, closeEnv, err := openEnv(c.globals, loggingSetup)
	if err != nil {
		return err
	}
	defer closeEnv()

	return c.executeWith(e)
}

func (c *MoveCommand) executeWith(e *env) error {
	y, err := strconv.ParseFloat(c.Y, 64)
	if err != nil {
		return fmt.Errorf("invalid --y value %q: %w", c.Y, err)
	}

	ctx := context.Background()
	m, err := e.store.GetMoment(ctx, c.ID)
	if err != nil {
		return err
	}

	engine, err := neighbourhood(ctx, e, m)
	if err != nil {
		return err
	}
	placements, err := engine.MoveTo(ctx, m.ID, y)
	if err != nil {
		return err
	}
	overlaps := warnOverlaps(engine)

	if c.globals.JSON {
		type jsonPlacement struct {
			ID string  `json:"id"`
			Y  float64 `json:"y"`
		}
		out := struct {
			Placements []jsonPlacement `json:"placements"`
			Overlaps   [][2]string     `json:"overlaps"`
		}{Placements: make([]jsonPlacement, len(placements)), Overlaps: overlaps}
		for i, p := range placements {
			out.Placements[i] = jsonPlacement{ID: p.ID, Y: p.Y}
		}
		if out.Overlaps == nil {
			out.Overlaps = [][2]string{}
		}
		return printJSON(out)
	}

	printPlacements(placements)
	return nil
}

func printPlacements(placements []layout.Placement) {
	if len(placements) == 0 {
		return
	}
	fmt.Printf("Moved %s to y=%.1f\n", placements[0].ID, placements[0].Y)
	for _, p := range placements[1:] {
		fmt.Printf("  pushed %s to y=%.1f\n", p.ID, p.Y)
	}
}
