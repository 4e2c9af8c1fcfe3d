package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/momentline/internal/layout"
	"github.com/runnerr0/momentline/internal/storage"
)

// Execute implements the go-flags Commander interface for ResizeCommand.
func (c *ResizeCommand) Execute(args []string) error {
	if c.ID == "" {
		return fmt.Errorf("--id is required for resize command")
	}

	e, closeEnv, err := openEnv(c.globals, loggingSetup)
	if err != nil {
		return err
	}
	defer closeEnv()

	return c.executeWith(e)
}

func (c *ResizeCommand) executeWith(e *env) error {
	level, err := zoomLevel(c.Zoom, e.cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	m, err := e.store.GetMoment(ctx, c.ID)
	if err != nil {
		return err
	}

	engine := layout.NewEngine(layout.WithPersister(storage.LayoutPersister{Store: e.store}))
	engine.Upsert(m.Layout())

	view := layout.ResizeView{MsPerPixel: level.MsPerPixel, AxisY: e.cfg.View.AxisY}
	size, err := engine.Resize(ctx, m.ID, c.DW, c.DH, view)
	if err != nil {
		return err
	}

	if c.globals.JSON {
		return printJSON(map[string]interface{}{
			"id":        m.ID,
			"width":     size.Width,
			"height":    size.Height,
			"zoom":      level.Unit.String(),
			"min_width": layout.MinWidthAt(level.MsPerPixel),
		})
	}

	fmt.Printf("Resized %s to %.0f × %.0f px (at %s zoom, min width %.0f px)\n",
		m.ID, size.Width, size.Height, level.Unit, layout.MinWidthAt(level.MsPerPixel))
	return nil
}
