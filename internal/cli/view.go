package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/runnerr0/momentline/internal/canvas"
	"github.com/runnerr0/momentline/internal/logging"
	"github.com/runnerr0/momentline/internal/storage"
	"github.com/runnerr0/momentline/internal/tui"
)

// Execute implements the go-flags Commander interface for ViewCommand.
func (c *ViewCommand) Execute(args []string) error {
	e, closeEnv, err := openEnv(c.globals, logging.SetupTUILogging)
	if err != nil {
		return err
	}
	defer closeEnv()

	cs, err := c.initialCanvas(e)
	if err != nil {
		return err
	}
	loc, err := e.cfg.Location()
	if err != nil {
		return err
	}

	return tui.Run(context.Background(), tui.Options{
		Store:     e.store,
		Canvas:    cs,
		Location:  loc,
		CellWidth: e.cfg.View.CellWidth,
		Now:       e.now,
	})
}

// initialCanvas restores the last saved view, then applies explicit flags
// on top of it.
func (c *ViewCommand) initialCanvas(e *env) (*canvas.State, error) {
	level, err := zoomLevel("", e.cfg)
	if err != nil {
		return nil, err
	}
	timeline := c.Timeline
	if timeline == "" {
		timeline = storage.DefaultTimeline
	}
	cs := canvas.New(timeline, e.now(), level.MsPerPixel, e.cfg.View.ViewportWidth)

	snap, err := e.store.LoadCanvas(context.Background(), c.Timeline)
	switch {
	case err == nil:
		cs.Restore(canvas.Snapshot{TimelineID: snap.TimelineID, Center: snap.Center, MsPerPixel: snap.MsPerPixel})
	case errors.Is(err, storage.ErrNotFound):
		logging.Debugf("view: no saved view for %q", c.Timeline)
	default:
		return nil, err
	}

	if c.At != "" {
		loc, err := e.cfg.Location()
		if err != nil {
			return nil, err
		}
		at, err := parseTime(c.At, loc, e.now())
		if err != nil {
			return nil, fmt.Errorf("--at: %w", err)
		}
		cs.JumpTo(at)
	}
	if c.Zoom != "" {
		level, err := zoomLevel(c.Zoom, e.cfg)
		if err != nil {
			return nil, err
		}
		cs.SetMsPerPixel(level.MsPerPixel)
	}
	return cs, nil
}
