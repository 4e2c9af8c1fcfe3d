package storage

import (
	"context"

	"github.com/runnerr0/momentline/internal/layout"
)

// LayoutPersister stores layout engine results through a Store.
type LayoutPersister struct {
	Store Store
}

func (p LayoutPersister) SavePlacements(ctx context.Context, placements []layout.Placement) error {
	positions := make([]Position, len(placements))
	for i, pl := range placements {
		positions[i] = Position{ID: pl.ID, Y: pl.Y}
	}
	return p.Store.SavePositions(ctx, positions)
}

func (p LayoutPersister) SaveSize(ctx context.Context, id string, size layout.Size) error {
	return p.Store.SaveSize(ctx, id, size.Width, size.Height)
}

// Layout converts a stored moment into its layout form.
func (m Moment) Layout() layout.Moment {
	return layout.Moment{
		ID:         m.ID,
		TimelineID: m.TimelineID,
		Timestamp:  m.Timestamp,
		EndTime:    m.EndTime,
		Title:      m.Title,
		Note:       m.Note,
		Y:          m.Y,
		Width:      m.Width,
		Height:     m.Height,
	}
}

// LayoutMoments converts a slice of stored moments.
func LayoutMoments(ms []Moment) []layout.Moment {
	out := make([]layout.Moment, len(ms))
	for i, m := range ms {
		out[i] = m.Layout()
	}
	return out
}
