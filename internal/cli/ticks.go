package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/runnerr0/momentline/internal/config"
	"github.com/runnerr0/momentline/internal/coords"
	"github.com/runnerr0/momentline/internal/ticks"
)

// Execute implements the go-flags Commander interface for TicksCommand.
// ticks needs config but no database.
func (c *TicksCommand) Execute(args []string) error {
	cfgPath, err := config.ResolvePath(c.globals.Config)
	if err != nil {
		return err
	}
	cfg, err := config.LoadOrCreateAt(cfgPath)
	if err != nil {
		return err
	}
	return c.executeWith(cfg, time.Now())
}

func (c *TicksCommand) executeWith(cfg *config.Config, now time.Time) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	if c.Timezone != "" {
		if loc, err = time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("invalid --tz %q: %w", c.Timezone, err)
		}
	}

	level, err := zoomLevel(c.Zoom, cfg)
	if err != nil {
		return err
	}

	width := c.Width
	if width == 0 {
		width = cfg.View.ViewportWidth
	}
	if width <= 0 {
		return fmt.Errorf("--width must be positive, got %v", width)
	}

	center, err := parseTime(c.At, loc, now)
	if err != nil {
		return fmt.Errorf("--at: %w", err)
	}

	view := coords.View{Center: center, MsPerPixel: level.MsPerPixel, Width: width}
	axis := ticks.NewGenerator(loc).Generate(view)

	if c.globals.JSON {
		return c.printJSON(view, axis, loc)
	}
	c.printHuman(view, axis, loc)
	return nil
}

func (c *TicksCommand) printHuman(view coords.View, axis ticks.Axis, loc *time.Location) {
	start, end := view.Window()
	fmt.Printf("Axis: %s zoom, %.0f px, %s → %s (%s)\n", axis.Unit, view.Width,
		start.In(loc).Format("2006-01-02 15:04"), end.In(loc).Format("2006-01-02 15:04"), loc)
	if axis.DateLabel != "" {
		fmt.Printf("Date: %s\n", axis.DateLabel)
	}
	fmt.Println()

	for _, t := range axis.Ticks {
		var marks []string
		if t.Flags.YearBoundary {
			marks = append(marks, "year")
		}
		if t.Flags.MonthBoundary {
			marks = append(marks, "month")
		}
		if t.Flags.WeekendDay {
			marks = append(marks, "weekend")
		}
		line := fmt.Sprintf("%7.1f  %-18s %-12s %s", t.X, t.Time.In(loc).Format("2006-01-02 15:04"), t.Label, t.Priority)
		if len(marks) > 0 {
			line += " [" + strings.Join(marks, ",") + "]"
		}
		fmt.Println(line)
	}

	if c.Bands && len(axis.Bands) > 0 {
		fmt.Println()
		fmt.Println("Weekend bands:")
		for _, b := range axis.Bands {
			fmt.Printf("  %7.1f → %7.1f  %s → %s\n", view.TimeToX(b.Start), view.TimeToX(b.End),
				b.Start.In(loc).Format("Mon 2006-01-02"), b.End.In(loc).Format("Mon 2006-01-02"))
		}
	}
}

type jsonTick struct {
	X        float64 `json:"x"`
	Time     string  `json:"time"`
	Label    string  `json:"label"`
	Priority string  `json:"priority"`
	Month    bool    `json:"month_boundary,omitempty"`
	Year     bool    `json:"year_boundary,omitempty"`
	Weekend  bool    `json:"weekend,omitempty"`
}

type jsonBand struct {
	Start  string  `json:"start"`
	End    string  `json:"end"`
	StartX float64 `json:"start_x"`
	EndX   float64 `json:"end_x"`
}

func (c *TicksCommand) printJSON(view coords.View, axis ticks.Axis, loc *time.Location) error {
	out := struct {
		Unit       string     `json:"unit"`
		MsPerPixel float64    `json:"ms_per_pixel"`
		Width      float64    `json:"width"`
		Center     string     `json:"center"`
		DateLabel  string     `json:"date_label,omitempty"`
		Ticks      []jsonTick `json:"ticks"`
		Bands      []jsonBand `json:"bands,omitempty"`
	}{
		Unit:       axis.Unit.String(),
		MsPerPixel: view.MsPerPixel,
		Width:      view.Width,
		Center:     view.Center.In(loc).Format(time.RFC3339),
		DateLabel:  axis.DateLabel,
		Ticks:      make([]jsonTick, len(axis.Ticks)),
	}
	for i, t := range axis.Ticks {
		out.Ticks[i] = jsonTick{
			X:        t.X,
			Time:     t.Time.In(loc).Format(time.RFC3339),
			Label:    t.Label,
			Priority: t.Priority.String(),
			Month:    t.Flags.MonthBoundary,
			Year:     t.Flags.YearBoundary,
			Weekend:  t.Flags.WeekendDay,
		}
	}
	if c.Bands {
		for _, b := range axis.Bands {
			out.Bands = append(out.Bands, jsonBand{
				Start:  b.Start.In(loc).Format(time.RFC3339),
				End:    b.End.In(loc).Format(time.RFC3339),
				StartX: view.TimeToX(b.Start),
				EndX:   view.TimeToX(b.End),
			})
		}
	}
	return printJSON(out)
}
