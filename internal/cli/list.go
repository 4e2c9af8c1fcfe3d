package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/runnerr0/momentline/internal/storage"
)

// Execute implements the go-flags Commander interface for ListCommand.
func (c *ListCommand) Execute(args []string) error {
	e, closeEnv, err := openEnv(c.globals, loggingSetup)
	if err != nil {
		return err
	}
	defer closeEnv()

	return c.executeWith(e, args)
}

// executeWith runs the listing against a prepared env (for testing).
func (c *ListCommand) executeWith(e *env, args []string) error {
	query := c.Query
	if query == "" && len(args) > 0 {
		query = strings.Join(args, " ")
	}

	now := e.now()
	var since time.Time
	if c.Since != "" {
		dur, err := parseDuration(c.Since)
		if err != nil {
			return fmt.Errorf("invalid --since value %q: %w", c.Since, err)
		}
		since = now.Add(-dur)
	}

	var until time.Time
	if c.Until != "" {
		dur, err := parseDuration(c.Until)
		if err != nil {
			return fmt.Errorf("invalid --until value %q: %w", c.Until, err)
		}
		until = now.Add(-dur)
	}

	q := storage.MomentQuery{
		TimelineID: c.Timeline,
		Query:      query,
		Since:      since,
		Until:      until,
		Limit:      c.Limit,
		Offset:     c.Offset,
	}

	results, err := e.store.ListMoments(context.Background(), q)
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		return c.printJSON(query, results)
	}
	loc, err := e.cfg.Location()
	if err != nil {
		return err
	}
	return c.printHuman(query, results, loc)
}

func (c *ListCommand) printHuman(query string, results []storage.Moment, loc *time.Location) error {
	if len(results) == 0 {
		if query != "" {
			fmt.Printf("No moments found for %q\n", query)
		} else {
			fmt.Println("No moments found")
		}
		return nil
	}

	word := "moments"
	if len(results) == 1 {
		word = "moment"
	}
	if query != "" {
		fmt.Printf("Found %d %s for %q\n\n", len(results), word, query)
	} else {
		fmt.Printf("Found %d %s\n\n", len(results), word)
	}

	for i, m := range results {
		fmt.Printf("%d. %s  %s\n", i+1+c.Offset, m.ID, m.Title)

		meta := m.Timestamp.In(loc).Format("2006-01-02 15:04")
		if m.EndTime != nil {
			meta += " → " + m.EndTime.In(loc).Format("2006-01-02 15:04")
		}
		meta += " · " + m.TimelineID
		fmt.Printf("   %s\n", meta)

		if i < len(results)-1 {
			fmt.Println()
		}
	}

	return nil
}

type jsonMoment struct {
	ID        string  `json:"id"`
	Timeline  string  `json:"timeline"`
	Title     string  `json:"title"`
	Note      string  `json:"note,omitempty"`
	Timestamp string  `json:"timestamp"`
	End       string  `json:"end,omitempty"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width,omitempty"`
	Height    float64 `json:"height,omitempty"`
}

func toJSONMoment(m storage.Moment) jsonMoment {
	out := jsonMoment{
		ID:        m.ID,
		Timeline:  m.TimelineID,
		Title:     m.Title,
		Note:      m.Note,
		Timestamp: m.Timestamp.UTC().Format(time.RFC3339),
		Y:         m.Y,
		Width:     m.Width,
		Height:    m.Height,
	}
	if m.EndTime != nil {
		out.End = m.EndTime.UTC().Format(time.RFC3339)
	}
	return out
}

type jsonListOutput struct {
	Count   int          `json:"count"`
	Query   string       `json:"query"`
	Results []jsonMoment `json:"results"`
}

func (c *ListCommand) printJSON(query string, results []storage.Moment) error {
	out := jsonListOutput{
		Count:   len(results),
		Query:   query,
		Results: make([]jsonMoment, len(results)),
	}
	for i, m := range results {
		out.Results[i] = toJSONMoment(m)
	}
	return printJSON(out)
}
