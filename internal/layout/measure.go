package layout

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
)

// Measurer sizes a card from its content when no explicit size is stored.
type Measurer interface {
	Measure(m Moment) (width, height float64)
}

// TextMeasurer estimates card size from the title and note using average
// glyph metrics. Wide runes count double.
type TextMeasurer struct {
	FontSize float64 // px
	MaxCols  int     // wrap width for the note, in columns
	Padding  float64 // px on each side
}

// DefaultMeasurer matches the card styling of the viewer.
var DefaultMeasurer = TextMeasurer{FontSize: 14, MaxCols: 32, Padding: 8}

func (tm TextMeasurer) charWidth() float64 { return tm.FontSize * 0.6 }
func (tm TextMeasurer) lineHeight() float64 { return tm.FontSize * 1.4 }

// Measure implements Measurer.
func (tm TextMeasurer) Measure(m Moment) (float64, float64) {
	cols := runewidth.StringWidth(m.Title)
	lines := 1

	if note := strings.TrimSpace(m.Note); note != "" {
		wrapped := strings.Split(wordwrap.String(note, tm.MaxCols), "\n")
		lines += len(wrapped)
		for _, l := range wrapped {
			if w := runewidth.StringWidth(strings.TrimSpace(l)); w > cols {
				cols = w
			}
		}
	}

	w := float64(cols)*tm.charWidth() + 2*tm.Padding
	h := float64(lines)*tm.lineHeight() + 2*tm.Padding
	return w, h
}
