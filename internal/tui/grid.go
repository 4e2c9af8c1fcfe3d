package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type cell struct {
	ch   string
	kind cellKind
}

// grid is a fixed-size block of terminal cells. A wide rune occupies its
// cell plus an empty continuation cell.
type grid struct {
	cols int
	rows [][]cell
}

func newGrid(cols, rows int) *grid {
	g := &grid{cols: cols, rows: make([][]cell, rows)}
	for r := range g.rows {
		g.rows[r] = make([]cell, cols)
		for c := range g.rows[r] {
			g.rows[r][c] = cell{ch: " "}
		}
	}
	return g
}

func (g *grid) inRow(row int) bool { return row >= 0 && row < len(g.rows) }

// put writes s starting at col, clipping on both sides, and returns the
// column after the last rune.
func (g *grid) put(row, col int, s string, kind cellKind) int {
	if !g.inRow(row) {
		return col
	}
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > g.cols {
			break
		}
		if col >= 0 {
			g.rows[row][col] = cell{ch: string(r), kind: kind}
			if w == 2 {
				g.rows[row][col+1] = cell{kind: kind}
			}
		}
		col += w
	}
	return col
}

// fill sets cells [from, to) to ch.
func (g *grid) fill(row, from, to int, ch string, kind cellKind) {
	if !g.inRow(row) {
		return
	}
	if from < 0 {
		from = 0
	}
	if to > g.cols {
		to = g.cols
	}
	for c := from; c < to; c++ {
		g.rows[row][c] = cell{ch: ch, kind: kind}
	}
}

// shade changes the kind of cells [from, to) that are still blank.
func (g *grid) shade(row, from, to int, kind cellKind) {
	if !g.inRow(row) {
		return
	}
	if from < 0 {
		from = 0
	}
	if to > g.cols {
		to = g.cols
	}
	for c := from; c < to; c++ {
		if g.rows[row][c].kind == kindPlain {
			g.rows[row][c].kind = kind
		}
	}
}

// render styles each run of same-kind cells.
func (g *grid) render(row int) string {
	var sb, run strings.Builder
	kind := kindPlain
	flush := func() {
		if run.Len() == 0 {
			return
		}
		sb.WriteString(cellStyles[kind].Render(run.String()))
		run.Reset()
	}
	for _, c := range g.rows[row] {
		if c.kind != kind {
			flush()
			kind = c.kind
		}
		run.WriteString(c.ch)
	}
	flush()
	return sb.String()
}

// text returns the row without styling.
func (g *grid) text(row int) string {
	var sb strings.Builder
	for _, c := range g.rows[row] {
		sb.WriteString(c.ch)
	}
	return sb.String()
}
