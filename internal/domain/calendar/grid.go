package calendar

import (
	"time"

	"venue/internal/domain/event"
)

// GridCells is the fixed number of cells in a month grid: 6 full weeks of 7
// days. Rendering always gets a rectangular grid even for 4- or 5-row
// months; the extra cells belong to adjacent months.
const GridCells = 42

// Cursor identifies the month a caller is viewing. Navigation increments
// or decrements Month without worrying about year boundaries; Normalize
// folds out-of-range months into the adjacent year.
type Cursor struct {
	Year  int
	Month int // 1-12 after Normalize
}

// Normalize folds an out-of-range month into a valid (year, month) pair.
// Month 0 becomes December of the previous year, month 13 January of the
// next, and larger offsets keep rolling.
// PRE: none
// POST: returned cursor has Month in 1..12
func (c Cursor) Normalize() Cursor {
	y, m := c.Year, c.Month
	for m < 1 {
		m += 12
		y--
	}
	for m > 12 {
		m -= 12
		y++
	}
	return Cursor{Year: y, Month: m}
}

// Prev returns the cursor one month back, normalized.
func (c Cursor) Prev() Cursor {
	return Cursor{Year: c.Year, Month: c.Month - 1}.Normalize()
}

// Next returns the cursor one month forward, normalized.
func (c Cursor) Next() Cursor {
	return Cursor{Year: c.Year, Month: c.Month + 1}.Normalize()
}

// FirstOfMonth returns midnight UTC on the 1st of the cursor's month.
// PRE: none (cursor is normalized internally)
func (c Cursor) FirstOfMonth() time.Time {
	n := c.Normalize()
	return time.Date(n.Year, time.Month(n.Month), 1, 0, 0, 0, 0, time.UTC)
}

// GridStart returns the Sunday on or before the 1st of the cursor's month.
// POST: returned date's weekday is Sunday
func (c Cursor) GridStart() time.Time {
	first := c.FirstOfMonth()
	return first.AddDate(0, 0, -int(first.Weekday()))
}

// GridEnd returns the last date of the 42-cell grid (inclusive).
func (c Cursor) GridEnd() time.Time {
	return c.GridStart().AddDate(0, 0, GridCells-1)
}

// Cell is one day of the rendered month grid.
type Cell struct {
	Date           time.Time
	InCurrentMonth bool
	Events         []event.Event
}

// Grid is the 42-cell month view for one cursor position.
type Grid struct {
	Cursor Cursor
	Cells  [GridCells]Cell
}

// BuildGrid lays out 42 consecutive days starting at the cursor's grid
// start and groups the supplied event snapshot per day. Pure function of
// (cursor, events): no hidden state, safe to call concurrently. Events
// whose date falls outside the grid window are ignored; callers should
// fetch the snapshot with the same window (GridStart..GridEnd).
// PRE: none
// POST: exactly 42 cells; cell 0 is a Sunday; days without events have an
// empty (nil) slice
func BuildGrid(c Cursor, events []event.Event) Grid {
	n := c.Normalize()
	start := n.GridStart()

	byDay := make(map[string][]event.Event, len(events))
	for _, e := range events {
		key := e.EventDate.Format(event.DateLayout)
		byDay[key] = append(byDay[key], e)
	}

	g := Grid{Cursor: n}
	for i := 0; i < GridCells; i++ {
		d := start.AddDate(0, 0, i)
		g.Cells[i] = Cell{
			Date:           d,
			InCurrentMonth: int(d.Month()) == n.Month && d.Year() == n.Year,
			Events:         byDay[d.Format(event.DateLayout)],
		}
	}
	return g
}
