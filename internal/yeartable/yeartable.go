// Package yeartable edits groups keyed by year, such as ranking data, as a table with a
// synthetic Year column.
//
// The persisted form is always a group keyed by year string. The editing form is always
// a list of rows sorted by descending year. Every mutation is applied to the rows and
// immediately converted back.
package yeartable

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/edudesk/contentdesk/internal/confirm"
	"github.com/edudesk/contentdesk/internal/value"
)

// YearColumn is the synthetic column holding a row's year.
const YearColumn = "Year"

// valueColumn holds the content of a year whose value is not a group.
const valueColumn = "value"

var (
	// ErrRowRange is returned for a row index outside the table.
	ErrRowRange = errors.New("row index out of range")
	// ErrDuplicateYear is returned when an edit would give two rows the same year.
	ErrDuplicateYear = errors.New("year already present")
)

// ToRows converts a year-keyed group into rows sorted by descending year.
func ToRows(g value.Group) []value.Group {
	rows := make([]value.Group, 0, g.Len())
	for year, v := range g.All() {
		pairs := []value.Pair{{Key: YearColumn, Value: value.String(year)}}
		if metrics, ok := v.(value.Group); ok {
			for k, mv := range metrics.All() {
				if k == YearColumn {
					continue
				}
				pairs = append(pairs, value.Pair{Key: k, Value: mv})
			}
		} else {
			pairs = append(pairs, value.Pair{Key: valueColumn, Value: v})
		}
		rows = append(rows, value.NewGroup(pairs...))
	}
	return Sort(rows)
}

// ToGroup converts rows back into a year-keyed group, dropping the Year column.
func ToGroup(rows []value.Group) value.Group {
	return toGroup(rows, nil)
}

// toGroup stores the rows of the years in scalar that hold nothing but a value column
// as that bare value, the form ToRows read them from.
func toGroup(rows []value.Group, scalar map[string]bool) value.Group {
	var out value.Group
	for _, row := range rows {
		year := yearText(row)
		metrics := row.Delete(YearColumn)
		if v, ok := metrics.Get(valueColumn); ok && metrics.Len() == 1 && scalar[year] {
			out = out.Set(year, v)
			continue
		}
		out = out.Set(year, metrics)
	}
	return out
}

// scalarYears returns the years of g whose value is not a group.
func scalarYears(g value.Group) map[string]bool {
	years := map[string]bool{}
	for year, v := range g.All() {
		if _, ok := v.(value.Group); !ok {
			years[year] = true
		}
	}
	return years
}

// Sort returns rows ordered by descending integer year. Rows whose year is not an
// integer follow all integer years and keep their relative order.
func Sort(rows []value.Group) []value.Group {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b value.Group) int {
		ya, okA := Year(a)
		yb, okB := Year(b)
		switch {
		case okA && okB:
			return yb - ya
		case okA:
			return -1
		case okB:
			return 1
		}
		return 0
	})
	return out
}

// Year returns the integer year of row.
func Year(row value.Group) (int, bool) {
	year, err := cast.ToIntE(strings.TrimSpace(yearText(row)))
	if err != nil {
		return 0, false
	}
	return year, true
}

func yearText(row value.Group) string {
	v, _ := row.Get(YearColumn)
	return value.Text(v)
}

// Editor holds the row form of a year-keyed group. Every mutation returns the new
// persisted group.
type Editor struct {
	rows   []value.Group
	scalar map[string]bool
}

// NewEditor returns an Editor over g.
func NewEditor(g value.Group) *Editor {
	e := &Editor{}
	e.Sync(g)
	return e
}

// Sync reloads the editor from a group changed elsewhere.
func (e *Editor) Sync(g value.Group) {
	e.rows = ToRows(g)
	e.scalar = scalarYears(g)
}

// Rows returns a copy of the current rows.
func (e *Editor) Rows() []value.Group {
	return slices.Clone(e.rows)
}

// Columns returns Year followed by the union of metric names in first-seen order.
func (e *Editor) Columns() []string {
	columns := []string{YearColumn}
	for _, row := range e.rows {
		for _, k := range row.Keys() {
			if !slices.Contains(columns, k) {
				columns = append(columns, k)
			}
		}
	}
	return columns
}

// Value returns the persisted group.
func (e *Editor) Value() value.Group {
	return toGroup(e.rows, e.scalar)
}

// SetCell writes text into column col of row i. Editing the Year column moves the row
// to its new sorted position.
func (e *Editor) SetCell(i int, col, text string) (value.Group, error) {
	if i < 0 || i >= len(e.rows) {
		return e.Value(), fmt.Errorf("set cell %d: %w", i, ErrRowRange)
	}
	if col == YearColumn && e.hasYear(text, i) {
		return e.Value(), fmt.Errorf("set year %q: %w", text, ErrDuplicateYear)
	}

	if col == YearColumn {
		if old := yearText(e.rows[i]); e.scalar[old] {
			delete(e.scalar, old)
			e.scalar[text] = true
		}
	}
	rows := slices.Clone(e.rows)
	rows[i] = rows[i].Set(col, value.String(text))
	return e.commit(rows), nil
}

// AddYear prepends a row for the year after the latest integer year, or for the year
// before now when no integer year exists, then re-sorts.
func (e *Editor) AddYear(now time.Time) value.Group {
	next := now.Year() - 1
	found := false
	for _, row := range e.rows {
		if y, ok := Year(row); ok && (!found || y+1 > next) {
			next = y + 1
			found = true
		}
	}

	pairs := []value.Pair{{Key: YearColumn, Value: value.String(cast.ToString(next))}}
	for _, col := range e.Columns()[1:] {
		pairs = append(pairs, value.Pair{Key: col, Value: value.String("")})
	}
	rows := append([]value.Group{value.NewGroup(pairs...)}, e.rows...)
	return e.commit(rows)
}

// DeleteYear removes row i once confirmed.
func (e *Editor) DeleteYear(i int) (confirm.Pending[value.Group], error) {
	current := e.Value()
	if i < 0 || i >= len(e.rows) {
		return confirm.Pending[value.Group]{Current: current}, fmt.Errorf("delete year %d: %w", i, ErrRowRange)
	}

	year := yearText(e.rows[i])
	return confirm.New(fmt.Sprintf("Delete year %s?", year), current, func() value.Group {
		return e.commit(slices.Delete(slices.Clone(e.rows), i, i+1))
	}), nil
}

func (e *Editor) hasYear(year string, skip int) bool {
	for j, row := range e.rows {
		if j != skip && yearText(row) == year {
			return true
		}
	}
	return false
}

func (e *Editor) commit(rows []value.Group) value.Group {
	e.rows = Sort(rows)
	return e.Value()
}
