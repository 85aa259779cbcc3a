package editor

import (
	"fmt"
	"slices"

	"github.com/edudesk/contentdesk/internal/confirm"
	"github.com/edudesk/contentdesk/internal/reorder"
	"github.com/edudesk/contentdesk/internal/value"
)

// initialColumn names the single column created when an empty table is initialized.
const initialColumn = "column_1"

// Table edits a list of records as rows and columns.
//
// Column order is state of its own: it survives edits that would otherwise be lost to
// key enumeration order, and every column move re-projects the rows into that order.
// Each operation returns a fresh list and replaces the table's rows with it; lists
// handed out earlier are never modified.
type Table struct {
	columns []string
	rows    []value.Group
}

// NewTable starts a table editor over rows. Rows must be empty or shaped as a table;
// any other list returns ErrWrongShape.
func NewTable(rows value.List) (*Table, error) {
	t := &Table{}
	if err := t.Sync(rows); err != nil {
		return nil, err
	}
	return t, nil
}

// Sync adopts new row data, appending columns that appeared and dropping columns that
// no row carries anymore. A list that is not a table leaves the editor unchanged.
func (t *Table) Sync(rows value.List) error {
	if len(rows) > 0 && ShapeOf(rows) != ShapeTable {
		return fmt.Errorf("table of %s: %w", ShapeOf(rows), ErrWrongShape)
	}

	t.rows = make([]value.Group, len(rows))
	for i, item := range rows {
		t.rows[i] = item.(value.Group)
	}

	present := Columns(rows)
	columns := make([]string, 0, len(present))
	for _, c := range t.columns {
		if slices.Contains(present, c) {
			columns = append(columns, c)
		}
	}
	for _, c := range present {
		if !slices.Contains(columns, c) {
			columns = append(columns, c)
		}
	}
	t.columns = columns
	return nil
}

// Columns returns the current column order.
func (t *Table) Columns() []string {
	return slices.Clone(t.columns)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Value returns the rows as a list.
func (t *Table) Value() value.List {
	out := make(value.List, len(t.rows))
	for i, row := range t.rows {
		out[i] = row
	}
	return out
}

// Initialize seeds an empty table with one row and one empty column.
func (t *Table) Initialize() value.List {
	if len(t.rows) > 0 {
		return t.Value()
	}
	t.columns = []string{initialColumn}
	return t.commit([]value.Group{t.blankRow()})
}

// AddRow adds a blank row at the top or at the bottom.
func (t *Table) AddRow(top bool) value.List {
	if top {
		return t.insert(0)
	}
	return t.insert(len(t.rows))
}

// InsertAbove adds a blank row before row i.
func (t *Table) InsertAbove(i int) (value.List, error) {
	if i < 0 || i >= len(t.rows) {
		return t.Value(), fmt.Errorf("row %d: %w", i, ErrBadPath)
	}
	return t.insert(i), nil
}

// InsertBelow adds a blank row after row i.
func (t *Table) InsertBelow(i int) (value.List, error) {
	if i < 0 || i >= len(t.rows) {
		return t.Value(), fmt.Errorf("row %d: %w", i, ErrBadPath)
	}
	return t.insert(i + 1), nil
}

// DeleteRow removes row i once confirmed.
func (t *Table) DeleteRow(i int) (confirm.Pending[value.List], error) {
	current := t.Value()
	if i < 0 || i >= len(t.rows) {
		return confirm.Pending[value.List]{Current: current}, fmt.Errorf("row %d: %w", i, ErrBadPath)
	}
	return confirm.New(fmt.Sprintf("Delete row %d?", i+1), current, func() value.List {
		rows := slices.Clone(t.rows)
		return t.commit(slices.Delete(rows, i, i+1))
	}), nil
}

// AddColumn appends a column, filling every row with an empty string.
func (t *Table) AddColumn(name string) (value.List, error) {
	if name == "" {
		return t.Value(), ErrEmptyKey
	}
	if slices.Contains(t.columns, name) {
		return t.Value(), fmt.Errorf("column %q: %w", name, value.ErrDuplicateKey)
	}

	t.columns = append(slices.Clone(t.columns), name)
	rows := make([]value.Group, len(t.rows))
	for i, row := range t.rows {
		rows[i] = row.Set(name, value.String(""))
	}
	return t.commit(rows), nil
}

// DeleteColumn removes a column from every row once confirmed.
func (t *Table) DeleteColumn(name string) (confirm.Pending[value.List], error) {
	current := t.Value()
	if !slices.Contains(t.columns, name) {
		return confirm.Pending[value.List]{Current: current}, fmt.Errorf("column %q: %w", name, value.ErrKeyNotFound)
	}
	return confirm.New(fmt.Sprintf("Delete column %q?", name), current, func() value.List {
		t.columns = slices.DeleteFunc(slices.Clone(t.columns), func(c string) bool { return c == name })
		rows := make([]value.Group, len(t.rows))
		for i, row := range t.rows {
			rows[i] = row.Delete(name)
		}
		return t.commit(rows)
	}), nil
}

// SetCell stores text in row i, column col.
func (t *Table) SetCell(i int, col, text string) (value.List, error) {
	if i < 0 || i >= len(t.rows) {
		return t.Value(), fmt.Errorf("row %d: %w", i, ErrBadPath)
	}
	if !slices.Contains(t.columns, col) {
		return t.Value(), fmt.Errorf("column %q: %w", col, value.ErrKeyNotFound)
	}
	rows := slices.Clone(t.rows)
	rows[i] = rows[i].Set(col, value.String(text))
	return t.commit(rows), nil
}

// MoveRow drags row from onto position to.
func (t *Table) MoveRow(from, to int) value.List {
	return t.commit(reorder.Move(t.rows, from, to))
}

// MoveColumn drags column from onto position to and re-projects every row into the new
// column order.
func (t *Table) MoveColumn(from, to int) value.List {
	t.columns = reorder.Move(t.columns, from, to)
	rows := make([]value.Group, len(t.rows))
	for i, row := range t.rows {
		rows[i] = row.Reorder(t.columns)
	}
	return t.commit(rows)
}

func (t *Table) insert(i int) value.List {
	rows := make([]value.Group, 0, len(t.rows)+1)
	rows = append(rows, t.rows[:i]...)
	rows = append(rows, t.blankRow())
	rows = append(rows, t.rows[i:]...)
	return t.commit(rows)
}

func (t *Table) blankRow() value.Group {
	pairs := make([]value.Pair, len(t.columns))
	for i, c := range t.columns {
		pairs[i] = value.Pair{Key: c, Value: value.String("")}
	}
	return value.NewGroup(pairs...)
}

func (t *Table) commit(rows []value.Group) value.List {
	t.rows = rows
	return t.Value()
}
