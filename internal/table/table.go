// Package table implements the in-memory tabular value the transform stage
// is built on: an ordered list of column names plus positional rows of typed
// scalars (nil, string, int64, float64, bool). Every operation returns a new
// Table; existing tables are never mutated, so intermediate results can be
// shared between pipeline steps and tested in isolation.
package table

import (
	"fmt"
)

// Table is an immutable tabular dataset.
//
// Rows are positional slices aligned to the column order. A nil cell means
// "missing"; the distinction between missing and empty string is made at
// parse time and preserved through every operation.
type Table struct {
	cols []string
	idx  map[string]int
	rows [][]any
}

// New builds a Table from a column list and row data. The Table takes
// ownership of rows; callers must not mutate them afterwards.
//
// Errors:
//   - duplicate column name
//   - a row whose width differs from len(cols)
func New(cols []string, rows [][]any) (*Table, error) {
	idx := make(map[string]int, len(cols))
	for i, c := range cols {
		if _, dup := idx[c]; dup {
			return nil, fmt.Errorf("table: duplicate column %q", c)
		}
		idx[c] = i
	}
	for i, r := range rows {
		if len(r) != len(cols) {
			return nil, fmt.Errorf("table: row %d has %d cells, want %d", i, len(r), len(cols))
		}
	}
	return &Table{
		cols: append([]string(nil), cols...),
		idx:  idx,
		rows: rows,
	}, nil
}

// MustNew is New for statically-known literals (tests, fixtures).
// It panics on error.
func MustNew(cols []string, rows [][]any) *Table {
	t, err := New(cols, rows)
	if err != nil {
		panic(err)
	}
	return t
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string { return append([]string(nil), t.cols...) }

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return len(t.rows) }

// HasColumn reports whether the table has a column of that name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.idx[name]
	return ok
}

// Row returns a cursor over row i. The cursor stays valid for the lifetime
// of the Table.
func (t *Table) Row(i int) Row { return Row{t: t, i: i} }

// Rows returns the raw positional rows, aligned to Columns(). The slice is
// shared with the Table; callers must treat it as read-only. Intended for
// hand-off to bulk loaders and CSV writers.
func (t *Table) Rows() [][]any { return t.rows }

// colIndex resolves a column name, erroring with the operation name for
// context.
func (t *Table) colIndex(op, name string) (int, error) {
	i, ok := t.idx[name]
	if !ok {
		return 0, fmt.Errorf("table: %s: unknown column %q", op, name)
	}
	return i, nil
}

// withRows builds a new Table sharing this table's column metadata.
func (t *Table) withRows(rows [][]any) *Table {
	return &Table{cols: t.cols, idx: t.idx, rows: rows}
}

// Row is a read-only cursor over one table row.
type Row struct {
	t *Table
	i int
}

// Valid reports whether the cursor points at a row. The zero Row is not
// valid; Derive passes it as "prev" for the first row.
func (r Row) Valid() bool { return r.t != nil }

// Value returns the cell under col, or nil if the column does not exist.
// Missing cells are nil by construction, so callers that must distinguish
// "no such column" validate the schema up front (Project errors on absent
// columns).
func (r Row) Value(col string) any {
	if r.t == nil {
		return nil
	}
	i, ok := r.t.idx[col]
	if !ok {
		return nil
	}
	return r.t.rows[r.i][i]
}

// Index returns the row position within its table.
func (r Row) Index() int { return r.i }

// Project returns a table with exactly the requested columns, in that order.
//
// Errors:
//   - any requested column absent from the table.
func (t *Table) Project(cols ...string) (*Table, error) {
	ix := make([]int, len(cols))
	for i, c := range cols {
		j, err := t.colIndex("project", c)
		if err != nil {
			return nil, err
		}
		ix[i] = j
	}
	rows := make([][]any, len(t.rows))
	for ri, r := range t.rows {
		out := make([]any, len(cols))
		for i, j := range ix {
			out[i] = r[j]
		}
		rows[ri] = out
	}
	out, err := New(cols, rows)
	if err != nil {
		return nil, fmt.Errorf("table: project: %w", err)
	}
	return out, nil
}

// Select returns the rows satisfying pred, order preserved.
func (t *Table) Select(pred func(Row) bool) *Table {
	rows := make([][]any, 0, len(t.rows))
	for i := range t.rows {
		if pred(t.Row(i)) {
			rows = append(rows, t.rows[i])
		}
	}
	return t.withRows(rows)
}

// Rename returns a table with columns renamed per m. Columns not present in
// m keep their names.
//
// Errors:
//   - a key of m that is not a column
//   - a rename that would produce a duplicate column name
func (t *Table) Rename(m map[string]string) (*Table, error) {
	for from := range m {
		if _, ok := t.idx[from]; !ok {
			return nil, fmt.Errorf("table: rename: unknown column %q", from)
		}
	}
	cols := make([]string, len(t.cols))
	for i, c := range t.cols {
		if to, ok := m[c]; ok {
			cols[i] = to
		} else {
			cols[i] = c
		}
	}
	out, err := New(cols, t.rows)
	if err != nil {
		return nil, fmt.Errorf("table: rename: %w", err)
	}
	return out, nil
}

// Distinct returns the table with duplicate rows removed, keeping the first
// occurrence of each. Row identity uses the normalized string form of every
// cell, so 1 (int64) and "1" are distinct.
func (t *Table) Distinct() *Table {
	seen := make(map[string]struct{}, len(t.rows))
	rows := make([][]any, 0, len(t.rows))
	for _, r := range t.rows {
		k := compositeKeyAll(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		rows = append(rows, r)
	}
	return t.withRows(rows)
}

// Append returns the concatenation of t and o. Both tables must have the
// same columns in the same order.
func (t *Table) Append(o *Table) (*Table, error) {
	if len(t.cols) != len(o.cols) {
		return nil, fmt.Errorf("table: append: column count mismatch (%d vs %d)", len(t.cols), len(o.cols))
	}
	for i := range t.cols {
		if t.cols[i] != o.cols[i] {
			return nil, fmt.Errorf("table: append: column %d differs (%q vs %q)", i, t.cols[i], o.cols[i])
		}
	}
	rows := make([][]any, 0, len(t.rows)+len(o.rows))
	rows = append(rows, t.rows...)
	rows = append(rows, o.rows...)
	return t.withRows(rows), nil
}

// AsInt reports v as an int64 if it carries an integral value.
// float64 cells with a fractional part do not convert.
func AsInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case float64:
		i := int64(n)
		if float64(i) == n {
			return i, true
		}
	}
	return 0, false
}

// AsFloat reports v as a float64 if it is numeric.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// AsString reports v as a string if it is one.
func AsString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}
