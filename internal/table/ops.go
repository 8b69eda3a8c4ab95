package table

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// AssignKey sorts the table by sortBy (when given), then prepends a
// surrogate-key column assigning 1..N in the resulting row order. Keys are
// int64; the base is always 1 in this warehouse.
//
// The sort must be deterministic for the run to be reproducible; callers
// that pass no sortBy rely on source order, which the parsers preserve.
func (t *Table) AssignKey(name string, sortBy ...string) (*Table, error) {
	if _, exists := t.idx[name]; exists {
		return nil, fmt.Errorf("table: assign key: column %q already exists", name)
	}

	src := t
	if len(sortBy) > 0 {
		var err error
		if src, err = t.Sort(sortBy...); err != nil {
			return nil, fmt.Errorf("table: assign key: %w", err)
		}
	}

	cols := append([]string{name}, src.cols...)
	rows := make([][]any, len(src.rows))
	for i, r := range src.rows {
		out := make([]any, 0, len(cols))
		out = append(out, int64(i+1))
		out = append(out, r...)
		rows[i] = out
	}
	return MustNew(cols, rows), nil
}

// FillMissing replaces nil cells in col with def.
func (t *Table) FillMissing(col string, def any) (*Table, error) {
	return t.FillMissingFunc(col, func(Row) any { return def })
}

// FillMissingFunc replaces nil cells in col with fn(row). Used where the
// fallback derives from sibling columns, e.g. synthesizing a district code
// from the region code.
func (t *Table) FillMissingFunc(col string, fn func(Row) any) (*Table, error) {
	j, err := t.colIndex("fill missing", col)
	if err != nil {
		return nil, err
	}
	rows := make([][]any, len(t.rows))
	for i, r := range t.rows {
		if r[j] != nil {
			rows[i] = r
			continue
		}
		out := append([]any(nil), r...)
		out[j] = fn(t.Row(i))
		rows[i] = out
	}
	return t.withRows(rows), nil
}

// SplitColumn matches every cell of col against pattern and appends two new
// columns holding the first two capture groups, trimmed. The source column
// is kept; project it away afterwards.
//
// A cell that is nil, not a string, or does not match the pattern is a
// data-quality error and fails the whole run — silently dropping a
// malformed row here would corrupt downstream surrogate-key counts.
func (t *Table) SplitColumn(col string, pattern *regexp.Regexp, nameA, nameB string) (*Table, error) {
	j, err := t.colIndex("split", col)
	if err != nil {
		return nil, err
	}
	if pattern.NumSubexp() < 2 {
		return nil, fmt.Errorf("table: split: pattern %q needs two capture groups", pattern)
	}

	rows := make([][]any, len(t.rows))
	for i, r := range t.rows {
		s, ok := r[j].(string)
		if !ok {
			return nil, fmt.Errorf("table: split: row %d: column %q is not a string (%T)", i, col, r[j])
		}
		m := pattern.FindStringSubmatch(s)
		if m == nil {
			return nil, fmt.Errorf("table: split: row %d: value %q does not match %q", i, s, pattern)
		}
		out := make([]any, 0, len(r)+2)
		out = append(out, r...)
		out = append(out, strings.TrimSpace(m[1]), strings.TrimSpace(m[2]))
		rows[i] = out
	}

	cols := append(t.Columns(), nameA, nameB)
	out, err := New(cols, rows)
	if err != nil {
		return nil, fmt.Errorf("table: split: %w", err)
	}
	return out, nil
}

// Encode replaces the categorical string cells of col with their int64
// codes from mapping. The mapping must be exhaustive: a nil cell or a value
// without a code is an error, which forces the encoding dictionary to be
// complete rather than letting unknown categories slip through as nulls.
func (t *Table) Encode(col string, mapping map[string]int64) (*Table, error) {
	j, err := t.colIndex("encode", col)
	if err != nil {
		return nil, err
	}
	rows := make([][]any, len(t.rows))
	for i, r := range t.rows {
		s, ok := r[j].(string)
		if !ok {
			return nil, fmt.Errorf("table: encode: row %d: column %q has non-string value %v", i, col, r[j])
		}
		code, ok := mapping[strings.TrimSpace(s)]
		if !ok {
			return nil, fmt.Errorf("table: encode: row %d: no code for %q in column %q", i, s, col)
		}
		out := append([]any(nil), r...)
		out[j] = code
		rows[i] = out
	}
	return t.withRows(rows), nil
}

// Derive appends a computed column. fn receives the current row and the
// previous row in the table's current order (an invalid Row for the first
// row). Window-dependent derivations require the caller to have sorted by
// the grouping+date key beforehand.
func (t *Table) Derive(name string, fn func(cur, prev Row) any) (*Table, error) {
	if _, exists := t.idx[name]; exists {
		return nil, fmt.Errorf("table: derive: column %q already exists", name)
	}
	cols := append(t.Columns(), name)
	rows := make([][]any, len(t.rows))
	for i, r := range t.rows {
		prev := Row{}
		if i > 0 {
			prev = t.Row(i - 1)
		}
		out := make([]any, 0, len(cols))
		out = append(out, r...)
		out = append(out, fn(t.Row(i), prev))
		rows[i] = out
	}
	return MustNew(cols, rows), nil
}

// ReformatDate reparses the string cells of col from fromLayout to
// toLayout. Dates are civil dates; no timezone semantics apply.
//
// A nil or unparseable cell is fatal (same policy as SplitColumn).
func (t *Table) ReformatDate(col, fromLayout, toLayout string) (*Table, error) {
	j, err := t.colIndex("reformat date", col)
	if err != nil {
		return nil, err
	}
	rows := make([][]any, len(t.rows))
	for i, r := range t.rows {
		s, ok := r[j].(string)
		if !ok {
			return nil, fmt.Errorf("table: reformat date: row %d: column %q has non-string value %v", i, col, r[j])
		}
		d, err := time.Parse(fromLayout, s)
		if err != nil {
			return nil, fmt.Errorf("table: reformat date: row %d: %w", i, err)
		}
		out := append([]any(nil), r...)
		out[j] = d.Format(toLayout)
		rows[i] = out
	}
	return t.withRows(rows), nil
}
