package table

import (
	"fmt"
)

// JoinKind selects the relational join variant.
type JoinKind int

const (
	InnerJoin JoinKind = iota
	LeftJoin
	RightJoin
	OuterJoin
)

func (k JoinKind) String() string {
	switch k {
	case InnerJoin:
		return "inner"
	case LeftJoin:
		return "left"
	case RightJoin:
		return "right"
	case OuterJoin:
		return "outer"
	default:
		return fmt.Sprintf("JoinKind(%d)", int(k))
	}
}

// Join joins t (left) with right on the named key columns.
//
// The result carries the left columns followed by the right table's non-key
// columns. Unmatched rows on a kept side get nil for the other side's
// columns; for right/outer joins the key cells of an unmatched right row are
// taken from the right table so the key survives.
//
// Semantics:
//   - A nil key cell never matches anything (SQL NULL semantics). The row is
//     still kept on left/right/outer joins, unmatched.
//   - Matched output preserves left row order, then right row order within
//     one left row; unmatched right rows (right/outer) append in right order.
//
// Errors:
//   - a key column missing from either side
//   - key columns whose non-nil cells have incompatible kinds (string vs
//     numeric and so on); int64 and float64 are compatible
//   - a non-key column name present on both sides (ambiguous output)
func (t *Table) Join(right *Table, on []string, kind JoinKind) (*Table, error) {
	if len(on) == 0 {
		return nil, fmt.Errorf("table: join: no key columns")
	}

	lix := make([]int, len(on))
	rix := make([]int, len(on))
	onSet := make(map[string]struct{}, len(on))
	for i, c := range on {
		li, err := t.colIndex("join", c)
		if err != nil {
			return nil, err
		}
		ri, err := right.colIndex("join", c)
		if err != nil {
			return nil, err
		}
		lix[i], rix[i] = li, ri
		onSet[c] = struct{}{}

		if err := checkKeyKinds(c, t, li, right, ri); err != nil {
			return nil, err
		}
	}

	// Right-side columns that survive into the output.
	var rcols []string
	var rkeep []int
	for i, c := range right.cols {
		if _, isKey := onSet[c]; isKey {
			continue
		}
		if _, clash := t.idx[c]; clash {
			return nil, fmt.Errorf("table: join: ambiguous column %q on both sides", c)
		}
		rcols = append(rcols, c)
		rkeep = append(rkeep, i)
	}
	outCols := append(t.Columns(), rcols...)

	// Hash the right side.
	byKey := make(map[string][]int, len(right.rows))
	for i, r := range right.rows {
		k := compositeKey(r, rix)
		if k == "" {
			continue
		}
		byKey[k] = append(byKey[k], i)
	}

	keepLeft := kind == LeftJoin || kind == OuterJoin
	keepRight := kind == RightJoin || kind == OuterJoin

	matchedRight := make([]bool, len(right.rows))
	rows := make([][]any, 0, len(t.rows))

	for _, lr := range t.rows {
		k := compositeKey(lr, lix)
		matches := byKey[k]
		if k == "" {
			matches = nil
		}
		if len(matches) == 0 {
			if keepLeft {
				rows = append(rows, padRight(lr, len(rcols)))
			}
			continue
		}
		for _, ri := range matches {
			matchedRight[ri] = true
			out := make([]any, 0, len(outCols))
			out = append(out, lr...)
			for _, j := range rkeep {
				out = append(out, right.rows[ri][j])
			}
			rows = append(rows, out)
		}
	}

	if keepRight {
		for ri, rr := range right.rows {
			if matchedRight[ri] {
				continue
			}
			out := make([]any, len(outCols))
			// Key cells take the left side's column positions; the other
			// left columns stay nil.
			for i, c := range on {
				out[t.idx[c]] = rr[rix[i]]
			}
			base := len(t.cols)
			for n, j := range rkeep {
				out[base+n] = rr[j]
			}
			rows = append(rows, out)
		}
	}

	out, err := New(outCols, rows)
	if err != nil {
		return nil, fmt.Errorf("table: join: %w", err)
	}
	return out, nil
}

// checkKeyKinds errors when the two sides carry incompatible non-nil cell
// kinds under a join key column.
func checkKeyKinds(col string, left *Table, li int, right *Table, ri int) error {
	lk := firstKind(left, li)
	rk := firstKind(right, ri)
	if lk == "" || rk == "" || lk == rk {
		return nil
	}
	return fmt.Errorf("table: join: key %q has incompatible types (%s vs %s)", col, lk, rk)
}

func firstKind(t *Table, col int) string {
	for _, r := range t.rows {
		switch r[col].(type) {
		case nil:
			continue
		case string:
			return "string"
		case int64, float64:
			return "number"
		case bool:
			return "bool"
		default:
			return fmt.Sprintf("%T", r[col])
		}
	}
	return ""
}

func padRight(left []any, n int) []any {
	out := make([]any, len(left)+n)
	copy(out, left)
	return out
}
