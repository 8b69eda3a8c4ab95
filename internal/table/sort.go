package table

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Sort returns the table stably sorted by the given columns, in order of
// significance. Ties preserve the original relative row order, which is what
// makes downstream surrogate-key assignment deterministic.
//
// Ordering across cell kinds: nil sorts first, then bool (false before
// true), then numbers (int64 and float64 compare by value), then strings.
func (t *Table) Sort(by ...string) (*Table, error) {
	ix := make([]int, len(by))
	for i, c := range by {
		j, err := t.colIndex("sort", c)
		if err != nil {
			return nil, err
		}
		ix[i] = j
	}

	rows := append([][]any(nil), t.rows...)
	sort.SliceStable(rows, func(a, b int) bool {
		for _, j := range ix {
			if c := compareValues(rows[a][j], rows[b][j]); c != 0 {
				return c < 0
			}
		}
		return false
	})
	return t.withRows(rows), nil
}

func kindRank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case int64, float64:
		return 2
	case string:
		return 3
	default:
		return 4
	}
}

func compareValues(a, b any) int {
	ra, rb := kindRank(a), kindRank(b)
	if ra != rb {
		return ra - rb
	}
	switch ra {
	case 0:
		return 0
	case 1:
		av, bv := a.(bool), b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		default:
			return 1
		}
	case 2:
		af, _ := AsFloat(a)
		bf, _ := AsFloat(b)
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	case 3:
		return strings.Compare(a.(string), b.(string))
	default:
		return strings.Compare(normalizeKey(a), normalizeKey(b))
	}
}

// normalizeKey produces a stable string form of a cell for hashing and
// dedupe. Strings are trimmed so join keys survive sloppy source padding;
// nil maps to "".
func normalizeKey(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(n)
	case bool:
		if n {
			return "true"
		}
		return "false"
	case int64:
		return strconv.FormatInt(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// compositeKey hashes the cells under ix into one string key.
// Any nil component yields "", which join and friends treat as non-matching.
func compositeKey(row []any, ix []int) string {
	var b strings.Builder
	for n, j := range ix {
		k := normalizeKey(row[j])
		if k == "" {
			return ""
		}
		if n > 0 {
			b.WriteByte(0)
		}
		b.WriteString(k)
	}
	return b.String()
}

func compositeKeyAll(row []any) string {
	var b strings.Builder
	for n, v := range row {
		if n > 0 {
			b.WriteByte(0)
		}
		b.WriteString(normalizeKey(v))
	}
	return b.String()
}
