// Package csv reads raw tabular extracts into table values aligned to
// their schema contracts, and writes finished warehouse tables back out.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"covidwh/internal/config"
	"covidwh/internal/schema"
	"covidwh/internal/table"
)

// ReadTable reads one CSV extract and aligns it to the contract: canonical
// column names via the contract's header map (overridable per config),
// declared cell kinds, empty cells as missing.
//
// Options:
//   - "comma": delimiter, default ","
//   - "encoding": "" (UTF-8) or "windows-1250" / "cp1250" for the Czech
//     statistical-office exports
//   - "trim_space": default true
//   - "header_map": extra source→canonical header names, merged over the
//     contract's own map
//
// Errors:
//   - a contract column absent from the header (schema error, fatal per
//     the pipeline's error policy)
//   - a cell that cannot be coerced to its declared kind
func ReadTable(src io.Reader, contract schema.Contract, opt config.Options) (*table.Table, error) {
	r, err := decodeReader(src, opt.String("encoding", ""))
	if err != nil {
		return nil, err
	}

	trim := opt.Bool("trim_space", true)

	cr := csv.NewReader(r)
	cr.Comma = opt.Rune("comma", ',')
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1

	hdr, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("csv: %s: read header: %w", contract.Name, err)
	}

	hm := mergeHeaderMaps(contract.HeaderMap, opt.StringMap("header_map"))
	srcToIdx := make(map[string]int, len(hdr))
	for i, h := range hdr {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\uFEFF")
		}
		if mapped, ok := hm[h]; ok {
			h = mapped
		} else {
			h = strings.ReplaceAll(strings.ToLower(h), " ", "_")
		}
		srcToIdx[h] = i
	}

	columns := contract.ColumnNames()
	colIx := make([]int, len(columns))
	for t, target := range columns {
		si, ok := srcToIdx[target]
		if !ok {
			return nil, fmt.Errorf("csv: %s: missing column %q", contract.Name, target)
		}
		colIx[t] = si
	}

	var rows [][]any
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("csv: %s: line %d: %w", contract.Name, line, err)
		}

		row := make([]any, len(columns))
		for t, target := range columns {
			si := colIx[t]
			if si >= len(rec) {
				continue
			}
			v := rec[si]
			if trim {
				v = strings.TrimSpace(v)
			}
			if v == "" {
				continue
			}
			cell, err := coerce(v, contract.KindOf(target))
			if err != nil {
				return nil, fmt.Errorf("csv: %s: line %d: column %q: %w", contract.Name, line, target, err)
			}
			row[t] = cell
		}
		rows = append(rows, row)
	}

	return table.New(columns, rows)
}

// ReadFile is ReadTable over a file path.
func ReadFile(path string, contract schema.Contract, opt config.Options) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: %s: %w", contract.Name, err)
	}
	defer f.Close()
	return ReadTable(f, contract, opt)
}

func decodeReader(src io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
		return src, nil
	case "windows-1250", "cp1250":
		return transform.NewReader(src, charmap.Windows1250.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("csv: unsupported encoding %q", encoding)
	}
}

func mergeHeaderMaps(base, extra map[string]string) map[string]string {
	if len(extra) == 0 {
		return base
	}
	out := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// coerce parses a non-empty cell per its declared kind. Integer columns
// accept float renderings with no fractional part ("4.0"), which some
// source exporters emit.
func coerce(v string, kind schema.Kind) (any, error) {
	switch kind {
	case schema.String:
		return v, nil

	case schema.Int:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("not an integer: %q", v)
		}
		n := int64(f)
		if float64(n) != f {
			return nil, fmt.Errorf("not an integer: %q", v)
		}
		return n, nil

	case schema.Float:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", v)
		}
		return f, nil

	case schema.Bool:
		switch strings.ToLower(v) {
		case "1", "true", "t", "yes":
			return true, nil
		case "0", "false", "f", "no":
			return false, nil
		}
		return nil, fmt.Errorf("not a boolean: %q", v)

	default:
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
}
