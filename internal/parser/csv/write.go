package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"covidwh/internal/table"
)

// WriteTable writes a finished table as CSV: header row first, missing
// cells as empty fields, floats in their shortest round-trip form.
func WriteTable(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Columns()); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	rec := make([]string, len(t.Columns()))
	for _, row := range t.Rows() {
		for i, v := range row {
			rec[i] = formatCell(v)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes a table to path, creating parent directories.
func WriteFile(path string, t *table.Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("csv: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: %w", err)
	}
	if err := WriteTable(f, t); err != nil {
		_ = f.Close()
		return fmt.Errorf("csv: %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("csv: %s: %w", path, err)
	}
	return nil
}

func formatCell(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case int64:
		return strconv.FormatInt(c, 10)
	case int:
		return strconv.Itoa(c)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(c)
	default:
		return fmt.Sprint(c)
	}
}
