package csv

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"covidwh/internal/table"
)

func TestWriteTable(t *testing.T) {
	t.Parallel()

	src := table.MustNew(
		[]string{"date_ref", "district_ref", "percent_increase_cases", "note"},
		[][]any{
			{int64(1), int64(2), 0.0909, "a,b"},
			{int64(2), int64(2), float64(0), nil},
		},
	)

	var buf bytes.Buffer
	if err := WriteTable(&buf, src); err != nil {
		t.Fatalf("write: %v", err)
	}

	want := strings.Join([]string{
		"date_ref,district_ref,percent_increase_cases,note",
		`1,2,0.0909,"a,b"`,
		"2,2,0,",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestWriteFileCreatesParentDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "out", "dim_dates.csv")
	src := table.MustNew([]string{"date_id"}, [][]any{{int64(1)}})

	if err := WriteFile(path, src); err != nil {
		t.Fatalf("write file: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "date_id\n1\n" {
		t.Fatalf("content = %q", data)
	}
}
