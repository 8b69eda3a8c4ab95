package table

import (
	"reflect"
	"testing"
)

func TestNewRejectsDuplicateColumns(t *testing.T) {
	t.Parallel()

	_, err := New([]string{"a", "b", "a"}, nil)
	if err == nil {
		t.Fatal("expected error for duplicate column")
	}
}

func TestNewRejectsRaggedRows(t *testing.T) {
	t.Parallel()

	_, err := New([]string{"a", "b"}, [][]any{{int64(1)}})
	if err == nil {
		t.Fatal("expected error for short row")
	}
}

func TestProjectReordersColumns(t *testing.T) {
	t.Parallel()

	src := MustNew([]string{"a", "b", "c"}, [][]any{
		{int64(1), "x", true},
		{int64(2), "y", false},
	})

	got, err := src.Project("c", "a")
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if want := []string{"c", "a"}; !reflect.DeepEqual(got.Columns(), want) {
		t.Fatalf("columns = %v, want %v", got.Columns(), want)
	}
	if want := []any{true, int64(1)}; !reflect.DeepEqual(got.Rows()[0], want) {
		t.Fatalf("row 0 = %v, want %v", got.Rows()[0], want)
	}
}

func TestProjectUnknownColumn(t *testing.T) {
	t.Parallel()

	src := MustNew([]string{"a"}, nil)
	if _, err := src.Project("nope"); err == nil {
		t.Fatal("expected error for unknown column")
	}
}

func TestSelectKeepsOrder(t *testing.T) {
	t.Parallel()

	src := MustNew([]string{"n"}, [][]any{
		{int64(3)}, {int64(1)}, {int64(4)}, {int64(1)},
	})

	got := src.Select(func(r Row) bool {
		n, _ := AsInt(r.Value("n"))
		return n != 1
	})
	want := [][]any{{int64(3)}, {int64(4)}}
	if !reflect.DeepEqual(got.Rows(), want) {
		t.Fatalf("rows = %v, want %v", got.Rows(), want)
	}
}

func TestRename(t *testing.T) {
	t.Parallel()

	src := MustNew([]string{"a", "b"}, [][]any{{int64(1), int64(2)}})

	got, err := src.Rename(map[string]string{"a": "x"})
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if want := []string{"x", "b"}; !reflect.DeepEqual(got.Columns(), want) {
		t.Fatalf("columns = %v, want %v", got.Columns(), want)
	}

	if _, err := src.Rename(map[string]string{"missing": "x"}); err == nil {
		t.Fatal("expected error for unknown source column")
	}
	if _, err := src.Rename(map[string]string{"a": "b"}); err == nil {
		t.Fatal("expected error for rename collision")
	}
}

func TestDistinctKeepsFirstOccurrence(t *testing.T) {
	t.Parallel()

	src := MustNew([]string{"d"}, [][]any{
		{"2022-01-02"}, {"2022-01-01"}, {"2022-01-02"},
	})
	got := src.Distinct()
	want := [][]any{{"2022-01-02"}, {"2022-01-01"}}
	if !reflect.DeepEqual(got.Rows(), want) {
		t.Fatalf("rows = %v, want %v", got.Rows(), want)
	}
}

func TestDistinctTellsIntFromString(t *testing.T) {
	t.Parallel()

	src := MustNew([]string{"v"}, [][]any{{int64(1)}, {"1"}})
	if got := src.Distinct().NumRows(); got != 2 {
		t.Fatalf("NumRows = %d, want 2", got)
	}
}

func TestAppend(t *testing.T) {
	t.Parallel()

	a := MustNew([]string{"x"}, [][]any{{int64(1)}})
	b := MustNew([]string{"x"}, [][]any{{int64(2)}})

	got, err := a.Append(b)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if got.NumRows() != 2 {
		t.Fatalf("NumRows = %d, want 2", got.NumRows())
	}

	c := MustNew([]string{"y"}, nil)
	if _, err := a.Append(c); err == nil {
		t.Fatal("expected error for mismatched columns")
	}
}

func TestRowValueOnZeroRow(t *testing.T) {
	t.Parallel()

	var r Row
	if r.Valid() {
		t.Fatal("zero Row must be invalid")
	}
	if v := r.Value("anything"); v != nil {
		t.Fatalf("Value = %v, want nil", v)
	}
}

func TestScalarConversions(t *testing.T) {
	t.Parallel()

	if n, ok := AsInt(float64(4)); !ok || n != 4 {
		t.Fatalf("AsInt(4.0) = %d, %v", n, ok)
	}
	if _, ok := AsInt(4.5); ok {
		t.Fatal("AsInt(4.5) must not convert")
	}
	if f, ok := AsFloat(int64(3)); !ok || f != 3 {
		t.Fatalf("AsFloat(3) = %v, %v", f, ok)
	}
	if _, ok := AsString(int64(3)); ok {
		t.Fatal("AsString(3) must not convert")
	}
}
