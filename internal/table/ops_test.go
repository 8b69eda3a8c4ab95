package table

import (
	"reflect"
	"regexp"
	"testing"
)

func TestAssignKeyStartsAtOne(t *testing.T) {
	t.Parallel()

	src := MustNew([]string{"code"}, [][]any{{"CZ020"}, {"CZ010"}})

	got, err := src.AssignKey("id", "code")
	if err != nil {
		t.Fatalf("assign key: %v", err)
	}
	want := [][]any{
		{int64(1), "CZ010"},
		{int64(2), "CZ020"},
	}
	if !reflect.DeepEqual(got.Rows(), want) {
		t.Fatalf("rows = %v, want %v", got.Rows(), want)
	}
	if want := []string{"id", "code"}; !reflect.DeepEqual(got.Columns(), want) {
		t.Fatalf("columns = %v, want %v", got.Columns(), want)
	}
}

func TestAssignKeyWithoutSortKeepsSourceOrder(t *testing.T) {
	t.Parallel()

	src := MustNew([]string{"name"}, [][]any{{"b"}, {"a"}})
	got, err := src.AssignKey("id")
	if err != nil {
		t.Fatalf("assign key: %v", err)
	}
	if v := got.Row(0).Value("name"); v != "b" {
		t.Fatalf("row 0 name = %v, want b", v)
	}
}

func TestAssignKeyExistingColumn(t *testing.T) {
	t.Parallel()

	src := MustNew([]string{"id"}, nil)
	if _, err := src.AssignKey("id"); err == nil {
		t.Fatal("expected error for existing column")
	}
}

func TestFillMissing(t *testing.T) {
	t.Parallel()

	src := MustNew([]string{"acc"}, [][]any{{int64(1)}, {nil}})
	got, err := src.FillMissing("acc", int64(0))
	if err != nil {
		t.Fatalf("fill missing: %v", err)
	}
	if v := got.Row(1).Value("acc"); v != int64(0) {
		t.Fatalf("filled value = %v, want 0", v)
	}
	if v := got.Row(0).Value("acc"); v != int64(1) {
		t.Fatalf("untouched value = %v, want 1", v)
	}
}

func TestFillMissingFuncSeesSiblingColumns(t *testing.T) {
	t.Parallel()

	src := MustNew([]string{"code", "name"}, [][]any{
		{nil, "Praha"},
	})
	got, err := src.FillMissingFunc("code", func(r Row) any {
		s, _ := AsString(r.Value("name"))
		return s + "0"
	})
	if err != nil {
		t.Fatalf("fill missing func: %v", err)
	}
	if v := got.Row(0).Value("code"); v != "Praha0" {
		t.Fatalf("filled value = %v", v)
	}
}

func TestSplitColumn(t *testing.T) {
	t.Parallel()

	pattern := regexp.MustCompile(`^(.*\S)\s*\((.+)\)$`)
	src := MustNew([]string{"vaccine"}, [][]any{
		{"Comirnaty (Pfizer-BioNTech)"},
	})

	got, err := src.SplitColumn("vaccine", pattern, "name", "maker")
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if v := got.Row(0).Value("name"); v != "Comirnaty" {
		t.Fatalf("name = %v", v)
	}
	if v := got.Row(0).Value("maker"); v != "Pfizer-BioNTech" {
		t.Fatalf("maker = %v", v)
	}

	bad := MustNew([]string{"vaccine"}, [][]any{{"no parentheses"}})
	if _, err := bad.SplitColumn("vaccine", pattern, "a", "b"); err == nil {
		t.Fatal("expected error for non-matching value")
	}

	missing := MustNew([]string{"vaccine"}, [][]any{{nil}})
	if _, err := missing.SplitColumn("vaccine", pattern, "a", "b"); err == nil {
		t.Fatal("expected error for nil cell")
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	codes := map[string]int64{"Pfizer": 1, "Moderna": 2}
	src := MustNew([]string{"maker"}, [][]any{{"Moderna"}, {"Pfizer"}})

	got, err := src.Encode("maker", codes)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := [][]any{{int64(2)}, {int64(1)}}
	if !reflect.DeepEqual(got.Rows(), want) {
		t.Fatalf("rows = %v, want %v", got.Rows(), want)
	}

	unknown := MustNew([]string{"maker"}, [][]any{{"Novavax"}})
	if _, err := unknown.Encode("maker", codes); err == nil {
		t.Fatal("expected error for unmapped value")
	}
}

func TestDerivePassesPreviousRow(t *testing.T) {
	t.Parallel()

	src := MustNew([]string{"total"}, [][]any{
		{int64(10)}, {int64(15)}, {int64(15)},
	})

	got, err := src.Derive("delta", func(cur, prev Row) any {
		if !prev.Valid() {
			return int64(0)
		}
		c, _ := AsInt(cur.Value("total"))
		p, _ := AsInt(prev.Value("total"))
		return c - p
	})
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	want := []any{int64(0), int64(5), int64(0)}
	for i, w := range want {
		if v := got.Row(i).Value("delta"); v != w {
			t.Fatalf("row %d delta = %v, want %v", i, v, w)
		}
	}
}

func TestReformatDate(t *testing.T) {
	t.Parallel()

	src := MustNew([]string{"date"}, [][]any{{"2022-01-05"}})
	got, err := src.ReformatDate("date", "2006-01-02", "02.01.2006")
	if err != nil {
		t.Fatalf("reformat: %v", err)
	}
	if v := got.Row(0).Value("date"); v != "05.01.2022" {
		t.Fatalf("date = %v, want 05.01.2022", v)
	}

	bad := MustNew([]string{"date"}, [][]any{{"05/01/2022"}})
	if _, err := bad.ReformatDate("date", "2006-01-02", "02.01.2006"); err == nil {
		t.Fatal("expected error for unparseable date")
	}
}
