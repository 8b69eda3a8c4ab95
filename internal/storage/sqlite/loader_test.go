package sqlite

import (
	"strings"
	"testing"

	"covidwh/internal/storage"
)

func TestBuildCreateSQL(t *testing.T) {
	t.Parallel()

	spec := storage.TableSpec{
		Name: "fact_covid_cases",
		Columns: []storage.ColumnSpec{
			{Name: "date_ref", Type: "int", References: "dim_dates(date_id)"},
			{Name: "total_cases", Type: "int"},
			{Name: "percent_increase_cases", Type: "real"},
			{Name: "note", Type: "text", Nullable: true},
		},
	}

	got, err := BuildCreateSQL(spec)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	for _, want := range []string{
		`CREATE TABLE IF NOT EXISTS "fact_covid_cases"`,
		`"date_ref" INTEGER NOT NULL REFERENCES dim_dates(date_id)`,
		`"percent_increase_cases" REAL NOT NULL`,
		`"note" TEXT`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("DDL missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, `"note" TEXT NOT NULL`) {
		t.Errorf("nullable column rendered NOT NULL:\n%s", got)
	}
}

func TestBuildCreateSQLPrimaryKey(t *testing.T) {
	t.Parallel()

	spec := storage.TableSpec{
		Name: "dim_dates",
		Columns: []storage.ColumnSpec{
			{Name: "date_id", Type: "int", PrimaryKey: true},
			{Name: "date", Type: "text"},
		},
	}
	got, err := BuildCreateSQL(spec)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(got, `"date_id" INTEGER PRIMARY KEY`) {
		t.Fatalf("DDL = %s", got)
	}
}

func TestBuildCreateSQLErrors(t *testing.T) {
	t.Parallel()

	if _, err := BuildCreateSQL(storage.TableSpec{Name: ""}); err == nil {
		t.Fatal("expected error for empty name")
	}
	if _, err := BuildCreateSQL(storage.TableSpec{Name: "t"}); err == nil {
		t.Fatal("expected error for no columns")
	}
	bad := storage.TableSpec{Name: "t", Columns: []storage.ColumnSpec{{Name: "c", Type: "blob"}}}
	if _, err := BuildCreateSQL(bad); err == nil {
		t.Fatal("expected error for unsupported type")
	}
}

func TestBuildInsertSQL(t *testing.T) {
	t.Parallel()

	got := buildInsertSQL("dim_dates", []string{"date_id", "date"})
	want := `INSERT INTO "dim_dates" ("date_id", "date") VALUES (?,?)`
	if got != want {
		t.Fatalf("sql = %q, want %q", got, want)
	}
}
