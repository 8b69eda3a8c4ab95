package mssql

import (
	"strings"
	"testing"

	"covidwh/internal/storage"
)

func TestBuildCreateSQL(t *testing.T) {
	t.Parallel()

	spec := storage.TableSpec{
		Name: "dim_vaccination_stations",
		Columns: []storage.ColumnSpec{
			{Name: "station_id", Type: "int", PrimaryKey: true},
			{Name: "station_name", Type: "text"},
			{Name: "minimal_capacity", Type: "int", Nullable: true},
			{Name: "share", Type: "real"},
		},
	}

	got, err := BuildCreateSQL(spec)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	for _, want := range []string{
		`IF OBJECT_ID(N'dim_vaccination_stations', N'U') IS NULL`,
		`CREATE TABLE [dim_vaccination_stations]`,
		`[station_id] BIGINT PRIMARY KEY`,
		`[station_name] NVARCHAR(255) NOT NULL`,
		`[share] FLOAT NOT NULL`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("DDL missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, `[minimal_capacity] BIGINT NOT NULL`) {
		t.Errorf("nullable column rendered NOT NULL:\n%s", got)
	}
}

func TestBuildCreateSQLErrors(t *testing.T) {
	t.Parallel()

	if _, err := BuildCreateSQL(storage.TableSpec{Name: ""}); err == nil {
		t.Fatal("expected error for empty name")
	}
	bad := storage.TableSpec{Name: "t", Columns: []storage.ColumnSpec{{Name: "c", Type: "money"}}}
	if _, err := BuildCreateSQL(bad); err == nil {
		t.Fatal("expected error for unsupported type")
	}
}

func TestBuildInsertSQLUsesNamedPlaceholders(t *testing.T) {
	t.Parallel()

	got := buildInsertSQL("dim_dates", []string{"date_id", "date"})
	want := `INSERT INTO [dim_dates] ([date_id], [date]) VALUES (@p1, @p2)`
	if got != want {
		t.Fatalf("sql = %q, want %q", got, want)
	}
}
