// Package sqlite implements the storage.Loader interface on SQLite via
// the pure-Go modernc.org/sqlite driver. Handy for local runs and tests:
// the whole warehouse fits in one file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"covidwh/internal/storage"
)

type Loader struct {
	db *sql.DB
}

func init() {
	storage.Register("sqlite", New)
}

func New(ctx context.Context, cfg storage.Config) (storage.Loader, error) {
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	// Foreign keys are off by default in SQLite; the warehouse DDL
	// declares REFERENCES and we want them enforced.
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Loader{db: db}, nil
}

func (l *Loader) Close() { _ = l.db.Close() }

// EnsureTables creates the warehouse tables if absent. Idempotent.
func (l *Loader) EnsureTables(ctx context.Context, tables []storage.TableSpec) error {
	for _, t := range tables {
		ddl, err := BuildCreateSQL(t)
		if err != nil {
			return err
		}
		if _, err := l.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("sqlite: create table %s: %w", t.Name, err)
		}
	}
	return nil
}

// ReplaceTable swaps a table's contents for the given rows in one
// transaction. The transform is a full rebuild, so delete-then-insert
// is the load semantics, not an optimization.
func (l *Loader) ReplaceTable(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+sqlIdent(table)); err != nil {
		return 0, fmt.Errorf("sqlite: clear %s: %w", table, err)
	}

	if len(rows) > 0 {
		q := buildInsertSQL(table, columns)
		stmt, err := tx.PrepareContext(ctx, q)
		if err != nil {
			return 0, fmt.Errorf("sqlite: prepare insert %s: %w", table, err)
		}
		defer stmt.Close()

		for _, row := range rows {
			if len(row) != len(columns) {
				return 0, fmt.Errorf("sqlite: %s: row has %d values, want %d", table, len(row), len(columns))
			}
			if _, err := stmt.ExecContext(ctx, row...); err != nil {
				return 0, fmt.Errorf("sqlite: insert into %s: %w", table, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

// BuildCreateSQL renders CREATE TABLE IF NOT EXISTS DDL for one table
// spec. Pure, so the type mapping is unit-testable without a database.
func BuildCreateSQL(t storage.TableSpec) (string, error) {
	if strings.TrimSpace(t.Name) == "" {
		return "", fmt.Errorf("sqlite: table name is empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("sqlite: table %s has no columns", t.Name)
	}

	parts := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		typ, err := columnType(c.Type)
		if err != nil {
			return "", fmt.Errorf("sqlite: table %s column %s: %w", t.Name, c.Name, err)
		}
		col := sqlIdent(c.Name) + " " + typ
		if c.PrimaryKey {
			col += " PRIMARY KEY"
		} else if !c.Nullable {
			col += " NOT NULL"
		}
		if c.References != "" {
			col += " REFERENCES " + c.References
		}
		parts = append(parts, col)
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);", sqlIdent(t.Name), strings.Join(parts, ",\n  ")), nil
}

func columnType(kind string) (string, error) {
	switch kind {
	case "int":
		return "INTEGER", nil
	case "real":
		return "REAL", nil
	case "text":
		return "TEXT", nil
	}
	return "", fmt.Errorf("unsupported column type %q", kind)
}

func buildInsertSQL(table string, columns []string) string {
	cols := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = sqlIdent(c)
	}
	ph := strings.TrimRight(strings.Repeat("?,", len(columns)), ",")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", sqlIdent(table), strings.Join(cols, ", "), ph)
}

func sqlIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
