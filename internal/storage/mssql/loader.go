// Package mssql implements the storage.Loader interface on SQL Server
// via the microsoft/go-mssqldb driver.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/microsoft/go-mssqldb"

	"covidwh/internal/storage"
)

type Loader struct {
	db *sql.DB
}

func init() {
	storage.Register("mssql", New)
}

func New(ctx context.Context, cfg storage.Config) (storage.Loader, error) {
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Loader{db: db}, nil
}

func (l *Loader) Close() { _ = l.db.Close() }

// EnsureTables creates the warehouse tables if absent. SQL Server has no
// CREATE TABLE IF NOT EXISTS, so the DDL guards with an OBJECT_ID check.
func (l *Loader) EnsureTables(ctx context.Context, tables []storage.TableSpec) error {
	for _, t := range tables {
		ddl, err := BuildCreateSQL(t)
		if err != nil {
			return err
		}
		if _, err := l.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("mssql: create table %s: %w", t.Name, err)
		}
	}
	return nil
}

// ReplaceTable swaps a table's contents for the given rows in one
// transaction: DELETE, then row-by-row prepared inserts.
func (l *Loader) ReplaceTable(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+msIdent(table)); err != nil {
		return 0, fmt.Errorf("mssql: clear %s: %w", table, err)
	}

	if len(rows) > 0 {
		q := buildInsertSQL(table, columns)
		stmt, err := tx.PrepareContext(ctx, q)
		if err != nil {
			return 0, fmt.Errorf("mssql: prepare insert %s: %w", table, err)
		}
		defer stmt.Close()

		for _, row := range rows {
			if len(row) != len(columns) {
				return 0, fmt.Errorf("mssql: %s: row has %d values, want %d", table, len(row), len(columns))
			}
			if _, err := stmt.ExecContext(ctx, row...); err != nil {
				return 0, fmt.Errorf("mssql: insert into %s: %w", table, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

// BuildCreateSQL renders guarded CREATE TABLE DDL for one table spec.
// Pure, so the type mapping is unit-testable without a database.
func BuildCreateSQL(t storage.TableSpec) (string, error) {
	if strings.TrimSpace(t.Name) == "" {
		return "", fmt.Errorf("mssql: table name is empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("mssql: table %s has no columns", t.Name)
	}

	parts := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		typ, err := columnType(c.Type)
		if err != nil {
			return "", fmt.Errorf("mssql: table %s column %s: %w", t.Name, c.Name, err)
		}
		col := msIdent(c.Name) + " " + typ
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

	return fmt.Sprintf(
		"IF OBJECT_ID(N'%s', N'U') IS NULL CREATE TABLE %s (%s);",
		t.Name, msIdent(t.Name), strings.Join(parts, ", "),
	), nil
}

func columnType(kind string) (string, error) {
	switch kind {
	case "int":
		return "BIGINT", nil
	case "real":
		return "FLOAT", nil
	case "text":
		return "NVARCHAR(255)", nil
	}
	return "", fmt.Errorf("unsupported column type %q", kind)
}

func buildInsertSQL(table string, columns []string) string {
	cols := make([]string, len(columns))
	ph := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = msIdent(c)
		ph[i] = fmt.Sprintf("@p%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", msIdent(table), strings.Join(cols, ", "), strings.Join(ph, ", "))
}

func msIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}
