// Package postgres implements the storage.Loader interface on Postgres
// via pgx. Bulk loads use COPY.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"covidwh/internal/storage"
)

type Loader struct {
	pool *pgxpool.Pool
}

func init() {
	storage.Register("postgres", New)
}

func New(ctx context.Context, cfg storage.Config) (storage.Loader, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Loader{pool: pool}, nil
}

func (l *Loader) Close() { l.pool.Close() }

// EnsureTables creates the warehouse tables if absent. Idempotent.
func (l *Loader) EnsureTables(ctx context.Context, tables []storage.TableSpec) error {
	for _, t := range tables {
		ddl, err := BuildCreateSQL(t)
		if err != nil {
			return err
		}
		if _, err := l.pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("postgres: create table %s: %w", t.Name, err)
		}
	}
	return nil
}

// ReplaceTable swaps a table's contents for the given rows in one
// transaction: DELETE, then COPY. Fact tables reference the dimensions,
// so plain DELETE is used rather than TRUNCATE to keep the statement
// order inside the transaction unconstrained.
func (l *Loader) ReplaceTable(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "DELETE FROM "+pgIdent(table)); err != nil {
		return 0, fmt.Errorf("postgres: clear %s: %w", table, err)
	}

	var n int64
	if len(rows) > 0 {
		n, err = tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
		if err != nil {
			return 0, fmt.Errorf("postgres: copy into %s: %w", table, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return n, nil
}

// BuildCreateSQL renders CREATE TABLE IF NOT EXISTS DDL for one table
// spec. Pure, so the type mapping is unit-testable without a database.
func BuildCreateSQL(t storage.TableSpec) (string, error) {
	if strings.TrimSpace(t.Name) == "" {
		return "", fmt.Errorf("postgres: table name is empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("postgres: table %s has no columns", t.Name)
	}

	parts := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		typ, err := columnType(c.Type)
		if err != nil {
			return "", fmt.Errorf("postgres: table %s column %s: %w", t.Name, c.Name, err)
		}
		col := pgIdent(c.Name) + " " + typ
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

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s);", pgIdent(t.Name), strings.Join(parts, ", ")), nil
}

func columnType(kind string) (string, error) {
	switch kind {
	case "int":
		return "BIGINT", nil
	case "real":
		return "DOUBLE PRECISION", nil
	case "text":
		return "TEXT", nil
	}
	return "", fmt.Errorf("unsupported column type %q", kind)
}

func pgIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
