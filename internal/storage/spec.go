// TableSpec types live here so schema definitions and backends can both
// import them without a cycle.
package storage

// TableSpec describes one warehouse table for DDL generation.
type TableSpec struct {
	Name    string       `json:"name"`
	Columns []ColumnSpec `json:"columns"`
}

// ColumnSpec describes one column with a backend-neutral type.
//
// Types are the small set the warehouse needs: "int" (64-bit), "real",
// "text". Backends map them to their native types.
type ColumnSpec struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	PrimaryKey bool   `json:"primary_key,omitempty"`
	Nullable   bool   `json:"nullable,omitempty"`
	References string `json:"references,omitempty"` // "table(column)"
}
