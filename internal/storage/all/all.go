// Package all registers every storage backend with the loader factory.
// Import for side effects; the pipeline config picks which one runs.
package all

import (
	_ "covidwh/internal/storage/mssql"
	_ "covidwh/internal/storage/postgres"
	_ "covidwh/internal/storage/sqlite"
)
