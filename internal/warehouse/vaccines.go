package warehouse

import (
	"regexp"

	"covidwh/internal/table"
)

// vaccinePattern matches the combined catalog field "Name (Manufacturer)".
// A row that does not match is a data-quality failure for the whole run:
// the remaining pipeline assumes the split always succeeds.
var vaccinePattern = regexp.MustCompile(`^(.*\S)\s*\((.+)\)$`)

// BuildVaccineDim builds dim_vaccines from the raw vaccine catalog.
// Surrogate keys follow source order, which the parser preserves, so the
// assignment is deterministic without a semantic sort.
func BuildVaccineDim(raw *table.Table) (*table.Table, error) {
	t, err := raw.SplitColumn("vaccine", vaccinePattern, "vaccine_name", "manufacturer")
	if err != nil {
		return nil, wrapStage("dim_vaccines", err)
	}

	t, err = t.AssignKey("vaccine_id")
	if err != nil {
		return nil, wrapStage("dim_vaccines", err)
	}

	t, err = t.Project("vaccine_id", "vaccine_name", "manufacturer", "origin", "technology", "storage_temp")
	if err != nil {
		return nil, wrapStage("dim_vaccines", err)
	}
	return t, nil
}
