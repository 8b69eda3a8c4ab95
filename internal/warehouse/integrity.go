package warehouse

import (
	"fmt"

	"covidwh/internal/table"
)

// VerifyIntegrity checks that every foreign key in both fact tables
// references an existing dimension row. Referential integrity is
// established constructively — facts derive from already-keyed bridges —
// so a miss here is a fatal invariant violation, never a warning.
func VerifyIntegrity(w Tables) error {
	checks := []struct {
		fact     *table.Table
		factName string
		col      string
		dim      *table.Table
		dimName  string
		key      string
	}{
		{w.Cases, "fact_covid_cases", "date_ref", w.Dates, "dim_dates", "date_id"},
		{w.Cases, "fact_covid_cases", "district_ref", w.Districts, "dim_districts", "district_id"},
		{w.Usage, "fact_vaccine_usage", "date_ref", w.Dates, "dim_dates", "date_id"},
		{w.Usage, "fact_vaccine_usage", "station_ref", w.Stations, "dim_vaccination_stations", "station_id"},
		{w.Usage, "fact_vaccine_usage", "district_ref", w.Districts, "dim_districts", "district_id"},
		{w.Usage, "fact_vaccine_usage", "vaccine_ref", w.Vaccines, "dim_vaccines", "vaccine_id"},
	}

	for _, c := range checks {
		keys, err := keySet(c.dim, c.key)
		if err != nil {
			return fmt.Errorf("integrity: %s: %w", c.dimName, err)
		}
		for i := 0; i < c.fact.NumRows(); i++ {
			v := c.fact.Row(i).Value(c.col)
			id, ok := table.AsInt(v)
			if !ok {
				return fmt.Errorf("integrity: %s row %d: %s is %v, want integer key", c.factName, i, c.col, v)
			}
			if _, exists := keys[id]; !exists {
				return fmt.Errorf("integrity: %s row %d: %s=%d has no row in %s", c.factName, i, c.col, id, c.dimName)
			}
		}
	}
	return nil
}

func keySet(dim *table.Table, key string) (map[int64]struct{}, error) {
	out := make(map[int64]struct{}, dim.NumRows())
	for i := 0; i < dim.NumRows(); i++ {
		id, ok := table.AsInt(dim.Row(i).Value(key))
		if !ok {
			return nil, fmt.Errorf("row %d: %s is not an integer key", i, key)
		}
		out[id] = struct{}{}
	}
	return out, nil
}
