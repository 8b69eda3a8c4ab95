package warehouse

import (
	"covidwh/internal/schema"
	"covidwh/internal/table"
)

// BuildUsageFact builds fact_vaccine_usage from the raw usage extract and
// the two bridge tables.
//
// Both joins are inner by design: coverage between the raw usage data and
// the station/district reference data is asymmetric, and a usage record
// referencing a station or district unknown to the dimensions cannot be
// attributed — those rows are intentionally dropped, not errors.
//
// Rows missing either required measure (administered_doses,
// invalid_doses) are dropped; the ampule counts are optional and pass
// through as NULLs.
func BuildUsageFact(raw, districtBridge, stationBridge *table.Table, enc schema.VaccineEncoding) (*table.Table, error) {
	// The raw extract's own district_code is redundant with the bridge
	// resolution and would collide in the join; project it away.
	usage, err := raw.Project(
		"date", "station_code", "vaccine",
		"used_ampules", "spoiled_ampules", "administered_doses", "invalid_doses",
	)
	if err != nil {
		return nil, wrapStage("fact_vaccine_usage", err)
	}

	t, err := districtBridge.Join(stationBridge, []string{"district_code"}, table.InnerJoin)
	if err != nil {
		return nil, wrapStage("fact_vaccine_usage", err)
	}
	t, err = t.Join(usage, []string{"station_code"}, table.InnerJoin)
	if err != nil {
		return nil, wrapStage("fact_vaccine_usage", err)
	}

	t = t.Select(func(r table.Row) bool {
		return inWindow(r.Value("date"), windowStart, windowEnd)
	})
	t = t.Select(func(r table.Row) bool {
		return r.Value("administered_doses") != nil && r.Value("invalid_doses") != nil
	})

	t, err = t.Encode("vaccine", enc.Codes)
	if err != nil {
		return nil, wrapStage("fact_vaccine_usage", err)
	}

	t, err = t.Rename(map[string]string{
		"district_id": "district_ref",
		"station_id":  "station_ref",
		"vaccine":     "vaccine_ref",
	})
	if err != nil {
		return nil, wrapStage("fact_vaccine_usage", err)
	}

	// Sort while the dates are still ISO; the display format does not
	// order lexicographically.
	t, err = t.Sort("date")
	if err != nil {
		return nil, wrapStage("fact_vaccine_usage", err)
	}
	t, err = t.ReformatDate("date", sourceDateLayout, outputDateLayout)
	if err != nil {
		return nil, wrapStage("fact_vaccine_usage", err)
	}

	t, err = t.Project(
		"date", "station_ref", "district_ref", "vaccine_ref",
		"used_ampules", "spoiled_ampules", "administered_doses", "invalid_doses",
	)
	if err != nil {
		return nil, wrapStage("fact_vaccine_usage", err)
	}
	return t, nil
}
