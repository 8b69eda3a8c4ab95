package warehouse

import (
	"fmt"
	"math"

	"covidwh/internal/table"
)

// BuildCaseFact builds fact_covid_cases from the raw case extract and the
// district bridge.
//
// District references resolve through the same bridge the usage fact uses,
// so both facts cite one district key space. A case row whose district
// code is absent from the bridge cannot be constructed from a known
// dimension row; that is a fatal referential violation, not a drop.
//
// The window keeps one trailing day (2021-12-31) purely so the day-over-day
// delta exists for January 1st; those seed rows are removed after
// derivation and never reach the output.
func BuildCaseFact(raw, districtBridge *table.Table) (*table.Table, error) {
	t := raw.Select(func(r table.Row) bool {
		return inWindow(r.Value("date"), caseSeedDate, windowEnd)
	})

	// A fact row with no district is unusable; documented drop policy.
	t = t.Select(func(r table.Row) bool {
		return r.Value("district_code") != nil
	})

	t, err := t.Join(districtBridge, []string{"district_code"}, table.LeftJoin)
	if err != nil {
		return nil, wrapStage("fact_covid_cases", err)
	}
	for i := 0; i < t.NumRows(); i++ {
		r := t.Row(i)
		if r.Value("district_id") == nil {
			return nil, fmt.Errorf("fact_covid_cases: district code %v has no dimension row", r.Value("district_code"))
		}
	}

	t, err = t.Rename(map[string]string{"district_id": "district_ref"})
	if err != nil {
		return nil, wrapStage("fact_covid_cases", err)
	}

	// Window derivation needs (district, date) order; dates are still ISO
	// here so the sort is chronological.
	t, err = t.Sort("district_ref", "date")
	if err != nil {
		return nil, wrapStage("fact_covid_cases", err)
	}

	t, err = t.Derive("increase_cases", func(cur, prev table.Row) any {
		if !prev.Valid() || prev.Value("district_ref") != cur.Value("district_ref") {
			// First in-window row of a district; by construction this is
			// the seed day, which is dropped below.
			return int64(0)
		}
		curTotal, _ := table.AsInt(cur.Value("total_cases"))
		prevTotal, _ := table.AsInt(prev.Value("total_cases"))
		return curTotal - prevTotal
	})
	if err != nil {
		return nil, wrapStage("fact_covid_cases", err)
	}

	t, err = t.Derive("percent_increase_cases", func(cur, _ table.Row) any {
		total, _ := table.AsInt(cur.Value("total_cases"))
		if total == 0 {
			// A district reporting zero cumulative cases has no growth to
			// express; 0.0 rather than a division error.
			return float64(0)
		}
		inc, _ := table.AsInt(cur.Value("increase_cases"))
		return round4(float64(inc) / float64(total))
	})
	if err != nil {
		return nil, wrapStage("fact_covid_cases", err)
	}

	t = t.Select(func(r table.Row) bool {
		s, _ := table.AsString(r.Value("date"))
		return s != caseSeedDate
	})

	t, err = t.ReformatDate("date", sourceDateLayout, outputDateLayout)
	if err != nil {
		return nil, wrapStage("fact_covid_cases", err)
	}

	t, err = t.Project(
		"date", "district_ref", "total_cases", "total_cured", "total_deaths",
		"increase_cases", "percent_increase_cases",
	)
	if err != nil {
		return nil, wrapStage("fact_covid_cases", err)
	}
	return t, nil
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}
