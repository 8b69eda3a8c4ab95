package warehouse

import (
	"fmt"
	"sort"
	"time"

	"covidwh/internal/table"
)

// BuildDateDim builds dim_dates from the distinct dates of both finished
// fact tables and rewrites the facts' literal date columns into date_ref
// foreign keys. It must run after both fact builders: the date set is
// derived from their final, post-filter contents.
func BuildDateDim(cases, usage *table.Table) (dates, casesOut, usageOut *table.Table, err error) {
	caseDates, err := cases.Project("date")
	if err != nil {
		return nil, nil, nil, wrapStage("dim_dates", err)
	}
	usageDates, err := usage.Project("date")
	if err != nil {
		return nil, nil, nil, wrapStage("dim_dates", err)
	}
	all, err := caseDates.Append(usageDates)
	if err != nil {
		return nil, nil, nil, wrapStage("dim_dates", err)
	}
	all = all.Distinct()

	// Chronological key order; the display format does not sort as text.
	type day struct {
		s string
		t time.Time
	}
	days := make([]day, 0, all.NumRows())
	for i := 0; i < all.NumRows(); i++ {
		s, ok := table.AsString(all.Row(i).Value("date"))
		if !ok {
			return nil, nil, nil, fmt.Errorf("dim_dates: non-string date %v", all.Row(i).Value("date"))
		}
		d, err := time.Parse(outputDateLayout, s)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("dim_dates: %w", err)
		}
		days = append(days, day{s: s, t: d})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].t.Before(days[j].t) })

	rows := make([][]any, len(days))
	for i, d := range days {
		rows[i] = []any{
			int64(i + 1),
			d.s,
			int64(d.t.Year()),
			int64(d.t.Month()),
			d.t.Month().String(),
			int64(d.t.Day()),
			d.t.Weekday().String(),
		}
	}
	dates, err = table.New(
		[]string{"date_id", "date", "year", "month", "month_name", "day", "day_of_week"},
		rows,
	)
	if err != nil {
		return nil, nil, nil, wrapStage("dim_dates", err)
	}

	casesOut, err = replaceDateColumn(dates, cases,
		"date_ref", "district_ref", "total_cases", "total_cured", "total_deaths",
		"increase_cases", "percent_increase_cases")
	if err != nil {
		return nil, nil, nil, wrapStage("dim_dates", err)
	}
	usageOut, err = replaceDateColumn(dates, usage,
		"date_ref", "station_ref", "district_ref", "vaccine_ref",
		"used_ampules", "spoiled_ampules", "administered_doses", "invalid_doses")
	if err != nil {
		return nil, nil, nil, wrapStage("dim_dates", err)
	}
	return dates, casesOut, usageOut, nil
}

// replaceDateColumn swaps a fact's literal date column for a date_ref
// foreign key and projects to the final column order. The join is inner:
// the key table was derived from this fact's own dates, so nothing can
// drop.
func replaceDateColumn(dates, fact *table.Table, finalCols ...string) (*table.Table, error) {
	key, err := dates.Project("date_id", "date")
	if err != nil {
		return nil, err
	}
	joined, err := key.Join(fact, []string{"date"}, table.InnerJoin)
	if err != nil {
		return nil, err
	}
	joined, err = joined.Rename(map[string]string{"date_id": "date_ref"})
	if err != nil {
		return nil, err
	}
	return joined.Project(finalCols...)
}
