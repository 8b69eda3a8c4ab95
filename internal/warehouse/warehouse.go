// Package warehouse builds the six warehouse tables of the COVID reporting
// mart (galaxy schema: two fact tables over four shared dimensions) from
// the seven raw tabular extracts. Every builder is a pure function over
// immutable table values; Run wires them in dependency order.
package warehouse

import (
	"fmt"
	"log"
	"time"

	"covidwh/internal/metrics"
	"covidwh/internal/schema"
	"covidwh/internal/table"
)

// Logger is the minimal logging interface used by the transform stage.
// *log.Logger satisfies this interface.
type Logger interface {
	Printf(format string, v ...any)
}

// Date layouts and the reporting window. Raw extracts carry ISO dates;
// warehouse tables display DD.MM.YYYY.
const (
	sourceDateLayout = "2006-01-02"
	outputDateLayout = "02.01.2006"

	windowStart = "2022-01-01"
	windowEnd   = "2022-01-14"

	// caseSeedDate is the one trailing day kept during case-fact
	// computation so day-1 deltas exist. It never reaches the output.
	caseSeedDate = "2021-12-31"
)

// Inputs are the raw extracts handed over by the extraction collaborator,
// already aligned to the canonical contracts in internal/schema.
type Inputs struct {
	Vaccines   *table.Table
	Stations   *table.Table
	Districts  *table.Table
	Regions    *table.Table
	Population *table.Table
	Usage      *table.Table
	Cases      *table.Table
}

// Tables are the finished warehouse tables, ready for the load stage.
type Tables struct {
	Dates     *table.Table
	Districts *table.Table
	Stations  *table.Table
	Vaccines  *table.Table
	Cases     *table.Table
	Usage     *table.Table
}

// ByName returns the tables keyed by their warehouse names, in load order
// (dimensions before facts).
func (t Tables) ByName() []NamedTable {
	return []NamedTable{
		{schema.DimDates, t.Dates},
		{schema.DimDistricts, t.Districts},
		{schema.DimStations, t.Stations},
		{schema.DimVaccines, t.Vaccines},
		{schema.FactCases, t.Cases},
		{schema.FactUsage, t.Usage},
	}
}

type NamedTable struct {
	Name  string
	Table *table.Table
}

// Run executes the full transform: the three independent dimension
// builders, the two fact builders over the transient bridge tables, the
// date dimension over the finished facts, and a final referential
// integrity check. The first failing stage aborts the run; nothing built
// by a failed stage is returned.
func Run(in Inputs, enc schema.VaccineEncoding, logger Logger) (Tables, error) {
	logf := loggerf(logger)
	var out Tables

	districts, districtBridge, err := timed(logf, "dim_districts", func() (*table.Table, *table.Table, error) {
		return BuildDistrictDim(in.Districts, in.Regions, in.Population)
	})
	if err != nil {
		return Tables{}, err
	}
	out.Districts = districts

	out.Vaccines, err = timed1(logf, "dim_vaccines", func() (*table.Table, error) {
		return BuildVaccineDim(in.Vaccines)
	})
	if err != nil {
		return Tables{}, err
	}

	stations, stationBridge, err := timed(logf, "dim_vaccination_stations", func() (*table.Table, *table.Table, error) {
		return BuildStationDim(in.Stations)
	})
	if err != nil {
		return Tables{}, err
	}
	out.Stations = stations

	cases, err := timed1(logf, "fact_covid_cases", func() (*table.Table, error) {
		return BuildCaseFact(in.Cases, districtBridge)
	})
	if err != nil {
		return Tables{}, err
	}

	usage, err := timed1(logf, "fact_vaccine_usage", func() (*table.Table, error) {
		return BuildUsageFact(in.Usage, districtBridge, stationBridge, enc)
	})
	if err != nil {
		return Tables{}, err
	}

	// The date dimension needs the final (post-filter) date sets of both
	// facts, so it runs last and rewrites their date columns in place of
	// literal dates.
	out.Dates, out.Cases, out.Usage, err = timed3(logf, "dim_dates", func() (*table.Table, *table.Table, *table.Table, error) {
		return BuildDateDim(cases, usage)
	})
	if err != nil {
		return Tables{}, err
	}

	if err := stage(logf, "integrity_check", func() error { return VerifyIntegrity(out) }); err != nil {
		return Tables{}, err
	}

	for _, nt := range out.ByName() {
		metrics.IncCounter("transform_rows_total", float64(nt.Table.NumRows()), metrics.Labels{"table": nt.Name})
	}
	return out, nil
}

func loggerf(l Logger) func(format string, v ...any) {
	if l == nil {
		nop := log.New(discardWriter{}, "", 0)
		return nop.Printf
	}
	return l.Printf
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// stage runs fn with per-stage logging and metrics. Failures are logged
// and counted before being returned.
func stage(logf func(string, ...any), name string, fn func() error) error {
	start := time.Now()
	err := fn()
	dur := time.Since(start).Truncate(time.Millisecond)

	status := "ok"
	if err != nil {
		status = "error"
	}
	labels := metrics.Labels{"step": name, "status": status}
	metrics.IncCounter("transform_step_total", 1, labels)
	metrics.ObserveHistogram("transform_step_duration_seconds", time.Since(start).Seconds(), labels)

	if err != nil {
		logf("stage=%s error duration=%s err=%v", name, dur, err)
		return err
	}
	logf("stage=%s ok duration=%s", name, dur)
	return nil
}

func timed1(logf func(string, ...any), name string, fn func() (*table.Table, error)) (*table.Table, error) {
	var t *table.Table
	err := stage(logf, name, func() (err error) {
		t, err = fn()
		return err
	})
	return t, err
}

func timed(logf func(string, ...any), name string, fn func() (*table.Table, *table.Table, error)) (*table.Table, *table.Table, error) {
	var a, b *table.Table
	err := stage(logf, name, func() (err error) {
		a, b, err = fn()
		return err
	})
	return a, b, err
}

func timed3(logf func(string, ...any), name string, fn func() (*table.Table, *table.Table, *table.Table, error)) (*table.Table, *table.Table, *table.Table, error) {
	var a, b, c *table.Table
	err := stage(logf, name, func() (err error) {
		a, b, c, err = fn()
		return err
	})
	return a, b, c, err
}

// inWindow reports whether an ISO date cell lies in [from, to] inclusive.
// Lexicographic comparison is correct for the fixed-width ISO layout.
func inWindow(v any, from, to string) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	return s >= from && s <= to
}

func wrapStage(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}
