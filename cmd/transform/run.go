package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"covidwh/internal/config"
	csvparser "covidwh/internal/parser/csv"
	"covidwh/internal/schema"
	"covidwh/internal/storage"
	"covidwh/internal/table"
	"covidwh/internal/warehouse"
)

// run executes one full transform: read the raw extracts, build the
// warehouse tables, write them as CSV, and load them into storage when a
// backend is configured.
func run(ctx context.Context, p config.Pipeline, logger *slog.Logger) error {
	in, err := readInputs(p.Datasets, logger)
	if err != nil {
		return err
	}

	enc := schema.DefaultVaccineEncoding()
	if p.Encoding != nil {
		enc = schema.VaccineEncoding{Version: p.Encoding.Version, Codes: p.Encoding.Codes}
		logger.Info("using encoding override", "version", enc.Version, "codes", len(enc.Codes))
	}

	out, err := warehouse.Run(in, enc, slogPrintf{logger})
	if err != nil {
		return err
	}

	for _, nt := range out.ByName() {
		path := filepath.Join(p.Output.Dir, nt.Name+".csv")
		if err := csvparser.WriteFile(path, nt.Table); err != nil {
			return err
		}
		logger.Debug("wrote table", "table", nt.Name, "rows", nt.Table.NumRows(), "path", path)
	}

	if p.Storage.Kind == "" {
		return nil
	}
	return load(ctx, p.Storage, out, logger)
}

func readInputs(d config.DatasetsConfig, logger *slog.Logger) (warehouse.Inputs, error) {
	var in warehouse.Inputs

	for _, src := range []struct {
		name     string
		contract schema.Contract
		dst      **table.Table
	}{
		{"vaccines", schema.Vaccines, &in.Vaccines},
		{"vaccination_stations", schema.Stations, &in.Stations},
		{"districts", schema.Districts, &in.Districts},
		{"regions", schema.Regions, &in.Regions},
		{"population", schema.Population, &in.Population},
		{"vaccine_usage", schema.Usage, &in.Usage},
		{"covid_cases", schema.Cases, &in.Cases},
	} {
		path := filepath.Join(d.Dir, d.DatasetFile(src.name))
		t, err := csvparser.ReadFile(path, src.contract, d.Parser)
		if err != nil {
			return warehouse.Inputs{}, fmt.Errorf("read %s: %w", src.name, err)
		}
		logger.Debug("read dataset", "dataset", src.name, "rows", t.NumRows(), "path", path)
		*src.dst = t
	}

	return in, nil
}

// load replaces the warehouse tables in the configured database,
// dimensions before facts so the fact references always resolve.
func load(ctx context.Context, cfg config.StorageConfig, out warehouse.Tables, logger *slog.Logger) error {
	loader, err := storage.New(ctx, storage.Config{Kind: cfg.Kind, DSN: cfg.DSN})
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer loader.Close()

	if err := loader.EnsureTables(ctx, schema.WarehouseTables()); err != nil {
		return err
	}

	// Clear the facts first: rows left over from a previous run hold
	// references into the dimensions and would block their rebuild.
	for _, name := range []string{schema.FactCases, schema.FactUsage} {
		if _, err := loader.ReplaceTable(ctx, name, nil, nil); err != nil {
			return fmt.Errorf("clear %s: %w", name, err)
		}
	}

	for _, nt := range out.ByName() {
		n, err := loader.ReplaceTable(ctx, nt.Name, nt.Table.Columns(), nt.Table.Rows())
		if err != nil {
			return fmt.Errorf("load %s: %w", nt.Name, err)
		}
		logger.Info("loaded table", "table", nt.Name, "rows", n, "backend", cfg.Kind)
	}
	return nil
}

// slogPrintf adapts slog to the transform stage's Printf logging seam.
type slogPrintf struct {
	l *slog.Logger
}

func (s slogPrintf) Printf(format string, v ...any) {
	s.l.Info(fmt.Sprintf(format, v...))
}
