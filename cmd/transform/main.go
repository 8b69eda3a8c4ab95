// Command transform turns the seven raw COVID extracts into the six
// warehouse tables (galaxy schema), writes them out as CSV, and
// optionally loads them into a configured database.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"covidwh/internal/config"
	"covidwh/internal/metrics"
	"covidwh/internal/metrics/datadog"

	// register all backends with the storage factory.
	// config specifies which to use but we need to build in support for all of them.
	_ "covidwh/internal/storage/all"
)

func main() {
	var (
		cfgPath           string
		metricsBackendFlg string
		validate          bool
	)

	flag.StringVar(&cfgPath, "config", "configs/transform.json", "pipeline config JSON path")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend to use (datadog, none)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	logger := newLogger(*verbose)

	f, err := os.Open(cfgPath)
	if err != nil {
		fatalf("open config: %v", err)
	}
	defer f.Close()

	var p config.Pipeline
	if err := json.NewDecoder(f).Decode(&p); err != nil {
		fatalf("decode config: %v", err)
	}

	issues := config.ValidatePipeline(p)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		logger.Error("configuration is invalid", "path", cfgPath)
		os.Exit(1)
	}

	if validate {
		logger.Info("configuration is valid", "path", cfgPath)
		os.Exit(0)
	}

	// Decide metrics backend: flag → env → default.
	backendName := metricsBackendFlg
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	switch backendName {
	case "datadog":
		jobName := p.Job
		if jobName == "" {
			jobName = "covidwh_transform"
		}
		extraTags := datadog.ParseTagsCSV(os.Getenv("METRICS_TAGS"))

		b, err := datadog.NewBackend(context.Background(), datadog.Options{
			JobName: jobName,
			Tags:    extraTags,
		})
		if err != nil {
			logger.Warn("metrics: datadog init failed; using nop", "err", err)
		} else {
			logger.Info("metrics enabled", "backend", backendName, "job", jobName, "tags", extraTags)
			metrics.SetBackend(b)
			// Close stops the periodic flush loop and submits once more.
			defer func() {
				if err := b.Close(); err != nil {
					logger.Warn("metrics: datadog close/flush error", "err", err)
				}
			}()
		}

	case "", "none":
		if *verbose {
			logger.Debug("metrics disabled", "backend", backendName)
		}

	default:
		logger.Warn("metrics: unknown backend; metrics disabled", "backend", backendName)
	}

	ctx := context.Background()
	start := time.Now()

	if err := run(ctx, p, logger); err != nil {
		logger.Error("transform failed", "err", err)
		os.Exit(1)
	}

	logger.Info("transform completed", "duration", time.Since(start).Truncate(time.Millisecond))
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
	}))
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
