// Package config defines the JSON pipeline configuration for a transform
// run and its validation.
package config

import "fmt"

// Pipeline is the user-provided run configuration.
type Pipeline struct {
	Job      string          `json:"job"`
	Datasets DatasetsConfig  `json:"datasets"`
	Output   OutputConfig    `json:"output"`
	Storage  StorageConfig   `json:"storage"`
	Encoding *EncodingConfig `json:"encoding,omitempty"`
}

// DatasetsConfig locates the raw extracts.
type DatasetsConfig struct {
	Dir string `json:"dir"`

	// Files overrides the default file name per dataset
	// (e.g. "covid_cases": "cases-2022-01.csv").
	Files map[string]string `json:"files,omitempty"`

	// Parser options shared by all extracts (comma, encoding,
	// header_map, ...).
	Parser Options `json:"parser,omitempty"`
}

// OutputConfig locates the finished warehouse tables (CSV form).
type OutputConfig struct {
	Dir string `json:"dir"`
}

// StorageConfig selects the optional load backend. An empty Kind skips
// the load stage.
type StorageConfig struct {
	Kind string `json:"kind"` // "sqlite" | "postgres" | "mssql" | ""
	DSN  string `json:"dsn"`
}

// EncodingConfig overrides the built-in manufacturer encoding dictionary.
type EncodingConfig struct {
	Version int              `json:"version"`
	Codes   map[string]int64 `json:"codes"`
}

// Default dataset file names, matching the extraction collaborator's
// output convention.
var defaultFiles = map[string]string{
	"vaccines":             "vaccine_dataset.csv",
	"vaccination_stations": "vaccination_stations_dataset.csv",
	"districts":            "districts_dataset.csv",
	"regions":              "regions_dataset.csv",
	"population":           "population_dataset.csv",
	"vaccine_usage":        "vaccine_usage_dataset.csv",
	"covid_cases":          "covid_cases_dataset.csv",
}

// DatasetFile resolves the file name for a dataset, honoring overrides.
// Unknown dataset names return "".
func (d DatasetsConfig) DatasetFile(name string) string {
	if f, ok := d.Files[name]; ok {
		return f
	}
	return defaultFiles[name]
}

// Severity classifies validation issues.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one validation finding.
type Issue struct {
	Severity Severity
	Path     string
	Message  string
}

var storageKinds = map[string]bool{"": true, "sqlite": true, "postgres": true, "mssql": true}

// ValidatePipeline checks a pipeline config and returns all findings.
// Callers abort on any SeverityError issue.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue
	errf := func(path, format string, v ...any) {
		issues = append(issues, Issue{SeverityError, path, fmt.Sprintf(format, v...)})
	}
	warnf := func(path, format string, v ...any) {
		issues = append(issues, Issue{SeverityWarning, path, fmt.Sprintf(format, v...)})
	}

	if p.Job == "" {
		warnf("job", "empty job name; metrics will use the default")
	}
	if p.Datasets.Dir == "" {
		errf("datasets.dir", "required")
	}
	for name := range p.Datasets.Files {
		if _, known := defaultFiles[name]; !known {
			errf("datasets.files."+name, "unknown dataset")
		}
	}
	if p.Output.Dir == "" {
		errf("output.dir", "required")
	}
	if !storageKinds[p.Storage.Kind] {
		errf("storage.kind", "unsupported kind %q", p.Storage.Kind)
	}
	if p.Storage.Kind != "" && p.Storage.DSN == "" {
		errf("storage.dsn", "required when storage.kind is set")
	}
	if p.Encoding != nil {
		if p.Encoding.Version < 1 {
			errf("encoding.version", "must be >= 1")
		}
		if len(p.Encoding.Codes) == 0 {
			errf("encoding.codes", "must not be empty")
		}
	}
	return issues
}
