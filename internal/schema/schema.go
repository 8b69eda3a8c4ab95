// Package schema holds the fixed data contracts of the pipeline: the
// canonical column sets of the seven raw extracts, the header mappings from
// the Czech source files, the manufacturer encoding dictionary, and the
// column contracts of the six warehouse tables. These are the stability
// boundary external collaborators rely on; changing them is a pipeline
// version change.
package schema

// Kind is the scalar type of a raw column after parsing.
type Kind string

const (
	String Kind = "string"
	Int    Kind = "int"
	Float  Kind = "float"
	Bool   Kind = "bool"
)

// Column is one column of a raw extract contract.
type Column struct {
	Name string
	Kind Kind
}

// Contract is the agreed shape of one raw tabular extract. The CSV reader
// aligns source files to it: canonical names via HeaderMap, cell types via
// the column kinds, empty cells become missing (nil).
type Contract struct {
	Name    string
	Columns []Column

	// HeaderMap maps source header names (often Czech) to canonical column
	// names. Headers not present here map by lowercasing and replacing
	// spaces with underscores.
	HeaderMap map[string]string
}

// ColumnNames returns the canonical column names in contract order.
func (c Contract) ColumnNames() []string {
	out := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		out[i] = col.Name
	}
	return out
}

// KindOf returns the declared kind of a canonical column, defaulting to
// String for unknown names.
func (c Contract) KindOf(name string) Kind {
	for _, col := range c.Columns {
		if col.Name == name {
			return col.Kind
		}
	}
	return String
}

// Raw extract contracts. Column order matches the agreed extract layout.
var (
	Vaccines = Contract{
		Name: "vaccines",
		Columns: []Column{
			{Name: "vaccine", Kind: String},
			{Name: "origin", Kind: String},
			{Name: "technology", Kind: String},
			{Name: "storage_temp", Kind: String},
		},
		HeaderMap: map[string]string{
			"country of origin":   "origin",
			"storage temperature": "storage_temp",
		},
	}

	Stations = Contract{
		Name: "vaccination_stations",
		Columns: []Column{
			{Name: "station_code", Kind: String},
			{Name: "station_name", Kind: String},
			{Name: "station_address", Kind: String},
			{Name: "operational_status", Kind: Int},
			{Name: "minimal_capacity", Kind: Int},
			{Name: "accessibility", Kind: Int},
			{Name: "district_code", Kind: String},
		},
		HeaderMap: map[string]string{
			"ockovaci_misto_id":     "station_code",
			"ockovaci_misto_nazev":  "station_name",
			"ockovaci_misto_adresa": "station_address",
			"operacni_status":       "operational_status",
			"minimalni_kapacita":    "minimal_capacity",
			"bezbarierovy_pristup":  "accessibility",
			"okres_nuts_kod":        "district_code",
		},
	}

	Districts = Contract{
		Name: "districts",
		Columns: []Column{
			{Name: "district_code", Kind: String},
			{Name: "district_name", Kind: String},
			{Name: "region_name", Kind: String},
		},
		HeaderMap: map[string]string{
			"code":     "district_code",
			"district": "district_name",
			"region":   "region_name",
		},
	}

	Regions = Contract{
		Name: "regions",
		Columns: []Column{
			{Name: "region_code", Kind: String},
			{Name: "region_name", Kind: String},
		},
		HeaderMap: map[string]string{
			"code":   "region_code",
			"region": "region_name",
		},
	}

	Population = Contract{
		Name: "population",
		Columns: []Column{
			{Name: "district_name", Kind: String},
			{Name: "population", Kind: Int},
		},
		HeaderMap: map[string]string{
			"district": "district_name",
		},
	}

	Usage = Contract{
		Name: "vaccine_usage",
		Columns: []Column{
			{Name: "date", Kind: String},
			{Name: "station_code", Kind: String},
			{Name: "district_code", Kind: String},
			{Name: "vaccine", Kind: String},
			{Name: "used_ampules", Kind: Int},
			{Name: "spoiled_ampules", Kind: Int},
			{Name: "administered_doses", Kind: Int},
			{Name: "invalid_doses", Kind: Int},
		},
		HeaderMap: map[string]string{
			"datum":                "date",
			"ockovaci_misto_kod":   "station_code",
			"okres_nuts_kod":       "district_code",
			"vyrobce":              "vaccine",
			"pouzite_ampulky":      "used_ampules",
			"znehodnocene_ampulky": "spoiled_ampules",
			"pouzite_davky":        "administered_doses",
			"znehodnocene_davky":   "invalid_doses",
		},
	}

	Cases = Contract{
		Name: "covid_cases",
		Columns: []Column{
			{Name: "date", Kind: String},
			{Name: "district_code", Kind: String},
			{Name: "total_cases", Kind: Int},
			{Name: "total_cured", Kind: Int},
			{Name: "total_deaths", Kind: Int},
		},
		HeaderMap: map[string]string{
			"datum":                        "date",
			"okres_lau_kod":                "district_code",
			"kumulativni_pocet_nakazenych": "total_cases",
			"kumulativni_pocet_vylecenych": "total_cured",
			"kumulativni_pocet_umrti":      "total_deaths",
		},
	}
)
