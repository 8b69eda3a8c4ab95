package schema

// VaccineEncoding is the manufacturer→code dictionary used to turn the
// free-text manufacturer column of the usage extract into vaccine_ref
// foreign keys. It is explicit, versioned configuration passed into the
// usage-fact builder — never ambient state — and it must be exhaustive:
// the encode step fails the run on any manufacturer it does not list.
type VaccineEncoding struct {
	Version int
	Codes   map[string]int64
}

// DefaultVaccineEncoding returns version 1 of the dictionary, covering
// every manufacturer present in the source feed. Code 4 is retired
// (an earlier Johnson & Johnson assignment superseded by 11) and must not
// be reused.
func DefaultVaccineEncoding() VaccineEncoding {
	return VaccineEncoding{
		Version: 1,
		Codes: map[string]int64{
			"Pfizer":            1,
			"Moderna":           2,
			"AstraZeneca":       3,
			"Gam-COVID-Vac":     5,
			"Sinovac":           6,
			"Sinopharm":         7,
			"Covaxin":           8,
			"Convidicea":        9,
			"ЭпиВакКорона":      10,
			"Johnson & Johnson": 11,
			"CoviVac":           12,
			"RBD-Dimer":         13,
			"WIBP-Cor":          14,
			"QazCovid-in":       15,
		},
	}
}
