package schema

import (
	"testing"
)

func TestContractsMapKnownCzechHeaders(t *testing.T) {
	t.Parallel()

	cases := []struct {
		contract Contract
		source   string
		want     string
	}{
		{Cases, "kumulativni_pocet_nakazenych", "total_cases"},
		{Cases, "okres_lau_kod", "district_code"},
		{Usage, "vyrobce", "vaccine"},
		{Usage, "znehodnocene_davky", "invalid_doses"},
		{Stations, "bezbarierovy_pristup", "accessibility"},
		{Districts, "code", "district_code"},
	}
	for _, tc := range cases {
		if got := tc.contract.HeaderMap[tc.source]; got != tc.want {
			t.Errorf("%s: header %q maps to %q, want %q", tc.contract.Name, tc.source, got, tc.want)
		}
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	if k := Cases.KindOf("total_cases"); k != Int {
		t.Fatalf("total_cases kind = %v", k)
	}
	if k := Cases.KindOf("date"); k != String {
		t.Fatalf("date kind = %v", k)
	}
	if k := Cases.KindOf("unknown"); k != String {
		t.Fatalf("unknown column kind = %v, want String default", k)
	}
}

func TestDefaultVaccineEncoding(t *testing.T) {
	t.Parallel()

	enc := DefaultVaccineEncoding()
	if enc.Version != 1 {
		t.Fatalf("version = %d", enc.Version)
	}
	if enc.Codes["Pfizer"] != 1 || enc.Codes["Johnson & Johnson"] != 11 {
		t.Fatalf("codes = %v", enc.Codes)
	}

	// Code 4 is retired and must stay unassigned.
	for maker, code := range enc.Codes {
		if code == 4 {
			t.Fatalf("code 4 reassigned to %q", maker)
		}
	}

	// Codes must be unique: two manufacturers sharing a code would merge
	// in the usage fact.
	seen := map[int64]string{}
	for maker, code := range enc.Codes {
		if prev, dup := seen[code]; dup {
			t.Fatalf("code %d shared by %q and %q", code, maker, prev)
		}
		seen[code] = maker
	}
}

func TestWarehouseTablesOrderAndKeys(t *testing.T) {
	t.Parallel()

	specs := WarehouseTables()
	var names []string
	for _, s := range specs {
		names = append(names, s.Name)
	}
	want := []string{DimDates, DimDistricts, DimStations, DimVaccines, FactCases, FactUsage}
	if len(names) != len(want) {
		t.Fatalf("tables = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("tables = %v, want %v", names, want)
		}
	}

	for _, s := range specs {
		pk := 0
		refs := 0
		for _, c := range s.Columns {
			if c.PrimaryKey {
				pk++
			}
			if c.References != "" {
				refs++
			}
		}
		switch s.Name {
		case FactCases, FactUsage:
			if pk != 0 {
				t.Errorf("%s: facts carry no surrogate primary key", s.Name)
			}
			if refs < 2 {
				t.Errorf("%s: expected at least two dimension references, got %d", s.Name, refs)
			}
		default:
			if pk != 1 {
				t.Errorf("%s: dimension needs exactly one primary key, got %d", s.Name, pk)
			}
		}
	}
}
