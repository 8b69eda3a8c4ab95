package csv

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"

	"covidwh/internal/config"
	"covidwh/internal/schema"
)

func TestReadTableMapsCzechHeaders(t *testing.T) {
	t.Parallel()

	src := strings.Join([]string{
		"datum,okres_lau_kod,kumulativni_pocet_nakazenych,kumulativni_pocet_vylecenych,kumulativni_pocet_umrti",
		"2022-01-01,CZ0100,110,52,5",
		"2022-01-02,,7,0,0",
	}, "\n")

	got, err := ReadTable(strings.NewReader(src), schema.Cases, nil)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if cols := got.Columns(); cols[0] != "date" || cols[1] != "district_code" {
		t.Fatalf("columns = %v", cols)
	}
	r := got.Row(0)
	if r.Value("date") != "2022-01-01" || r.Value("district_code") != "CZ0100" || r.Value("total_cases") != int64(110) {
		t.Fatalf("row 0 = %v", got.Rows()[0])
	}
	// Empty cell parses as missing, not empty string.
	if v := got.Row(1).Value("district_code"); v != nil {
		t.Fatalf("empty cell = %#v, want nil", v)
	}
}

func TestReadTableStripsBOMAndTrims(t *testing.T) {
	t.Parallel()

	src := "\uFEFFdistrict,population\n Benešov ,99000\n"
	got, err := ReadTable(strings.NewReader(src), schema.Population, nil)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if v := got.Row(0).Value("district_name"); v != "Benešov" {
		t.Fatalf("district_name = %q", v)
	}
	if v := got.Row(0).Value("population"); v != int64(99000) {
		t.Fatalf("population = %v", v)
	}
}

func TestReadTableMissingContractColumn(t *testing.T) {
	t.Parallel()

	src := "datum,okres_lau_kod\n2022-01-01,CZ0100\n"
	_, err := ReadTable(strings.NewReader(src), schema.Cases, nil)
	if err == nil {
		t.Fatal("expected error for missing contract column")
	}
	if !strings.Contains(err.Error(), "missing column") {
		t.Fatalf("err = %v", err)
	}
}

func TestReadTableCoercionFailureIsFatal(t *testing.T) {
	t.Parallel()

	src := "district,population\nBenešov,many\n"
	if _, err := ReadTable(strings.NewReader(src), schema.Population, nil); err == nil {
		t.Fatal("expected error for non-numeric cell")
	}
}

func TestReadTableAcceptsIntegralFloatRendering(t *testing.T) {
	t.Parallel()

	src := "district,population\nBenešov,99000.0\n"
	got, err := ReadTable(strings.NewReader(src), schema.Population, nil)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if v := got.Row(0).Value("population"); v != int64(99000) {
		t.Fatalf("population = %v (%T)", v, v)
	}
}

func TestReadTableWindows1250(t *testing.T) {
	t.Parallel()

	utf8 := "district,population\nBenešov,99000\n"
	raw, err := charmap.Windows1250.NewEncoder().Bytes([]byte(utf8))
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	opt := config.Options{"encoding": "windows-1250"}
	got, err := ReadTable(bytes.NewReader(raw), schema.Population, opt)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if v := got.Row(0).Value("district_name"); v != "Benešov" {
		t.Fatalf("district_name = %q", v)
	}
}

func TestReadTableUnsupportedEncoding(t *testing.T) {
	t.Parallel()

	opt := config.Options{"encoding": "koi8-r"}
	if _, err := ReadTable(strings.NewReader("a\n"), schema.Population, opt); err == nil {
		t.Fatal("expected error for unsupported encoding")
	}
}

func TestReadTableHeaderMapOverride(t *testing.T) {
	t.Parallel()

	src := "okres,obyvatel\nBenešov,99000\n"
	opt := config.Options{"header_map": map[string]any{
		"okres":    "district_name",
		"obyvatel": "population",
	}}
	got, err := ReadTable(strings.NewReader(src), schema.Population, opt)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if v := got.Row(0).Value("population"); v != int64(99000) {
		t.Fatalf("population = %v", v)
	}
}

func TestReadTableCustomDelimiter(t *testing.T) {
	t.Parallel()

	src := "district;population\nBenešov;99000\n"
	opt := config.Options{"comma": ";"}
	got, err := ReadTable(strings.NewReader(src), schema.Population, opt)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.NumRows() != 1 {
		t.Fatalf("NumRows = %d, want 1", got.NumRows())
	}
}
