package warehouse

import (
	"covidwh/internal/table"
)

// BuildStationDim builds dim_vaccination_stations plus its bridge table.
//
// Keys are assigned after a sort by station_code, which fixes a
// deterministic key order regardless of source row order. The nullable
// accessibility flag becomes a plain 0/1: missing means "not accessible"
// in the source feed, a documented data-quality policy rather than an
// error.
//
// The bridge [station_id, station_code, district_code] exists only to let
// the usage-fact builder resolve station and district references; it is
// never persisted.
func BuildStationDim(raw *table.Table) (dim, bridge *table.Table, err error) {
	keyed, err := raw.AssignKey("station_id", "station_code")
	if err != nil {
		return nil, nil, wrapStage("dim_vaccination_stations", err)
	}

	dim, err = keyed.Project(
		"station_id", "station_code", "station_name", "station_address",
		"operational_status", "minimal_capacity", "accessibility",
	)
	if err != nil {
		return nil, nil, wrapStage("dim_vaccination_stations", err)
	}
	dim, err = dim.FillMissing("accessibility", int64(0))
	if err != nil {
		return nil, nil, wrapStage("dim_vaccination_stations", err)
	}

	bridge, err = keyed.Project("station_id", "station_code", "district_code")
	if err != nil {
		return nil, nil, wrapStage("dim_vaccination_stations", err)
	}
	return dim, bridge, nil
}
