package warehouse

import (
	"covidwh/internal/table"
)

// BuildDistrictDim builds dim_districts plus its bridge table from three
// raw sources: the district list, the region list, and the population
// table.
//
// The join onto regions is a right join: every region must survive even
// without a matching district row. The capital is both a region and its
// own district but is absent from the district list, so its district row
// is synthesized from the region row, with district_code = region_code+"0"
// by NUTS convention. Population joins left because a missing population
// figure must not drop a district.
func BuildDistrictDim(districts, regions, population *table.Table) (dim, bridge *table.Table, err error) {
	t, err := districts.Join(regions, []string{"region_name"}, table.RightJoin)
	if err != nil {
		return nil, nil, wrapStage("dim_districts", err)
	}

	t, err = t.FillMissingFunc("district_name", func(r table.Row) any {
		return r.Value("region_name")
	})
	if err != nil {
		return nil, nil, wrapStage("dim_districts", err)
	}
	t, err = t.FillMissingFunc("district_code", func(r table.Row) any {
		code, ok := table.AsString(r.Value("region_code"))
		if !ok {
			return nil
		}
		return code + "0"
	})
	if err != nil {
		return nil, nil, wrapStage("dim_districts", err)
	}

	t, err = t.Join(population, []string{"district_name"}, table.LeftJoin)
	if err != nil {
		return nil, nil, wrapStage("dim_districts", err)
	}

	t, err = t.AssignKey("district_id", "district_code")
	if err != nil {
		return nil, nil, wrapStage("dim_districts", err)
	}

	dim, err = t.Project("district_id", "district_name", "district_code", "region_name", "region_code", "population")
	if err != nil {
		return nil, nil, wrapStage("dim_districts", err)
	}

	bridge, err = t.Project("district_id", "district_code")
	if err != nil {
		return nil, nil, wrapStage("dim_districts", err)
	}
	return dim, bridge, nil
}
