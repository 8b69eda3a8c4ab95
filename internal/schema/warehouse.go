package schema

import "covidwh/internal/storage"

// Warehouse table names. External consumers (load stage, cube exports)
// address tables by these names.
const (
	DimDates     = "dim_dates"
	DimDistricts = "dim_districts"
	DimStations  = "dim_vaccination_stations"
	DimVaccines  = "dim_vaccines"
	FactCases    = "fact_covid_cases"
	FactUsage    = "fact_vaccine_usage"
)

// WarehouseTables returns the DDL specs of the six warehouse tables, in a
// creation order that satisfies the foreign-key references (dimensions
// before facts).
func WarehouseTables() []storage.TableSpec {
	return []storage.TableSpec{
		{
			Name: DimDates,
			Columns: []storage.ColumnSpec{
				{Name: "date_id", Type: "int", PrimaryKey: true},
				{Name: "date", Type: "text"},
				{Name: "year", Type: "int"},
				{Name: "month", Type: "int"},
				{Name: "month_name", Type: "text"},
				{Name: "day", Type: "int"},
				{Name: "day_of_week", Type: "text"},
			},
		},
		{
			Name: DimDistricts,
			Columns: []storage.ColumnSpec{
				{Name: "district_id", Type: "int", PrimaryKey: true},
				{Name: "district_name", Type: "text"},
				{Name: "district_code", Type: "text"},
				{Name: "region_name", Type: "text"},
				{Name: "region_code", Type: "text"},
				{Name: "population", Type: "int", Nullable: true},
			},
		},
		{
			Name: DimStations,
			Columns: []storage.ColumnSpec{
				{Name: "station_id", Type: "int", PrimaryKey: true},
				{Name: "station_code", Type: "text"},
				{Name: "station_name", Type: "text"},
				{Name: "station_address", Type: "text"},
				{Name: "operational_status", Type: "int", Nullable: true},
				{Name: "minimal_capacity", Type: "int", Nullable: true},
				{Name: "accessibility", Type: "int"},
			},
		},
		{
			Name: DimVaccines,
			Columns: []storage.ColumnSpec{
				{Name: "vaccine_id", Type: "int", PrimaryKey: true},
				{Name: "vaccine_name", Type: "text"},
				{Name: "manufacturer", Type: "text"},
				{Name: "origin", Type: "text"},
				{Name: "technology", Type: "text"},
				{Name: "storage_temp", Type: "text"},
			},
		},
		{
			Name: FactCases,
			Columns: []storage.ColumnSpec{
				{Name: "date_ref", Type: "int", References: DimDates + "(date_id)"},
				{Name: "district_ref", Type: "int", References: DimDistricts + "(district_id)"},
				{Name: "total_cases", Type: "int"},
				{Name: "total_cured", Type: "int"},
				{Name: "total_deaths", Type: "int"},
				{Name: "increase_cases", Type: "int"},
				{Name: "percent_increase_cases", Type: "real"},
			},
		},
		{
			Name: FactUsage,
			Columns: []storage.ColumnSpec{
				{Name: "date_ref", Type: "int", References: DimDates + "(date_id)"},
				{Name: "station_ref", Type: "int", References: DimStations + "(station_id)"},
				{Name: "district_ref", Type: "int", References: DimDistricts + "(district_id)"},
				{Name: "vaccine_ref", Type: "int", References: DimVaccines + "(vaccine_id)"},
				{Name: "used_ampules", Type: "int", Nullable: true},
				{Name: "spoiled_ampules", Type: "int", Nullable: true},
				{Name: "administered_doses", Type: "int"},
				{Name: "invalid_doses", Type: "int"},
			},
		},
	}
}
