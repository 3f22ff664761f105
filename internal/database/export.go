package database

// Flat record shapes for the export endpoints. Joins fold the holder and
// region names in so the exported files are readable on their own.

type ParcelRecord struct {
	ParcelID       string  `json:"parcel_id"`
	TotalArea      float64 `json:"total_area"`
	CultivatedArea float64 `json:"cultivated_area"`
	SoilType       string  `json:"soil_type"`
	HolderName     string  `json:"land_holder_name"`
	RegionName     string  `json:"region_name"`
}

type PatternRecord struct {
	CropName      string  `json:"crop_name"`
	Year          int     `json:"year"`
	Season        string  `json:"season"`
	AreaAllocated float64 `json:"area_allocated"`
	YieldAmount   float64 `json:"yield_amount"`
	Revenue       float64 `json:"revenue"`
	ParcelID      string  `json:"parcel_id"`
}

type IrrigationRecord struct {
	SystemType       string  `json:"system_type"`
	WaterSource      string  `json:"water_source"`
	EfficiencyRating int     `json:"efficiency_rating"`
	AnnualWaterUsage float64 `json:"annual_water_usage"`
	ParcelID         string  `json:"parcel_id"`
}

func ExportParcels() ([]ParcelRecord, error) {
	rows := []ParcelRecord{}
	err := DB.Table("land_parcels").
		Joins("JOIN land_holders ON land_holders.id = land_parcels.land_holder_id").
		Joins("JOIN regions ON regions.id = land_holders.region_id").
		Select("land_parcels.parcel_id AS parcel_id, land_parcels.total_area AS total_area, land_parcels.cultivated_area AS cultivated_area, land_parcels.soil_type AS soil_type, land_holders.name AS holder_name, regions.name AS region_name").
		Order("land_parcels.parcel_id").
		Scan(&rows).Error
	return rows, err
}

func ExportPatterns() ([]PatternRecord, error) {
	rows := []PatternRecord{}
	err := DB.Table("cropping_patterns").
		Joins("JOIN crops ON crops.id = cropping_patterns.crop_id").
		Joins("JOIN land_parcels ON land_parcels.id = cropping_patterns.land_parcel_id").
		Select("crops.name AS crop_name, cropping_patterns.year AS year, cropping_patterns.season AS season, cropping_patterns.area_allocated AS area_allocated, cropping_patterns.yield_amount AS yield_amount, cropping_patterns.revenue AS revenue, land_parcels.parcel_id AS parcel_id").
		Order("cropping_patterns.year DESC, crops.name").
		Scan(&rows).Error
	return rows, err
}

func ExportIrrigation() ([]IrrigationRecord, error) {
	rows := []IrrigationRecord{}
	err := DB.Table("irrigation_systems").
		Joins("JOIN land_parcels ON land_parcels.id = irrigation_systems.land_parcel_id").
		Select("irrigation_systems.system_type AS system_type, irrigation_systems.water_source AS water_source, irrigation_systems.efficiency_rating AS efficiency_rating, irrigation_systems.annual_water_usage AS annual_water_usage, land_parcels.parcel_id AS parcel_id").
		Order("land_parcels.parcel_id").
		Scan(&rows).Error
	return rows, err
}
