package database

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// StatsFilter scopes an aggregation. The zero value means "everything".
// An id that matches nothing simply produces an empty result set.
type StatsFilter struct {
	RegionID uint
	SoilType string
	CropID   uint
	Since    time.Time // parcels: created_at cutoff; patterns: year cutoff
}

// ParsePeriod turns a time-period token ("7d", "30d", "90d", "365d") into
// a cutoff. Unknown tokens fall back to the 30 day default.
func ParsePeriod(token string) time.Time {
	days := 30
	if s, ok := strings.CutSuffix(strings.TrimSpace(token), "d"); ok {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			days = n
		}
	}
	return time.Now().AddDate(0, 0, -days)
}

// --- GROUPED ROW TYPES ---

type SoilGroup struct {
	SoilType  string  `json:"soil_type"`
	Count     int64   `json:"count"`
	TotalArea float64 `json:"total_area"`
}

type IrrigationGroup struct {
	SystemType    string  `json:"system_type"`
	Count         int64   `json:"count"`
	AvgEfficiency float64 `json:"avg_efficiency"`
	AvgWaterUsage float64 `json:"avg_water_usage"`
}

type CropGroup struct {
	CropName     string  `json:"crop_name"`
	CropType     string  `json:"crop_type"`
	TotalArea    float64 `json:"total_area"`
	TotalYield   float64 `json:"total_yield"`
	TotalRevenue float64 `json:"total_revenue"`
	Productivity float64 `json:"productivity"` // yield per hectare, 0 when no area
}

type TrendPoint struct {
	Year         int     `json:"year"`
	TotalYield   float64 `json:"total_yield"`
	TotalRevenue float64 `json:"total_revenue"`
}

type OwnershipGroup struct {
	OwnershipType string  `json:"ownership_type"`
	HolderCount   int64   `json:"holder_count"`
	ParcelCount   int64   `json:"count"`
	TotalArea     float64 `json:"total_area"`
	AvgParcels    float64 `json:"avg_parcels"`
}

type RegionGroup struct {
	RegionID       uint    `json:"region_id"`
	RegionName     string  `json:"region_name"`
	ParcelCount    int64   `json:"parcel_count"`
	TotalArea      float64 `json:"total_area"`
	CultivatedArea float64 `json:"cultivated_area"`
}

type CropTypeGroup struct {
	CropType  string  `json:"crop_type"`
	TotalArea float64 `json:"total_area"`
	AvgYield  float64 `json:"avg_yield"`
}

type SeasonGroup struct {
	Season     string  `json:"season"`
	TotalArea  float64 `json:"total_area"`
	AvgYield   float64 `json:"avg_yield"`
	AvgRevenue float64 `json:"avg_revenue"`
}

type RegionSummary struct {
	TotalParcels         int64   `json:"total_parcels"`
	TotalArea            float64 `json:"total_area"`
	AvgParcelSize        float64 `json:"avg_parcel_size"`
	CultivatedPercentage float64 `json:"cultivated_percentage"`
}

type CropSummary struct {
	TotalArea         float64 `json:"total_area"`
	TotalYield        float64 `json:"total_yield"`
	TotalRevenue      float64 `json:"total_revenue"`
	YieldPerHectare   float64 `json:"yield_per_hectare"`
	RevenuePerHectare float64 `json:"revenue_per_hectare"`
}

type Utilization struct {
	TotalLand        float64 `json:"total_land"`
	CultivatedLand   float64 `json:"cultivated_land"`
	UncultivatedLand float64 `json:"uncultivated_land"`
	UtilizationRate  float64 `json:"utilization_rate"`
}

type Overview struct {
	TotalLandHolders    int64   `json:"total_land_holders"`
	TotalParcels        int64   `json:"total_parcels"`
	TotalCropsPlanted   int64   `json:"total_crops_planted"`
	TotalCultivatedArea float64 `json:"total_cultivated_area"`
	AvgProductivity     float64 `json:"avg_productivity"`
}

// --- SCOPE HELPERS ---
// Every aggregation below is a read against one of these three scoped
// queries. Joins pull in land_holders so the region filter applies
// uniformly, no matter which table the aggregate groups.

func parcelScope(f StatsFilter) *gorm.DB {
	q := DB.Table("land_parcels").
		Joins("JOIN land_holders ON land_holders.id = land_parcels.land_holder_id")
	if f.RegionID != 0 {
		q = q.Where("land_holders.region_id = ?", f.RegionID)
	}
	if f.SoilType != "" {
		q = q.Where("land_parcels.soil_type = ?", f.SoilType)
	}
	if !f.Since.IsZero() {
		q = q.Where("land_parcels.created_at >= ?", f.Since)
	}
	return q
}

func irrigationScope(f StatsFilter) *gorm.DB {
	q := DB.Table("irrigation_systems").
		Joins("JOIN land_parcels ON land_parcels.id = irrigation_systems.land_parcel_id").
		Joins("JOIN land_holders ON land_holders.id = land_parcels.land_holder_id")
	if f.RegionID != 0 {
		q = q.Where("land_holders.region_id = ?", f.RegionID)
	}
	if f.SoilType != "" {
		q = q.Where("land_parcels.soil_type = ?", f.SoilType)
	}
	return q
}

func patternScope(f StatsFilter) *gorm.DB {
	q := DB.Table("cropping_patterns").
		Joins("JOIN land_parcels ON land_parcels.id = cropping_patterns.land_parcel_id").
		Joins("JOIN land_holders ON land_holders.id = land_parcels.land_holder_id").
		Joins("JOIN crops ON crops.id = cropping_patterns.crop_id")
	if f.RegionID != 0 {
		q = q.Where("land_holders.region_id = ?", f.RegionID)
	}
	if f.SoilType != "" {
		q = q.Where("land_parcels.soil_type = ?", f.SoilType)
	}
	if f.CropID != 0 {
		q = q.Where("cropping_patterns.crop_id = ?", f.CropID)
	}
	if !f.Since.IsZero() {
		q = q.Where("cropping_patterns.year >= ?", f.Since.Year())
	}
	return q
}

// --- AGGREGATIONS ---

// SoilDistribution groups parcels by soil type.
func SoilDistribution(f StatsFilter) ([]SoilGroup, error) {
	var rows []SoilGroup
	err := parcelScope(f).
		Select("land_parcels.soil_type AS soil_type, COUNT(land_parcels.id) AS count, COALESCE(SUM(land_parcels.total_area), 0) AS total_area").
		Group("land_parcels.soil_type").
		Order("land_parcels.soil_type").
		Scan(&rows).Error
	return rows, err
}

// IrrigationDistribution groups irrigation systems by system type.
func IrrigationDistribution(f StatsFilter) ([]IrrigationGroup, error) {
	var rows []IrrigationGroup
	err := irrigationScope(f).
		Select("irrigation_systems.system_type AS system_type, COUNT(irrigation_systems.id) AS count, COALESCE(AVG(irrigation_systems.efficiency_rating), 0) AS avg_efficiency, COALESCE(AVG(irrigation_systems.annual_water_usage), 0) AS avg_water_usage").
		Group("irrigation_systems.system_type").
		Order("irrigation_systems.system_type").
		Scan(&rows).Error
	return rows, err
}

// CropProductivity groups cropping patterns by crop, ordered by revenue.
// Productivity is only derived for groups with area on record.
func CropProductivity(f StatsFilter) ([]CropGroup, error) {
	var rows []CropGroup
	err := patternScope(f).
		Select("crops.name AS crop_name, crops.crop_type AS crop_type, COALESCE(SUM(cropping_patterns.area_allocated), 0) AS total_area, COALESCE(SUM(cropping_patterns.yield_amount), 0) AS total_yield, COALESCE(SUM(cropping_patterns.revenue), 0) AS total_revenue").
		Group("crops.name, crops.crop_type").
		Order("total_revenue DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].TotalArea > 0 {
			rows[i].Productivity = rows[i].TotalYield / rows[i].TotalArea
		}
	}
	return rows, nil
}

// ProductionTrend groups cropping patterns by year, ascending.
func ProductionTrend(f StatsFilter) ([]TrendPoint, error) {
	var rows []TrendPoint
	err := patternScope(f).
		Select("cropping_patterns.year AS year, COALESCE(SUM(cropping_patterns.yield_amount), 0) AS total_yield, COALESCE(SUM(cropping_patterns.revenue), 0) AS total_revenue").
		Group("cropping_patterns.year").
		Order("cropping_patterns.year").
		Scan(&rows).Error
	return rows, err
}

// OwnershipDistribution groups holders (and their parcels) by ownership type.
func OwnershipDistribution(f StatsFilter) ([]OwnershipGroup, error) {
	q := DB.Table("land_holders").
		Joins("LEFT JOIN land_parcels ON land_parcels.land_holder_id = land_holders.id")
	if f.RegionID != 0 {
		q = q.Where("land_holders.region_id = ?", f.RegionID)
	}
	if f.SoilType != "" {
		q = q.Where("land_parcels.soil_type = ?", f.SoilType)
	}
	var rows []OwnershipGroup
	err := q.
		Select("land_holders.ownership_type AS ownership_type, COUNT(DISTINCT land_holders.id) AS holder_count, COUNT(land_parcels.id) AS parcel_count, COALESCE(SUM(land_parcels.total_area), 0) AS total_area").
		Group("land_holders.ownership_type").
		Order("land_holders.ownership_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].HolderCount > 0 {
			rows[i].AvgParcels = float64(rows[i].ParcelCount) / float64(rows[i].HolderCount)
		}
	}
	return rows, nil
}

// RegionStats lists per-region parcel rollups, largest area first.
func RegionStats() ([]RegionGroup, error) {
	var rows []RegionGroup
	err := DB.Table("regions").
		Joins("LEFT JOIN land_holders ON land_holders.region_id = regions.id").
		Joins("LEFT JOIN land_parcels ON land_parcels.land_holder_id = land_holders.id").
		Select("regions.id AS region_id, regions.name AS region_name, COUNT(land_parcels.id) AS parcel_count, COALESCE(SUM(land_parcels.total_area), 0) AS total_area, COALESCE(SUM(land_parcels.cultivated_area), 0) AS cultivated_area").
		Group("regions.id, regions.name").
		Order("total_area DESC").
		Scan(&rows).Error
	return rows, err
}

// CropTypeDistribution groups cropping patterns by the crop's type.
func CropTypeDistribution(f StatsFilter) ([]CropTypeGroup, error) {
	var rows []CropTypeGroup
	err := patternScope(f).
		Select("crops.crop_type AS crop_type, COALESCE(SUM(cropping_patterns.area_allocated), 0) AS total_area, COALESCE(AVG(cropping_patterns.yield_amount), 0) AS avg_yield").
		Group("crops.crop_type").
		Order("crops.crop_type").
		Scan(&rows).Error
	return rows, err
}

// RegionSummaryStats rolls up the parcels of a single region. A region with
// no parcels yields an all-zero summary, not an error.
func RegionSummaryStats(regionID uint) (RegionSummary, error) {
	var row struct {
		TotalParcels  int64
		TotalArea     float64
		AvgTotal      float64
		AvgCultivated float64
	}
	err := parcelScope(StatsFilter{RegionID: regionID}).
		Select("COUNT(land_parcels.id) AS total_parcels, COALESCE(SUM(land_parcels.total_area), 0) AS total_area, COALESCE(AVG(land_parcels.total_area), 0) AS avg_total, COALESCE(AVG(land_parcels.cultivated_area), 0) AS avg_cultivated").
		Scan(&row).Error
	if err != nil {
		return RegionSummary{}, err
	}
	s := RegionSummary{
		TotalParcels:  row.TotalParcels,
		TotalArea:     row.TotalArea,
		AvgParcelSize: row.AvgTotal,
	}
	if row.AvgTotal > 0 {
		s.CultivatedPercentage = row.AvgCultivated / row.AvgTotal * 100
	}
	return s, nil
}

// RegionTopCrops lists the biggest crops in a region by allocated area.
func RegionTopCrops(regionID uint, limit int) ([]CropGroup, error) {
	var rows []CropGroup
	err := patternScope(StatsFilter{RegionID: regionID}).
		Select("crops.name AS crop_name, crops.crop_type AS crop_type, COALESCE(SUM(cropping_patterns.area_allocated), 0) AS total_area, COALESCE(SUM(cropping_patterns.yield_amount), 0) AS total_yield, COALESCE(SUM(cropping_patterns.revenue), 0) AS total_revenue").
		Group("crops.name, crops.crop_type").
		Order("total_area DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].TotalArea > 0 {
			rows[i].Productivity = rows[i].TotalYield / rows[i].TotalArea
		}
	}
	return rows, nil
}

// CropSummaryStats rolls up every planting of a single crop.
func CropSummaryStats(cropID uint) (CropSummary, error) {
	var s CropSummary
	err := patternScope(StatsFilter{CropID: cropID}).
		Select("COALESCE(SUM(cropping_patterns.area_allocated), 0) AS total_area, COALESCE(SUM(cropping_patterns.yield_amount), 0) AS total_yield, COALESCE(SUM(cropping_patterns.revenue), 0) AS total_revenue").
		Scan(&s).Error
	if err != nil {
		return CropSummary{}, err
	}
	if s.TotalArea > 0 {
		s.YieldPerHectare = s.TotalYield / s.TotalArea
		s.RevenuePerHectare = s.TotalRevenue / s.TotalArea
	}
	return s, nil
}

// CropRegionGroup is one region's share of a single crop's plantings.
type CropRegionGroup struct {
	RegionID     uint    `json:"region_id"`
	RegionName   string  `json:"region_name"`
	TotalArea    float64 `json:"total_area"`
	TotalYield   float64 `json:"total_yield"`
	TotalRevenue float64 `json:"total_revenue"`
}

// CropRegionalDistribution shows where one crop is grown, by region.
func CropRegionalDistribution(cropID uint) ([]CropRegionGroup, error) {
	var rows []CropRegionGroup
	err := patternScope(StatsFilter{CropID: cropID}).
		Joins("JOIN regions ON regions.id = land_holders.region_id").
		Select("regions.id AS region_id, regions.name AS region_name, COALESCE(SUM(cropping_patterns.area_allocated), 0) AS total_area, COALESCE(SUM(cropping_patterns.yield_amount), 0) AS total_yield, COALESCE(SUM(cropping_patterns.revenue), 0) AS total_revenue").
		Group("regions.id, regions.name").
		Order("total_area DESC").
		Scan(&rows).Error
	return rows, err
}

// CropSeasonalPerformance groups one crop's plantings by season.
func CropSeasonalPerformance(cropID uint) ([]SeasonGroup, error) {
	var rows []SeasonGroup
	err := patternScope(StatsFilter{CropID: cropID}).
		Select("cropping_patterns.season AS season, COALESCE(SUM(cropping_patterns.area_allocated), 0) AS total_area, COALESCE(AVG(cropping_patterns.yield_amount), 0) AS avg_yield, COALESCE(AVG(cropping_patterns.revenue), 0) AS avg_revenue").
		Group("cropping_patterns.season").
		Order("cropping_patterns.season").
		Scan(&rows).Error
	return rows, err
}

// CropYearlyTrend groups one crop's plantings by year, ascending.
func CropYearlyTrend(cropID uint) ([]TrendPoint, error) {
	return ProductionTrend(StatsFilter{CropID: cropID})
}

// LandUtilization reports how much of the registered land is cultivated.
func LandUtilization(f StatsFilter) (Utilization, error) {
	var row struct {
		TotalLand      float64
		CultivatedLand float64
	}
	err := parcelScope(f).
		Select("COALESCE(SUM(land_parcels.total_area), 0) AS total_land, COALESCE(SUM(land_parcels.cultivated_area), 0) AS cultivated_land").
		Scan(&row).Error
	if err != nil {
		return Utilization{}, err
	}
	u := Utilization{
		TotalLand:        row.TotalLand,
		CultivatedLand:   row.CultivatedLand,
		UncultivatedLand: row.TotalLand - row.CultivatedLand,
	}
	if u.TotalLand > 0 {
		u.UtilizationRate = u.CultivatedLand / u.TotalLand * 100
	}
	return u, nil
}

// GlobalOverview is the headline figure set shown on the dashboard.
func GlobalOverview() (Overview, error) {
	var o Overview
	if err := DB.Table("land_holders").Count(&o.TotalLandHolders).Error; err != nil {
		return Overview{}, err
	}
	if err := DB.Table("land_parcels").Count(&o.TotalParcels).Error; err != nil {
		return Overview{}, err
	}
	if err := DB.Table("cropping_patterns").Count(&o.TotalCropsPlanted).Error; err != nil {
		return Overview{}, err
	}
	if err := DB.Table("land_parcels").
		Select("COALESCE(SUM(cultivated_area), 0)").
		Scan(&o.TotalCultivatedArea).Error; err != nil {
		return Overview{}, err
	}
	if err := DB.Table("land_analyses").
		Select("COALESCE(AVG(productivity_score), 0)").
		Scan(&o.AvgProductivity).Error; err != nil {
		return Overview{}, err
	}
	return o, nil
}

// TotalRevenue sums revenue across all cropping patterns in scope.
func TotalRevenue(f StatsFilter) (float64, error) {
	var total float64
	err := patternScope(f).
		Select("COALESCE(SUM(cropping_patterns.revenue), 0)").
		Scan(&total).Error
	return total, err
}
