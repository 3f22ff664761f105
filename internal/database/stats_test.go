package database_test

import (
	"testing"
	"time"

	"agrisite/internal/database"
	"agrisite/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupStore(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	database.DB = db
}

// seedScenario builds two regions with parcels, irrigation and plantings.
func seedScenario(t *testing.T) (models.Region, models.Crop) {
	t.Helper()

	north := models.Region{Name: "North Valley", Code: "NV", TotalArea: 5000}
	south := models.Region{Name: "South Plains", Code: "SP", TotalArea: 8000}
	require.NoError(t, database.DB.Create(&north).Error)
	require.NoError(t, database.DB.Create(&south).Error)

	h1 := models.LandHolder{Name: "A. Farmer", OwnershipType: models.OwnershipIndividual, RegionID: north.ID}
	h2 := models.LandHolder{Name: "AgriCorp", OwnershipType: models.OwnershipCorporate, RegionID: south.ID}
	require.NoError(t, database.DB.Create(&h1).Error)
	require.NoError(t, database.DB.Create(&h2).Error)

	p1 := models.LandParcel{LandHolderID: h1.ID, ParcelID: "NV-001", TotalArea: 10, CultivatedArea: 7.5, SoilType: models.SoilLoamy}
	p2 := models.LandParcel{LandHolderID: h2.ID, ParcelID: "SP-001", TotalArea: 40, CultivatedArea: 30, SoilType: models.SoilClay}
	p3 := models.LandParcel{LandHolderID: h2.ID, ParcelID: "SP-002", TotalArea: 20, CultivatedArea: 10, SoilType: models.SoilLoamy}
	for _, p := range []*models.LandParcel{&p1, &p2, &p3} {
		require.NoError(t, database.DB.Create(p).Error)
	}

	require.NoError(t, database.DB.Create(&models.IrrigationSystem{
		LandParcelID: p1.ID, SystemType: models.IrrigationDrip,
		WaterSource: models.WaterSourceWell, EfficiencyRating: 90, AnnualWaterUsage: 1000,
	}).Error)
	require.NoError(t, database.DB.Create(&models.IrrigationSystem{
		LandParcelID: p2.ID, SystemType: models.IrrigationFlood,
		WaterSource: models.WaterSourceCanal, EfficiencyRating: 40, AnnualWaterUsage: 9000,
	}).Error)

	wheat := models.Crop{Name: "Wheat", CropType: models.CropCereal, Season: models.SeasonRabi, GrowthPeriod: 120}
	cotton := models.Crop{Name: "Cotton", CropType: models.CropCash, Season: models.SeasonKharif, GrowthPeriod: 160}
	require.NoError(t, database.DB.Create(&wheat).Error)
	require.NoError(t, database.DB.Create(&cotton).Error)

	patterns := []models.CroppingPattern{
		{LandParcelID: p1.ID, CropID: wheat.ID, Year: 2022, Season: models.SeasonRabi, AreaAllocated: 5, YieldAmount: 15, Revenue: 45000},
		{LandParcelID: p2.ID, CropID: wheat.ID, Year: 2023, Season: models.SeasonRabi, AreaAllocated: 20, YieldAmount: 70, Revenue: 210000},
		{LandParcelID: p2.ID, CropID: cotton.ID, Year: 2023, Season: models.SeasonKharif, AreaAllocated: 10, YieldAmount: 8, Revenue: 400000},
	}
	for i := range patterns {
		require.NoError(t, database.DB.Create(&patterns[i]).Error)
	}

	require.NoError(t, database.DB.Create(&models.LandAnalysis{
		LandParcelID: p1.ID, AnalysisDate: time.Now(),
		SoilHealthIndex: 80, WaterAvailability: 60, ProductivityScore: 70,
	}).Error)

	return north, wheat
}

func TestAggregationsOnEmptyStore(t *testing.T) {
	setupStore(t)

	soil, err := database.SoilDistribution(database.StatsFilter{})
	require.NoError(t, err)
	assert.Empty(t, soil)

	crops, err := database.CropProductivity(database.StatsFilter{})
	require.NoError(t, err)
	assert.Empty(t, crops)

	overview, err := database.GlobalOverview()
	require.NoError(t, err)
	assert.Zero(t, overview.TotalParcels)
	assert.Zero(t, overview.TotalCultivatedArea)
	assert.Zero(t, overview.AvgProductivity)

	util, err := database.LandUtilization(database.StatsFilter{})
	require.NoError(t, err)
	assert.Zero(t, util.TotalLand)
	assert.Zero(t, util.UtilizationRate)

	revenue, err := database.TotalRevenue(database.StatsFilter{})
	require.NoError(t, err)
	assert.Zero(t, revenue)
}

func TestSoilDistribution(t *testing.T) {
	setupStore(t)
	north, _ := seedScenario(t)

	rows, err := database.SoilDistribution(database.StatsFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byType := map[string]database.SoilGroup{}
	for _, r := range rows {
		byType[r.SoilType] = r
	}
	assert.EqualValues(t, 1, byType[models.SoilClay].Count)
	assert.InDelta(t, 40, byType[models.SoilClay].TotalArea, 0.001)
	assert.EqualValues(t, 2, byType[models.SoilLoamy].Count)
	assert.InDelta(t, 30, byType[models.SoilLoamy].TotalArea, 0.001)

	// Region filter narrows to the single northern parcel
	scoped, err := database.SoilDistribution(database.StatsFilter{RegionID: north.ID})
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, models.SoilLoamy, scoped[0].SoilType)
	assert.EqualValues(t, 1, scoped[0].Count)
	assert.InDelta(t, 10.0, scoped[0].TotalArea, 0.001)
}

func TestCropProductivityOrderingAndGuard(t *testing.T) {
	setupStore(t)
	seedScenario(t)

	rows, err := database.CropProductivity(database.StatsFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Revenue descending: cotton (400k) before wheat (255k)
	assert.Equal(t, "Cotton", rows[0].CropName)
	assert.Equal(t, "Wheat", rows[1].CropName)
	assert.InDelta(t, 85.0/25.0, rows[1].Productivity, 0.001)

	// Zero-area planting never yields a productivity figure
	var p models.LandParcel
	require.NoError(t, database.DB.First(&p).Error)
	basil := models.Crop{Name: "Basil", CropType: models.CropVegetable, Season: models.SeasonZaid}
	require.NoError(t, database.DB.Create(&basil).Error)
	require.NoError(t, database.DB.Create(&models.CroppingPattern{
		LandParcelID: p.ID, CropID: basil.ID, Year: 2024, Season: models.SeasonZaid,
		AreaAllocated: 0, YieldAmount: 0, Revenue: 0,
	}).Error)

	rows, err = database.CropProductivity(database.StatsFilter{})
	require.NoError(t, err)
	for _, r := range rows {
		if r.CropName == "Basil" {
			assert.Zero(t, r.Productivity)
		}
	}
}

func TestProductionTrendOrdering(t *testing.T) {
	setupStore(t)
	seedScenario(t)

	points, err := database.ProductionTrend(database.StatsFilter{})
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 2022, points[0].Year)
	assert.Equal(t, 2023, points[1].Year)
	assert.InDelta(t, 78, points[1].TotalYield, 0.001)
	assert.InDelta(t, 610000, points[1].TotalRevenue, 0.001)
}

func TestOwnershipDistribution(t *testing.T) {
	setupStore(t)
	seedScenario(t)

	rows, err := database.OwnershipDistribution(database.StatsFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byType := map[string]database.OwnershipGroup{}
	for _, r := range rows {
		byType[r.OwnershipType] = r
	}
	corp := byType[models.OwnershipCorporate]
	assert.EqualValues(t, 1, corp.HolderCount)
	assert.EqualValues(t, 2, corp.ParcelCount)
	assert.InDelta(t, 2.0, corp.AvgParcels, 0.001)
	assert.InDelta(t, 60, corp.TotalArea, 0.001)
}

func TestRegionSummaryStats(t *testing.T) {
	setupStore(t)
	north, _ := seedScenario(t)

	s, err := database.RegionSummaryStats(north.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, s.TotalParcels)
	assert.InDelta(t, 10, s.TotalArea, 0.001)
	assert.InDelta(t, 10, s.AvgParcelSize, 0.001)
	assert.InDelta(t, 75, s.CultivatedPercentage, 0.001)

	// An id that matches nothing produces zeros, never an error
	s, err = database.RegionSummaryStats(9999)
	require.NoError(t, err)
	assert.Zero(t, s.TotalParcels)
	assert.Zero(t, s.TotalArea)
	assert.Zero(t, s.AvgParcelSize)
	assert.Zero(t, s.CultivatedPercentage)
}

func TestCropSummaryStats(t *testing.T) {
	setupStore(t)
	_, wheat := seedScenario(t)

	s, err := database.CropSummaryStats(wheat.ID)
	require.NoError(t, err)
	assert.InDelta(t, 25, s.TotalArea, 0.001)
	assert.InDelta(t, 85, s.TotalYield, 0.001)
	assert.InDelta(t, 255000, s.TotalRevenue, 0.001)
	assert.InDelta(t, 85.0/25.0, s.YieldPerHectare, 0.001)
	assert.InDelta(t, 255000.0/25.0, s.RevenuePerHectare, 0.001)

	s, err = database.CropSummaryStats(9999)
	require.NoError(t, err)
	assert.Zero(t, s.TotalArea)
	assert.Zero(t, s.YieldPerHectare)
}

func TestCropDrilldowns(t *testing.T) {
	setupStore(t)
	_, wheat := seedScenario(t)

	regional, err := database.CropRegionalDistribution(wheat.ID)
	require.NoError(t, err)
	require.Len(t, regional, 2)
	assert.Equal(t, "South Plains", regional[0].RegionName)
	assert.InDelta(t, 20, regional[0].TotalArea, 0.001)

	seasonal, err := database.CropSeasonalPerformance(wheat.ID)
	require.NoError(t, err)
	require.Len(t, seasonal, 1)
	assert.Equal(t, models.SeasonRabi, seasonal[0].Season)
	assert.InDelta(t, 25, seasonal[0].TotalArea, 0.001)

	trend, err := database.CropYearlyTrend(wheat.ID)
	require.NoError(t, err)
	require.Len(t, trend, 2)
	assert.Equal(t, 2022, trend[0].Year)
}

func TestLandUtilization(t *testing.T) {
	setupStore(t)
	seedScenario(t)

	u, err := database.LandUtilization(database.StatsFilter{})
	require.NoError(t, err)
	assert.InDelta(t, 70, u.TotalLand, 0.001)
	assert.InDelta(t, 47.5, u.CultivatedLand, 0.001)
	assert.InDelta(t, 22.5, u.UncultivatedLand, 0.001)
	assert.InDelta(t, 47.5/70*100, u.UtilizationRate, 0.001)
}

func TestIrrigationDistribution(t *testing.T) {
	setupStore(t)
	seedScenario(t)

	rows, err := database.IrrigationDistribution(database.StatsFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byType := map[string]database.IrrigationGroup{}
	for _, r := range rows {
		byType[r.SystemType] = r
	}
	assert.InDelta(t, 90, byType[models.IrrigationDrip].AvgEfficiency, 0.001)
	assert.InDelta(t, 9000, byType[models.IrrigationFlood].AvgWaterUsage, 0.001)
}

func TestGlobalOverview(t *testing.T) {
	setupStore(t)
	seedScenario(t)

	o, err := database.GlobalOverview()
	require.NoError(t, err)
	assert.EqualValues(t, 2, o.TotalLandHolders)
	assert.EqualValues(t, 3, o.TotalParcels)
	assert.EqualValues(t, 3, o.TotalCropsPlanted)
	assert.InDelta(t, 47.5, o.TotalCultivatedArea, 0.001)
	assert.InDelta(t, 70, o.AvgProductivity, 0.001)
}

func TestParsePeriod(t *testing.T) {
	now := time.Now()

	cutoff := database.ParsePeriod("7d")
	assert.WithinDuration(t, now.AddDate(0, 0, -7), cutoff, time.Minute)

	// Unknown tokens fall back to 30 days
	for _, token := range []string{"", "monthly", "-3d", "d"} {
		cutoff = database.ParsePeriod(token)
		assert.WithinDuration(t, now.AddDate(0, 0, -30), cutoff, time.Minute, "token %q", token)
	}
}

func TestExportRecords(t *testing.T) {
	setupStore(t)
	seedScenario(t)

	parcels, err := database.ExportParcels()
	require.NoError(t, err)
	require.Len(t, parcels, 3)
	assert.Equal(t, "NV-001", parcels[0].ParcelID)
	assert.Equal(t, "A. Farmer", parcels[0].HolderName)
	assert.Equal(t, "North Valley", parcels[0].RegionName)

	patterns, err := database.ExportPatterns()
	require.NoError(t, err)
	assert.Len(t, patterns, 3)

	irrigation, err := database.ExportIrrigation()
	require.NoError(t, err)
	assert.Len(t, irrigation, 2)
}
