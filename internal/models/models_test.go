package models_test

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

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedParcel(t *testing.T, db *gorm.DB) models.LandParcel {
	t.Helper()
	region := models.Region{Name: "North Valley", Code: "NV", TotalArea: 5000}
	require.NoError(t, db.Create(&region).Error)
	holder := models.LandHolder{Name: "A. Farmer", OwnershipType: models.OwnershipIndividual, RegionID: region.ID}
	require.NoError(t, db.Create(&holder).Error)
	parcel := models.LandParcel{
		LandHolderID:   holder.ID,
		ParcelID:       "NV-001",
		TotalArea:      10,
		CultivatedArea: 7.5,
		SoilType:       models.SoilLoamy,
	}
	require.NoError(t, db.Create(&parcel).Error)
	return parcel
}

func TestParcelValidation(t *testing.T) {
	db := openTestDB(t)
	parcel := seedParcel(t, db)

	bad := models.LandParcel{
		LandHolderID:   parcel.LandHolderID,
		ParcelID:       "NV-002",
		TotalArea:      5,
		CultivatedArea: 6,
		SoilType:       models.SoilClay,
	}
	assert.Error(t, db.Create(&bad).Error, "cultivated area above total must be rejected")

	bad = models.LandParcel{
		LandHolderID: parcel.LandHolderID,
		ParcelID:     "NV-003",
		TotalArea:    5,
		SoilType:     "volcanic",
	}
	assert.Error(t, db.Create(&bad).Error, "unknown soil type must be rejected")
}

func TestHolderValidation(t *testing.T) {
	db := openTestDB(t)
	region := models.Region{Name: "South", Code: "S"}
	require.NoError(t, db.Create(&region).Error)

	holder := models.LandHolder{Name: "X", OwnershipType: "cooperative", RegionID: region.ID}
	assert.Error(t, db.Create(&holder).Error)
}

func TestIrrigationValidation(t *testing.T) {
	db := openTestDB(t)
	parcel := seedParcel(t, db)

	for _, rating := range []int{0, 101, -5} {
		sys := models.IrrigationSystem{
			LandParcelID:     parcel.ID,
			SystemType:       models.IrrigationDrip,
			WaterSource:      models.WaterSourceWell,
			EfficiencyRating: rating,
		}
		assert.Error(t, db.Create(&sys).Error, "rating %d must be rejected", rating)
	}

	sys := models.IrrigationSystem{
		LandParcelID:     parcel.ID,
		SystemType:       models.IrrigationDrip,
		WaterSource:      models.WaterSourceWell,
		EfficiencyRating: 85,
		AnnualWaterUsage: 1200,
	}
	assert.NoError(t, db.Create(&sys).Error)

	second := models.IrrigationSystem{
		LandParcelID:     parcel.ID,
		SystemType:       models.IrrigationFlood,
		WaterSource:      models.WaterSourceRiver,
		EfficiencyRating: 40,
	}
	assert.Error(t, db.Create(&second).Error, "a parcel carries at most one system")
}

func TestCroppingPatternValidation(t *testing.T) {
	db := openTestDB(t)
	parcel := seedParcel(t, db)
	crop := models.Crop{Name: "Wheat", CropType: models.CropCereal, Season: models.SeasonRabi, GrowthPeriod: 120}
	require.NoError(t, db.Create(&crop).Error)

	for _, year := range []int{1999, 2031} {
		p := models.CroppingPattern{
			LandParcelID: parcel.ID, CropID: crop.ID,
			Year: year, Season: models.SeasonRabi, AreaAllocated: 2,
		}
		assert.Error(t, db.Create(&p).Error, "year %d out of range", year)
	}

	first := models.CroppingPattern{
		LandParcelID: parcel.ID, CropID: crop.ID,
		Year: 2023, Season: models.SeasonRabi,
		AreaAllocated: 4, YieldAmount: 12, Revenue: 36000,
	}
	require.NoError(t, db.Create(&first).Error)

	dup := models.CroppingPattern{
		LandParcelID: parcel.ID, CropID: crop.ID,
		Year: 2023, Season: models.SeasonRabi,
		AreaAllocated: 1,
	}
	assert.Error(t, db.Create(&dup).Error, "duplicate (parcel, crop, year, season) must be rejected")

	otherSeason := models.CroppingPattern{
		LandParcelID: parcel.ID, CropID: crop.ID,
		Year: 2023, Season: models.SeasonKharif,
		AreaAllocated: 1,
	}
	assert.NoError(t, db.Create(&otherSeason).Error)
}

func TestAnalysisScoreBounds(t *testing.T) {
	db := openTestDB(t)
	parcel := seedParcel(t, db)

	bad := models.LandAnalysis{
		LandParcelID: parcel.ID, AnalysisDate: time.Now(),
		SoilHealthIndex: 0, WaterAvailability: 50, ProductivityScore: 50,
	}
	assert.Error(t, db.Create(&bad).Error)

	good := models.LandAnalysis{
		LandParcelID: parcel.ID, AnalysisDate: time.Now(),
		SoilHealthIndex: 1, WaterAvailability: 100, ProductivityScore: 73,
	}
	assert.NoError(t, db.Create(&good).Error)
}

func TestCultivationPercentage(t *testing.T) {
	p := models.LandParcel{TotalArea: 10, CultivatedArea: 7.5}
	assert.InDelta(t, 75.0, p.CultivationPercentage(), 0.001)

	empty := models.LandParcel{}
	assert.Zero(t, empty.CultivationPercentage())
}
