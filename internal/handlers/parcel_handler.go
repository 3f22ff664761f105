package handlers

import (
	"errors"
	"net/http"
	"time"

	"agrisite/internal/database"
	"agrisite/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListLandParcels returns parcels with optional region and soil type
// filters, plus totals across the filtered set.
func ListLandParcels(c *gin.Context) {
	q := database.DB.Model(&models.LandParcel{}).
		Select("land_parcels.*").
		Preload("LandHolder").Preload("LandHolder.Region")

	if region := c.Query("region"); region != "" {
		q = q.Joins("JOIN land_holders ON land_holders.id = land_parcels.land_holder_id").
			Where("land_holders.region_id = ?", region)
	}
	if soil := c.Query("soil_type"); soil != "" {
		q = q.Where("land_parcels.soil_type = ?", soil)
	}

	var parcels []models.LandParcel
	if err := q.Order("land_parcels.id").Find(&parcels).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch parcels"})
		return
	}

	var totalArea, cultivatedArea float64
	for _, p := range parcels {
		totalArea += p.TotalArea
		cultivatedArea += p.CultivatedArea
	}

	c.JSON(http.StatusOK, gin.H{
		"parcels":         parcels,
		"total_parcels":   len(parcels),
		"total_area":      totalArea,
		"cultivated_area": cultivatedArea,
	})
}

// GetLandParcel returns one parcel with its irrigation system, cropping
// history and analyses.
func GetLandParcel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var parcel models.LandParcel
	err := database.DB.
		Preload("LandHolder").Preload("LandHolder.Region").
		Preload("Irrigation").
		Preload("CroppingPatterns", func(db *gorm.DB) *gorm.DB {
			return db.Order("year DESC, season")
		}).
		Preload("CroppingPatterns.Crop").
		Preload("Analyses", func(db *gorm.DB) *gorm.DB {
			return db.Order("analysis_date DESC")
		}).
		First(&parcel, id).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Parcel not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"parcel":                 parcel,
		"irrigation":             parcel.Irrigation,
		"cropping_patterns":      parcel.CroppingPatterns,
		"analyses":               parcel.Analyses,
		"cultivation_percentage": parcel.CultivationPercentage(),
	})
}

func CreateLandParcel(c *gin.Context) {
	var parcel models.LandParcel
	if err := c.ShouldBindJSON(&parcel); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := database.DB.First(&models.LandHolder{}, parcel.LandHolderID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Land holder does not exist"})
		return
	}
	if err := database.DB.Create(&parcel).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, parcel)
}

func UpdateLandParcel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var parcel models.LandParcel
	if err := database.DB.First(&parcel, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Parcel not found"})
		return
	}

	// Partial update: decode over the loaded record so the validation
	// hooks run against the merged values, not the stored ones
	if err := c.ShouldBindJSON(&parcel); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	parcel.ID = id
	if err := database.DB.First(&models.LandHolder{}, parcel.LandHolderID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Land holder does not exist"})
		return
	}
	if err := database.DB.Omit(clause.Associations).Save(&parcel).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, parcel)
}

func DeleteLandParcel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := database.DB.First(&models.LandParcel{}, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Parcel not found"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := deleteParcelDependents(tx, []uint{id}); err != nil {
			return err
		}
		return tx.Delete(&models.LandParcel{}, id).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete parcel"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Parcel deleted"})
}

// --- IRRIGATION ---

// UpsertIrrigation creates or replaces the irrigation system for a
// parcel. A parcel has at most one system.
func UpsertIrrigation(c *gin.Context) {
	parcelID, ok := pathID(c)
	if !ok {
		return
	}

	if err := database.DB.First(&models.LandParcel{}, parcelID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Parcel not found"})
		return
	}

	var input models.IrrigationSystem
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	input.LandParcelID = parcelID

	var existing models.IrrigationSystem
	err := database.DB.Where("land_parcel_id = ?", parcelID).First(&existing).Error
	switch {
	case err == nil:
		input.ID = existing.ID
		if err := database.DB.Save(&input).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, input)
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := database.DB.Create(&input).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, input)
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save irrigation system"})
	}
}

// --- CROPPING PATTERNS ---

// CreateCroppingPattern records a season's planting on a parcel. The
// (parcel, crop, year, season) tuple must be unique.
func CreateCroppingPattern(c *gin.Context) {
	parcelID, ok := pathID(c)
	if !ok {
		return
	}

	var pattern models.CroppingPattern
	if err := c.ShouldBindJSON(&pattern); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	pattern.LandParcelID = parcelID

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.LandParcel{}, parcelID).Error; err != nil {
			return errors.New("parcel does not exist")
		}
		if err := tx.First(&models.Crop{}, pattern.CropID).Error; err != nil {
			return errors.New("crop does not exist")
		}

		var count int64
		tx.Model(&models.CroppingPattern{}).
			Where("land_parcel_id = ? AND crop_id = ? AND year = ? AND season = ?",
				parcelID, pattern.CropID, pattern.Year, pattern.Season).
			Count(&count)
		if count > 0 {
			return errors.New("pattern already recorded for this parcel, crop, year and season")
		}

		return tx.Create(&pattern).Error
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, pattern)
}

// --- LAND ANALYSES ---

func CreateLandAnalysis(c *gin.Context) {
	parcelID, ok := pathID(c)
	if !ok {
		return
	}

	if err := database.DB.First(&models.LandParcel{}, parcelID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Parcel not found"})
		return
	}

	var analysis models.LandAnalysis
	if err := c.ShouldBindJSON(&analysis); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	analysis.LandParcelID = parcelID
	if analysis.AnalysisDate.IsZero() {
		analysis.AnalysisDate = time.Now()
	}

	if err := database.DB.Create(&analysis).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, analysis)
}
