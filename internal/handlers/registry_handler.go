package handlers

import (
	"net/http"
	"strconv"

	"agrisite/internal/database"
	"agrisite/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CRUD for the reference entities: regions, land holders and crops.
// Parcels and their dependents live in parcel_handler.go.

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}

// --- REGIONS ---

func ListRegions(c *gin.Context) {
	var regions []models.Region
	if err := database.DB.Order("name").Find(&regions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch regions"})
		return
	}
	c.JSON(http.StatusOK, regions)
}

func CreateRegion(c *gin.Context) {
	var region models.Region
	if err := c.ShouldBindJSON(&region); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := database.DB.Create(&region).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, region)
}

func UpdateRegion(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var region models.Region
	if err := database.DB.First(&region, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Region not found"})
		return
	}

	// Partial update: decode over the loaded record so the validation
	// hooks run against the merged values, not the stored ones
	if err := c.ShouldBindJSON(&region); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	region.ID = id
	if err := database.DB.Omit(clause.Associations).Save(&region).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, region)
}

func DeleteRegion(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var holders []models.LandHolder
		if err := tx.Where("region_id = ?", id).Find(&holders).Error; err != nil {
			return err
		}
		for _, h := range holders {
			if err := deleteHolderCascade(tx, h.ID); err != nil {
				return err
			}
		}
		return tx.Delete(&models.Region{}, id).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete region"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Region deleted"})
}

// --- LAND HOLDERS ---

func ListLandHolders(c *gin.Context) {
	q := database.DB.Preload("Region")
	if region := c.Query("region"); region != "" {
		q = q.Where("region_id = ?", region)
	}
	if ownership := c.Query("ownership_type"); ownership != "" {
		q = q.Where("ownership_type = ?", ownership)
	}

	var holders []models.LandHolder
	if err := q.Order("name").Find(&holders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch land holders"})
		return
	}
	c.JSON(http.StatusOK, holders)
}

func CreateLandHolder(c *gin.Context) {
	var holder models.LandHolder
	if err := c.ShouldBindJSON(&holder); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := database.DB.First(&models.Region{}, holder.RegionID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Region does not exist"})
		return
	}
	if err := database.DB.Create(&holder).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, holder)
}

func UpdateLandHolder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var holder models.LandHolder
	if err := database.DB.First(&holder, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Land holder not found"})
		return
	}

	if err := c.ShouldBindJSON(&holder); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	holder.ID = id
	if err := database.DB.First(&models.Region{}, holder.RegionID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Region does not exist"})
		return
	}
	if err := database.DB.Omit(clause.Associations).Save(&holder).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, holder)
}

// DeleteLandHolder removes a holder and everything hanging off it:
// parcels, their irrigation systems, cropping patterns and analyses.
func DeleteLandHolder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := database.DB.First(&models.LandHolder{}, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Land holder not found"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		return deleteHolderCascade(tx, id)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete land holder"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Land holder deleted"})
}

func deleteHolderCascade(tx *gorm.DB, holderID uint) error {
	var parcelIDs []uint
	if err := tx.Model(&models.LandParcel{}).
		Where("land_holder_id = ?", holderID).
		Pluck("id", &parcelIDs).Error; err != nil {
		return err
	}
	if len(parcelIDs) > 0 {
		if err := deleteParcelDependents(tx, parcelIDs); err != nil {
			return err
		}
		if err := tx.Delete(&models.LandParcel{}, parcelIDs).Error; err != nil {
			return err
		}
	}
	return tx.Delete(&models.LandHolder{}, holderID).Error
}

func deleteParcelDependents(tx *gorm.DB, parcelIDs []uint) error {
	if err := tx.Where("land_parcel_id IN ?", parcelIDs).Delete(&models.IrrigationSystem{}).Error; err != nil {
		return err
	}
	if err := tx.Where("land_parcel_id IN ?", parcelIDs).Delete(&models.CroppingPattern{}).Error; err != nil {
		return err
	}
	return tx.Where("land_parcel_id IN ?", parcelIDs).Delete(&models.LandAnalysis{}).Error
}

// --- CROPS ---

func ListCrops(c *gin.Context) {
	var crops []models.Crop
	if err := database.DB.Order("name").Find(&crops).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch crops"})
		return
	}
	c.JSON(http.StatusOK, crops)
}

func CreateCrop(c *gin.Context) {
	var crop models.Crop
	if err := c.ShouldBindJSON(&crop); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := database.DB.Create(&crop).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, crop)
}

func UpdateCrop(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var crop models.Crop
	if err := database.DB.First(&crop, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Crop not found"})
		return
	}

	if err := c.ShouldBindJSON(&crop); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	crop.ID = id
	if err := database.DB.Save(&crop).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, crop)
}

func DeleteCrop(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var count int64
	database.DB.Model(&models.CroppingPattern{}).Where("crop_id = ?", id).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Crop is referenced by cropping patterns"})
		return
	}

	if err := database.DB.Delete(&models.Crop{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete crop"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Crop deleted"})
}
