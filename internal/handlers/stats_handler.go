package handlers

import (
	"net/http"
	"strconv"

	"agrisite/internal/database"
	"agrisite/internal/models"
	"agrisite/internal/report"

	"github.com/gin-gonic/gin"
)

// statsFilter reads the shared reporting query parameters.
func statsFilter(c *gin.Context) database.StatsFilter {
	var f database.StatsFilter
	if v, err := strconv.Atoi(c.Query("region")); err == nil && v > 0 {
		f.RegionID = uint(v)
	}
	f.SoilType = c.Query("soil_type")
	if v, err := strconv.Atoi(c.Query("crop")); err == nil && v > 0 {
		f.CropID = uint(v)
	}
	if period := c.Query("time_period"); period != "" {
		f.Since = database.ParsePeriod(period)
	}
	return f
}

// Dashboard returns headline stats plus the five overview charts.
func Dashboard(c *gin.Context) {
	f := statsFilter(c)

	overview, err := database.GlobalOverview()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	regionData, err := database.RegionStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	irrigationData, err := database.IrrigationDistribution(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	cropData, err := database.CropProductivity(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	if len(cropData) > 10 {
		cropData = cropData[:10]
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":           overview,
		"region_data":     regionData,
		"irrigation_data": irrigationData,
		"crop_data":       cropData,
		"charts":          report.DashboardCharts(f),
		"status":          "success",
	})
}

// AnalysisReports returns the four analysis blocks shown together.
func AnalysisReports(c *gin.Context) {
	f := statsFilter(c)

	ownership, err := database.OwnershipDistribution(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	irrigation, err := database.IrrigationDistribution(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	productivity, err := database.CropProductivity(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	trend, err := database.ProductionTrend(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	utilization, err := database.LandUtilization(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"land_holding_analysis": ownership,
		"irrigation_efficiency": irrigation,
		"crop_productivity":     productivity,
		"production_trend":      trend,
		"total_land_area":       utilization.TotalLand,
		"total_cultivated_area": utilization.CultivatedLand,
		"status":                "success",
	})
}

// RegionAnalysis returns the full drill-down for one region. A region
// with no parcels gets zeroed stats and empty breakdowns.
func RegionAnalysis(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var region models.Region
	if err := database.DB.First(&region, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Region not found"})
		return
	}

	summary, err := database.RegionSummaryStats(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	topCrops, err := database.RegionTopCrops(id, 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	scoped := database.StatsFilter{RegionID: id}
	soil, err := database.SoilDistribution(scoped)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	irrigation, err := database.IrrigationDistribution(scoped)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"region":             region,
		"region_stats":       summary,
		"top_crops":          topCrops,
		"soil_distribution":  soil,
		"irrigation_systems": irrigation,
		"status":             "success",
	})
}

// CropAnalysis returns the full drill-down for one crop.
func CropAnalysis(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var crop models.Crop
	if err := database.DB.First(&crop, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Crop not found"})
		return
	}

	summary, err := database.CropSummaryStats(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	regional, err := database.CropRegionalDistribution(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	seasonal, err := database.CropSeasonalPerformance(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	yearly, err := database.CropYearlyTrend(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"crop":                  crop,
		"crop_stats":            summary,
		"regional_distribution": regional,
		"seasonal_performance":  seasonal,
		"yearly_trend":          yearly,
		"status":                "success",
	})
}

// LandStats is the filtered statistics endpoint for dashboard widgets.
func LandStats(c *gin.Context) {
	f := statsFilter(c)

	soil, err := database.SoilDistribution(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	irrigation, err := database.IrrigationDistribution(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	cropDist, err := database.CropTypeDistribution(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	regionStats, err := database.RegionStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"soil_distribution":       soil,
		"irrigation_distribution": irrigation,
		"crop_distribution":       cropDist,
		"region_stats":            regionStats,
		"status":                  "success",
	})
}

// AnalysisData returns the analysis blocks selected by the type token.
// Unknown tokens behave like "comprehensive".
func AnalysisData(c *gin.Context) {
	analysisType := c.DefaultQuery("type", "comprehensive")
	f := statsFilter(c)

	response := gin.H{}

	if analysisType == "comprehensive" || analysisType == "land" {
		rows, err := database.OwnershipDistribution(f)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}
		response["land_analysis"] = rows
	}
	if analysisType == "comprehensive" || analysisType == "irrigation" {
		rows, err := database.IrrigationDistribution(f)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}
		response["irrigation_analysis"] = rows
	}
	if analysisType == "comprehensive" || analysisType == "crops" {
		rows, err := database.CropProductivity(f)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}
		response["crop_analysis"] = rows
	}
	if analysisType == "comprehensive" || analysisType == "trends" {
		rows, err := database.ProductionTrend(f)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}
		response["production_trends"] = rows
	}

	response["status"] = "success"
	c.JSON(http.StatusOK, response)
}
