package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"agrisite/internal/database"
	"agrisite/internal/models"
	"agrisite/internal/report"

	"github.com/gin-gonic/gin"
)

const (
	contentTypeCSV   = "text/csv"
	contentTypeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF   = "application/pdf"
)

func attachment(c *gin.Context, filename, contentType string, body []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, body)
}

// ExportData serves one of the raw data sets in the requested format.
// The comprehensive_report data type routes to the PDF builder instead.
func ExportData(c *gin.Context) {
	dataType := c.Param("data_type")
	format := report.NormalizeFormat(c.Query("format"))

	var (
		table   report.Table
		payload interface{}
	)
	switch dataType {
	case "land_parcels":
		rows, err := database.ExportParcels()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}
		payload = rows
		table = report.Table{
			Name:   "land_parcels",
			Header: []string{"parcel_id", "total_area", "cultivated_area", "soil_type", "land_holder_name", "region_name"},
		}
		for _, r := range rows {
			table.Rows = append(table.Rows, []string{
				r.ParcelID,
				strconv.FormatFloat(r.TotalArea, 'f', 2, 64),
				strconv.FormatFloat(r.CultivatedArea, 'f', 2, 64),
				r.SoilType,
				r.HolderName,
				r.RegionName,
			})
		}
	case "cropping_patterns":
		rows, err := database.ExportPatterns()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}
		payload = rows
		table = report.Table{
			Name:   "cropping_patterns",
			Header: []string{"crop_name", "year", "season", "area_allocated", "yield_amount", "revenue", "parcel_id"},
		}
		for _, r := range rows {
			table.Rows = append(table.Rows, []string{
				r.CropName,
				strconv.Itoa(r.Year),
				r.Season,
				strconv.FormatFloat(r.AreaAllocated, 'f', 2, 64),
				strconv.FormatFloat(r.YieldAmount, 'f', 2, 64),
				strconv.FormatFloat(r.Revenue, 'f', 2, 64),
				r.ParcelID,
			})
		}
	case "irrigation_systems":
		rows, err := database.ExportIrrigation()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}
		payload = rows
		table = report.Table{
			Name:   "irrigation_systems",
			Header: []string{"system_type", "water_source", "efficiency_rating", "annual_water_usage", "parcel_id"},
		}
		for _, r := range rows {
			table.Rows = append(table.Rows, []string{
				r.SystemType,
				r.WaterSource,
				strconv.Itoa(r.EfficiencyRating),
				strconv.FormatFloat(r.AnnualWaterUsage, 'f', 2, 64),
				r.ParcelID,
			})
		}
	case "comprehensive_report":
		serveAnalysisReport(c, report.ReportComprehensive)
		return
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data type"})
		return
	}

	switch format {
	case report.FormatCSV:
		body, err := table.CSV()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}
		attachment(c, table.Name+".csv", contentTypeCSV, body)
	case report.FormatExcel:
		body, err := table.Excel()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}
		attachment(c, table.Name+".xlsx", contentTypeExcel, body)
	default:
		c.JSON(http.StatusOK, payload)
	}
}

// DownloadReport serves one of the analysis documents as a PDF.
func DownloadReport(c *gin.Context) {
	serveAnalysisReport(c, c.Param("report_type"))
}

func serveAnalysisReport(c *gin.Context, reportType string) {
	if !report.Available() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "PDF generation is not available"})
		return
	}

	body, err := report.BuildAnalysisReport(reportType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	attachment(c, report.ReportFilename(reportType), contentTypePDF, body)
}

// DownloadParcelReport serves the one-parcel document, falling back to
// CSV when PDF generation is unavailable.
func DownloadParcelReport(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var parcel models.LandParcel
	err := database.DB.Preload("LandHolder").Preload("LandHolder.Region").First(&parcel, id).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Parcel not found"})
		return
	}
	holderName := parcel.LandHolder.Name
	regionName := parcel.LandHolder.Region.Name

	if !report.Available() {
		table := report.ParcelFallbackTable(parcel, holderName, regionName)
		body, err := table.CSV()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}
		c.Header("X-Report-Fallback", "csv")
		attachment(c, table.Name+".csv", contentTypeCSV, body)
		return
	}

	body, err := report.BuildParcelReport(parcel, holderName, regionName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	attachment(c, "parcel_"+parcel.ParcelID+"_report.pdf", contentTypePDF, body)
}
