package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"agrisite/internal/database"
	"agrisite/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLandStatsEmptyStore(t *testing.T) {
	setupStore(t)
	r := newRouter()

	w := doJSON(t, r, http.MethodGet, "/api/land-stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "success", body["status"])
	for _, key := range []string{"soil_distribution", "irrigation_distribution", "crop_distribution", "region_stats"} {
		assert.Contains(t, body, key)
	}
}

func TestLandStatsFiltered(t *testing.T) {
	setupStore(t)
	region, _, _, _ := seedWorld(t)
	r := newRouter()

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/land-stats?region=%d&soil_type=loamy", region.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	soil := body["soil_distribution"].([]interface{})
	require.Len(t, soil, 1)
	group := soil[0].(map[string]interface{})
	assert.Equal(t, "loamy", group["soil_type"])
	assert.EqualValues(t, 1, group["count"])
	assert.EqualValues(t, 10, group["total_area"])
}

func TestDashboardEmptyStore(t *testing.T) {
	setupStore(t)
	r := newRouter()

	w := doJSON(t, r, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "success", body["status"])
	stats := body["stats"].(map[string]interface{})
	assert.EqualValues(t, 0, stats["total_parcels"])
	// No data means no charts, not an error
	assert.Empty(t, body["charts"])
}

func TestRegionAnalysis(t *testing.T) {
	setupStore(t)
	region, _, _, _ := seedWorld(t)

	empty := models.Region{Name: "Barrens", Code: "B"}
	require.NoError(t, database.DB.Create(&empty).Error)
	r := newRouter()

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/region/%d", region.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	stats := body["region_stats"].(map[string]interface{})
	assert.EqualValues(t, 1, stats["total_parcels"])
	assert.EqualValues(t, 75, stats["cultivated_percentage"])

	// A region with zero parcels answers with zeros and empty breakdowns
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/region/%d", empty.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	stats = body["region_stats"].(map[string]interface{})
	assert.EqualValues(t, 0, stats["total_parcels"])
	assert.EqualValues(t, 0, stats["total_area"])
	assert.EqualValues(t, 0, stats["avg_parcel_size"])
	assert.Empty(t, body["top_crops"])
	assert.Empty(t, body["soil_distribution"])
	assert.Empty(t, body["irrigation_systems"])

	w = doJSON(t, r, http.MethodGet, "/api/region/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCropAnalysis(t *testing.T) {
	setupStore(t)
	_, _, parcel, crop := seedWorld(t)
	require.NoError(t, database.DB.Create(&models.CroppingPattern{
		LandParcelID: parcel.ID, CropID: crop.ID, Year: 2023, Season: models.SeasonRabi,
		AreaAllocated: 5, YieldAmount: 15, Revenue: 45000,
	}).Error)
	r := newRouter()

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/crop/%d", crop.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	stats := body["crop_stats"].(map[string]interface{})
	assert.EqualValues(t, 5, stats["total_area"])
	assert.EqualValues(t, 3, stats["yield_per_hectare"])
	assert.Len(t, body["yearly_trend"], 1)

	w = doJSON(t, r, http.MethodGet, "/api/crop/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnalysisDataTypeSelector(t *testing.T) {
	setupStore(t)
	r := newRouter()

	w := doJSON(t, r, http.MethodGet, "/api/analysis-data?type=trends", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "success", body["status"])
	assert.Contains(t, body, "production_trends")
	assert.NotContains(t, body, "land_analysis")

	w = doJSON(t, r, http.MethodGet, "/api/analysis-data", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	for _, key := range []string{"land_analysis", "irrigation_analysis", "crop_analysis", "production_trends"} {
		assert.Contains(t, body, key)
	}
}
