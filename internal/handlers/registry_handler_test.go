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

func TestCreateAndListRegions(t *testing.T) {
	setupStore(t)
	r := newRouter()

	w := doJSON(t, r, http.MethodPost, "/api/regions", map[string]interface{}{
		"name": "North Valley", "code": "NV", "total_area": 5000,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/regions", map[string]interface{}{
		"name": "Bad", "code": "B", "total_area": -1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/regions", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateRegionKeepsInvariants(t *testing.T) {
	setupStore(t)
	region, _, _, _ := seedWorld(t)
	r := newRouter()

	path := fmt.Sprintf("/api/regions/%d", region.ID)
	w := doJSON(t, r, http.MethodPut, path, map[string]interface{}{
		"total_area": -50,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPut, path, map[string]interface{}{
		"name": "North Valley Renamed",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.Region
	require.NoError(t, database.DB.First(&stored, region.ID).Error)
	assert.Equal(t, "North Valley Renamed", stored.Name)
	assert.InDelta(t, 5000, stored.TotalArea, 0.001)
}

func TestUpdateHolderKeepsInvariants(t *testing.T) {
	setupStore(t)
	_, holder, _, _ := seedWorld(t)
	r := newRouter()

	path := fmt.Sprintf("/api/holders/%d", holder.ID)
	w := doJSON(t, r, http.MethodPut, path, map[string]interface{}{
		"ownership_type": "cooperative",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPut, path, map[string]interface{}{
		"region_id": 9999,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPut, path, map[string]interface{}{
		"ownership_type": "corporate",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.LandHolder
	require.NoError(t, database.DB.First(&stored, holder.ID).Error)
	assert.Equal(t, models.OwnershipCorporate, stored.OwnershipType)
	assert.Equal(t, "A. Farmer", stored.Name)
}

func TestUpdateCropKeepsInvariants(t *testing.T) {
	setupStore(t)
	_, _, _, crop := seedWorld(t)
	r := newRouter()

	path := fmt.Sprintf("/api/crops/%d", crop.ID)
	w := doJSON(t, r, http.MethodPut, path, map[string]interface{}{
		"crop_type": "ornamental",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPut, path, map[string]interface{}{
		"season": "rabi", "growth_period": 130,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.Crop
	require.NoError(t, database.DB.First(&stored, crop.ID).Error)
	assert.Equal(t, 130, stored.GrowthPeriod)
	assert.Equal(t, models.CropCereal, stored.CropType)
}
