package models

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// User - The person logging into the registry
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50" json:"username"`
	PasswordHash string    `json:"-"`    // Never return this in JSON
	Role         string    `json:"role"` // 'admin', 'staff'
	CreatedAt    time.Time `json:"created_at"`
}

// Region - Administrative area that land holders belong to
type Region struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	Name      string  `gorm:"size:100" json:"name"`
	Code      string  `gorm:"uniqueIndex;size:10" json:"code"`
	TotalArea float64 `json:"total_area"` // hectares

	LandHolders []LandHolder `gorm:"foreignKey:RegionID;constraint:OnDelete:CASCADE" json:"-"`
}

// Ownership types for LandHolder
const (
	OwnershipIndividual = "individual"
	OwnershipCorporate  = "corporate"
	OwnershipGovernment = "government"
	OwnershipCommunity  = "community"
)

// LandHolder - The owner of one or more parcels
type LandHolder struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Name          string `gorm:"size:200" json:"name"`
	OwnershipType string `gorm:"size:20" json:"ownership_type"`
	ContactEmail  string `gorm:"size:254" json:"contact_email"`
	ContactPhone  string `gorm:"size:15" json:"contact_phone"`
	RegionID      uint   `gorm:"index" json:"region_id"`

	Region  Region       `json:"region,omitempty"`
	Parcels []LandParcel `gorm:"foreignKey:LandHolderID;constraint:OnDelete:CASCADE" json:"-"`
}

// Soil types for LandParcel
const (
	SoilClay   = "clay"
	SoilSandy  = "sandy"
	SoilLoamy  = "loamy"
	SoilSilt   = "silt"
	SoilPeat   = "peat"
	SoilChalky = "chalky"
)

// LandParcel - A distinct, uniquely identified piece of land
type LandParcel struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	LandHolderID   uint      `gorm:"index" json:"land_holder_id"`
	ParcelID       string    `gorm:"uniqueIndex;size:50" json:"parcel_id"`
	TotalArea      float64   `json:"total_area"`      // hectares
	CultivatedArea float64   `json:"cultivated_area"` // hectares
	SoilType       string    `gorm:"size:20" json:"soil_type"`
	Latitude       *float64  `json:"latitude"`
	Longitude      *float64  `json:"longitude"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	LandHolder       LandHolder        `json:"land_holder,omitempty"`
	Irrigation       *IrrigationSystem `gorm:"foreignKey:LandParcelID;constraint:OnDelete:CASCADE" json:"irrigation,omitempty"`
	CroppingPatterns []CroppingPattern `gorm:"foreignKey:LandParcelID;constraint:OnDelete:CASCADE" json:"-"`
	Analyses         []LandAnalysis    `gorm:"foreignKey:LandParcelID;constraint:OnDelete:CASCADE" json:"-"`
}

// CultivationPercentage is cultivated area over total area, as a percentage.
func (p *LandParcel) CultivationPercentage() float64 {
	if p.TotalArea <= 0 {
		return 0
	}
	return p.CultivatedArea / p.TotalArea * 100
}

// Irrigation system types and water sources
const (
	IrrigationDrip        = "drip"
	IrrigationSprinkler   = "sprinkler"
	IrrigationFlood       = "flood"
	IrrigationCenterPivot = "center_pivot"
	IrrigationManual      = "manual"
	IrrigationNone        = "none"

	WaterSourceWell      = "well"
	WaterSourceCanal     = "canal"
	WaterSourceRiver     = "river"
	WaterSourceRain      = "rain"
	WaterSourceReservoir = "reservoir"
	WaterSourceMunicipal = "municipal"
)

// IrrigationSystem - At most one per parcel
type IrrigationSystem struct {
	ID               uint    `gorm:"primaryKey" json:"id"`
	LandParcelID     uint    `gorm:"uniqueIndex" json:"land_parcel_id"`
	SystemType       string  `gorm:"size:20" json:"system_type"`
	WaterSource      string  `gorm:"size:20" json:"water_source"`
	EfficiencyRating int     `json:"efficiency_rating"`  // 1-100
	AnnualWaterUsage float64 `json:"annual_water_usage"` // cubic meters
	IsAutomated      bool    `json:"is_automated"`
}

// Crop types and seasons
const (
	CropCereal    = "cereal"
	CropPulse     = "pulse"
	CropVegetable = "vegetable"
	CropFruit     = "fruit"
	CropCash      = "cash"
	CropFodder    = "fodder"

	SeasonKharif = "kharif" // monsoon
	SeasonRabi   = "rabi"   // winter
	SeasonZaid   = "zaid"   // summer
	SeasonAnnual = "annual"
)

// Crop - A crop variety that can be planted on parcels
type Crop struct {
	ID               uint    `gorm:"primaryKey" json:"id"`
	Name             string  `gorm:"size:100" json:"name"`
	CropType         string  `gorm:"size:20" json:"crop_type"`
	Season           string  `gorm:"size:20" json:"season"`
	GrowthPeriod     int     `json:"growth_period"`     // days
	WaterRequirement float64 `json:"water_requirement"` // mm
}

// CroppingPattern - Which crop was grown on which parcel, when, and with
// what outcome. Unique per (parcel, crop, year, season).
type CroppingPattern struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	LandParcelID  uint    `gorm:"index;uniqueIndex:idx_pattern_tuple" json:"land_parcel_id"`
	CropID        uint    `gorm:"index;uniqueIndex:idx_pattern_tuple" json:"crop_id"`
	Year          int     `gorm:"uniqueIndex:idx_pattern_tuple" json:"year"`
	Season        string  `gorm:"size:20;uniqueIndex:idx_pattern_tuple" json:"season"`
	AreaAllocated float64 `json:"area_allocated"` // hectares
	YieldAmount   float64 `json:"yield_amount"`   // tons
	Revenue       float64 `json:"revenue"`        // local currency

	LandParcel LandParcel `json:"-"`
	Crop       Crop       `json:"crop,omitempty"`
}

// LandAnalysis - A point-in-time soil/water/productivity assessment
type LandAnalysis struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	LandParcelID      uint      `gorm:"index" json:"land_parcel_id"`
	AnalysisDate      time.Time `json:"analysis_date"`
	SoilHealthIndex   int       `json:"soil_health_index"`  // 1-100
	WaterAvailability int       `json:"water_availability"` // 1-100
	ProductivityScore int       `json:"productivity_score"` // 1-100
	Recommendations   string    `json:"recommendations"`
}

// --- VALIDATION HOOKS ---
// Invalid records are rejected before they reach the store, so the
// aggregation layer can trust these invariants on every read.

var soilTypes = map[string]bool{
	SoilClay: true, SoilSandy: true, SoilLoamy: true,
	SoilSilt: true, SoilPeat: true, SoilChalky: true,
}

var ownershipTypes = map[string]bool{
	OwnershipIndividual: true, OwnershipCorporate: true,
	OwnershipGovernment: true, OwnershipCommunity: true,
}

var systemTypes = map[string]bool{
	IrrigationDrip: true, IrrigationSprinkler: true, IrrigationFlood: true,
	IrrigationCenterPivot: true, IrrigationManual: true, IrrigationNone: true,
}

var waterSources = map[string]bool{
	WaterSourceWell: true, WaterSourceCanal: true, WaterSourceRiver: true,
	WaterSourceRain: true, WaterSourceReservoir: true, WaterSourceMunicipal: true,
}

var cropTypes = map[string]bool{
	CropCereal: true, CropPulse: true, CropVegetable: true,
	CropFruit: true, CropCash: true, CropFodder: true,
}

var seasons = map[string]bool{
	SeasonKharif: true, SeasonRabi: true, SeasonZaid: true, SeasonAnnual: true,
}

func (r *Region) BeforeSave(tx *gorm.DB) error {
	if r.TotalArea < 0 {
		return errors.New("region total area must not be negative")
	}
	return nil
}

func (h *LandHolder) BeforeSave(tx *gorm.DB) error {
	if !ownershipTypes[h.OwnershipType] {
		return fmt.Errorf("invalid ownership type %q", h.OwnershipType)
	}
	return nil
}

func (p *LandParcel) BeforeSave(tx *gorm.DB) error {
	if p.TotalArea < 0 {
		return errors.New("total area must not be negative")
	}
	if p.CultivatedArea < 0 || p.CultivatedArea > p.TotalArea {
		return errors.New("cultivated area must be between 0 and total area")
	}
	if !soilTypes[p.SoilType] {
		return fmt.Errorf("invalid soil type %q", p.SoilType)
	}
	return nil
}

func (s *IrrigationSystem) BeforeSave(tx *gorm.DB) error {
	if s.EfficiencyRating < 1 || s.EfficiencyRating > 100 {
		return errors.New("efficiency rating must be between 1 and 100")
	}
	if s.AnnualWaterUsage < 0 {
		return errors.New("annual water usage must not be negative")
	}
	if !systemTypes[s.SystemType] {
		return fmt.Errorf("invalid system type %q", s.SystemType)
	}
	if !waterSources[s.WaterSource] {
		return fmt.Errorf("invalid water source %q", s.WaterSource)
	}
	return nil
}

func (c *Crop) BeforeSave(tx *gorm.DB) error {
	if !cropTypes[c.CropType] {
		return fmt.Errorf("invalid crop type %q", c.CropType)
	}
	if !seasons[c.Season] {
		return fmt.Errorf("invalid season %q", c.Season)
	}
	if c.GrowthPeriod < 0 {
		return errors.New("growth period must not be negative")
	}
	return nil
}

func (cp *CroppingPattern) BeforeSave(tx *gorm.DB) error {
	if cp.Year < 2000 || cp.Year > 2030 {
		return errors.New("year must be between 2000 and 2030")
	}
	if !seasons[cp.Season] {
		return fmt.Errorf("invalid season %q", cp.Season)
	}
	if cp.AreaAllocated < 0 || cp.YieldAmount < 0 || cp.Revenue < 0 {
		return errors.New("area, yield and revenue must not be negative")
	}
	return nil
}

func (a *LandAnalysis) BeforeSave(tx *gorm.DB) error {
	for _, score := range []int{a.SoilHealthIndex, a.WaterAvailability, a.ProductivityScore} {
		if score < 1 || score > 100 {
			return errors.New("analysis scores must be between 1 and 100")
		}
	}
	return nil
}
