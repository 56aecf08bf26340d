package model

import "time"

// Space types. Every space is exactly one of these; the type decides which
// of the optional attribute columns are meaningful.
const (
	SpaceTypeStudying = "studying"
	SpaceTypeEating   = "eating"
	SpaceTypeCoffee   = "coffee"
)

// Occupancy is self-reported on a 1 (empty) to 5 (packed) scale.
const (
	OccupancyMin = 1
	OccupancyMax = 5
)

// Price ranges for eating and coffee spaces: 1 ($) to 3 ($$$). 2 is the
// middle tier used as the default.
const (
	PriceRangeMin     = 1
	PriceRangeDefault = 2
	PriceRangeMax     = 3
)

// Coffee quality runs 1..5 with 3 as the mid-scale default.
const (
	CoffeeQualityMin     = 1
	CoffeeQualityDefault = 3
	CoffeeQualityMax     = 5
)

// Space is a physical location belonging to one university. Spaces form a
// tree via ParentID: a space with children is a "composite" whose occupancy
// is derived from its descendants instead of being reported directly.
// Pointer fields are nil when the column is NULL; type-specific fields are
// only populated for the matching SpaceType.
//
// Fields:
//  ID                  – primary key identifier.
//  UniversityID        – owning university (required).
//  Name                – display name; (university, name, location) is unique.
//  Location            – free-form location string.
//  SpaceType           – one of the SpaceType* constants.
//  CurrentOccupancy    – last reported occupancy (nil when never reported).
//  ParentID            – parent space (nil for roots).
//  LastUpdatedBy       – user who last reported occupancy (nil after user deletion).
//  LastUpdated         – when occupancy was last reported.
//  HasPlugs, HasWifi   – studying spaces.
//  HasStudentDiscounts – eating spaces.
//  EatingPriceRange    – eating spaces, 1..3.
//  CoffeeQuality       – coffee spaces, 1..5.
//  CoffeePriceRange    – coffee spaces, 1..3.
type Space struct {
	ID               uint64     // spaces.id
	UniversityID     uint64     // spaces.university_id
	Name             string     // spaces.name
	Location         string     // spaces.location
	SpaceType        string     // spaces.space_type
	CurrentOccupancy *int       // spaces.current_occupancy (nullable)
	ParentID         *uint64    // spaces.parent_id (nullable)
	LastUpdatedBy    *uint64    // spaces.last_updated_by (nullable)
	LastUpdated      *time.Time // spaces.last_updated (nullable)

	HasPlugs            *bool // spaces.has_plugs (studying)
	HasWifi             *bool // spaces.has_wifi (studying)
	HasStudentDiscounts *bool // spaces.has_student_discounts (eating)
	EatingPriceRange    *int  // spaces.eating_price_range (eating)
	CoffeeQuality       *int  // spaces.coffee_quality (coffee)
	CoffeePriceRange    *int  // spaces.coffee_price_range (coffee)
}

// ValidSpaceType reports whether s is one of the known space types.
func ValidSpaceType(s string) bool {
	switch s {
	case SpaceTypeStudying, SpaceTypeEating, SpaceTypeCoffee:
		return true
	}
	return false
}

// ValidOccupancy reports whether n is inside the reportable 1..5 range.
func ValidOccupancy(n int) bool {
	return n >= OccupancyMin && n <= OccupancyMax
}

// ValidPriceRange reports whether n is a known price tier.
func ValidPriceRange(n int) bool {
	return n >= PriceRangeMin && n <= PriceRangeMax
}

// ApplyTypeDefaults fills in the fields relevant to the space's type that
// were left unset. Fields belonging to other types are left alone. Applied
// on every save so a space never ends up with NULL values for its own type's
// attributes:
//   studying – has_plugs and has_wifi default to false
//   eating   – has_student_discounts defaults to false, price range to the middle tier
//   coffee   – quality defaults to mid-scale, price range to the middle tier
func ApplyTypeDefaults(s *Space) {
	switch s.SpaceType {
	case SpaceTypeStudying:
		if s.HasPlugs == nil {
			s.HasPlugs = boolPtr(false)
		}
		if s.HasWifi == nil {
			s.HasWifi = boolPtr(false)
		}
	case SpaceTypeEating:
		if s.HasStudentDiscounts == nil {
			s.HasStudentDiscounts = boolPtr(false)
		}
		if s.EatingPriceRange == nil {
			s.EatingPriceRange = intPtr(PriceRangeDefault)
		}
	case SpaceTypeCoffee:
		if s.CoffeeQuality == nil {
			s.CoffeeQuality = intPtr(CoffeeQualityDefault)
		}
		if s.CoffeePriceRange == nil {
			s.CoffeePriceRange = intPtr(PriceRangeDefault)
		}
	}
}

func boolPtr(b bool) *bool { return &b }
func intPtr(n int) *int    { return &n }
