package model

import "testing"

func TestApplyTypeDefaults(t *testing.T) {
	t.Run("studying flags default to false", func(t *testing.T) {
		s := &Space{SpaceType: SpaceTypeStudying}
		ApplyTypeDefaults(s)
		if s.HasPlugs == nil || *s.HasPlugs {
			t.Errorf("has_plugs = %v, want false", s.HasPlugs)
		}
		if s.HasWifi == nil || *s.HasWifi {
			t.Errorf("has_wifi = %v, want false", s.HasWifi)
		}
		if s.EatingPriceRange != nil || s.CoffeeQuality != nil {
			t.Errorf("fields of other types must stay unset")
		}
	})

	t.Run("studying set values survive", func(t *testing.T) {
		s := &Space{SpaceType: SpaceTypeStudying, HasPlugs: boolPtr(true)}
		ApplyTypeDefaults(s)
		if !*s.HasPlugs {
			t.Errorf("has_plugs was overwritten")
		}
	})

	t.Run("eating defaults discounts and mid price", func(t *testing.T) {
		s := &Space{SpaceType: SpaceTypeEating}
		ApplyTypeDefaults(s)
		if s.HasStudentDiscounts == nil || *s.HasStudentDiscounts {
			t.Errorf("has_student_discounts = %v, want false", s.HasStudentDiscounts)
		}
		if s.EatingPriceRange == nil || *s.EatingPriceRange != PriceRangeDefault {
			t.Errorf("eating_price_range = %v, want %d", s.EatingPriceRange, PriceRangeDefault)
		}
	})

	t.Run("coffee defaults mid quality and price", func(t *testing.T) {
		s := &Space{SpaceType: SpaceTypeCoffee}
		ApplyTypeDefaults(s)
		if s.CoffeeQuality == nil || *s.CoffeeQuality != CoffeeQualityDefault {
			t.Errorf("coffee_quality = %v, want %d", s.CoffeeQuality, CoffeeQualityDefault)
		}
		if s.CoffeePriceRange == nil || *s.CoffeePriceRange != PriceRangeDefault {
			t.Errorf("coffee_price_range = %v, want %d", s.CoffeePriceRange, PriceRangeDefault)
		}
	})
}

func TestValidators(t *testing.T) {
	if !ValidSpaceType("coffee") || ValidSpaceType("gym") {
		t.Errorf("ValidSpaceType misclassifies")
	}
	for n, want := range map[int]bool{0: false, 1: true, 3: true, 5: true, 6: false} {
		if got := ValidOccupancy(n); got != want {
			t.Errorf("ValidOccupancy(%d) = %v, want %v", n, got, want)
		}
	}
	for n, want := range map[int]bool{0: false, 1: true, 3: true, 4: false} {
		if got := ValidPriceRange(n); got != want {
			t.Errorf("ValidPriceRange(%d) = %v, want %v", n, got, want)
		}
	}
}
