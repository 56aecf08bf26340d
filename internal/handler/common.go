// Package handler implements the HTTP endpoints: request binding and
// validation, authorization decisions over loaded users, and mapping of
// repository sentinels onto JSON error responses.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/opencampus/unispace/internal/model"
	"github.com/opencampus/unispace/internal/repository"
)

// dbTimeout bounds every database call made from a handler.
const dbTimeout = 5 * time.Second

// getUserID extracts the user_id stored by the JWT middleware and converts
// it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses the numeric :id route parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// requireActive enforces the verification gate on member surfaces: an
// inactive (unverified) member is told to verify instead of receiving a
// plain denial.
func requireActive(c echo.Context, u model.User) error {
	if u.IsActive {
		return nil
	}
	return c.JSON(http.StatusForbidden, echo.Map{"error": "verification_required"})
}

// spaceView is the JSON shape for a space within its university tree.
// Occupancy is the effective (possibly aggregated) value; nil means unknown.
type spaceView struct {
	ID          uint64   `json:"id"`
	Name        string   `json:"name"`
	FullName    string   `json:"full_name"`
	Location    string   `json:"location"`
	SpaceType   string   `json:"space_type"`
	ParentID    *uint64  `json:"parent_id"`
	IsComposite bool     `json:"is_composite"`
	Occupancy   *float64 `json:"occupancy"`

	LastUpdated   *time.Time `json:"last_updated,omitempty"`
	LastUpdatedBy *uint64    `json:"last_updated_by,omitempty"`

	HasPlugs            *bool `json:"has_plugs,omitempty"`
	HasWifi             *bool `json:"has_wifi,omitempty"`
	HasStudentDiscounts *bool `json:"has_student_discounts,omitempty"`
	EatingPriceRange    *int  `json:"eating_price_range,omitempty"`
	CoffeeQuality       *int  `json:"coffee_quality,omitempty"`
	CoffeePriceRange    *int  `json:"coffee_price_range,omitempty"`
}

func newSpaceView(t *model.Tree, s *model.Space) spaceView {
	return spaceView{
		ID:            s.ID,
		Name:          s.Name,
		FullName:      t.FullName(s.ID),
		Location:      s.Location,
		SpaceType:     s.SpaceType,
		ParentID:      s.ParentID,
		IsComposite:   t.IsComposite(s.ID),
		Occupancy:     t.Occupancy(s.ID),
		LastUpdated:   s.LastUpdated,
		LastUpdatedBy: s.LastUpdatedBy,

		HasPlugs:            s.HasPlugs,
		HasWifi:             s.HasWifi,
		HasStudentDiscounts: s.HasStudentDiscounts,
		EatingPriceRange:    s.EatingPriceRange,
		CoffeeQuality:       s.CoffeeQuality,
		CoffeePriceRange:    s.CoffeePriceRange,
	}
}

// spaceErrorResponse maps repository sentinels from space writes onto HTTP
// responses. Unrecognized errors fall through to a 500.
func spaceErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrSpaceNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "space not found"})
	case errors.Is(err, repository.ErrDuplicateSpace):
		return c.JSON(http.StatusConflict, echo.Map{"error": "space with this name and location already exists"})
	case errors.Is(err, repository.ErrCircularParent):
		return c.JSON(http.StatusConflict, echo.Map{"error": "circular_parent"})
	case errors.Is(err, repository.ErrParentUniversityMismatch):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "parent belongs to a different university"})
	case errors.Is(err, repository.ErrSpaceHasChildren):
		return c.JSON(http.StatusConflict, echo.Map{"error": "space still has children; delete leaves first"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
}
