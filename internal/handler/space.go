package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/opencampus/unispace/internal/config"
	"github.com/opencampus/unispace/internal/model"
	q "github.com/opencampus/unispace/internal/queue"
	"github.com/opencampus/unispace/internal/repository"
	queuepub "github.com/opencampus/unispace/internal/service"
)

// SpaceHandler serves the space surface: the per-university dashboard,
// space CRUD and occupancy reporting. All operations load the caller from
// the database rather than trusting stale claims, so a deactivated account
// loses access immediately.
type SpaceHandler struct {
	Cfg          config.Config
	Spaces       *repository.SpaceRepo
	Users        *repository.UserRepo
	Universities *repository.UniversityRepo
}

func NewSpaceHandler(cfg config.Config, s *repository.SpaceRepo, u *repository.UserRepo, uni *repository.UniversityRepo) *SpaceHandler {
	return &SpaceHandler{Cfg: cfg, Spaces: s, Users: u, Universities: uni}
}

// ----- DTOs -----

type createSpaceReq struct {
	Name         string  `json:"name" validate:"required,max=255"`
	Location     string  `json:"location" validate:"required,max=255"`
	SpaceType    string  `json:"space_type" validate:"required,oneof=studying eating coffee"`
	ParentID     *uint64 `json:"parent_id"`
	UniversityID *uint64 `json:"university_id"` // admins only; members use their own

	HasPlugs            *bool `json:"has_plugs"`
	HasWifi             *bool `json:"has_wifi"`
	HasStudentDiscounts *bool `json:"has_student_discounts"`
	EatingPriceRange    *int  `json:"eating_price_range" validate:"omitempty,min=1,max=3"`
	CoffeeQuality       *int  `json:"coffee_quality" validate:"omitempty,min=1,max=5"`
	CoffeePriceRange    *int  `json:"coffee_price_range" validate:"omitempty,min=1,max=3"`
}

type updateSpaceReq struct {
	Name      string `json:"name" validate:"required,max=255"`
	Location  string `json:"location" validate:"required,max=255"`
	SpaceType string `json:"space_type" validate:"required,oneof=studying eating coffee"`

	HasPlugs            *bool `json:"has_plugs"`
	HasWifi             *bool `json:"has_wifi"`
	HasStudentDiscounts *bool `json:"has_student_discounts"`
	EatingPriceRange    *int  `json:"eating_price_range" validate:"omitempty,min=1,max=3"`
	CoffeeQuality       *int  `json:"coffee_quality" validate:"omitempty,min=1,max=5"`
	CoffeePriceRange    *int  `json:"coffee_price_range" validate:"omitempty,min=1,max=3"`
}

type setParentReq struct {
	ParentID *uint64 `json:"parent_id"` // null detaches
}

type reportOccupancyReq struct {
	Occupancy int `json:"occupancy" validate:"required,min=1,max=5"`
}

// loadCaller fetches the authenticated user for an authorization decision.
func (h *SpaceHandler) loadCaller(ctx context.Context, c echo.Context) (model.User, error) {
	uid, err := getUserID(c)
	if err != nil {
		return model.User{}, err
	}
	return h.Users.GetByID(ctx, uid)
}

// Dashboard returns the caller's university with its full space tree.
// Composite spaces carry derived occupancy; a member without a university
// (unresolved domain) gets an empty dashboard rather than an error.
func (h *SpaceHandler) Dashboard(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.loadCaller(ctx, c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := requireActive(c, u); err != nil {
		return err
	}
	if u.UniversityID == nil {
		return c.JSON(http.StatusOK, echo.Map{"university": nil, "spaces": []spaceView{}})
	}

	uni, err := h.Universities.GetByID(ctx, *u.UniversityID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	tree, err := h.Spaces.TreeByUniversity(ctx, uni.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	views := make([]spaceView, 0)
	for _, root := range tree.Roots() {
		views = append(views, newSpaceView(tree, root))
		for _, s := range tree.Descendants(root.ID) {
			views = append(views, newSpaceView(tree, s))
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"university": echo.Map{"id": uni.ID, "name": uni.Name, "email_domain": uni.EmailDomain},
		"spaces":     views,
	})
}

// GetSpace returns one space with derived occupancy, its full name and its
// direct children. Members only see spaces of their own university.
func (h *SpaceHandler) GetSpace(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid space id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.loadCaller(ctx, c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := requireActive(c, u); err != nil {
		return err
	}

	s, err := h.Spaces.GetByID(ctx, id)
	if err != nil {
		return spaceErrorResponse(c, err)
	}
	if !u.IsAdmin() && !u.SameUniversity(s) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "space not found"})
	}

	tree, err := h.Spaces.TreeByUniversity(ctx, s.UniversityID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	children := make([]spaceView, 0)
	for _, ch := range tree.Children(id) {
		children = append(children, newSpaceView(tree, ch))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"space":    newSpaceView(tree, tree.Space(id)),
		"children": children,
	})
}

// CreateSpace adds a space. Members create inside their own university; an
// admin must name the target university in the body. Type-specific defaults
// are filled in before the insert.
func (h *SpaceHandler) CreateSpace(c echo.Context) error {
	var req createSpaceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.loadCaller(ctx, c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := requireActive(c, u); err != nil {
		return err
	}

	var universityID uint64
	switch {
	case u.IsAdmin():
		if req.UniversityID == nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "university_id required"})
		}
		universityID = *req.UniversityID
	case u.UniversityID != nil:
		universityID = *u.UniversityID
	default:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no university associated with account"})
	}

	s := &model.Space{
		UniversityID: universityID,
		Name:         req.Name,
		Location:     req.Location,
		SpaceType:    req.SpaceType,
		ParentID:     req.ParentID,

		HasPlugs:            req.HasPlugs,
		HasWifi:             req.HasWifi,
		HasStudentDiscounts: req.HasStudentDiscounts,
		EatingPriceRange:    req.EatingPriceRange,
		CoffeeQuality:       req.CoffeeQuality,
		CoffeePriceRange:    req.CoffeePriceRange,
	}
	if err := h.Spaces.Create(ctx, s); err != nil {
		return spaceErrorResponse(c, err)
	}

	tree, err := h.Spaces.TreeByUniversity(ctx, universityID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusCreated, newSpaceView(tree, tree.Space(s.ID)))
}

// UpdateSpace edits a space's descriptive fields. Occupancy and the parent
// link have dedicated endpoints.
func (h *SpaceHandler) UpdateSpace(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid space id"})
	}
	var req updateSpaceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.loadCaller(ctx, c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	existing, err := h.Spaces.GetByID(ctx, id)
	if err != nil {
		return spaceErrorResponse(c, err)
	}
	if !u.CanManageSpace(existing) {
		if err := requireActive(c, u); err != nil {
			return err
		}
		return c.JSON(http.StatusNotFound, echo.Map{"error": "space not found"})
	}

	existing.Name = req.Name
	existing.Location = req.Location
	existing.SpaceType = req.SpaceType
	existing.HasPlugs = req.HasPlugs
	existing.HasWifi = req.HasWifi
	existing.HasStudentDiscounts = req.HasStudentDiscounts
	existing.EatingPriceRange = req.EatingPriceRange
	existing.CoffeeQuality = req.CoffeeQuality
	existing.CoffeePriceRange = req.CoffeePriceRange

	if err := h.Spaces.Update(ctx, existing); err != nil {
		return spaceErrorResponse(c, err)
	}

	tree, err := h.Spaces.TreeByUniversity(ctx, existing.UniversityID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, newSpaceView(tree, tree.Space(id)))
}

// SetSpaceParent moves a space under a new parent or detaches it. The new
// parent must belong to the same university and must not be the space itself
// or any of its descendants.
func (h *SpaceHandler) SetSpaceParent(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid space id"})
	}
	var req setParentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.loadCaller(ctx, c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	existing, err := h.Spaces.GetByID(ctx, id)
	if err != nil {
		return spaceErrorResponse(c, err)
	}
	if !u.CanManageSpace(existing) {
		if err := requireActive(c, u); err != nil {
			return err
		}
		return c.JSON(http.StatusNotFound, echo.Map{"error": "space not found"})
	}

	if err := h.Spaces.SetParent(ctx, id, req.ParentID); err != nil {
		return spaceErrorResponse(c, err)
	}

	tree, err := h.Spaces.TreeByUniversity(ctx, existing.UniversityID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, newSpaceView(tree, tree.Space(id)))
}

// DeleteSpace removes a childless space. Composites must have their leaves
// removed first.
func (h *SpaceHandler) DeleteSpace(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid space id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.loadCaller(ctx, c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	existing, err := h.Spaces.GetByID(ctx, id)
	if err != nil {
		return spaceErrorResponse(c, err)
	}
	if !u.CanManageSpace(existing) {
		if err := requireActive(c, u); err != nil {
			return err
		}
		return c.JSON(http.StatusNotFound, echo.Map{"error": "space not found"})
	}

	if err := h.Spaces.Delete(ctx, id, existing.UniversityID); err != nil {
		return spaceErrorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ReportOccupancy records a 1..5 occupancy report for a leaf or composite
// space. Only active members of the space's university may report; composite
// spaces accept a direct report too, which then overrides the derived value.
// An event is published for the activity log; publish failures never fail
// the report.
func (h *SpaceHandler) ReportOccupancy(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid space id"})
	}
	var req reportOccupancyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !model.ValidOccupancy(req.Occupancy) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "occupancy must be between 1 and 5"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.loadCaller(ctx, c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	s, err := h.Spaces.GetByID(ctx, id)
	if err != nil {
		return spaceErrorResponse(c, err)
	}
	if !u.CanReportOccupancy(s) {
		if err := requireActive(c, u); err != nil {
			return err
		}
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.Spaces.ReportOccupancy(ctx, id, u.ID, req.Occupancy); err != nil {
		return spaceErrorResponse(c, err)
	}

	tree, err := h.Spaces.TreeByUniversity(ctx, s.UniversityID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	uniName := ""
	if uni, err := h.Universities.GetByID(ctx, s.UniversityID); err == nil {
		uniName = uni.Name
	}
	_ = queuepub.PublishOccupancyReported(ctx, q.OccupancyReportedEvent{
		SpaceID:        id,
		SpaceFullName:  tree.FullName(id),
		SpaceType:      s.SpaceType,
		UniversityID:   s.UniversityID,
		UniversityName: uniName,
		ReporterID:     u.ID,
		Occupancy:      req.Occupancy,
		ReportedAt:     time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, newSpaceView(tree, tree.Space(id)))
}
