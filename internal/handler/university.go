package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/opencampus/unispace/internal/model"
	"github.com/opencampus/unispace/internal/repository"
)

// UniversityHandler serves the public directory and the admin-only
// university management surface.
type UniversityHandler struct {
	Universities *repository.UniversityRepo
}

func NewUniversityHandler(u *repository.UniversityRepo) *UniversityHandler {
	return &UniversityHandler{Universities: u}
}

// ----- DTOs -----

type universityReq struct {
	Name        string `json:"name" validate:"required,max=255"`
	EmailDomain string `json:"email_domain" validate:"required,max=255"`
}

type universityResp struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	EmailDomain string `json:"email_domain"`
	IsApproved  bool   `json:"is_approved"`
}

func newUniversityResp(u *model.University) universityResp {
	return universityResp{ID: u.ID, Name: u.Name, EmailDomain: u.EmailDomain, IsApproved: u.IsApproved}
}

func universityErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, model.ErrInvalidEmailDomain):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email domain"})
	case errors.Is(err, repository.ErrUniversityNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "university not found"})
	case errors.Is(err, repository.ErrUniversityExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "university name or domain already exists"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
}

// Directory lists approved universities. Public, cacheable.
func (h *UniversityHandler) Directory(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	unis, err := h.Universities.List(ctx, true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]universityResp, 0, len(unis))
	for _, u := range unis {
		out = append(out, newUniversityResp(u))
	}
	return c.JSON(http.StatusOK, out)
}

// Request files a university request from someone whose domain is not yet
// supported. The row is created unapproved and stays invisible to signup
// until an admin approves it.
func (h *UniversityHandler) Request(c echo.Context) error {
	var req universityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u := &model.University{Name: req.Name, EmailDomain: req.EmailDomain, IsApproved: false}
	if err := h.Universities.Create(ctx, u); err != nil {
		return universityErrorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, newUniversityResp(u))
}

// AdminList returns every university including pending requests.
func (h *UniversityHandler) AdminList(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	unis, err := h.Universities.List(ctx, false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]universityResp, 0, len(unis))
	for _, u := range unis {
		out = append(out, newUniversityResp(u))
	}
	return c.JSON(http.StatusOK, out)
}

// AdminCreate registers a university directly as approved, skipping the
// request flow.
func (h *UniversityHandler) AdminCreate(c echo.Context) error {
	var req universityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u := &model.University{Name: req.Name, EmailDomain: req.EmailDomain, IsApproved: true}
	if err := h.Universities.Create(ctx, u); err != nil {
		return universityErrorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, newUniversityResp(u))
}

// AdminUpdate renames a university or changes its email domain.
func (h *UniversityHandler) AdminUpdate(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid university id"})
	}
	var req universityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Universities.Update(ctx, id, req.Name, req.EmailDomain); err != nil {
		return universityErrorResponse(c, err)
	}
	u, err := h.Universities.GetByID(ctx, id)
	if err != nil {
		return universityErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, newUniversityResp(u))
}

// AdminApprove marks a pending university request as approved, which opens
// its domain for signups.
func (h *UniversityHandler) AdminApprove(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid university id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Universities.Approve(ctx, id); err != nil {
		return universityErrorResponse(c, err)
	}
	u, err := h.Universities.GetByID(ctx, id)
	if err != nil {
		return universityErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, newUniversityResp(u))
}

// AdminDelete removes a university and cascades over its spaces, users and
// their sessions in one transaction.
func (h *UniversityHandler) AdminDelete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid university id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Universities.Delete(ctx, id); err != nil {
		return universityErrorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
