package router

import (
	"github.com/labstack/echo/v4"

	"github.com/opencampus/unispace/internal/handler"
	"github.com/opencampus/unispace/internal/middleware"
	"github.com/opencampus/unispace/internal/model"
)

// RegisterSpaces registers the space surface under /v1. Reading and managing
// spaces is open to members and admins; the dashboard and occupancy reporting
// live on a member-only group because only members hold a university-scoped
// session. An admin hitting them gets 403 and is expected to use the admin
// surface instead.
func RegisterSpaces(e *echo.Echo, h *handler.SpaceHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleMember, model.RoleAdmin),
	)
	g.GET("/spaces/:id", h.GetSpace)
	g.POST("/spaces", h.CreateSpace)
	g.PUT("/spaces/:id", h.UpdateSpace)
	g.PATCH("/spaces/:id", h.UpdateSpace)
	g.PUT("/spaces/:id/parent", h.SetSpaceParent)
	g.DELETE("/spaces/:id", h.DeleteSpace)

	m := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleMember),
	)
	m.GET("/dashboard", h.Dashboard)
	m.POST("/spaces/:id/occupancy", h.ReportOccupancy)
}
