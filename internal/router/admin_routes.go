package router

import (
	"github.com/labstack/echo/v4"

	"github.com/opencampus/unispace/internal/handler"
	"github.com/opencampus/unispace/internal/middleware"
	"github.com/opencampus/unispace/internal/model"
)

// RegisterAdmin registers the management surface under /v1/admin. Every
// route requires a valid JWT with the ADMIN role.
func RegisterAdmin(e *echo.Echo, u *handler.UniversityHandler, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	g.GET("/universities", u.AdminList)
	g.POST("/universities", u.AdminCreate)
	g.PUT("/universities/:id", u.AdminUpdate)
	g.PATCH("/universities/:id", u.AdminUpdate)
	g.POST("/universities/:id/approve", u.AdminApprove)
	g.DELETE("/universities/:id", u.AdminDelete)
	g.POST("/users/:id/activate", a.ActivateUser)
}
