// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/opencampus/unispace/internal/handler"
	"github.com/opencampus/unispace/internal/middleware"
	"github.com/opencampus/unispace/internal/model"
)

// RegisterRoutes registers routes that need no authentication at all.
// Currently that is only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the session endpoints. Register, login, refresh and
// logout live under /v1/auth and need no bearer token; the account endpoints
// under /v1 require a valid JWT of either role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout accepts either a refresh_token body (ends that session) or a
	// bearer token alone (ends every session of the user).
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleMember, model.RoleAdmin))
	auth.GET("/me", a.Me)
	auth.POST("/me/password", a.ChangePassword)
}
