package router

import (
	"github.com/labstack/echo/v4"

	"github.com/opencampus/unispace/internal/handler"
)

// RegisterPublic registers the unauthenticated directory endpoints. The
// caching middleware (when enabled) wraps the directory listing since it
// changes rarely and is read by every signup page.
func RegisterPublic(e *echo.Echo, u *handler.UniversityHandler, cache echo.MiddlewareFunc) {
	if cache != nil {
		e.GET("/v1/universities", u.Directory, cache)
	} else {
		e.GET("/v1/universities", u.Directory)
	}
	// Anyone whose email domain is not yet supported can file a request;
	// the university stays pending until an admin approves it.
	e.POST("/v1/universities/request", u.Request)
}
