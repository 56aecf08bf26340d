package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/opencampus/unispace/internal/utils"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects its claims into the request context. Handlers read the
// authenticated principal via c.Get("user_id"), c.Get("role") and
// c.Get("university_id"); university_id is 0 for admins and for members
// whose domain never resolved.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set("user_id", asUint64(claims["sub"]))
			c.Set("university_id", asUint64(claims["university_id"]))
			if role, ok := claims["role"].(string); ok {
				c.Set("role", role)
			}
			return next(c)
		}
	}
}

// asUint64 normalizes numeric JWT claims, which the library decodes as
// float64 (or strings from some issuers), into uint64.
func asUint64(v interface{}) uint64 {
	switch t := v.(type) {
	case float64:
		return uint64(t)
	case uint64:
		return t
	case int64:
		return uint64(t)
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}
