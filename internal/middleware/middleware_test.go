package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/opencampus/unispace/internal/model"
	"github.com/opencampus/unispace/internal/utils"
)

const testSecret = "test-secret"

func doRequest(e *echo.Echo, mw []echo.MiddlewareFunc, header string) *httptest.ResponseRecorder {
	h := func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"user_id":       c.Get("user_id"),
			"role":          c.Get("role"),
			"university_id": c.Get("university_id"),
		})
	}
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = h(c)
	return rec
}

func TestJWTAuth(t *testing.T) {
	e := echo.New()
	mw := []echo.MiddlewareFunc{JWTAuth(testSecret)}

	t.Run("missing header", func(t *testing.T) {
		rec := doRequest(e, mw, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := doRequest(e, mw, "Bearer not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		tok, err := utils.NewAccessToken("other-secret", 1, model.RoleMember, 1, 15)
		assert.NoError(t, err)
		rec := doRequest(e, mw, "Bearer "+tok.Token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token populates context", func(t *testing.T) {
		tok, err := utils.NewAccessToken(testSecret, 42, model.RoleMember, 7, 15)
		assert.NoError(t, err)
		rec := doRequest(e, mw, "Bearer "+tok.Token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"user_id":42,"role":"MEMBER","university_id":7}`, rec.Body.String())
	})
}

func TestRequireRole(t *testing.T) {
	e := echo.New()

	memberOnly := []echo.MiddlewareFunc{JWTAuth(testSecret), RequireRole(model.RoleMember)}

	t.Run("member passes", func(t *testing.T) {
		tok, _ := utils.NewAccessToken(testSecret, 1, model.RoleMember, 1, 15)
		rec := doRequest(e, memberOnly, "Bearer "+tok.Token)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("admin rejected on member surface", func(t *testing.T) {
		tok, _ := utils.NewAccessToken(testSecret, 2, model.RoleAdmin, 0, 15)
		rec := doRequest(e, memberOnly, "Bearer "+tok.Token)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		tok, _ := utils.NewAccessToken(testSecret, 3, "JANITOR", 0, 15)
		rec := doRequest(e, memberOnly, "Bearer "+tok.Token)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin passes admin surface", func(t *testing.T) {
		adminOnly := []echo.MiddlewareFunc{JWTAuth(testSecret), RequireRole(model.RoleAdmin)}
		tok, _ := utils.NewAccessToken(testSecret, 2, model.RoleAdmin, 0, 15)
		rec := doRequest(e, adminOnly, "Bearer "+tok.Token)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
