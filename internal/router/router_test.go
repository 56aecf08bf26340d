package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencampus/unispace/internal/handler"
	"github.com/opencampus/unispace/internal/model"
	"github.com/opencampus/unispace/internal/utils"
)

const testSecret = "test-secret"

// serve runs one request through the full routing stack. Handlers that
// reach their repositories would panic on the zero-value handler structs,
// so these tests only assert on requests the middleware must stop.
func serve(t *testing.T, e *echo.Echo, method, target, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func adminToken(t *testing.T) string {
	t.Helper()
	tok, err := utils.NewAccessToken(testSecret, 2, model.RoleAdmin, 0, 15)
	require.NoError(t, err)
	return tok.Token
}

func memberToken(t *testing.T) string {
	t.Helper()
	tok, err := utils.NewAccessToken(testSecret, 1, model.RoleMember, 7, 15)
	require.NoError(t, err)
	return tok.Token
}

func TestMemberOnlySurfacesRejectAdmins(t *testing.T) {
	e := echo.New()
	RegisterSpaces(e, &handler.SpaceHandler{}, testSecret)

	t.Run("dashboard", func(t *testing.T) {
		rec := serve(t, e, http.MethodGet, "/v1/dashboard", adminToken(t))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("occupancy report", func(t *testing.T) {
		rec := serve(t, e, http.MethodPost, "/v1/spaces/1/occupancy", adminToken(t))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("dashboard without token", func(t *testing.T) {
		rec := serve(t, e, http.MethodGet, "/v1/dashboard", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAdminSurfaceRejectsMembers(t *testing.T) {
	e := echo.New()
	RegisterAdmin(e, &handler.UniversityHandler{}, &handler.AuthHandler{}, testSecret)

	t.Run("university list", func(t *testing.T) {
		rec := serve(t, e, http.MethodGet, "/v1/admin/universities", memberToken(t))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("user activation", func(t *testing.T) {
		rec := serve(t, e, http.MethodPost, "/v1/admin/users/1/activate", memberToken(t))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("no token", func(t *testing.T) {
		rec := serve(t, e, http.MethodPost, "/v1/admin/users/1/activate", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
