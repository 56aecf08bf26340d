package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencampus/unispace/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:      "test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     4,
	}
}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHealth(t *testing.T) {
	c, rec := newTestContext(t, http.MethodGet, "/healthz", "")
	require.NoError(t, Health(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestValidatorRejectsBadStruct(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&registerReq{Email: "not-an-email", Password: "longenough"})
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)

	err = v.Validate(&registerReq{Email: "a@b.edu", Password: "short"})
	require.Error(t, err)

	require.NoError(t, v.Validate(&registerReq{Email: "a@b.edu", Password: "longenough"}))
}

func TestValidatorSpaceTypeEnum(t *testing.T) {
	v := NewValidator()

	base := createSpaceReq{Name: "Library", Location: "Main", SpaceType: "studying"}
	require.NoError(t, v.Validate(&base))

	bad := base
	bad.SpaceType = "parking"
	require.Error(t, v.Validate(&bad))

	tooCheap := base
	tooCheap.SpaceType = "eating"
	zero := 0
	tooCheap.EatingPriceRange = &zero
	require.Error(t, v.Validate(&tooCheap))
}

func TestRegisterRejectsInvalidBody(t *testing.T) {
	h := NewAuthHandler(testConfig(), nil, nil, nil)

	// Validation fails before any repository is touched, so nil repos are safe.
	c, _ := newTestContext(t, http.MethodPost, "/v1/auth/register",
		`{"email":"nope","password":"longenough"}`)
	err := h.Register(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestActivateUserRejectsBadID(t *testing.T) {
	h := NewAuthHandler(testConfig(), nil, nil, nil)
	c, rec := newTestContext(t, http.MethodPost, "/v1/admin/users/abc/activate", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	require.NoError(t, h.ActivateUser(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportOccupancyRejectsOutOfRange(t *testing.T) {
	h := &SpaceHandler{}

	for _, body := range []string{`{"occupancy":0}`, `{"occupancy":6}`, `{"occupancy":-1}`} {
		c, rec := newTestContext(t, http.MethodPost, "/v1/spaces/1/occupancy", body)
		c.SetParamNames("id")
		c.SetParamValues("1")
		require.NoError(t, h.ReportOccupancy(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestReportOccupancyRejectsBadID(t *testing.T) {
	h := &SpaceHandler{}
	c, rec := newTestContext(t, http.MethodPost, "/v1/spaces/abc/occupancy", `{"occupancy":3}`)
	c.SetParamNames("id")
	c.SetParamValues("abc")
	require.NoError(t, h.ReportOccupancy(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUserID(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		want    uint64
		wantErr bool
	}{
		{"uint64", uint64(42), 42, false},
		{"int", 7, 7, false},
		{"int64", int64(9), 9, false},
		{"float64 from jwt claims", float64(31), 31, false},
		{"numeric string", "12", 12, false},
		{"garbage string", "abc", 0, true},
		{"missing", nil, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext(t, http.MethodGet, "/", "")
			if tt.value != nil {
				c.Set("user_id", tt.value)
			}
			got, err := getUserID(c)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
