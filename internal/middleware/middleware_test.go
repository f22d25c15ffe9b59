package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"laundry-service/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims models.Claims, secret string) string {
	t.Helper()
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	api := e.Group("/api", Auth(testSecret))
	api.GET("/whoami", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"id":   c.Get("userID").(string),
			"name": c.Get("userName").(string),
			"role": c.Get("userRole").(string),
		})
	})
	staff := api.Group("/staff", RequireRole(models.RoleStaff))
	staff.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	return e
}

func get(e *echo.Echo, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthSetsIdentity(t *testing.T) {
	e := newTestEcho()
	token := signToken(t, models.Claims{UserID: "u1", Name: "Asha", Role: models.RoleStaff}, testSecret)

	rec := get(e, "/api/whoami", token)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"u1","name":"Asha","role":"staff"}`, rec.Body.String())
}

func TestAuthFallsBackToSubjectAndCustomerRole(t *testing.T) {
	e := newTestEcho()
	claims := models.Claims{Name: "Kiran"}
	claims.Subject = "firebase-uid"
	token := signToken(t, claims, testSecret)

	rec := get(e, "/api/whoami", token)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"firebase-uid","name":"Kiran","role":"customer"}`, rec.Body.String())
}

func TestAuthRejectsBadTokens(t *testing.T) {
	e := newTestEcho()
	expired := models.Claims{UserID: "u1"}
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	assert.Equal(t, http.StatusUnauthorized, get(e, "/api/whoami", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(e, "/api/whoami", signToken(t, models.Claims{UserID: "u1"}, "wrong")).Code)
	assert.Equal(t, http.StatusUnauthorized, get(e, "/api/whoami", signToken(t, expired, testSecret)).Code)
}

func TestRequireRole(t *testing.T) {
	e := newTestEcho()

	customer := signToken(t, models.Claims{UserID: "u1", Role: models.RoleCustomer}, testSecret)
	staff := signToken(t, models.Claims{UserID: "s1", Role: models.RoleStaff}, testSecret)

	assert.Equal(t, http.StatusForbidden, get(e, "/api/staff/ping", customer).Code)
	assert.Equal(t, http.StatusNoContent, get(e, "/api/staff/ping", staff).Code)
}

func TestRateLimit(t *testing.T) {
	limit, err := RateLimit("2-M")
	require.NoError(t, err)

	e := echo.New()
	e.POST("/pay", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, limit)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/pay", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	_, err = RateLimit("ten per minute")
	assert.Error(t, err)
}
