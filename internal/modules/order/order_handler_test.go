package order

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"laundry-service/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, userID, role string) (*echo.Echo, *Service) {
	t.Helper()
	svc, _, _ := newTestService()
	e := echo.New()
	g := e.Group("/api", func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("userID", userID)
			c.Set("userName", "Ravi")
			c.Set("userRole", role)
			return next(c)
		}
	})
	NewHandler(svc).RegisterRoutes(g, g.Group("/staff"))
	return e, svc
}

func doRequest(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandlerCreateOrder(t *testing.T) {
	e, _ := newTestServer(t, "u1", models.RoleCustomer)

	rec := doRequest(e, http.MethodPost, "/api/orders", `{
		"customer_name": "Asha",
		"customer_phone": "9876543210",
		"service_type": "Express",
		"pickup_address": "12 MG Road",
		"pickup_date": "2026-10-20T10:00:00Z"
	}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var got models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, models.OrderStatusPending, got.Status)
	assert.Equal(t, "u1", got.UserID)
}

func TestHandlerCreateOrderValidation(t *testing.T) {
	e, _ := newTestServer(t, "u1", models.RoleCustomer)

	rec := doRequest(e, http.MethodPost, "/api/orders", `{"customer_name": "Asha", "service_type": "Overnight"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerUpdateStatusRejectsInvalidTransition(t *testing.T) {
	e, svc := newTestServer(t, "staff-1", models.RoleStaff)
	o := createTestOrder(t, svc, "u1")

	rec := doRequest(e, http.MethodPut, "/api/staff/orders/"+o.ID+"/status", `{"status": "delivered"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(e, http.MethodPut, "/api/staff/orders/"+o.ID+"/status", `{"status": "picked"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, models.OrderStatusPicked, got.Status)
}

func TestHandlerGetOrderHidesOtherCustomers(t *testing.T) {
	e, svc := newTestServer(t, "u2", models.RoleCustomer)
	o := createTestOrder(t, svc, "u1")

	rec := doRequest(e, http.MethodGet, "/api/orders/"+o.ID, "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerDeleteOrder(t *testing.T) {
	e, svc := newTestServer(t, "u1", models.RoleCustomer)
	o := createTestOrder(t, svc, "u1")

	rec := doRequest(e, http.MethodDelete, "/api/orders/"+o.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(e, http.MethodGet, "/api/orders/mine", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestHandlerUpdateItemsUnknownItem(t *testing.T) {
	e, svc := newTestServer(t, "staff-1", models.RoleStaff)
	o := createTestOrder(t, svc, "u1")

	rec := doRequest(e, http.MethodPut, "/api/staff/orders/"+o.ID+"/items", `{"items": [{"item_id": "blanket", "quantity": 1}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "catalog item not found")

	rec = doRequest(e, http.MethodPut, "/api/staff/orders/missing/items", `{"items": [{"item_id": "shirt", "quantity": 1}]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(e, http.MethodPut, "/api/staff/orders/"+o.ID+"/items", `{"items": [{"item_id": "shirt", "quantity": 2}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}
