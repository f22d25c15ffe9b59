package payment

import (
	"errors"
	"net/http"
	"strings"

	"laundry-service/internal/models"
	gateway "laundry-service/pkg/payment"

	"github.com/labstack/echo/v4"
)

// Handler handles the gateway payment endpoints.
type Handler struct {
	svc        ServiceInterface
	successURL string
	failureURL string
}

// NewHandler creates a new payment handler. successURL and failureURL are
// the pages the browser lands on after a status check.
func NewHandler(svc ServiceInterface, successURL, failureURL string) *Handler {
	return &Handler{
		svc:        svc,
		successURL: successURL,
		failureURL: failureURL,
	}
}

// RegisterRoutes mounts payment initiation on the authenticated api group,
// behind limit, and the gateway-facing routes on e.
func (h *Handler) RegisterRoutes(e *echo.Echo, api *echo.Group, limit echo.MiddlewareFunc) {
	api.POST("/phonepe/payment", h.InitiatePayment, limit)

	e.GET("/payment-status/:transactionId", h.PaymentStatus)
	e.POST("/payment-status/:transactionId", h.PaymentStatus)
	e.POST("/api/phonepe/callback", h.Callback)
}

func (h *Handler) fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, models.PaymentResponse{Success: false, Message: msg})
}

func (h *Handler) writeError(c echo.Context, op string, err error) error {
	var gwErr *gateway.GatewayError
	switch {
	case errors.As(err, &gwErr):
		c.Logger().Warn("Handler."+op+": ", err)
		return h.fail(c, gwErr.StatusCode, "Payment gateway error: "+gwErr.Message)
	case errors.Is(err, models.ErrInvalidPaymentAmount):
		return h.fail(c, http.StatusBadRequest, "Amount does not match the bill")
	case errors.Is(err, models.ErrNotFound):
		return h.fail(c, http.StatusNotFound, "Bill not found")
	case errors.Is(err, models.ErrBillAlreadyPaid):
		return h.fail(c, http.StatusConflict, "Bill is already paid")
	case errors.Is(err, models.ErrConflict):
		return h.fail(c, http.StatusConflict, "Transaction id already used")
	case errors.Is(err, models.ErrChecksumMismatch):
		return h.fail(c, http.StatusUnauthorized, "Invalid checksum")
	}
	c.Logger().Error("Handler."+op+": ", err)
	return h.fail(c, http.StatusInternalServerError, "Payment processing failed")
}

func (h *Handler) InitiatePayment(c echo.Context) error {
	userID, _ := c.Get("userID").(string)

	var req models.InitiatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, http.StatusBadRequest, "Invalid request body")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.MobileNumber = strings.TrimSpace(req.MobileNumber)
	if req.Amount == nil || req.MobileNumber == "" || req.Name == "" {
		return h.fail(c, http.StatusBadRequest, "Missing required fields: amount, mobileNumber, name")
	}
	if !req.Amount.IsPositive() {
		return h.fail(c, http.StatusBadRequest, "Amount must be positive")
	}

	resp, err := h.svc.InitiatePayment(c.Request().Context(), userID, req)
	if err != nil {
		return h.writeError(c, "InitiatePayment", err)
	}
	return c.JSON(http.StatusOK, resp)
}

// PaymentStatus is where the gateway sends the browser back to. It redirects
// to the success or failure page depending on the transaction's state.
func (h *Handler) PaymentStatus(c echo.Context) error {
	paid, err := h.svc.CheckStatus(c.Request().Context(), c.Param("transactionId"))
	if err != nil {
		return h.writeError(c, "PaymentStatus", err)
	}
	if paid {
		return c.Redirect(http.StatusFound, h.successURL)
	}
	return c.Redirect(http.StatusFound, h.failureURL)
}

// Callback receives the gateway's server-to-server notification.
func (h *Handler) Callback(c echo.Context) error {
	var req models.CallbackRequest
	if err := c.Bind(&req); err != nil || req.Response == "" {
		return h.fail(c, http.StatusBadRequest, "Invalid callback body")
	}

	paid, err := h.svc.HandleCallback(c.Request().Context(), req.Response, c.Request().Header.Get("X-VERIFY"))
	if err != nil {
		return h.writeError(c, "Callback", err)
	}
	return c.JSON(http.StatusOK, models.PaymentResponse{Success: paid})
}
