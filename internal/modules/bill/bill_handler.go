package bill

import (
	"errors"
	"net/http"

	"laundry-service/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for bills.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate
}

// NewHandler creates a new bill handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

// RegisterRoutes mounts the bill routes on a staff-only group.
func (h *Handler) RegisterRoutes(staff *echo.Group) {
	staff.POST("/bills", h.CreateBill)
	staff.GET("/bills", h.ListBills)
	staff.GET("/bills/:billId", h.GetBill)
	staff.GET("/orders/:orderId/bill", h.GetBillByOrder)
	staff.PUT("/bills/:billId/payment", h.UpdatePayment)
	staff.POST("/bills/:billId/card-payment", h.ChargeCard)
}

func (h *Handler) writeError(c echo.Context, op string, err error, fallback string) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Bill or order not found"})
	case errors.Is(err, models.ErrConflict):
		return c.JSON(http.StatusConflict, models.ErrorResponse{Message: "Order already has a bill"})
	case errors.Is(err, models.ErrBillAlreadyPaid):
		return c.JSON(http.StatusConflict, models.ErrorResponse{Message: "Bill is already paid"})
	case errors.Is(err, models.ErrSubtotalMismatch),
		errors.Is(err, models.ErrInvalidItems),
		errors.Is(err, models.ErrInvalidPaymentAmount):
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: err.Error()})
	case errors.Is(err, models.ErrPaymentUnavailable):
		return c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Message: "Card payments are not available"})
	}
	c.Logger().Error("Handler."+op+": ", err)
	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: fallback})
}

func (h *Handler) CreateBill(c echo.Context) error {
	var req models.CreateBillRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	bill, err := h.svc.CreateBill(c.Request().Context(), req)
	if err != nil {
		return h.writeError(c, "CreateBill", err, "Failed to create bill")
	}
	return c.JSON(http.StatusCreated, bill)
}

// ListBills supports ?status= and ?customerId= filters.
func (h *Handler) ListBills(c echo.Context) error {
	filter := ListFilter{
		Status:     c.QueryParam("status"),
		CustomerID: c.QueryParam("customerId"),
	}
	if filter.Status != "" && filter.Status != models.BillStatusPending && filter.Status != models.BillStatusPaid {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid status filter"})
	}

	bills, err := h.svc.ListBills(c.Request().Context(), filter)
	if err != nil {
		return h.writeError(c, "ListBills", err, "Failed to list bills")
	}
	return c.JSON(http.StatusOK, bills)
}

func (h *Handler) GetBill(c echo.Context) error {
	bill, err := h.svc.GetBill(c.Request().Context(), c.Param("billId"))
	if err != nil {
		return h.writeError(c, "GetBill", err, "Failed to retrieve bill")
	}
	return c.JSON(http.StatusOK, bill)
}

func (h *Handler) GetBillByOrder(c echo.Context) error {
	bill, err := h.svc.GetBillByOrder(c.Request().Context(), c.Param("orderId"))
	if err != nil {
		return h.writeError(c, "GetBillByOrder", err, "Failed to retrieve bill")
	}
	return c.JSON(http.StatusOK, bill)
}

func (h *Handler) UpdatePayment(c echo.Context) error {
	var req models.BillPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	bill, err := h.svc.UpdateBillPayment(c.Request().Context(), c.Param("billId"), req)
	if err != nil {
		return h.writeError(c, "UpdatePayment", err, "Failed to update payment")
	}
	return c.JSON(http.StatusOK, bill)
}

func (h *Handler) ChargeCard(c echo.Context) error {
	userID := c.Get("userID").(string)

	var req models.CardPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	bill, err := h.svc.ChargeCard(c.Request().Context(), c.Param("billId"), userID, req.PaymentMethodID)
	if err != nil {
		return h.writeError(c, "ChargeCard", err, "Payment failed")
	}
	return c.JSON(http.StatusOK, bill)
}
