package order

import (
	"errors"
	"net/http"
	"strings"

	"laundry-service/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for orders.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate // For request body validation
}

// NewHandler creates a new order handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

// RegisterRoutes mounts customer routes on g and delivery-staff routes on staff.
func (h *Handler) RegisterRoutes(g, staff *echo.Group) {
	g.POST("/orders", h.CreateOrder)
	g.GET("/orders/mine", h.ListMyOrders)
	g.GET("/orders/:orderId", h.GetOrderDetails)
	g.POST("/orders/:orderId/cancel", h.CancelOrder)
	g.DELETE("/orders/:orderId", h.DeleteOrder)

	staff.GET("/orders", h.ListQueue)
	staff.GET("/orders/assigned", h.ListAssigned)
	staff.POST("/orders/:orderId/accept", h.AcceptOrder)
	staff.PUT("/orders/:orderId/items", h.UpdateItems)
	staff.PUT("/orders/:orderId/status", h.UpdateStatus)
	staff.POST("/orders/:orderId/reject", h.RejectOrder)
}

// writeError maps service errors onto HTTP responses.
func (h *Handler) writeError(c echo.Context, op string, err error, fallback string) error {
	switch {
	case errors.Is(err, models.ErrUnknownItem):
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: err.Error()})
	case errors.Is(err, models.ErrNotFound):
		return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Order not found"})
	case errors.Is(err, models.ErrForbidden):
		return c.JSON(http.StatusForbidden, models.ErrorResponse{Message: "Access denied"})
	case errors.Is(err, models.ErrOrderNotPending):
		return c.JSON(http.StatusConflict, models.ErrorResponse{Message: "Order is no longer pending"})
	case errors.Is(err, models.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, models.ErrorResponse{Message: "Status change not allowed"})
	case errors.Is(err, models.ErrConflict):
		return c.JSON(http.StatusConflict, models.ErrorResponse{Message: "Order was modified concurrently"})
	}
	c.Logger().Error("Handler."+op+": ", err)
	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: fallback})
}

func (h *Handler) CreateOrder(c echo.Context) error {
	userID := c.Get("userID").(string)

	var req models.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	order, err := h.svc.CreateOrder(c.Request().Context(), userID, req)
	if err != nil {
		return h.writeError(c, "CreateOrder", err, "Failed to create order")
	}

	return c.JSON(http.StatusCreated, order)
}

func (h *Handler) ListMyOrders(c echo.Context) error {
	userID := c.Get("userID").(string)

	orders, err := h.svc.ListUserOrders(c.Request().Context(), userID)
	if err != nil {
		return h.writeError(c, "ListMyOrders", err, "Failed to retrieve orders")
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetOrderDetails(c echo.Context) error {
	userID := c.Get("userID").(string)
	role := c.Get("userRole").(string)

	order, err := h.svc.GetOrderDetails(c.Request().Context(), c.Param("orderId"), userID, role)
	if err != nil {
		return h.writeError(c, "GetOrderDetails", err, "Failed to retrieve order details")
	}
	return c.JSON(http.StatusOK, order)
}

func (h *Handler) CancelOrder(c echo.Context) error {
	userID := c.Get("userID").(string)

	order, err := h.svc.CancelOrder(c.Request().Context(), c.Param("orderId"), userID)
	if err != nil {
		return h.writeError(c, "CancelOrder", err, "Failed to cancel order")
	}
	return c.JSON(http.StatusOK, order)
}

func (h *Handler) DeleteOrder(c echo.Context) error {
	userID := c.Get("userID").(string)
	role := c.Get("userRole").(string)

	if err := h.svc.DeleteOrder(c.Request().Context(), c.Param("orderId"), userID, role); err != nil {
		return h.writeError(c, "DeleteOrder", err, "Failed to delete order")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListQueue returns orders filtered by ?status=a,b (default pending and ready).
func (h *Handler) ListQueue(c echo.Context) error {
	var statuses []string
	if raw := c.QueryParam("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				statuses = append(statuses, s)
			}
		}
	}

	orders, err := h.svc.ListOrdersByStatus(c.Request().Context(), statuses)
	if err != nil {
		return h.writeError(c, "ListQueue", err, "Failed to list orders")
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *Handler) ListAssigned(c echo.Context) error {
	userID := c.Get("userID").(string)

	orders, err := h.svc.ListDeliveryOrders(c.Request().Context(), userID)
	if err != nil {
		return h.writeError(c, "ListAssigned", err, "Failed to list assigned orders")
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *Handler) AcceptOrder(c echo.Context) error {
	var req models.AcceptOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	person := models.DeliveryPerson{
		ID:    c.Get("userID").(string),
		Name:  c.Get("userName").(string),
		Phone: req.Phone,
	}
	order, err := h.svc.AcceptOrder(c.Request().Context(), c.Param("orderId"), person)
	if err != nil {
		return h.writeError(c, "AcceptOrder", err, "Failed to accept order")
	}
	return c.JSON(http.StatusOK, order)
}

func (h *Handler) UpdateItems(c echo.Context) error {
	var req models.UpdateItemsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	order, err := h.svc.UpdateOrderItems(c.Request().Context(), c.Param("orderId"), req.Items)
	if err != nil {
		return h.writeError(c, "UpdateItems", err, "Failed to update order items")
	}
	return c.JSON(http.StatusOK, order)
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	var req models.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	order, err := h.svc.UpdateOrderStatus(c.Request().Context(), c.Param("orderId"), req.Status)
	if err != nil {
		return h.writeError(c, "UpdateStatus", err, "Failed to update order status")
	}
	return c.JSON(http.StatusOK, order)
}

func (h *Handler) RejectOrder(c echo.Context) error {
	var req models.RejectOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	order, err := h.svc.RejectOrder(c.Request().Context(), c.Param("orderId"), req.Reason)
	if err != nil {
		return h.writeError(c, "RejectOrder", err, "Failed to reject order")
	}
	return c.JSON(http.StatusOK, order)
}
