package customer

import (
	"errors"
	"net/http"

	"laundry-service/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for the customer directory.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate
}

// NewHandler creates a new customer handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

func (h *Handler) RegisterRoutes(staff *echo.Group) {
	staff.POST("/customers", h.CreateCustomer)
	staff.GET("/customers", h.ListCustomers)
	staff.GET("/customers/:phone", h.GetCustomer)
	staff.HEAD("/customers/:phone", h.CustomerExists)
}

func (h *Handler) CreateCustomer(c echo.Context) error {
	var req models.CreateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	customer, err := h.svc.CreateCustomer(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return c.JSON(http.StatusConflict, models.ErrorResponse{Message: "Customer with this phone already exists"})
		}
		c.Logger().Error("Handler.CreateCustomer: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to create customer"})
	}
	return c.JSON(http.StatusCreated, customer)
}

func (h *Handler) ListCustomers(c echo.Context) error {
	customers, err := h.svc.ListCustomers(c.Request().Context())
	if err != nil {
		c.Logger().Error("Handler.ListCustomers: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to list customers"})
	}
	return c.JSON(http.StatusOK, customers)
}

func (h *Handler) GetCustomer(c echo.Context) error {
	customer, err := h.svc.GetCustomerByPhone(c.Request().Context(), c.Param("phone"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Customer not found"})
		}
		c.Logger().Error("Handler.GetCustomer: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to retrieve customer"})
	}
	return c.JSON(http.StatusOK, customer)
}

func (h *Handler) CustomerExists(c echo.Context) error {
	ok, err := h.svc.CustomerExists(c.Request().Context(), c.Param("phone"))
	if err != nil {
		c.Logger().Error("Handler.CustomerExists: ", err)
		return c.NoContent(http.StatusInternalServerError)
	}
	if !ok {
		return c.NoContent(http.StatusNotFound)
	}
	return c.NoContent(http.StatusOK)
}
