package catalog

import (
	"errors"
	"net/http"

	"laundry-service/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for the item catalog.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate
}

// NewHandler creates a new catalog handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

// RegisterRoutes mounts the public read route on g and the staff routes on staff.
func (h *Handler) RegisterRoutes(g, staff *echo.Group) {
	g.GET("/items", h.ListItems)
	g.GET("/items/:itemId", h.GetItem)
	staff.POST("/items", h.CreateItem)
	staff.DELETE("/items/:itemId", h.DeleteItem)
}

func (h *Handler) ListItems(c echo.Context) error {
	items, err := h.svc.ListItems(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		c.Logger().Error("Handler.ListItems: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to list items"})
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) GetItem(c echo.Context) error {
	item, err := h.svc.GetItem(c.Request().Context(), c.Param("itemId"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Item not found"})
		}
		c.Logger().Error("Handler.GetItem: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to get item"})
	}
	return c.JSON(http.StatusOK, item)
}

func (h *Handler) CreateItem(c echo.Context) error {
	var req models.CreateItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	item, err := h.svc.CreateItem(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrInvalidPrice) {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Price must be greater than zero"})
		}
		c.Logger().Error("Handler.CreateItem: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to create item"})
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *Handler) DeleteItem(c echo.Context) error {
	if err := h.svc.DeleteItem(c.Request().Context(), c.Param("itemId")); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Item not found"})
		}
		c.Logger().Error("Handler.DeleteItem: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to delete item"})
	}
	return c.NoContent(http.StatusNoContent)
}
