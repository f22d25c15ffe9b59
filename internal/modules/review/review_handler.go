package review

import (
	"errors"
	"net/http"

	"laundry-service/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for reviews.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate
}

// NewHandler creates a new review handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

// RegisterRoutes mounts the read routes on public, for the marketing pages,
// and review submission on the authenticated group.
func (h *Handler) RegisterRoutes(public, g *echo.Group) {
	public.GET("/reviews", h.ListReviews)
	public.GET("/reviews/average", h.AverageRating)
	g.POST("/orders/:orderId/review", h.CreateReview)
}

func (h *Handler) CreateReview(c echo.Context) error {
	userID := c.Get("userID").(string)
	userName, _ := c.Get("userName").(string)

	var req models.ReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	review, err := h.svc.CreateReview(c.Request().Context(), c.Param("orderId"), userID, userName, req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Order not found"})
		case errors.Is(err, models.ErrInvalidRating):
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: err.Error()})
		case errors.Is(err, models.ErrOrderNotDelivered):
			return c.JSON(http.StatusConflict, models.ErrorResponse{Message: "Only delivered orders can be reviewed"})
		case errors.Is(err, models.ErrReviewExists):
			return c.JSON(http.StatusConflict, models.ErrorResponse{Message: "Order has already been reviewed"})
		}
		c.Logger().Error("Handler.CreateReview: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to submit review"})
	}
	return c.JSON(http.StatusCreated, review)
}

func (h *Handler) ListReviews(c echo.Context) error {
	reviews, err := h.svc.ListReviews(c.Request().Context())
	if err != nil {
		c.Logger().Error("Handler.ListReviews: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to list reviews"})
	}
	return c.JSON(http.StatusOK, reviews)
}

func (h *Handler) AverageRating(c echo.Context) error {
	summary, err := h.svc.AverageRating(c.Request().Context())
	if err != nil {
		c.Logger().Error("Handler.AverageRating: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to compute rating"})
	}
	return c.JSON(http.StatusOK, summary)
}
