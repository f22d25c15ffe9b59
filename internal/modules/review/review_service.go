package review

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"laundry-service/internal/models"

	"github.com/google/uuid"
)

// OrderLookupInterface is the part of the order service reviews need.
type OrderLookupInterface interface {
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
}

// RatingCacheInterface caches the rating summary between writes.
// Get returns (nil, nil) on a miss.
type RatingCacheInterface interface {
	Get(ctx context.Context) (*models.RatingSummary, error)
	Set(ctx context.Context, summary models.RatingSummary) error
	Invalidate(ctx context.Context) error
}

// ServiceInterface defines the contract for the review service.
type ServiceInterface interface {
	CreateReview(ctx context.Context, orderID, userID, userName string, req models.ReviewRequest) (*models.Review, error)
	ListReviews(ctx context.Context) ([]*models.Review, error)
	AverageRating(ctx context.Context) (models.RatingSummary, error)
}

// Service implements the review service logic.
type Service struct {
	repo   RepositoryInterface
	orders OrderLookupInterface
	cache  RatingCacheInterface // optional
}

// NewService creates a new review service. cache may be nil.
func NewService(repo RepositoryInterface, orders OrderLookupInterface, cache RatingCacheInterface) *Service {
	return &Service{repo: repo, orders: orders, cache: cache}
}

// CreateReview stores the customer's one review of their delivered order and
// copies the rating onto the order.
func (s *Service) CreateReview(ctx context.Context, orderID, userID, userName string, req models.ReviewRequest) (*models.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, models.ErrInvalidRating
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("service.CreateReview: %w", err)
	}
	if order.UserID != userID {
		return nil, models.ErrNotFound
	}
	if order.Status != models.OrderStatusDelivered {
		return nil, models.ErrOrderNotDelivered
	}
	if _, err := s.repo.FindByOrderID(ctx, orderID); err == nil {
		return nil, models.ErrReviewExists
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("service.CreateReview: %w", err)
	}

	review := &models.Review{
		ID:       uuid.NewString(),
		OrderID:  orderID,
		UserID:   userID,
		UserName: userName,
		Rating:   req.Rating,
		Comment:  strings.TrimSpace(req.Comment),
	}
	if err := s.repo.Create(ctx, review); err != nil {
		if errors.Is(err, models.ErrReviewExists) {
			return nil, err
		}
		return nil, fmt.Errorf("service.CreateReview: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			log.Printf("review %s: failed to invalidate rating cache: %v", review.ID, err)
		}
	}
	return review, nil
}

func (s *Service) ListReviews(ctx context.Context) ([]*models.Review, error) {
	reviews, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ListReviews: %w", err)
	}
	return reviews, nil
}

// AverageRating returns the mean rating over all reviews, 0 when there are none.
func (s *Service) AverageRating(ctx context.Context) (models.RatingSummary, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			log.Printf("rating cache read failed, computing directly: %v", err)
		} else if cached != nil {
			return *cached, nil
		}
	}

	reviews, err := s.repo.List(ctx)
	if err != nil {
		return models.RatingSummary{}, fmt.Errorf("service.AverageRating: %w", err)
	}
	summary := Summarize(reviews)

	if s.cache != nil {
		if err := s.cache.Set(ctx, summary); err != nil {
			log.Printf("rating cache write failed: %v", err)
		}
	}
	return summary, nil
}

// Summarize computes the arithmetic mean of the ratings.
func Summarize(reviews []*models.Review) models.RatingSummary {
	if len(reviews) == 0 {
		return models.RatingSummary{}
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	return models.RatingSummary{
		Average: float64(total) / float64(len(reviews)),
		Count:   len(reviews),
	}
}
