package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/campusbooks/marketplace-backend/internal/authctx"
	"github.com/campusbooks/marketplace-backend/internal/model"
	"github.com/campusbooks/marketplace-backend/internal/repository"
	"gorm.io/gorm"
)

// RatingSummary aggregates the reviews a seller has received.
type RatingSummary struct {
	Average float64
	Total   int64
}

type ReviewService interface {
	Create(ctx context.Context, p authctx.Principal, orderID uint64, rating int, comment string) (*model.Review, error)
	Update(ctx context.Context, p authctx.Principal, reviewID uint64, rating int, comment string) (*model.Review, error)
	Delete(ctx context.Context, p authctx.Principal, reviewID uint64) error
	ListForUser(ctx context.Context, revieweeUID string) ([]model.Review, RatingSummary, error)
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	orderRepo   repository.OrderRepository
	listingRepo repository.ListingRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, orderRepo repository.OrderRepository, listingRepo repository.ListingRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, orderRepo: orderRepo, listingRepo: listingRepo}
}

func validRating(rating int) bool {
	return rating >= 1 && rating <= 5
}

// Create records buyer-to-seller feedback for an order. The four
// preconditions (caller is the order's buyer, order accepted or completed,
// no prior review, rating in range) fail independently with distinct errors.
// The reviewee is always computed from the listing's seller, never supplied
// by the caller.
func (s *reviewService) Create(ctx context.Context, p authctx.Principal, orderID uint64, rating int, comment string) (*model.Review, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !p.IsAdmin() && p.UID != order.BuyerUID {
		return nil, ErrForbidden
	}
	if order.Status != model.OrderStatusAccepted && order.Status != model.OrderStatusCompleted {
		return nil, fmt.Errorf("%w: order is %s, reviews need an accepted or completed order", ErrInvalidOperation, order.Status)
	}
	existing, err := s.reviewRepo.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: order already has a review", ErrInvalidOperation)
	}
	if !validRating(rating) {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	listing, err := s.listingRepo.FindByID(ctx, order.ListingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if listing.SellerUID == order.BuyerUID {
		return nil, fmt.Errorf("%w: cannot review yourself", ErrInvalidOperation)
	}
	review := &model.Review{
		OrderID:     orderID,
		ReviewerUID: order.BuyerUID,
		RevieweeUID: listing.SellerUID,
		Rating:      rating,
		Comment:     strings.TrimSpace(comment),
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) Update(ctx context.Context, p authctx.Principal, reviewID uint64, rating int, comment string) (*model.Review, error) {
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !CanAct(p, ActionEditReview, review.ReviewerUID) {
		return nil, ErrForbidden
	}
	if !validRating(rating) {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	review.Rating = rating
	review.Comment = strings.TrimSpace(comment)
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, p authctx.Principal, reviewID uint64) error {
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !CanAct(p, ActionDeleteReview, review.ReviewerUID) {
		return ErrForbidden
	}
	return s.reviewRepo.Delete(ctx, reviewID)
}

func (s *reviewService) ListForUser(ctx context.Context, revieweeUID string) ([]model.Review, RatingSummary, error) {
	reviews, err := s.reviewRepo.ListByReviewee(ctx, revieweeUID)
	if err != nil {
		return nil, RatingSummary{}, err
	}
	avg, total, err := s.reviewRepo.AverageForReviewee(ctx, revieweeUID)
	if err != nil {
		return nil, RatingSummary{}, err
	}
	return reviews, RatingSummary{Average: avg, Total: total}, nil
}
