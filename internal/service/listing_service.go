package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/campusbooks/marketplace-backend/internal/authctx"
	"github.com/campusbooks/marketplace-backend/internal/model"
	"github.com/campusbooks/marketplace-backend/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ListingInput struct {
	Title       string
	Description string
	Price       float64
	Condition   model.ListingCondition
	CategoryID  uint64
	ImageURL    *string
}

type ListingService interface {
	Create(ctx context.Context, p authctx.Principal, in ListingInput) (*model.Listing, error)
	Get(ctx context.Context, id uint64) (*model.Listing, error)
	List(ctx context.Context, limit, offset int, categoryID uint64, includeSold bool) ([]model.Listing, int64, error)
	ListMine(ctx context.Context, p authctx.Principal) ([]model.Listing, error)
	Update(ctx context.Context, p authctx.Principal, id uint64, in ListingInput) (*model.Listing, error)
	Delete(ctx context.Context, p authctx.Principal, id uint64) error
}

type listingService struct {
	listingRepo  repository.ListingRepository
	categoryRepo repository.CategoryRepository
	offerRepo    repository.OfferRepository
	orderRepo    repository.OrderRepository
	tx           repository.TxManager
	log          *zap.Logger
}

func NewListingService(
	listingRepo repository.ListingRepository,
	categoryRepo repository.CategoryRepository,
	offerRepo repository.OfferRepository,
	orderRepo repository.OrderRepository,
	tx repository.TxManager,
	log *zap.Logger,
) ListingService {
	return &listingService{
		listingRepo:  listingRepo,
		categoryRepo: categoryRepo,
		offerRepo:    offerRepo,
		orderRepo:    orderRepo,
		tx:           tx,
		log:          log,
	}
}

func (s *listingService) validate(ctx context.Context, in *ListingInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" || len(in.Title) > 120 {
		return fmt.Errorf("%w: title must be 1-120 characters", ErrValidation)
	}
	if in.Description == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	if in.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	if !in.Condition.Valid() {
		return fmt.Errorf("%w: unknown condition %q", ErrValidation, in.Condition)
	}
	if _, err := s.categoryRepo.FindByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: unknown category", ErrValidation)
		}
		return err
	}
	return nil
}

func (s *listingService) Create(ctx context.Context, p authctx.Principal, in ListingInput) (*model.Listing, error) {
	if !CanAct(p, ActionCreateListing, "") {
		return nil, ErrForbidden
	}
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}
	listing := &model.Listing{
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Condition:   in.Condition,
		CategoryID:  in.CategoryID,
		SellerUID:   p.UID,
		ImageURL:    in.ImageURL,
	}
	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *listingService) Get(ctx context.Context, id uint64) (*model.Listing, error) {
	listing, err := s.listingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return listing, nil
}

func (s *listingService) List(ctx context.Context, limit, offset int, categoryID uint64, includeSold bool) ([]model.Listing, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.listingRepo.List(ctx, limit, offset, categoryID, includeSold)
}

func (s *listingService) ListMine(ctx context.Context, p authctx.Principal) ([]model.Listing, error) {
	return s.listingRepo.ListBySeller(ctx, p.UID)
}

func (s *listingService) Update(ctx context.Context, p authctx.Principal, id uint64, in ListingInput) (*model.Listing, error) {
	listing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanAct(p, ActionEditListing, listing.SellerUID) {
		return nil, ErrForbidden
	}
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}
	listing.Title = in.Title
	listing.Description = in.Description
	listing.Price = in.Price
	listing.Condition = in.Condition
	listing.CategoryID = in.CategoryID
	listing.ImageURL = in.ImageURL
	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// Delete removes the listing together with its dependent offers and orders
// in one transaction; reviews fall with their orders through the foreign
// key cascade.
func (s *listingService) Delete(ctx context.Context, p authctx.Principal, id uint64) error {
	listing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CanAct(p, ActionDeleteListing, listing.SellerUID) {
		return ErrForbidden
	}
	err = s.tx.Do(ctx, func(ctx context.Context) error {
		if err := s.offerRepo.DeleteByListing(ctx, id); err != nil {
			return err
		}
		if err := s.orderRepo.DeleteByListing(ctx, id); err != nil {
			return err
		}
		return s.listingRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.log.Info("listing deleted with dependents",
		zap.Uint64("listing_id", id),
		zap.String("actor_uid", p.UID))
	return nil
}
