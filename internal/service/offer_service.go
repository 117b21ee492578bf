package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/campusbooks/marketplace-backend/internal/authctx"
	"github.com/campusbooks/marketplace-backend/internal/model"
	"github.com/campusbooks/marketplace-backend/internal/repository"
	"gorm.io/gorm"
)

type OfferService interface {
	Create(ctx context.Context, p authctx.Principal, listingID uint64, price float64) (*model.Offer, error)
	Accept(ctx context.Context, p authctx.Principal, offerID uint64) (*model.Offer, error)
	Reject(ctx context.Context, p authctx.Principal, offerID uint64) (*model.Offer, error)
	Get(ctx context.Context, p authctx.Principal, offerID uint64) (*model.Offer, error)
	ListByListing(ctx context.Context, p authctx.Principal, listingID uint64) ([]model.Offer, error)
	ListMine(ctx context.Context, p authctx.Principal) ([]model.Offer, error)
}

type offerService struct {
	offerRepo   repository.OfferRepository
	listingRepo repository.ListingRepository
}

func NewOfferService(offerRepo repository.OfferRepository, listingRepo repository.ListingRepository) OfferService {
	return &offerService{offerRepo: offerRepo, listingRepo: listingRepo}
}

func (s *offerService) findListing(ctx context.Context, listingID uint64) (*model.Listing, error) {
	listing, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return listing, nil
}

func (s *offerService) Create(ctx context.Context, p authctx.Principal, listingID uint64, price float64) (*model.Offer, error) {
	if !CanAct(p, ActionCreateOffer, "") {
		return nil, ErrForbidden
	}
	if price <= 0 {
		return nil, fmt.Errorf("%w: offered price must be positive", ErrValidation)
	}
	listing, err := s.findListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.SellerUID == p.UID {
		return nil, fmt.Errorf("%w: cannot offer on your own listing", ErrInvalidOperation)
	}
	if listing.IsSold {
		return nil, fmt.Errorf("%w: listing is already sold", ErrInvalidOperation)
	}
	offer := &model.Offer{
		ListingID:    listingID,
		BuyerUID:     p.UID,
		OfferedPrice: price,
		Status:       model.OfferStatusPending,
	}
	if err := s.offerRepo.Create(ctx, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

// Accept resolves a pending offer. Unlike order acceptance this does not
// touch competing offers or orders on the listing.
func (s *offerService) Accept(ctx context.Context, p authctx.Principal, offerID uint64) (*model.Offer, error) {
	return s.resolve(ctx, p, offerID, model.OfferStatusAccepted)
}

func (s *offerService) Reject(ctx context.Context, p authctx.Principal, offerID uint64) (*model.Offer, error) {
	return s.resolve(ctx, p, offerID, model.OfferStatusRejected)
}

func (s *offerService) resolve(ctx context.Context, p authctx.Principal, offerID uint64, to model.OfferStatus) (*model.Offer, error) {
	offer, err := s.offerRepo.FindByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	listing, err := s.findListing(ctx, offer.ListingID)
	if err != nil {
		return nil, err
	}
	if !CanAct(p, ActionResolveOffer, listing.SellerUID) {
		return nil, ErrForbidden
	}
	if !offer.Status.CanResolve() {
		return nil, fmt.Errorf("%w: offer is already %s", ErrInvalidOperation, offer.Status)
	}
	rows, err := s.offerRepo.UpdateStatus(ctx, offerID, model.OfferStatusPending, to)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// Lost the race against a concurrent resolution.
		return nil, fmt.Errorf("%w: offer is no longer pending", ErrInvalidOperation)
	}
	offer.Status = to
	return offer, nil
}

func (s *offerService) Get(ctx context.Context, p authctx.Principal, offerID uint64) (*model.Offer, error) {
	offer, err := s.offerRepo.FindByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	listing, err := s.findListing(ctx, offer.ListingID)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() && p.UID != offer.BuyerUID && p.UID != listing.SellerUID {
		return nil, ErrForbidden
	}
	return offer, nil
}

func (s *offerService) ListByListing(ctx context.Context, p authctx.Principal, listingID uint64) ([]model.Offer, error) {
	listing, err := s.findListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !CanAct(p, ActionResolveOffer, listing.SellerUID) {
		return nil, ErrForbidden
	}
	return s.offerRepo.ListByListing(ctx, listingID)
}

func (s *offerService) ListMine(ctx context.Context, p authctx.Principal) ([]model.Offer, error) {
	return s.offerRepo.ListByBuyer(ctx, p.UID)
}
