package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/campusbooks/marketplace-backend/internal/authctx"
	"github.com/campusbooks/marketplace-backend/internal/model"
	"github.com/campusbooks/marketplace-backend/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type OrderService interface {
	Create(ctx context.Context, p authctx.Principal, listingID uint64) (*model.Order, error)
	CreateFromAcceptedOffer(ctx context.Context, p authctx.Principal, offerID uint64) (*model.Order, error)
	Accept(ctx context.Context, p authctx.Principal, orderID uint64) (*model.Order, error)
	Complete(ctx context.Context, p authctx.Principal, orderID uint64) (*model.Order, error)
	Cancel(ctx context.Context, p authctx.Principal, orderID uint64) (*model.Order, error)
	Get(ctx context.Context, p authctx.Principal, orderID uint64) (*model.Order, error)
	ListMine(ctx context.Context, p authctx.Principal) ([]model.Order, error)
	ListSales(ctx context.Context, p authctx.Principal) ([]model.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	offerRepo   repository.OfferRepository
	listingRepo repository.ListingRepository
	revenueRepo repository.UserRevenueRepository
	tx          repository.TxManager
	log         *zap.Logger
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	offerRepo repository.OfferRepository,
	listingRepo repository.ListingRepository,
	revenueRepo repository.UserRevenueRepository,
	tx repository.TxManager,
	log *zap.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		offerRepo:   offerRepo,
		listingRepo: listingRepo,
		revenueRepo: revenueRepo,
		tx:          tx,
		log:         log,
	}
}

func (s *orderService) findOrder(ctx context.Context, orderID uint64) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) findListing(ctx context.Context, listingID uint64) (*model.Listing, error) {
	listing, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return listing, nil
}

func (s *orderService) Create(ctx context.Context, p authctx.Principal, listingID uint64) (*model.Order, error) {
	if !CanAct(p, ActionCreateOrder, "") {
		return nil, ErrForbidden
	}
	listing, err := s.findListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	return s.createFor(ctx, listing, p.UID)
}

// CreateFromAcceptedOffer turns an accepted offer into a pending order for
// the offer's buyer.
func (s *orderService) CreateFromAcceptedOffer(ctx context.Context, p authctx.Principal, offerID uint64) (*model.Order, error) {
	offer, err := s.offerRepo.FindByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !p.IsAdmin() && p.UID != offer.BuyerUID {
		return nil, ErrForbidden
	}
	if offer.Status != model.OfferStatusAccepted {
		return nil, fmt.Errorf("%w: offer is %s, not accepted", ErrInvalidOperation, offer.Status)
	}
	listing, err := s.findListing(ctx, offer.ListingID)
	if err != nil {
		return nil, err
	}
	return s.createFor(ctx, listing, offer.BuyerUID)
}

func (s *orderService) createFor(ctx context.Context, listing *model.Listing, buyerUID string) (*model.Order, error) {
	if listing.SellerUID == buyerUID {
		return nil, fmt.Errorf("%w: cannot order your own listing", ErrInvalidOperation)
	}
	if listing.IsSold {
		return nil, fmt.Errorf("%w: listing is already sold", ErrInvalidOperation)
	}
	exists, err := s.orderRepo.ExistsActiveByListingAndBuyer(ctx, listing.ID, buyerUID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: an active order for this listing already exists", ErrInvalidOperation)
	}
	order := &model.Order{
		ListingID: listing.ID,
		BuyerUID:  buyerUID,
		Status:    model.OrderStatusPending,
		OrderDate: time.Now(),
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Accept moves the order to accepted and forecloses all competing claims on
// the listing in the same transaction: every other pending order is
// cancelled and every pending offer is rejected.
func (s *orderService) Accept(ctx context.Context, p authctx.Principal, orderID uint64) (*model.Order, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	listing, err := s.findListing(ctx, order.ListingID)
	if err != nil {
		return nil, err
	}
	if !CanAct(p, ActionAcceptOrder, listing.SellerUID) {
		return nil, ErrForbidden
	}
	if !order.Status.CanTransitionTo(model.OrderStatusAccepted) {
		return nil, fmt.Errorf("%w: order is %s, not pending", ErrInvalidOperation, order.Status)
	}

	var cancelled, rejected int64
	err = s.tx.Do(ctx, func(ctx context.Context) error {
		if err := s.orderRepo.UpdateStatus(ctx, order.ID, order.Version, model.OrderStatusPending, model.OrderStatusAccepted); err != nil {
			return err
		}
		var err error
		if cancelled, err = s.orderRepo.CancelPendingByListing(ctx, listing.ID, order.ID); err != nil {
			return err
		}
		if rejected, err = s.offerRepo.RejectPendingByListing(ctx, listing.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrStaleObject) {
			return nil, fmt.Errorf("%w: order is no longer pending", ErrInvalidOperation)
		}
		return nil, err
	}

	order.Status = model.OrderStatusAccepted
	order.Version++
	s.log.Info("order accepted",
		zap.Uint64("order_id", order.ID),
		zap.Uint64("listing_id", listing.ID),
		zap.Int64("orders_cancelled", cancelled),
		zap.Int64("offers_rejected", rejected))
	return order, nil
}

// Complete marks an accepted order as completed, flags the listing sold and
// credits the seller's revenue, all in one transaction. Calling it on an
// already completed order fails instead of silently no-oping.
func (s *orderService) Complete(ctx context.Context, p authctx.Principal, orderID uint64) (*model.Order, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !CanAct(p, ActionCompleteOrder, order.BuyerUID) {
		return nil, ErrForbidden
	}
	if !order.Status.CanTransitionTo(model.OrderStatusCompleted) {
		return nil, fmt.Errorf("%w: order is %s, not accepted", ErrInvalidOperation, order.Status)
	}
	listing, err := s.findListing(ctx, order.ListingID)
	if err != nil {
		return nil, err
	}

	err = s.tx.Do(ctx, func(ctx context.Context) error {
		if err := s.orderRepo.UpdateStatus(ctx, order.ID, order.Version, model.OrderStatusAccepted, model.OrderStatusCompleted); err != nil {
			return err
		}
		if err := s.listingRepo.MarkSold(ctx, listing.ID, listing.Version); err != nil {
			return err
		}
		cents := int64(math.Round(listing.Price * 100))
		return s.revenueRepo.Add(ctx, listing.SellerUID, cents)
	})
	if err != nil {
		if errors.Is(err, repository.ErrStaleObject) {
			return nil, fmt.Errorf("%w: order or listing changed concurrently", ErrInvalidOperation)
		}
		return nil, err
	}

	order.Status = model.OrderStatusCompleted
	order.Version++
	s.log.Info("order completed",
		zap.Uint64("order_id", order.ID),
		zap.Uint64("listing_id", listing.ID),
		zap.String("seller_uid", listing.SellerUID))
	return order, nil
}

func (s *orderService) Cancel(ctx context.Context, p authctx.Principal, orderID uint64) (*model.Order, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !CanAct(p, ActionCancelOrder, order.BuyerUID) {
		return nil, ErrForbidden
	}
	if !order.Status.CanTransitionTo(model.OrderStatusCancelled) {
		return nil, fmt.Errorf("%w: order is %s, not pending", ErrInvalidOperation, order.Status)
	}
	if err := s.orderRepo.UpdateStatus(ctx, order.ID, order.Version, model.OrderStatusPending, model.OrderStatusCancelled); err != nil {
		if errors.Is(err, repository.ErrStaleObject) {
			return nil, fmt.Errorf("%w: order is no longer pending", ErrInvalidOperation)
		}
		return nil, err
	}
	order.Status = model.OrderStatusCancelled
	order.Version++
	return order, nil
}

func (s *orderService) Get(ctx context.Context, p authctx.Principal, orderID uint64) (*model.Order, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	listing, err := s.findListing(ctx, order.ListingID)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() && p.UID != order.BuyerUID && p.UID != listing.SellerUID {
		return nil, ErrForbidden
	}
	return order, nil
}

func (s *orderService) ListMine(ctx context.Context, p authctx.Principal) ([]model.Order, error) {
	return s.orderRepo.ListByBuyer(ctx, p.UID)
}

func (s *orderService) ListSales(ctx context.Context, p authctx.Principal) ([]model.Order, error) {
	return s.orderRepo.ListBySeller(ctx, p.UID)
}
