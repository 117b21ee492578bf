package repository

import (
	"context"

	"github.com/campusbooks/marketplace-backend/internal/model"
	"gorm.io/gorm"
)

type OfferRepository interface {
	Create(ctx context.Context, offer *model.Offer) error
	FindByID(ctx context.Context, id uint64) (*model.Offer, error)
	ListByListing(ctx context.Context, listingID uint64) ([]model.Offer, error)
	ListByBuyer(ctx context.Context, buyerUID string) ([]model.Offer, error)
	// UpdateStatus flips the offer from one status to another and reports how
	// many rows matched; zero means the offer was no longer in `from`.
	UpdateStatus(ctx context.Context, id uint64, from, to model.OfferStatus) (int64, error)
	RejectPendingByListing(ctx context.Context, listingID uint64) (int64, error)
	DeleteByListing(ctx context.Context, listingID uint64) error
}

type offerRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) OfferRepository {
	return &offerRepository{db: db}
}

func (r *offerRepository) Create(ctx context.Context, offer *model.Offer) error {
	return conn(ctx, r.db).Create(offer).Error
}

func (r *offerRepository) FindByID(ctx context.Context, id uint64) (*model.Offer, error) {
	var offer model.Offer
	if err := conn(ctx, r.db).First(&offer, id).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *offerRepository) ListByListing(ctx context.Context, listingID uint64) ([]model.Offer, error) {
	var offers []model.Offer
	if err := conn(ctx, r.db).
		Where("listing_id = ?", listingID).
		Order("id DESC").
		Find(&offers).Error; err != nil {
		return nil, err
	}
	return offers, nil
}

func (r *offerRepository) ListByBuyer(ctx context.Context, buyerUID string) ([]model.Offer, error) {
	var offers []model.Offer
	if err := conn(ctx, r.db).
		Where("buyer_uid = ?", buyerUID).
		Order("id DESC").
		Find(&offers).Error; err != nil {
		return nil, err
	}
	return offers, nil
}

func (r *offerRepository) UpdateStatus(ctx context.Context, id uint64, from, to model.OfferStatus) (int64, error) {
	res := conn(ctx, r.db).
		Model(&model.Offer{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *offerRepository) RejectPendingByListing(ctx context.Context, listingID uint64) (int64, error) {
	res := conn(ctx, r.db).
		Model(&model.Offer{}).
		Where("listing_id = ? AND status = ?", listingID, model.OfferStatusPending).
		Update("status", model.OfferStatusRejected)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *offerRepository) DeleteByListing(ctx context.Context, listingID uint64) error {
	return conn(ctx, r.db).
		Where("listing_id = ?", listingID).
		Delete(&model.Offer{}).Error
}
