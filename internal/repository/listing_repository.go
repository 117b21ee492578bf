package repository

import (
	"context"

	"github.com/campusbooks/marketplace-backend/internal/model"
	"gorm.io/gorm"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *model.Listing) error
	FindByID(ctx context.Context, id uint64) (*model.Listing, error)
	List(ctx context.Context, limit, offset int, categoryID uint64, includeSold bool) ([]model.Listing, int64, error)
	ListBySeller(ctx context.Context, sellerUID string) ([]model.Listing, error)
	Update(ctx context.Context, listing *model.Listing) error
	MarkSold(ctx context.Context, id, version uint64) error
	Delete(ctx context.Context, id uint64) error
	CountByCategory(ctx context.Context, categoryID uint64) (int64, error)
}

type listingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(ctx context.Context, listing *model.Listing) error {
	return conn(ctx, r.db).Create(listing).Error
}

func (r *listingRepository) FindByID(ctx context.Context, id uint64) (*model.Listing, error) {
	var listing model.Listing
	if err := conn(ctx, r.db).First(&listing, id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) List(ctx context.Context, limit, offset int, categoryID uint64, includeSold bool) ([]model.Listing, int64, error) {
	var (
		listings []model.Listing
		total    int64
	)
	q := conn(ctx, r.db).Model(&model.Listing{})
	if categoryID != 0 {
		q = q.Where("category_id = ?", categoryID)
	}
	if !includeSold {
		q = q.Where("is_sold = ?", false)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&listings).Error; err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

func (r *listingRepository) ListBySeller(ctx context.Context, sellerUID string) ([]model.Listing, error) {
	var listings []model.Listing
	if err := conn(ctx, r.db).
		Where("seller_uid = ?", sellerUID).
		Order("id DESC").
		Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *listingRepository) Update(ctx context.Context, listing *model.Listing) error {
	res := conn(ctx, r.db).
		Model(&model.Listing{}).
		Where("id = ? AND version = ?", listing.ID, listing.Version).
		Updates(map[string]interface{}{
			"title":          listing.Title,
			"description":    listing.Description,
			"price":          listing.Price,
			"item_condition": listing.Condition,
			"category_id":    listing.CategoryID,
			"image_url":      listing.ImageURL,
			"is_sold":        listing.IsSold,
			"version":        listing.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleObject
	}
	listing.Version++
	return nil
}

func (r *listingRepository) MarkSold(ctx context.Context, id, version uint64) error {
	res := conn(ctx, r.db).
		Model(&model.Listing{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]interface{}{
			"is_sold": true,
			"version": version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleObject
	}
	return nil
}

func (r *listingRepository) Delete(ctx context.Context, id uint64) error {
	return conn(ctx, r.db).Delete(&model.Listing{}, id).Error
}

func (r *listingRepository) CountByCategory(ctx context.Context, categoryID uint64) (int64, error) {
	var total int64
	if err := conn(ctx, r.db).
		Model(&model.Listing{}).
		Where("category_id = ?", categoryID).
		Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
