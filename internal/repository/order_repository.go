package repository

import (
	"context"

	"github.com/campusbooks/marketplace-backend/internal/model"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id uint64) (*model.Order, error)
	ListByBuyer(ctx context.Context, buyerUID string) ([]model.Order, error)
	ListBySeller(ctx context.Context, sellerUID string) ([]model.Order, error)
	// UpdateStatus moves the order to the next status, guarded by both the
	// current status and the version column.
	UpdateStatus(ctx context.Context, id, version uint64, from, to model.OrderStatus) error
	CancelPendingByListing(ctx context.Context, listingID, exceptOrderID uint64) (int64, error)
	ExistsActiveByListingAndBuyer(ctx context.Context, listingID uint64, buyerUID string) (bool, error)
	DeleteByListing(ctx context.Context, listingID uint64) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return conn(ctx, r.db).Create(order).Error
}

func (r *orderRepository) FindByID(ctx context.Context, id uint64) (*model.Order, error) {
	var order model.Order
	if err := conn(ctx, r.db).First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListByBuyer(ctx context.Context, buyerUID string) ([]model.Order, error) {
	var orders []model.Order
	if err := conn(ctx, r.db).
		Where("buyer_uid = ?", buyerUID).
		Order("id DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) ListBySeller(ctx context.Context, sellerUID string) ([]model.Order, error) {
	var orders []model.Order
	if err := conn(ctx, r.db).
		Joins("JOIN listings ON listings.id = orders.listing_id").
		Where("listings.seller_uid = ?", sellerUID).
		Order("orders.id DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id, version uint64, from, to model.OrderStatus) error {
	res := conn(ctx, r.db).
		Model(&model.Order{}).
		Where("id = ? AND status = ? AND version = ?", id, from, version).
		Updates(map[string]interface{}{
			"status":  to,
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

func (r *orderRepository) CancelPendingByListing(ctx context.Context, listingID, exceptOrderID uint64) (int64, error) {
	res := conn(ctx, r.db).
		Model(&model.Order{}).
		Where("listing_id = ? AND id <> ? AND status = ?", listingID, exceptOrderID, model.OrderStatusPending).
		Updates(map[string]interface{}{
			"status":  model.OrderStatusCancelled,
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *orderRepository) ExistsActiveByListingAndBuyer(ctx context.Context, listingID uint64, buyerUID string) (bool, error) {
	var total int64
	if err := conn(ctx, r.db).
		Model(&model.Order{}).
		Where("listing_id = ? AND buyer_uid = ? AND status <> ?", listingID, buyerUID, model.OrderStatusCancelled).
		Count(&total).Error; err != nil {
		return false, err
	}
	return total > 0, nil
}

func (r *orderRepository) DeleteByListing(ctx context.Context, listingID uint64) error {
	return conn(ctx, r.db).
		Where("listing_id = ?", listingID).
		Delete(&model.Order{}).Error
}
