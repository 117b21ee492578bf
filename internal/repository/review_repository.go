package repository

import (
	"context"
	"errors"

	"github.com/campusbooks/marketplace-backend/internal/model"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	FindByID(ctx context.Context, id uint64) (*model.Review, error)
	FindByOrder(ctx context.Context, orderID uint64) (*model.Review, error)
	Update(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, id uint64) error
	ListByReviewee(ctx context.Context, revieweeUID string) ([]model.Review, error)
	AverageForReviewee(ctx context.Context, revieweeUID string) (float64, int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	return conn(ctx, r.db).Create(review).Error
}

func (r *reviewRepository) FindByID(ctx context.Context, id uint64) (*model.Review, error) {
	var review model.Review
	if err := conn(ctx, r.db).First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// FindByOrder returns (nil, nil) when the order has no review yet.
func (r *reviewRepository) FindByOrder(ctx context.Context, orderID uint64) (*model.Review, error) {
	var review model.Review
	if err := conn(ctx, r.db).
		Where("order_id = ?", orderID).
		First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *model.Review) error {
	return conn(ctx, r.db).Save(review).Error
}

func (r *reviewRepository) Delete(ctx context.Context, id uint64) error {
	return conn(ctx, r.db).Delete(&model.Review{}, id).Error
}

func (r *reviewRepository) ListByReviewee(ctx context.Context, revieweeUID string) ([]model.Review, error) {
	var reviews []model.Review
	if err := conn(ctx, r.db).
		Where("reviewee_uid = ?", revieweeUID).
		Order("id DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) AverageForReviewee(ctx context.Context, revieweeUID string) (float64, int64, error) {
	var row struct {
		Avg   float64
		Total int64
	}
	if err := conn(ctx, r.db).
		Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS total").
		Where("reviewee_uid = ?", revieweeUID).
		Scan(&row).Error; err != nil {
		return 0, 0, err
	}
	return row.Avg, row.Total, nil
}
