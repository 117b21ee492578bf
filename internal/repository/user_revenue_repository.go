package repository

import (
	"context"

	"github.com/campusbooks/marketplace-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRevenueRepository interface {
	Add(ctx context.Context, uid string, cents int64) error
	Get(ctx context.Context, uid string) (*model.UserRevenue, error)
}

type userRevenueRepository struct {
	db *gorm.DB
}

func NewUserRevenueRepository(db *gorm.DB) UserRevenueRepository {
	return &userRevenueRepository{db: db}
}

func (r *userRevenueRepository) Add(ctx context.Context, uid string, cents int64) error {
	return conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uid"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"revenue_cents": gorm.Expr("revenue_cents + ?", cents)}),
	}).Create(&model.UserRevenue{UID: uid, RevenueCents: cents}).Error
}

func (r *userRevenueRepository) Get(ctx context.Context, uid string) (*model.UserRevenue, error) {
	var ur model.UserRevenue
	if err := conn(ctx, r.db).
		Where("uid = ?", uid).
		FirstOrCreate(&ur, &model.UserRevenue{UID: uid}).Error; err != nil {
		return nil, err
	}
	return &ur, nil
}
