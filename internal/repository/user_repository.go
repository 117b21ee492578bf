package repository

import (
	"context"

	"github.com/campusbooks/marketplace-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	Upsert(ctx context.Context, user *model.User) error
	FindByUID(ctx context.Context, uid string) (*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Upsert(ctx context.Context, user *model.User) error {
	return conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "uid"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"display_name": user.DisplayName,
			"email":        user.Email,
			"role":         user.Role,
		}),
	}).Create(user).Error
}

func (r *userRepository) FindByUID(ctx context.Context, uid string) (*model.User, error) {
	var user model.User
	if err := conn(ctx, r.db).
		Where("uid = ?", uid).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
