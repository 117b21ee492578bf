package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/campusbooks/marketplace-backend/internal/model"
	"github.com/campusbooks/marketplace-backend/internal/repository"
	"gorm.io/gorm"
)

type UserService interface {
	// Register stores the user row. The role is fixed at registration;
	// admin cannot be self-assigned.
	Register(ctx context.Context, uid, displayName, email string, role model.Role) (*model.User, error)
	Get(ctx context.Context, uid string) (*model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Register(ctx context.Context, uid, displayName, email string, role model.Role) (*model.User, error) {
	if uid == "" {
		return nil, fmt.Errorf("%w: uid is required", ErrValidation)
	}
	if role != model.RoleBuyer && role != model.RoleSeller {
		return nil, fmt.Errorf("%w: role must be buyer or seller", ErrValidation)
	}
	user := &model.User{
		UID:         uid,
		DisplayName: strings.TrimSpace(displayName),
		Email:       strings.TrimSpace(email),
		Role:        role,
	}
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, uid string) (*model.User, error) {
	user, err := s.userRepo.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
