package service

import (
	"context"

	"github.com/campusbooks/marketplace-backend/internal/authctx"
	"github.com/campusbooks/marketplace-backend/internal/repository"
)

type RevenueService interface {
	Get(ctx context.Context, p authctx.Principal) (int64, error)
}

type revenueService struct {
	repo repository.UserRevenueRepository
}

func NewRevenueService(repo repository.UserRevenueRepository) RevenueService {
	return &revenueService{repo: repo}
}

func (s *revenueService) Get(ctx context.Context, p authctx.Principal) (int64, error) {
	r, err := s.repo.Get(ctx, p.UID)
	if err != nil {
		return 0, err
	}
	return r.RevenueCents, nil
}
