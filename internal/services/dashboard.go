package services

import (
	"context"

	"github.com/recruitdesk/apiserver/types"
)

type DashboardRepository interface {
	Summary(ctx context.Context, userID string) (types.DashboardSummary, error)
}

type DashboardService struct {
	repo DashboardRepository
}

func NewDashboardService(repo DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

func (s *DashboardService) Summary(ctx context.Context, userID string) (types.DashboardSummary, error) {
	return s.repo.Summary(ctx, userID)
}
