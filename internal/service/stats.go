package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mymedialist/medialist-server/internal/domain"
	domainerrors "github.com/mymedialist/medialist-server/internal/errors"
	"github.com/mymedialist/medialist-server/internal/store"
)

// StatsService computes per-category aggregates over a user's list.
type StatsService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewStatsService creates a new stats service.
func NewStatsService(store *store.Store, logger *slog.Logger) *StatsService {
	return &StatsService{
		store:  store,
		logger: logger,
	}
}

// GetCategoryStats returns totals, the average rating, and a status
// histogram for one of the user's categories. The histogram always carries
// every status, zero counts included. The average covers rated entries only
// and is nil when nothing is rated.
func (s *StatsService) GetCategoryStats(ctx context.Context, userID string, category domain.Category) (*domain.CategoryStats, error) {
	if !category.IsValid() {
		return nil, domainerrors.NotFoundf("unknown category %q", category)
	}

	stats, err := s.store.GetCategoryStats(ctx, userID, category)
	if err != nil {
		return nil, fmt.Errorf("get category stats: %w", err)
	}
	return stats, nil
}
