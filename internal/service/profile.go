package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mymedialist/medialist-server/internal/domain"
	domainerrors "github.com/mymedialist/medialist-server/internal/errors"
	"github.com/mymedialist/medialist-server/internal/store"
)

// ProfileService provides access to the authenticated user's account data.
type ProfileService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(store *store.Store, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		store:  store,
		logger: logger,
	}
}

// GetProfile returns the user's account record.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// DeleteAccount removes the user plus all their entries and sessions.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.store.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return domainerrors.NotFound("user not found")
		}
		return fmt.Errorf("delete user: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("account deleted", "user_id", userID)
	}
	return nil
}
