package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mymedialist/medialist-server/internal/domain"
	domainerrors "github.com/mymedialist/medialist-server/internal/errors"
	"github.com/mymedialist/medialist-server/internal/id"
	"github.com/mymedialist/medialist-server/internal/store"
)

// ListService orchestrates per-user media list operations with ownership
// enforcement. Every mutation goes through an ownership check; an entry
// belonging to another user is indistinguishable from a missing one.
type ListService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewListService creates a new list service.
func NewListService(store *store.Store, logger *slog.Logger) *ListService {
	return &ListService{
		store:  store,
		logger: logger,
	}
}

// AddEntryRequest contains the data for adding a media item to a list.
type AddEntryRequest struct {
	Title      string  `json:"title" validate:"required,max=512"`
	Status     string  `json:"status,omitempty"`
	Rating     *int    `json:"rating,omitempty" validate:"omitempty,gte=1,lte=10"`
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=4096"`
	Progress   *int    `json:"progress,omitempty" validate:"omitempty,gte=0"`
	TotalUnits *int    `json:"total_units,omitempty" validate:"omitempty,gte=0"`
	UnitType   *string `json:"unit_type,omitempty" validate:"omitempty,max=32"`
}

// EditEntryRequest contains the fields that can be changed on an entry.
// Nil pointers leave the current value untouched, except rating and notes,
// where explicit handling lets callers clear them.
type EditEntryRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=512"`
	Status      *string `json:"status,omitempty"`
	Rating      *int    `json:"rating,omitempty" validate:"omitempty,gte=1,lte=10"`
	ClearRating bool    `json:"clear_rating,omitempty"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=4096"`
	Progress    *int    `json:"progress,omitempty" validate:"omitempty,gte=0"`
}

// Add creates a media work and its list entry for the user.
// Both records are written in one transaction.
func (s *ListService) Add(ctx context.Context, userID string, category domain.Category, req AddEntryRequest) (*domain.ListEntry, error) {
	if !category.IsValid() {
		return nil, domainerrors.NotFoundf("unknown category %q", category)
	}

	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domainerrors.Validation("title cannot be empty")
	}

	status := domain.StatusPlanned
	if req.Status != "" {
		status = domain.Status(req.Status)
		if !status.IsValid() {
			return nil, domainerrors.Validationf("invalid status %q", req.Status)
		}
	}

	workID, err := id.Generate("work")
	if err != nil {
		return nil, fmt.Errorf("generate work ID: %w", err)
	}
	entryID, err := id.Generate("entry")
	if err != nil {
		return nil, fmt.Errorf("generate entry ID: %w", err)
	}

	now := time.Now()
	work := &domain.MediaWork{
		ID:         workID,
		Title:      title,
		Category:   category,
		Source:     domain.SourceManual,
		TotalUnits: req.TotalUnits,
		UnitType:   req.UnitType,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	entry := &domain.ListEntry{
		ID:        entryID,
		UserID:    userID,
		MediaID:   workID,
		Status:    status,
		Rating:    req.Rating,
		Notes:     req.Notes,
		Progress:  req.Progress,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateEntryWithWork(ctx, work, entry); err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}
	entry.Media = work

	if s.logger != nil {
		s.logger.Info("list entry added",
			"entry_id", entryID,
			"user_id", userID,
			"category", category,
			"title", title,
		)
	}

	return entry, nil
}

// Edit updates an existing entry. Requires ownership.
func (s *ListService) Edit(ctx context.Context, userID string, category domain.Category, entryID string, req EditEntryRequest) (*domain.ListEntry, error) {
	if !category.IsValid() {
		return nil, domainerrors.NotFoundf("unknown category %q", category)
	}

	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	entry, err := s.getOwnedEntry(ctx, userID, category, entryID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, domainerrors.Validation("title cannot be empty")
		}
		entry.Media.Title = title
	}
	if req.Status != nil {
		status := domain.Status(*req.Status)
		if !status.IsValid() {
			return nil, domainerrors.Validationf("invalid status %q", *req.Status)
		}
		entry.Status = status
	}
	if req.ClearRating {
		entry.Rating = nil
	} else if req.Rating != nil {
		entry.Rating = req.Rating
	}
	if req.Notes != nil {
		entry.Notes = req.Notes
	}
	if req.Progress != nil {
		entry.Progress = req.Progress
	}

	now := time.Now()
	entry.UpdatedAt = now
	entry.Media.UpdatedAt = now

	if err := s.store.UpdateEntryWithWork(ctx, entry); err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("list entry updated",
			"entry_id", entryID,
			"user_id", userID,
		)
	}

	return entry, nil
}

// Delete removes an entry and its media work. Requires ownership.
// Returns the title of the removed item.
func (s *ListService) Delete(ctx context.Context, userID string, category domain.Category, entryID string) (string, error) {
	if !category.IsValid() {
		return "", domainerrors.NotFoundf("unknown category %q", category)
	}

	entry, err := s.getOwnedEntry(ctx, userID, category, entryID)
	if err != nil {
		return "", err
	}

	if err := s.store.DeleteEntryWithWork(ctx, entry.ID, entry.MediaID); err != nil {
		return "", fmt.Errorf("delete entry: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("list entry deleted",
			"entry_id", entryID,
			"user_id", userID,
			"title", entry.Media.Title,
		)
	}

	return entry.Media.Title, nil
}

// List returns the user's entries for a category, ordered by title.
func (s *ListService) List(ctx context.Context, userID string, category domain.Category) ([]*domain.ListEntry, error) {
	if !category.IsValid() {
		return nil, domainerrors.NotFoundf("unknown category %q", category)
	}

	entries, err := s.store.ListEntries(ctx, userID, category)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// getOwnedEntry loads an entry and verifies it belongs to the user and
// category. Missing entries and entries owned by someone else produce the
// same error so entry IDs cannot be probed.
func (s *ListService) getOwnedEntry(ctx context.Context, userID string, category domain.Category, entryID string) (*domain.ListEntry, error) {
	entry, err := s.store.GetEntry(ctx, entryID)
	if err != nil {
		if errors.Is(err, store.ErrEntryNotFound) {
			return nil, domainerrors.NotFound("list entry not found")
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}
	if entry.UserID != userID || entry.Media.Category != category {
		return nil, domainerrors.NotFound("list entry not found")
	}
	return entry, nil
}
