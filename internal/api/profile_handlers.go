package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mymedialist/medialist-server/internal/domain"
)

func (s *Server) registerProfileRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/profile",
		Summary:     "Get profile",
		Description: "Returns the authenticated user's account data",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCategoryStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/profile/stats/{category}",
		Summary:     "Get category stats",
		Description: "Returns totals, average rating, and a status histogram for one category",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCategoryStats)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteAccount",
		Method:      http.MethodDelete,
		Path:        "/api/v1/profile",
		Summary:     "Delete account",
		Description: "Removes the user along with all their lists and sessions",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteAccount)
}

// === DTOs ===

// ProfileInput contains parameters for profile endpoints.
type ProfileInput struct {
	Authorization string `header:"Authorization"`
}

// ProfileOutput wraps the profile response for Huma.
type ProfileOutput struct {
	Body UserResponse
}

// CategoryStatsInput contains parameters for category stats.
type CategoryStatsInput struct {
	Authorization string `header:"Authorization"`
	Category      string `path:"category" doc:"List category (books, games, shows)"`
}

// CategoryStatsResponse contains aggregates for one category.
type CategoryStatsResponse struct {
	Category     string         `json:"category" doc:"List category"`
	Total        int            `json:"total" doc:"Number of entries in the category"`
	AvgRating    *float64       `json:"avg_rating,omitempty" doc:"Average rating over rated entries, absent when none are rated"`
	StatusCounts map[string]int `json:"status_counts" doc:"Entry count per status, zero counts included"`
}

// CategoryStatsOutput wraps the stats response for Huma.
type CategoryStatsOutput struct {
	Body CategoryStatsResponse
}

// === Handlers ===

func (s *Server) handleGetProfile(ctx context.Context, _ *ProfileInput) (*ProfileOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Profile.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{Body: mapUserResponse(user)}, nil
}

func (s *Server) handleGetCategoryStats(ctx context.Context, input *CategoryStatsInput) (*CategoryStatsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := s.services.Stats.GetCategoryStats(ctx, userID, domain.Category(input.Category))
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(stats.StatusCounts))
	for status, count := range stats.StatusCounts {
		counts[string(status)] = count
	}

	return &CategoryStatsOutput{
		Body: CategoryStatsResponse{
			Category:     string(stats.Category),
			Total:        stats.Total,
			AvgRating:    stats.AvgRating,
			StatusCounts: counts,
		},
	}, nil
}

func (s *Server) handleDeleteAccount(ctx context.Context, _ *ProfileInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Profile.DeleteAccount(ctx, userID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Account deleted"}}, nil
}

// mapUserResponse converts a domain user to its API shape.
func mapUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
		LastLoginAt: user.LastLoginAt,
	}
}
