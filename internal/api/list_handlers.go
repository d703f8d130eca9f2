package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mymedialist/medialist-server/internal/domain"
	"github.com/mymedialist/medialist-server/internal/service"
)

func (s *Server) registerListRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listEntries",
		Method:      http.MethodGet,
		Path:        "/api/v1/lists/{category}",
		Summary:     "List entries",
		Description: "Returns the user's entries in a category, ordered by title",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListEntries)

	huma.Register(s.api, huma.Operation{
		OperationID: "addEntry",
		Method:      http.MethodPost,
		Path:        "/api/v1/lists/{category}",
		Summary:     "Add entry",
		Description: "Adds a media item to the user's list in a category",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "editEntry",
		Method:      http.MethodPut,
		Path:        "/api/v1/lists/{category}/{entryID}",
		Summary:     "Edit entry",
		Description: "Updates status, rating, notes, progress, or title of an entry",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleEditEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteEntry",
		Method:      http.MethodDelete,
		Path:        "/api/v1/lists/{category}/{entryID}",
		Summary:     "Delete entry",
		Description: "Removes an entry and its media record from the user's list",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteEntry)
}

// === DTOs ===

// ListEntriesInput contains parameters for listing a category.
type ListEntriesInput struct {
	Authorization string `header:"Authorization"`
	Category      string `path:"category" doc:"List category (books, games, shows)"`
}

// AddEntryRequest is the request body for adding an entry.
type AddEntryRequest struct {
	Title      string  `json:"title" validate:"required,max=512" doc:"Media title"`
	Status     string  `json:"status,omitempty" doc:"Initial status (defaults to planned)"`
	Rating     *int    `json:"rating,omitempty" validate:"omitempty,gte=1,lte=10" doc:"Rating from 1 to 10"`
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=4096" doc:"Free-form notes"`
	Progress   *int    `json:"progress,omitempty" validate:"omitempty,gte=0" doc:"Progress in units (pages, episodes, hours)"`
	TotalUnits *int    `json:"total_units,omitempty" validate:"omitempty,gte=0" doc:"Total units in the work"`
	UnitType   *string `json:"unit_type,omitempty" validate:"omitempty,max=32" doc:"Unit name (pages, episodes, hours)"`
}

// AddEntryInput wraps the add request for Huma.
type AddEntryInput struct {
	Authorization string `header:"Authorization"`
	Category      string `path:"category" doc:"List category (books, games, shows)"`
	Body          AddEntryRequest
}

// EditEntryRequest is the request body for editing an entry.
// Omitted fields are left unchanged.
type EditEntryRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=512" doc:"New title"`
	Status      *string `json:"status,omitempty" doc:"New status"`
	Rating      *int    `json:"rating,omitempty" validate:"omitempty,gte=1,lte=10" doc:"New rating from 1 to 10"`
	ClearRating bool    `json:"clear_rating,omitempty" doc:"Remove the rating"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=4096" doc:"New notes"`
	Progress    *int    `json:"progress,omitempty" validate:"omitempty,gte=0" doc:"New progress"`
}

// EditEntryInput wraps the edit request for Huma.
type EditEntryInput struct {
	Authorization string `header:"Authorization"`
	Category      string `path:"category" doc:"List category (books, games, shows)"`
	EntryID       string `path:"entryID" doc:"Entry ID"`
	Body          EditEntryRequest
}

// DeleteEntryInput contains parameters for deleting an entry.
type DeleteEntryInput struct {
	Authorization string `header:"Authorization"`
	Category      string `path:"category" doc:"List category (books, games, shows)"`
	EntryID       string `path:"entryID" doc:"Entry ID"`
}

// EntryResponse contains a list entry with its media data.
type EntryResponse struct {
	ID          string    `json:"id" doc:"Entry ID"`
	Title       string    `json:"title" doc:"Media title"`
	Category    string    `json:"category" doc:"List category"`
	Status      string    `json:"status" doc:"Entry status"`
	StatusLabel string    `json:"status_label" doc:"Display label for the status in this category"`
	Rating      *int      `json:"rating,omitempty" doc:"Rating from 1 to 10, absent when unrated"`
	Notes       *string   `json:"notes,omitempty" doc:"Free-form notes"`
	Progress    *int      `json:"progress,omitempty" doc:"Progress in units"`
	TotalUnits  *int      `json:"total_units,omitempty" doc:"Total units in the work"`
	UnitType    *string   `json:"unit_type,omitempty" doc:"Unit name"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// EntryOutput wraps a single entry for Huma.
type EntryOutput struct {
	Body EntryResponse
}

// EntryListResponse contains a category's entries.
type EntryListResponse struct {
	Category string          `json:"category" doc:"List category"`
	Entries  []EntryResponse `json:"entries" doc:"Entries ordered by title"`
	Total    int             `json:"total" doc:"Number of entries"`
}

// EntryListOutput wraps the entry list for Huma.
type EntryListOutput struct {
	Body EntryListResponse
}

// DeleteEntryResponse contains the result of a delete.
type DeleteEntryResponse struct {
	Title   string `json:"title" doc:"Title of the removed item"`
	Message string `json:"message" doc:"Status message"`
}

// DeleteEntryOutput wraps the delete response for Huma.
type DeleteEntryOutput struct {
	Body DeleteEntryResponse
}

// === Handlers ===

func (s *Server) handleListEntries(ctx context.Context, input *ListEntriesInput) (*EntryListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	category := domain.Category(input.Category)
	entries, err := s.services.List.List(ctx, userID, category)
	if err != nil {
		return nil, err
	}

	resp := EntryListResponse{
		Category: input.Category,
		Entries:  make([]EntryResponse, 0, len(entries)),
		Total:    len(entries),
	}
	for _, entry := range entries {
		resp.Entries = append(resp.Entries, mapEntryResponse(entry))
	}

	return &EntryListOutput{Body: resp}, nil
}

func (s *Server) handleAddEntry(ctx context.Context, input *AddEntryInput) (*EntryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := s.services.List.Add(ctx, userID, domain.Category(input.Category), service.AddEntryRequest{
		Title:      input.Body.Title,
		Status:     input.Body.Status,
		Rating:     input.Body.Rating,
		Notes:      input.Body.Notes,
		Progress:   input.Body.Progress,
		TotalUnits: input.Body.TotalUnits,
		UnitType:   input.Body.UnitType,
	})
	if err != nil {
		return nil, err
	}

	return &EntryOutput{Body: mapEntryResponse(entry)}, nil
}

func (s *Server) handleEditEntry(ctx context.Context, input *EditEntryInput) (*EntryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := s.services.List.Edit(ctx, userID, domain.Category(input.Category), input.EntryID, service.EditEntryRequest{
		Title:       input.Body.Title,
		Status:      input.Body.Status,
		Rating:      input.Body.Rating,
		ClearRating: input.Body.ClearRating,
		Notes:       input.Body.Notes,
		Progress:    input.Body.Progress,
	})
	if err != nil {
		return nil, err
	}

	return &EntryOutput{Body: mapEntryResponse(entry)}, nil
}

func (s *Server) handleDeleteEntry(ctx context.Context, input *DeleteEntryInput) (*DeleteEntryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	title, err := s.services.List.Delete(ctx, userID, domain.Category(input.Category), input.EntryID)
	if err != nil {
		return nil, err
	}

	return &DeleteEntryOutput{
		Body: DeleteEntryResponse{
			Title:   title,
			Message: "Removed " + title,
		},
	}, nil
}

// === Helpers ===

func mapEntryResponse(entry *domain.ListEntry) EntryResponse {
	resp := EntryResponse{
		ID:        entry.ID,
		Status:    string(entry.Status),
		Rating:    entry.Rating,
		Notes:     entry.Notes,
		Progress:  entry.Progress,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}
	if entry.Media != nil {
		resp.Title = entry.Media.Title
		resp.Category = string(entry.Media.Category)
		resp.StatusLabel = domain.StatusLabel(entry.Media.Category, entry.Status)
		resp.TotalUnits = entry.Media.TotalUnits
		resp.UnitType = entry.Media.UnitType
	}
	return resp
}
