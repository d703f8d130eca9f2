// Package domain defines the core types for the media list tracker:
// users, catalog works, list entries, and the closed category/status sets.
package domain

import "time"

// Category partitions the catalog and list entries.
// It is a closed set; anything outside it is rejected at the boundary.
type Category string

const (
	CategoryBooks Category = "books"
	CategoryGames Category = "games"
	CategoryShows Category = "shows"
)

// Categories lists all valid categories in display order.
var Categories = []Category{CategoryBooks, CategoryGames, CategoryShows}

// IsValid reports whether c is one of the enumerated categories.
func (c Category) IsValid() bool {
	switch c {
	case CategoryBooks, CategoryGames, CategoryShows:
		return true
	}
	return false
}

// Title returns the human-readable name for the category.
func (c Category) Title() string {
	switch c {
	case CategoryBooks:
		return "Books"
	case CategoryGames:
		return "Games"
	case CategoryShows:
		return "Shows & Film"
	}
	return string(c)
}

// Status is a list entry's progress state.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusOnHold     Status = "on_hold"
	StatusPlanned    Status = "planned"
	StatusDropped    Status = "dropped"
)

// Statuses lists all valid statuses in display order.
// Aggregation results key off this slice, so every status is always present.
var Statuses = []Status{StatusInProgress, StatusCompleted, StatusOnHold, StatusPlanned, StatusDropped}

// IsValid reports whether s is one of the enumerated statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusInProgress, StatusCompleted, StatusOnHold, StatusPlanned, StatusDropped:
		return true
	}
	return false
}

// defaultStatusLabels are the site-wide labels; categories override some of them.
var defaultStatusLabels = map[Status]string{
	StatusInProgress: "In Progress",
	StatusCompleted:  "Completed",
	StatusOnHold:     "On Hold",
	StatusPlanned:    "Planned",
	StatusDropped:    "Dropped",
}

var categoryStatusLabels = map[Category]map[Status]string{
	CategoryBooks: {
		StatusInProgress: "Reading",
		StatusCompleted:  "Read",
		StatusPlanned:    "Plan to Read",
	},
	CategoryGames: {
		StatusInProgress: "Playing",
		StatusPlanned:    "Plan to Play",
	},
	CategoryShows: {
		StatusInProgress: "Watching",
		StatusPlanned:    "Plan to Watch",
	},
}

// StatusLabel returns the display label for a status within a category,
// e.g. in_progress is "Reading" for books and "Watching" for shows.
func StatusLabel(c Category, s Status) string {
	if overrides, ok := categoryStatusLabels[c]; ok {
		if label, ok := overrides[s]; ok {
			return label
		}
	}
	if label, ok := defaultStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// SourceManual marks catalog works entered by hand rather than imported
// from an external provider.
const SourceManual = "manual"

// MediaWork is a catalog record for a media title, independent of any one
// user's list. The (source, external_id) pair is unique when external_id is
// set; manual works have no external id and may duplicate by title.
type MediaWork struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Category   Category  `json:"category"`
	Source     string    `json:"source"`
	ExternalID *string   `json:"external_id,omitempty"`
	TotalUnits *int      `json:"total_units,omitempty"` // pages for books, episodes for shows
	UnitType   *string   `json:"unit_type,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ListEntry is a user's personal record of their relationship to a catalog
// work. The (user_id, media_id) pair is unique: one entry per user per work.
type ListEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	MediaID   string    `json:"media_id"`
	Status    Status    `json:"status"`
	Rating    *int      `json:"rating,omitempty"` // nil means unrated, distinct from 0
	Notes     *string   `json:"notes,omitempty"`
	Progress  *int      `json:"progress,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Media is the joined catalog work. Populated by store reads that join
	// through media_works; nil on bare entry lookups.
	Media *MediaWork `json:"media,omitempty"`
}

// CategoryStats summarizes one category of a user's list.
type CategoryStats struct {
	Category     Category       `json:"category"`
	Total        int            `json:"total"`
	AvgRating    *float64       `json:"avg_rating"` // nil when no entry has a rating
	StatusCounts map[Status]int `json:"status_counts"`
}
