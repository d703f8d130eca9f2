package domain

import "testing"

func TestCategoryIsValid(t *testing.T) {
	for _, c := range Categories {
		if !c.IsValid() {
			t.Errorf("category %q should be valid", c)
		}
	}

	invalid := []Category{"movies", "music", "", "Books", "BOOKS"}
	for _, c := range invalid {
		if c.IsValid() {
			t.Errorf("category %q should be invalid", c)
		}
	}
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range Statuses {
		if !s.IsValid() {
			t.Errorf("status %q should be valid", s)
		}
	}

	invalid := []Status{"watching", "done", "", "Completed"}
	for _, s := range invalid {
		if s.IsValid() {
			t.Errorf("status %q should be invalid", s)
		}
	}
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		category Category
		status   Status
		want     string
	}{
		{CategoryBooks, StatusInProgress, "Reading"},
		{CategoryBooks, StatusCompleted, "Read"},
		{CategoryBooks, StatusOnHold, "On Hold"},
		{CategoryShows, StatusInProgress, "Watching"},
		{CategoryShows, StatusPlanned, "Plan to Watch"},
		{CategoryGames, StatusInProgress, "Playing"},
		{CategoryGames, StatusCompleted, "Completed"},
		{CategoryGames, StatusDropped, "Dropped"},
	}

	for _, tt := range tests {
		if got := StatusLabel(tt.category, tt.status); got != tt.want {
			t.Errorf("StatusLabel(%q, %q) = %q, want %q", tt.category, tt.status, got, tt.want)
		}
	}
}

func TestNormalizeUsername(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Alice", "alice"},
		{"  alice  ", "alice"},
		{"ALICE", "alice"},
		{"alice", "alice"},
	}

	for _, tt := range tests {
		if got := NormalizeUsername(tt.in); got != tt.want {
			t.Errorf("NormalizeUsername(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
