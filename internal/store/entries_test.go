package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mymedialist/medialist-server/internal/domain"
)

// makeTestEntry builds a manual catalog work plus a list entry referencing it.
func makeTestEntry(userID, workID, entryID, title string, category domain.Category) (*domain.MediaWork, *domain.ListEntry) {
	now := time.Now()
	work := &domain.MediaWork{
		ID:        workID,
		Title:     title,
		Category:  category,
		Source:    domain.SourceManual,
		CreatedAt: now,
		UpdatedAt: now,
	}
	entry := &domain.ListEntry{
		ID:        entryID,
		UserID:    userID,
		MediaID:   workID,
		Status:    domain.StatusPlanned,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return work, entry
}

func seedUser(t *testing.T, s *Store, id, username string) {
	t.Helper()
	if err := s.CreateUser(context.Background(), makeTestUser(id, username)); err != nil {
		t.Fatalf("seed user %s: %v", id, err)
	}
}

func TestCreateEntryWithWork_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1", "alice")

	work, entry := makeTestEntry("user-1", "work-1", "entry-1", "Dune", domain.CategoryBooks)
	rating := 9
	notes := "a classic"
	progress := 250
	entry.Rating = &rating
	entry.Notes = &notes
	entry.Progress = &progress

	if err := s.CreateEntryWithWork(ctx, work, entry); err != nil {
		t.Fatalf("CreateEntryWithWork: %v", err)
	}

	got, err := s.GetEntry(ctx, "entry-1")
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}

	if got.UserID != "user-1" {
		t.Errorf("UserID: got %q", got.UserID)
	}
	if got.Status != domain.StatusPlanned {
		t.Errorf("Status: got %q", got.Status)
	}
	if got.Rating == nil || *got.Rating != 9 {
		t.Errorf("Rating: got %v, want 9", got.Rating)
	}
	if got.Notes == nil || *got.Notes != "a classic" {
		t.Errorf("Notes: got %v", got.Notes)
	}
	if got.Progress == nil || *got.Progress != 250 {
		t.Errorf("Progress: got %v", got.Progress)
	}
	if got.Media == nil {
		t.Fatal("Media should be joined")
	}
	if got.Media.Title != "Dune" {
		t.Errorf("Media.Title: got %q", got.Media.Title)
	}
	if got.Media.Category != domain.CategoryBooks {
		t.Errorf("Media.Category: got %q", got.Media.Category)
	}
	if got.Media.Source != domain.SourceManual {
		t.Errorf("Media.Source: got %q", got.Media.Source)
	}
	if got.Media.ExternalID != nil {
		t.Errorf("Media.ExternalID: expected nil, got %v", got.Media.ExternalID)
	}
}

func TestCreateEntryWithWork_NilOptionalsStayNull(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1", "alice")

	work, entry := makeTestEntry("user-1", "work-1", "entry-1", "Dune", domain.CategoryBooks)
	if err := s.CreateEntryWithWork(ctx, work, entry); err != nil {
		t.Fatalf("CreateEntryWithWork: %v", err)
	}

	got, err := s.GetEntry(ctx, "entry-1")
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}

	// Absent rating is NULL, never zero.
	if got.Rating != nil {
		t.Errorf("Rating: expected nil, got %v", *got.Rating)
	}
	if got.Notes != nil {
		t.Errorf("Notes: expected nil, got %v", *got.Notes)
	}
	if got.Progress != nil {
		t.Errorf("Progress: expected nil, got %v", *got.Progress)
	}
}

func TestCreateEntryWithWork_AtomicOnFailure(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1", "alice")

	work, entry := makeTestEntry("user-1", "work-1", "entry-1", "Dune", domain.CategoryBooks)
	if err := s.CreateEntryWithWork(ctx, work, entry); err != nil {
		t.Fatalf("CreateEntryWithWork: %v", err)
	}

	// Second entry for the same user+work violates the uniqueness pair; the
	// freshly inserted duplicate work must be rolled back with it.
	work2 := &domain.MediaWork{
		ID:        "work-2",
		Title:     "Dune",
		Category:  domain.CategoryBooks,
		Source:    domain.SourceManual,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	entry2 := &domain.ListEntry{
		ID:        "entry-2",
		UserID:    "user-1",
		MediaID:   "work-1", // points at the existing work
		Status:    domain.StatusPlanned,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	err := s.CreateEntryWithWork(ctx, work2, entry2)
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	// No orphan work may survive the rollback.
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM media_works").Scan(&count); err != nil {
		t.Fatalf("count media_works: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 media_work after rollback, got %d", count)
	}
}

func TestUpdateEntryWithWork(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1", "alice")

	work, entry := makeTestEntry("user-1", "work-1", "entry-1", "Dune", domain.CategoryBooks)
	if err := s.CreateEntryWithWork(ctx, work, entry); err != nil {
		t.Fatalf("CreateEntryWithWork: %v", err)
	}

	got, err := s.GetEntry(ctx, "entry-1")
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}

	rating := 8
	got.Status = domain.StatusCompleted
	got.Rating = &rating
	got.Media.Title = "Dune Messiah"
	got.UpdatedAt = time.Now()
	got.Media.UpdatedAt = time.Now()

	if err := s.UpdateEntryWithWork(ctx, got); err != nil {
		t.Fatalf("UpdateEntryWithWork: %v", err)
	}

	updated, err := s.GetEntry(ctx, "entry-1")
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if updated.Status != domain.StatusCompleted {
		t.Errorf("Status: got %q", updated.Status)
	}
	if updated.Rating == nil || *updated.Rating != 8 {
		t.Errorf("Rating: got %v", updated.Rating)
	}
	if updated.Media.Title != "Dune Messiah" {
		t.Errorf("Title: got %q", updated.Media.Title)
	}
}

func TestUpdateEntryWithWork_ClearRating(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1", "alice")

	work, entry := makeTestEntry("user-1", "work-1", "entry-1", "Dune", domain.CategoryBooks)
	rating := 7
	entry.Rating = &rating
	if err := s.CreateEntryWithWork(ctx, work, entry); err != nil {
		t.Fatalf("CreateEntryWithWork: %v", err)
	}

	got, err := s.GetEntry(ctx, "entry-1")
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	got.Rating = nil
	if err := s.UpdateEntryWithWork(ctx, got); err != nil {
		t.Fatalf("UpdateEntryWithWork: %v", err)
	}

	updated, err := s.GetEntry(ctx, "entry-1")
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if updated.Rating != nil {
		t.Errorf("Rating: expected cleared to nil, got %v", *updated.Rating)
	}
}

func TestDeleteEntryWithWork(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1", "alice")

	work, entry := makeTestEntry("user-1", "work-1", "entry-1", "Dune", domain.CategoryBooks)
	if err := s.CreateEntryWithWork(ctx, work, entry); err != nil {
		t.Fatalf("CreateEntryWithWork: %v", err)
	}

	if err := s.DeleteEntryWithWork(ctx, "entry-1", "work-1"); err != nil {
		t.Fatalf("DeleteEntryWithWork: %v", err)
	}

	if _, err := s.GetEntry(ctx, "entry-1"); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}

	// The orphaned work must be gone too.
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM media_works").Scan(&count); err != nil {
		t.Fatalf("count media_works: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 media_works, got %d", count)
	}

	// Deleting again reports not found, it does not crash.
	if err := s.DeleteEntryWithWork(ctx, "entry-1", "work-1"); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound on double delete, got %v", err)
	}
}

func TestListEntries_OrderAndFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "user-1", "alice")
	seedUser(t, s, "user-2", "bob")

	titles := []struct {
		workID, entryID, title string
		category               domain.Category
	}{
		{"work-1", "entry-1", "zelda", domain.CategoryGames},
		{"work-2", "entry-2", "Animal Crossing", domain.CategoryGames},
		{"work-3", "entry-3", "Metroid", domain.CategoryGames},
		{"work-4", "entry-4", "Dune", domain.CategoryBooks},
	}
	for _, tt := range titles {
		work, entry := makeTestEntry("user-1", tt.workID, tt.entryID, tt.title, tt.category)
		if err := s.CreateEntryWithWork(ctx, work, entry); err != nil {
			t.Fatalf("CreateEntryWithWork(%s): %v", tt.title, err)
		}
	}

	// Another user's games must not appear.
	work, entry := makeTestEntry("user-2", "work-5", "entry-5", "Bobs Game", domain.CategoryGames)
	if err := s.CreateEntryWithWork(ctx, work, entry); err != nil {
		t.Fatalf("CreateEntryWithWork: %v", err)
	}

	entries, err := s.ListEntries(ctx, "user-1", domain.CategoryGames)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("expected 3 game entries, got %d", len(entries))
	}

	// Case-insensitive title order: Animal Crossing, Metroid, zelda.
	want := []string{"Animal Crossing", "Metroid", "zelda"}
	for i, entry := range entries {
		if entry.Media.Title != want[i] {
			t.Errorf("entries[%d]: got %q, want %q", i, entry.Media.Title, want[i])
		}
	}

	books, err := s.ListEntries(ctx, "user-1", domain.CategoryBooks)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(books) != 1 || books[0].Media.Title != "Dune" {
		t.Errorf("books: got %+v", books)
	}
}
