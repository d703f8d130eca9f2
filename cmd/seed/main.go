// Package main provides a tool to seed the database with demo list data.
//
// This creates a demo user and fills their book, game, and show lists with
// sample entries for testing clients against a populated server.
//
// Usage:
//
//	DATA_PATH=~/MyMediaList/data go run ./cmd/seed
//	DATA_PATH=~/MyMediaList/data go run ./cmd/seed --username demo --password demopass123
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mymedialist/medialist-server/internal/auth"
	"github.com/mymedialist/medialist-server/internal/domain"
	"github.com/mymedialist/medialist-server/internal/id"
	"github.com/mymedialist/medialist-server/internal/service"
	"github.com/mymedialist/medialist-server/internal/store"
)

var (
	username = flag.String("username", "demo", "Username for the demo account")
	password = flag.String("password", "demopass123", "Password for the demo account")
)

// seedEntry describes one sample list entry.
type seedEntry struct {
	category domain.Category
	req      service.AddEntryRequest
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

var seedEntries = []seedEntry{
	{domain.CategoryBooks, service.AddEntryRequest{
		Title:  "The Left Hand of Darkness",
		Status: string(domain.StatusCompleted),
		Rating: intPtr(9),
		Notes:  strPtr("Winter on Gethen stays with you."),
	}},
	{domain.CategoryBooks, service.AddEntryRequest{
		Title:      "Piranesi",
		Status:     string(domain.StatusInProgress),
		Progress:   intPtr(120),
		TotalUnits: intPtr(272),
		UnitType:   strPtr("pages"),
	}},
	{domain.CategoryBooks, service.AddEntryRequest{
		Title: "The Dispossessed",
	}},
	{domain.CategoryGames, service.AddEntryRequest{
		Title:  "Outer Wilds",
		Status: string(domain.StatusCompleted),
		Rating: intPtr(10),
		Notes:  strPtr("Do not look anything up. Just play."),
	}},
	{domain.CategoryGames, service.AddEntryRequest{
		Title:  "Hades II",
		Status: string(domain.StatusInProgress),
	}},
	{domain.CategoryGames, service.AddEntryRequest{
		Title: "Disco Elysium",
	}},
	{domain.CategoryShows, service.AddEntryRequest{
		Title:      "The Wire",
		Status:     string(domain.StatusInProgress),
		Progress:   intPtr(23),
		TotalUnits: intPtr(60),
		UnitType:   strPtr("episodes"),
	}},
	{domain.CategoryShows, service.AddEntryRequest{
		Title:  "Severance",
		Status: string(domain.StatusCompleted),
		Rating: intPtr(8),
	}},
	{domain.CategoryShows, service.AddEntryRequest{
		Title: "The Leftovers",
	}},
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/MyMediaList/data")
	}
	if err := os.MkdirAll(dataPath, 0o700); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	dbPath := filepath.Join(dataPath, "medialist.db")

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.Open(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	user, err := ensureDemoUser(ctx, s)
	if err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}

	lists := service.NewListService(s, nil)

	created := 0
	for _, seed := range seedEntries {
		entry, err := lists.Add(ctx, user.ID, seed.category, seed.req)
		if err != nil {
			log.Printf("Failed to add %q: %v", seed.req.Title, err)
			continue
		}
		fmt.Printf("  Added %s: %s (%s)\n", seed.category, entry.Media.Title, entry.Status)
		created++
	}

	fmt.Printf("\nSeeding complete: %d entries for user %s\n", created, user.Username)
	fmt.Printf("Log in with username %q and the password you chose.\n", user.Username)
}

// ensureDemoUser creates the demo account, or reuses it if it already exists.
func ensureDemoUser(ctx context.Context, s *store.Store) (*domain.User, error) {
	normalized := domain.NormalizeUsername(*username)

	if existing, err := s.GetUserByUsername(ctx, normalized); err == nil {
		fmt.Printf("User %s already exists, adding entries to their lists\n", normalized)
		return existing, nil
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		return nil, err
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           userID,
		Username:     normalized,
		PasswordHash: hash,
	}
	user.InitTimestamps()

	if err := s.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	fmt.Printf("Created user: %s (%s)\n", user.Username, user.ID)
	return user, nil
}
