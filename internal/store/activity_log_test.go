package store

import (
	"context"
	"testing"
	"time"

	"questloggd/backend/internal/models"
)

func TestAppendAssignsMonotonicIDs(t *testing.T) {
	s := NewGormActivityLog(newTestDB(t))
	ctx := context.Background()

	first := &models.LogEntry{UserID: 1, GameID: 7, GameName: "Outer Wilds", CreatedAt: time.Now()}
	second := &models.LogEntry{UserID: 1, GameID: 8, GameName: "Hades", CreatedAt: time.Now()}

	if err := s.Append(ctx, first); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Append(ctx, second); err != nil {
		t.Fatalf("append: %v", err)
	}

	if first.ID == 0 || second.ID == 0 {
		t.Fatal("expected assigned entry ids")
	}
	if second.ID <= first.ID {
		t.Fatalf("expected monotonic ids, got %d then %d", first.ID, second.ID)
	}
}

func TestListByUserReturnsOnlyThatUsersEntries(t *testing.T) {
	s := NewGormActivityLog(newTestDB(t))
	ctx := context.Background()

	for _, e := range []*models.LogEntry{
		{UserID: 1, GameID: 7, GameName: "Outer Wilds", CreatedAt: time.Now()},
		{UserID: 2, GameID: 7, GameName: "Outer Wilds", CreatedAt: time.Now()},
		{UserID: 1, GameID: 8, GameName: "Hades", CreatedAt: time.Now()},
	} {
		if err := s.Append(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	entries, err := s.ListByUser(ctx, 1)
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries for user 1, got %d", len(entries))
	}
	for _, e := range entries {
		if e.UserID != 1 {
			t.Fatalf("entry for user %d leaked into user 1's log", e.UserID)
		}
	}
}

func TestListByGameSpansUsers(t *testing.T) {
	db := newTestDB(t)
	s := NewGormActivityLog(db)
	ctx := context.Background()

	for _, u := range []models.User{
		{Username: "ada", Email: "ada@example.com", PasswordHash: "x"},
		{Username: "kay", Email: "kay@example.com", PasswordHash: "x"},
	} {
		if err := db.Create(&u).Error; err != nil {
			t.Fatalf("create user: %v", err)
		}
	}

	for _, e := range []*models.LogEntry{
		{UserID: 1, GameID: 7, GameName: "Outer Wilds", Rating: 5, CreatedAt: time.Now()},
		{UserID: 2, GameID: 7, GameName: "Outer Wilds", Rating: 3, CreatedAt: time.Now()},
		{UserID: 1, GameID: 8, GameName: "Hades", CreatedAt: time.Now()},
	} {
		if err := s.Append(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	entries, err := s.ListByGame(ctx, 7)
	if err != nil {
		t.Fatalf("list by game: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries for game 7, got %d", len(entries))
	}
	for _, e := range entries {
		if e.User.Username == "" {
			t.Fatalf("expected user preloaded for entry %d", e.ID)
		}
	}
}
