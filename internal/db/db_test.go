package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/j-veylop/artist-engagement/internal/models"
)

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	if db.Path() != dbPath {
		t.Errorf("Expected path %s, got %s", dbPath, db.Path())
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestNew_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "nested", "test.db")

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database with nested path: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Dir(dbPath)); os.IsNotExist(err) {
		t.Error("Nested directories were not created")
	}
}

func TestOpen_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	first, err := Open(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := first.InsertArtist(context.Background(), models.Artist{ID: 1, Name: "Artist 1"}); err != nil {
		t.Fatalf("InsertArtist() failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	second, err := Open(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("reopening failed: %v", err)
	}
	defer second.Close()

	artists, err := second.Artists(context.Background())
	if err != nil {
		t.Fatalf("Artists() failed: %v", err)
	}
	if len(artists) != 1 {
		t.Errorf("expected existing rows to survive reopen, got %v", artists)
	}
}

func TestSchema_TablesExist(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	tables := []string{
		"artists",
		"users",
		"user_events",
		"sessions",
		"visits",
	}

	for _, table := range tables {
		var name string
		err := db.QueryRowContext(context.Background(), "SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s does not exist: %v", table, err)
		}
	}
}

func TestVacuum(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	if err := db.Vacuum(context.Background()); err != nil {
		t.Errorf("Vacuum failed: %v", err)
	}
}

func TestClose(t *testing.T) {
	db := newTestDB(t)

	if err := db.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}

	_, err := db.QueryContext(context.Background(), "SELECT 1")
	if err == nil {
		t.Error("Expected error querying closed database")
	}
}

// Helper to create a test database
func newTestDB(t *testing.T) *DB {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	return db
}

func ms(s string) int64 {
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return ts.UnixMilli()
}

// newFixtureDB loads a small data set with known local projections:
//
//	user 1 America/New_York (-4), user 2 Asia/Tokyo (+9), user 3 unknown zone.
func newFixtureDB(t *testing.T) *DB {
	t.Helper()
	db := newTestDB(t)
	t.Cleanup(func() { _ = db.Close() })
	ctx := context.Background()

	for _, a := range []models.Artist{{ID: 1, Name: "Artist 1"}, {ID: 2, Name: "Artist 2"}} {
		if err := db.InsertArtist(ctx, a); err != nil {
			t.Fatalf("InsertArtist() failed: %v", err)
		}
	}
	for _, u := range []models.User{
		{ID: 1, Timezone: "America/New_York"},
		{ID: 2, Timezone: "Asia/Tokyo"},
		{ID: 3, Timezone: "Mars/Olympus_Mons"},
	} {
		if err := db.InsertUser(ctx, u); err != nil {
			t.Fatalf("InsertUser() failed: %v", err)
		}
	}

	events := []models.RawEvent{
		// NY 22:00 Tue Jan 9
		{ArtistID: 1, UserID: 1, EventType: "play_track", CreatedAt: ms("2024-01-10T02:00:00Z")},
		{ArtistID: 1, UserID: 1, EventType: "play_track", CreatedAt: ms("2024-01-10T02:30:00Z")},
		// NY 23:00 Tue Jan 9
		{ArtistID: 1, UserID: 1, EventType: "like_track", CreatedAt: ms("2024-01-10T03:00:00Z")},
		// Tokyo 11:00 Wed Jan 10
		{ArtistID: 1, UserID: 2, EventType: "share_track", CreatedAt: ms("2024-01-10T02:00:00Z")},
		// NY 11:00 Sat Jan 13
		{ArtistID: 1, UserID: 1, EventType: "like_track", CreatedAt: ms("2024-01-13T15:00:00Z")},
		// Tokyo 05:00 Mon Jan 15
		{ArtistID: 2, UserID: 2, EventType: "add_track_to_playlist", CreatedAt: ms("2024-01-14T20:00:00Z")},
		// excluded: unknown timezone, unknown type
		{ArtistID: 2, UserID: 3, EventType: "play_track", CreatedAt: ms("2024-01-14T20:00:00Z")},
		{ArtistID: 2, UserID: 1, EventType: "view_profile", CreatedAt: ms("2024-01-14T20:00:00Z")},
		// NY 20:00 Sun Mar 10
		{ArtistID: 2, UserID: 1, EventType: "share_track", CreatedAt: ms("2024-03-11T00:00:00Z")},
	}
	if err := db.InsertEvents(ctx, events); err != nil {
		t.Fatalf("InsertEvents() failed: %v", err)
	}
	return db
}
