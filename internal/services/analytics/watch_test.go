package analytics

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/j-veylop/artist-engagement/internal/models"
)

func TestHealthState(t *testing.T) {
	var h healthState
	boom := errors.New("boom")

	steps := []struct {
		err       error
		wantTitle string
	}{
		{nil, ""},
		{boom, "Engagement report failing"},
		{boom, ""},
		{nil, "Engagement report recovered"},
		{nil, ""},
	}
	for i, step := range steps {
		title, _, changed := h.observe(step.err)
		if changed != (step.wantTitle != "") || title != step.wantTitle {
			t.Errorf("step %d: observe() = %q, %v; want %q", i, title, changed, step.wantTitle)
		}
	}
}

func TestIsDatabaseFile(t *testing.T) {
	dbPath := "/data/events.db"
	tests := []struct {
		name string
		want bool
	}{
		{"/data/events.db", true},
		{"/data/events.db-wal", true},
		{"/data/events.db-journal", true},
		{"/data/events.db-shm", false},
		{"/data/events.dbx", false},
		{"/data/other.db", false},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.name), func(t *testing.T) {
			if got := isDatabaseFile(tt.name, dbPath); got != tt.want {
				t.Errorf("isDatabaseFile(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func totalEvents(d *Dashboard) int {
	n := 0
	for _, r := range d.Reports {
		n += r.Events
	}
	return n
}

func TestWatch_RebuildsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	store := newFixtureStore(t, path)
	svc := New(store, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := make(chan *Dashboard, 1)
	done := make(chan error, 1)
	opts := WatchOptions{Debounce: 20 * time.Millisecond, MinInterval: time.Millisecond}
	go func() {
		done <- svc.Watch(ctx, path, Query{}, opts, func(d *Dashboard, err error) {
			if err != nil {
				t.Errorf("rebuild failed: %v", err)
				return
			}
			select {
			case <-updates:
			default:
			}
			updates <- d
		})
	}()

	var first *Dashboard
	select {
	case first = <-updates:
	case <-time.After(5 * time.Second):
		t.Fatal("no initial build")
	}
	if totalEvents(first) != 7 {
		t.Fatalf("initial build saw %d events, want 7", totalEvents(first))
	}

	err := store.InsertEvents(context.Background(), []models.RawEvent{
		{ArtistID: 3, UserID: 2, EventType: "share_track", CreatedAt: ms("2024-02-01T12:00:00Z")},
	})
	if err != nil {
		t.Fatalf("InsertEvents() failed: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case d := <-updates:
			if totalEvents(d) == 8 {
				cancel()
				if err := <-done; err != nil {
					t.Errorf("Watch() returned %v", err)
				}
				return
			}
		case <-deadline:
			t.Fatal("no rebuild after the database changed")
		}
	}
}

func TestWatch_NotifiesOnFailure(t *testing.T) {
	dir := t.TempDir()
	svc := New(&failingStore{err: errors.New("locked")}, Options{})

	var mu sync.Mutex
	var titles []string
	notify := func(title, body string) error {
		mu.Lock()
		defer mu.Unlock()
		titles = append(titles, title)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	failed := make(chan error, 1)
	done := make(chan error, 1)
	go func() {
		done <- svc.Watch(ctx, filepath.Join(dir, "events.db"), Query{}, WatchOptions{Notify: notify},
			func(d *Dashboard, err error) {
				if d != nil {
					t.Error("a failed rebuild should not produce a dashboard")
				}
				select {
				case failed <- err:
				default:
				}
			})
	}()

	select {
	case err := <-failed:
		if !errors.Is(err, ErrFetchData) {
			t.Errorf("update error = %v, want ErrFetchData", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no initial build")
	}
	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch() returned %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(titles) != 1 || titles[0] != "Engagement report failing" {
		t.Errorf("notifications = %v", titles)
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	svc := New(&failingStore{}, Options{})
	path := filepath.Join(t.TempDir(), "missing", "events.db")

	err := svc.Watch(context.Background(), path, Query{}, WatchOptions{}, func(*Dashboard, error) {})
	if err == nil {
		t.Error("Watch() should fail when the directory does not exist")
	}
}
