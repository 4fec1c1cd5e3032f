package analytics

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gen2brain/beeep"
	"golang.org/x/time/rate"

	"github.com/j-veylop/artist-engagement/internal/logger"
	"github.com/j-veylop/artist-engagement/internal/metrics"
)

// Notifier shows a desktop notification.
type Notifier func(title, body string) error

// DesktopNotifier sends notifications through the platform notification service.
func DesktopNotifier(title, body string) error {
	return beeep.Notify(title, body, "")
}

// WatchOptions configures Watch.
type WatchOptions struct {
	// Notify is called when rebuilds start failing or recover. Nil disables
	// notifications.
	Notify Notifier
	// Debounce is how long the database must be quiet before a rebuild.
	Debounce time.Duration
	// MinInterval is the minimum time between two rebuilds.
	MinInterval time.Duration
}

// UpdateFunc receives every rebuild result. Exactly one of d and err is non-nil.
type UpdateFunc func(d *Dashboard, err error)

// healthState tracks whether the last rebuild failed so notifications are
// only sent on transitions.
type healthState struct {
	failing bool
}

func (h *healthState) observe(err error) (title, body string, changed bool) {
	switch {
	case err != nil && !h.failing:
		h.failing = true
		return "Engagement report failing", err.Error(), true
	case err == nil && h.failing:
		h.failing = false
		return "Engagement report recovered", "Data is being fetched again.", true
	default:
		return "", "", false
	}
}

// Watch builds the dashboard once, then rebuilds it whenever the database
// file at dbPath changes, until ctx is cancelled.
func (s *Service) Watch(ctx context.Context, dbPath string, q Query, opts WatchOptions, onUpdate UpdateFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logger.Error("failed to close watcher", "error", err)
		}
	}()

	// Watch the directory so WAL and journal files are seen too.
	if err := watcher.Add(filepath.Dir(dbPath)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(dbPath), err)
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}
	limiter := rate.NewLimiter(rate.Every(max(opts.MinInterval, time.Millisecond)), 1)
	var health healthState

	rebuild := func() {
		d, err := s.Build(ctx, q)
		if ctx.Err() != nil {
			return
		}
		if title, body, changed := health.observe(err); changed && opts.Notify != nil {
			if nerr := opts.Notify(title, body); nerr != nil {
				logger.Warn("failed to send notification", "error", nerr)
			}
		}
		onUpdate(d, err)
	}

	_ = limiter.Allow()
	rebuild()

	trigger := make(chan struct{}, 1)
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isDatabaseFile(event.Name, dbPath) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			// Debounce rapid changes
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounce, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", "error", err)

		case <-trigger:
			metrics.WatchTriggers.Inc()
			if err := limiter.Wait(ctx); err != nil {
				return nil
			}
			rebuild()

		case <-ctx.Done():
			return nil
		}
	}
}

// isDatabaseFile reports whether name is the database or its WAL or journal.
// The shared-memory index changes on reads and is ignored.
func isDatabaseFile(name, dbPath string) bool {
	base := filepath.Base(name)
	dbBase := filepath.Base(dbPath)
	if !strings.HasPrefix(base, dbBase) {
		return false
	}
	switch strings.TrimPrefix(base, dbBase) {
	case "", "-wal", "-journal":
		return true
	default:
		return false
	}
}
