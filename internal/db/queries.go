package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/j-veylop/artist-engagement/internal/logger"
	"github.com/j-veylop/artist-engagement/internal/models"
)

// windowMargin widens a UTC prefilter so events whose local date differs
// from their UTC date are still fetched. Fixed offsets never exceed a day.
const windowMargin = 24 * time.Hour

// InsertArtist stores or renames an artist.
func (db *DB) InsertArtist(ctx context.Context, a models.Artist) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO artists (id, name) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
		a.ID, a.Name)
	if err != nil {
		return fmt.Errorf("failed to insert artist: %w", err)
	}
	return nil
}

// InsertUser stores a listener and their timezone name.
func (db *DB) InsertUser(ctx context.Context, u models.User) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO users (id, timezone) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET timezone = excluded.timezone`,
		u.ID, u.Timezone)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// InsertEvents appends raw events in a single transaction.
func (db *DB) InsertEvents(ctx context.Context, events []models.RawEvent) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO user_events (artist_id, user_id, event_type, created_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare event insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, ev := range events {
		if _, err := stmt.ExecContext(ctx, ev.ArtistID, ev.UserID, ev.EventType, ev.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert event: %w", err)
		}
	}
	return tx.Commit()
}

// InsertSession stores a listening session for a user.
func (db *DB) InsertSession(ctx context.Context, sessionID, userID int64) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR REPLACE INTO sessions (id, user_id) VALUES (?, ?)`, sessionID, userID)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// InsertVisit records time spent on an artist page. Times are epoch milliseconds.
func (db *DB) InsertVisit(ctx context.Context, artistID, sessionID, start, end int64) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO visits (artist_id, session_id, start_time, end_time) VALUES (?, ?, ?, ?)`,
		artistID, sessionID, start, end)
	if err != nil {
		return fmt.Errorf("failed to insert visit: %w", err)
	}
	return nil
}

// EventRecords returns every event joined with its artist name and the
// user's timezone. A non-nil window prefilters on the UTC date with a
// one-day margin either side; exact window matching is left to the caller.
func (db *DB) EventRecords(ctx context.Context, window *models.DateWindow) ([]models.EventRecord, error) {
	query := `
		SELECT e.artist_id, e.user_id, e.event_type, e.created_at, a.name, u.timezone
		FROM user_events e
		JOIN artists a ON a.id = e.artist_id
		JOIN users u ON u.id = e.user_id
	`
	var args []any
	if window != nil {
		query += ` WHERE e.created_at >= ? AND e.created_at < ?`
		args = append(args,
			window.Start.Add(-windowMargin).UnixMilli(),
			window.End.Add(24*time.Hour+windowMargin).UnixMilli(),
		)
	}
	query += ` ORDER BY e.created_at, e.id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer closeRows(rows)

	var records []models.EventRecord
	for rows.Next() {
		var r models.EventRecord
		if err := rows.Scan(&r.ArtistID, &r.UserID, &r.EventType, &r.CreatedAt, &r.ArtistName, &r.Timezone); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Artists returns all artists ordered by name.
func (db *DB) Artists(ctx context.Context) ([]models.Artist, error) {
	rows, err := db.QueryContext(ctx, `SELECT DISTINCT id, name FROM artists ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query artists: %w", err)
	}
	defer closeRows(rows)

	var artists []models.Artist
	for rows.Next() {
		var a models.Artist
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, fmt.Errorf("failed to scan artist: %w", err)
		}
		artists = append(artists, a)
	}
	return artists, rows.Err()
}

// ArtistReach returns total visit time and distinct session users per
// artist, longest total visit time first. Artists without visits report zero.
func (db *DB) ArtistReach(ctx context.Context) ([]models.ArtistReach, error) {
	query := `
		SELECT
			a.id,
			a.name,
			COALESCE(SUM(v.end_time - v.start_time), 0) AS total_visit_duration,
			COUNT(DISTINCT s.user_id) AS unique_session_count
		FROM artists a
		LEFT JOIN visits v ON v.artist_id = a.id
		LEFT JOIN sessions s ON s.id = v.session_id
		GROUP BY a.id, a.name
		ORDER BY total_visit_duration DESC, a.name
	`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query artist reach: %w", err)
	}
	defer closeRows(rows)

	var reach []models.ArtistReach
	for rows.Next() {
		var r models.ArtistReach
		if err := rows.Scan(&r.ArtistID, &r.ArtistName, &r.TotalVisitDuration, &r.UniqueSessionUsers); err != nil {
			return nil, fmt.Errorf("failed to scan artist reach: %w", err)
		}
		reach = append(reach, r)
	}
	return reach, rows.Err()
}

// EventCount returns the number of stored events.
func (db *DB) EventCount(ctx context.Context) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return n, nil
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		logger.Error("failed to close rows", "error", err)
	}
}
