package db

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/j-veylop/artist-engagement/internal/engagement"
	"github.com/j-veylop/artist-engagement/internal/models"
)

// Tables carries the lookup tables the SQL aggregation is built from.
type Tables struct {
	Offsets engagement.OffsetTable
	Weights engagement.WeightTable
	Basis   engagement.DateBasis
}

// localized builds the CTE prefix that joins events to their artist, the
// user's fixed offset and the event weight, and projects each event into
// local time. Events with an unknown timezone or event type drop out of the
// inner joins.
func (t Tables) localized() (string, []any) {
	var b strings.Builder
	var args []any

	b.WriteString("WITH tz_offsets(timezone, hours) AS (VALUES ")
	for i, name := range slices.Sorted(maps.Keys(t.Offsets)) {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(?, ?)")
		args = append(args, name, t.Offsets[name])
	}

	b.WriteString("), weights(event_type, score) AS (VALUES ")
	for i, et := range models.EventTypes {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(?, ?)")
		args = append(args, et.String(), t.Weights[et])
	}

	b.WriteString(`), localized AS (
		SELECT
			e.artist_id,
			a.name AS artist_name,
			e.event_type,
			w.score,
			((CAST(strftime('%H', e.created_at / 1000, 'unixepoch') AS INTEGER) + tz.hours) % 24 + 24) % 24 AS local_hour,
			CAST(strftime('%w', e.created_at / 1000, 'unixepoch', tz.hours || ' hours') AS INTEGER) AS day_of_week,
			date(e.created_at / 1000, 'unixepoch', tz.hours || ' hours') AS local_date,
			date(e.created_at / 1000, 'unixepoch') AS utc_date
		FROM user_events e
		JOIN artists a ON a.id = e.artist_id
		JOIN users u ON u.id = e.user_id
		JOIN tz_offsets tz ON tz.timezone = u.timezone
		JOIN weights w ON w.event_type = e.event_type
	)
	`)
	return b.String(), args
}

func (t Tables) windowClause(window *models.DateWindow) (string, []any) {
	if window == nil {
		return "", nil
	}
	column := "utc_date"
	if t.Basis == engagement.DateBasisLocal {
		column = "local_date"
	}
	return fmt.Sprintf(" WHERE %s BETWEEN ? AND ?", column),
		[]any{window.Start.Format(models.DateLayout), window.End.Format(models.DateLayout)}
}

// HourlyEngagement localizes, scores and groups events inside SQLite. It is
// the database-side counterpart of engagement.Engine.Localize followed by
// engagement.Aggregate and yields the same rows for the same tables.
// Rows are grouped by local date as well when window is non-nil.
func (db *DB) HourlyEngagement(ctx context.Context, t Tables, window *models.DateWindow) ([]models.EngagementAggregate, error) {
	if len(t.Offsets) == 0 {
		return nil, nil
	}

	cte, args := t.localized()
	where, wargs := t.windowClause(window)
	args = append(args, wargs...)

	dateColumn := "''"
	groupBy := "artist_id, artist_name, local_hour, day_of_week"
	if window != nil {
		dateColumn = "local_date"
		groupBy += ", local_date"
	}

	query := cte + fmt.Sprintf(`
		SELECT artist_id, artist_name, local_hour, day_of_week, %s AS event_date,
			SUM(score) AS total_engagement, COUNT(*) AS event_count
		FROM localized%s
		GROUP BY %s
		ORDER BY artist_id, event_date, day_of_week, local_hour
	`, dateColumn, where, groupBy)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query hourly engagement: %w", err)
	}
	defer closeRows(rows)

	var out []models.EngagementAggregate
	for rows.Next() {
		var r models.EngagementAggregate
		var date string
		if err := rows.Scan(&r.ArtistID, &r.ArtistName, &r.LocalHour, &r.DayOfWeek, &date, &r.TotalEngagement, &r.EventCount); err != nil {
			return nil, fmt.Errorf("failed to scan hourly engagement: %w", err)
		}
		if date != "" {
			d, err := time.Parse(models.DateLayout, date)
			if err != nil {
				return nil, fmt.Errorf("failed to parse event date %q: %w", date, err)
			}
			r.EventDate = d
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// EventTypeCounts counts each artist's events per type inside SQLite,
// applying the same timezone join and window as HourlyEngagement.
func (db *DB) EventTypeCounts(ctx context.Context, t Tables, window *models.DateWindow) ([]models.EventTypeAggregate, error) {
	if len(t.Offsets) == 0 {
		return nil, nil
	}

	cte, args := t.localized()
	where, wargs := t.windowClause(window)
	args = append(args, wargs...)

	query := cte + fmt.Sprintf(`
		SELECT artist_id, artist_name, event_type, COUNT(*) AS count, score,
			COUNT(*) * score AS weighted_count
		FROM localized%s
		GROUP BY artist_id, artist_name, event_type, score
		ORDER BY artist_id, weighted_count DESC
	`, where)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query event type counts: %w", err)
	}
	defer closeRows(rows)

	var out []models.EventTypeAggregate
	for rows.Next() {
		var r models.EventTypeAggregate
		var name string
		if err := rows.Scan(&r.ArtistID, &r.ArtistName, &name, &r.Count, &r.Weight, &r.WeightedCount); err != nil {
			return nil, fmt.Errorf("failed to scan event type counts: %w", err)
		}
		r.EventType, _ = models.ParseEventType(name)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	engagement.SortEventTypes(out)
	return out, nil
}
