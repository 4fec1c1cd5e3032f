package engagement

import (
	"cmp"
	"slices"
	"time"

	"github.com/j-veylop/artist-engagement/internal/models"
)

// Average returns sum/count, or 0 when count is not positive.
func Average(sum float64, count int) float64 {
	if count <= 0 {
		return 0
	}
	return sum / float64(count)
}

type groupKey struct {
	date     time.Time
	artistID int64
	hour     int
	dow      int
}

// Aggregate groups scored events by artist, local hour and day of week, and
// additionally by local date when byDate is set. Results are ordered by
// artist, date, day of week, then hour.
func Aggregate(events []models.ScoredLocalEvent, byDate bool) []models.EngagementAggregate {
	index := make(map[groupKey]int)
	var out []models.EngagementAggregate

	for _, ev := range events {
		k := groupKey{artistID: ev.ArtistID, hour: ev.LocalHour, dow: ev.DayOfWeek}
		if byDate {
			k.date = ev.EventDate
		}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, models.EngagementAggregate{
				ArtistID:   ev.ArtistID,
				ArtistName: ev.ArtistName,
				LocalHour:  ev.LocalHour,
				DayOfWeek:  ev.DayOfWeek,
				EventDate:  k.date,
			})
		}
		out[i].TotalEngagement += ev.EngagementScore
		out[i].EventCount++
	}

	slices.SortFunc(out, compareAggregates)
	return out
}

func compareAggregates(a, b models.EngagementAggregate) int {
	return cmp.Or(
		cmp.Compare(a.ArtistID, b.ArtistID),
		a.EventDate.Compare(b.EventDate),
		cmp.Compare(a.DayOfWeek, b.DayOfWeek),
		cmp.Compare(a.LocalHour, b.LocalHour),
	)
}

type bucket struct {
	sum   float64
	count int
}

// ToDayAggregation averages one artist's hourly aggregates into weekday,
// weekend and all-days series. Each row contributes its total engagement and
// event count, so the averages are per-event means. Rows whose hour or day of
// week is out of range are dropped.
func ToDayAggregation(rows []models.EngagementAggregate) models.DayAggregation {
	var weekday, weekend, all [models.HoursPerDay]bucket

	for _, r := range rows {
		if r.LocalHour < 0 || r.LocalHour >= models.HoursPerDay {
			continue
		}
		if r.DayOfWeek < 0 || r.DayOfWeek >= models.DaysPerWeek {
			continue
		}
		n := max(r.EventCount, 1)
		sum := float64(r.TotalEngagement)

		if r.IsWeekend() {
			weekend[r.LocalHour].sum += sum
			weekend[r.LocalHour].count += n
		} else {
			weekday[r.LocalHour].sum += sum
			weekday[r.LocalHour].count += n
		}
		all[r.LocalHour].sum += sum
		all[r.LocalHour].count += n
	}

	var agg models.DayAggregation
	for h := range models.HoursPerDay {
		agg.Weekday[h] = Average(weekday[h].sum, weekday[h].count)
		agg.Weekend[h] = Average(weekend[h].sum, weekend[h].count)
		agg.AllDays[h] = Average(all[h].sum, all[h].count)
	}
	return agg
}

// WeekdayTotals sums total engagement per day of week. Rows with a day of
// week outside 0..6 are ignored.
func WeekdayTotals(rows []models.EngagementAggregate) [models.DaysPerWeek]float64 {
	var totals [models.DaysPerWeek]float64
	for _, r := range rows {
		if r.DayOfWeek < 0 || r.DayOfWeek >= models.DaysPerWeek {
			continue
		}
		totals[r.DayOfWeek] += float64(r.TotalEngagement)
	}
	return totals
}

type typeKey struct {
	artistID  int64
	eventType models.EventType
}

// EventTypeBreakdown counts each artist's events per type and weights them
// with the scorer. Results are grouped by artist and ordered by weighted
// count, highest first.
func (e *Engine) EventTypeBreakdown(events []models.ScoredLocalEvent) []models.EventTypeAggregate {
	index := make(map[typeKey]int)
	var out []models.EventTypeAggregate

	for _, ev := range events {
		k := typeKey{artistID: ev.ArtistID, eventType: ev.EventType}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, models.EventTypeAggregate{
				ArtistID:   ev.ArtistID,
				ArtistName: ev.ArtistName,
				EventType:  ev.EventType,
				Weight:     e.scorer.Score(ev.EventType),
			})
		}
		out[i].Count++
	}

	for i := range out {
		out[i].WeightedCount = out[i].Count * out[i].Weight
	}
	SortEventTypes(out)
	return out
}

// SortEventTypes orders aggregates by artist, then weighted count descending.
// Equal weighted counts fall back to event type order.
func SortEventTypes(aggs []models.EventTypeAggregate) {
	slices.SortStableFunc(aggs, func(a, b models.EventTypeAggregate) int {
		return cmp.Or(
			cmp.Compare(a.ArtistID, b.ArtistID),
			cmp.Compare(b.WeightedCount, a.WeightedCount),
			cmp.Compare(a.EventType, b.EventType),
		)
	})
}
