package engagement

import (
	"maps"

	"github.com/j-veylop/artist-engagement/internal/models"
)

// WeightTable maps each event type to its engagement score.
type WeightTable map[models.EventType]int

// DefaultWeights returns a fresh copy of the built-in weights.
func DefaultWeights() WeightTable {
	return WeightTable{
		models.EventTypePlayTrack:          1,
		models.EventTypeLikeTrack:          2,
		models.EventTypeAddTrackToPlaylist: 2,
		models.EventTypeShareTrack:         3,
	}
}

// Scorer assigns engagement scores to event types.
type Scorer struct {
	weights WeightTable
}

// NewScorer creates a scorer over a private copy of weights.
// A nil table selects DefaultWeights.
func NewScorer(weights WeightTable) *Scorer {
	if weights == nil {
		weights = DefaultWeights()
	}
	return &Scorer{weights: maps.Clone(weights)}
}

// Score returns the weight of an event type. Unknown types score 0.
func (s *Scorer) Score(et models.EventType) int {
	if !et.Valid() {
		return 0
	}
	return s.weights[et]
}

// ScoreName scores an event type given by its stored name.
func (s *Scorer) ScoreName(name string) int {
	et, _ := models.ParseEventType(name)
	return s.Score(et)
}

// Allowed reports whether name is on the event type allow-list.
func (s *Scorer) Allowed(name string) bool {
	_, ok := models.ParseEventType(name)
	return ok
}

// Weights returns a copy of the scorer's weight table.
func (s *Scorer) Weights() WeightTable {
	return maps.Clone(s.weights)
}
