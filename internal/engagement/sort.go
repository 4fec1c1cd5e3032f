package engagement

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/j-veylop/artist-engagement/internal/models"
)

const artistPrefix = "Artist "

// artistNumber extracts n from a name of the form "Artist <n>".
func artistNumber(name string) (int, bool) {
	rest, ok := strings.CutPrefix(name, artistPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SortArtists returns a copy of artists ordered by the number embedded in
// names like "Artist 10", ascending. Names without that pattern follow the
// numbered ones in alphabetical order.
func SortArtists(artists []models.Artist) []models.Artist {
	out := slices.Clone(artists)
	slices.SortStableFunc(out, func(a, b models.Artist) int {
		na, okA := artistNumber(a.Name)
		nb, okB := artistNumber(b.Name)
		switch {
		case okA && okB:
			return cmp.Compare(na, nb)
		case okA:
			return -1
		case okB:
			return 1
		default:
			return strings.Compare(a.Name, b.Name)
		}
	})
	return out
}
