package services

import (
	"math/rand"
	"time"

	"github.com/toria-lab/logosurvey/internal/models"
)

// BuildSequence produces the presentation order for one respondent session:
// every non-trap item in uniformly random order, with the attention-check
// item pinned at position (1-indexed), clamped to the catalog size. A trap
// id that is not in the catalog yields a plain shuffle of all items.
//
// The result is always a permutation of items. Callers must invoke this once
// per session and never cache it across respondents.
func BuildSequence(items []models.Item, trapID string, position int, rng *rand.Rand) []models.Item {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	rest := make([]models.Item, 0, len(items))
	var trap *models.Item
	for _, it := range items {
		if trap == nil && it.ID == trapID {
			t := it
			trap = &t
			continue
		}
		rest = append(rest, it)
	}

	rng.Shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})

	if trap == nil {
		return rest
	}

	idx := position - 1
	if idx < 0 {
		idx = 0
	}
	if idx > len(rest) {
		idx = len(rest)
	}
	out := make([]models.Item, 0, len(rest)+1)
	out = append(out, rest[:idx]...)
	out = append(out, *trap)
	out = append(out, rest[idx:]...)
	return out
}
