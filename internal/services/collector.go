package services

import "github.com/toria-lab/logosurvey/internal/models"

// RatingCollector accumulates one respondent's scores keyed by item id.
// Writes are last-write-wins and may arrive in any order, any number of
// times per item; scores are never implicitly cleared.
type RatingCollector struct {
	scores map[string]int
}

func NewRatingCollector() *RatingCollector {
	return &RatingCollector{scores: map[string]int{}}
}

// Set records score for itemID, overwriting any prior value.
func (c *RatingCollector) Set(itemID string, score int) {
	c.scores[itemID] = score
}

// Get returns the current score for itemID (0 when unset).
func (c *RatingCollector) Get(itemID string) int {
	return c.scores[itemID]
}

// RatedCount counts items holding a strictly positive score. Re-rating the
// same item never increases the count.
func (c *RatingCollector) RatedCount() int {
	n := 0
	for _, v := range c.scores {
		if v > 0 {
			n++
		}
	}
	return n
}

// IsComplete reports whether every one of catalogSize items has a positive
// score.
func (c *RatingCollector) IsComplete(catalogSize int) bool {
	return c.RatedCount() == catalogSize
}

// ratingsInCatalogOrder projects the collected scores onto catalog order.
// Items without a positive score are skipped, so the result only covers the
// full catalog when IsComplete holds.
func (c *RatingCollector) ratingsInCatalogOrder(items []models.Item) []ratedItem {
	out := make([]ratedItem, 0, len(items))
	for _, it := range items {
		if v := c.scores[it.ID]; v > 0 {
			out = append(out, ratedItem{ItemID: it.ID, Score: v})
		}
	}
	return out
}

type ratedItem struct {
	ItemID string
	Score  int
}
