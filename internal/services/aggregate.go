package services

import (
	"sort"

	"github.com/toria-lab/logosurvey/internal/catalog"
	"github.com/toria-lab/logosurvey/internal/models"
)

// GenderBucket is one row of the gender distribution.
type GenderBucket struct {
	Gender     models.Gender `json:"gender"`
	Count      int           `json:"count"`
	Percentage float64       `json:"percentage"`
}

// AgeBucket is one row of the age distribution. Bounds are inclusive.
type AgeBucket struct {
	Label      string  `json:"label"`
	Min        int     `json:"min"`
	Max        int     `json:"max"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ageBrackets mirrors the dashboard's fixed bracket set. Ages outside every
// bracket are excluded from the bracket view.
var ageBrackets = []AgeBucket{
	{Label: "10-19", Min: 10, Max: 19},
	{Label: "20-29", Min: 20, Max: 29},
	{Label: "30-39", Min: 30, Max: 39},
	{Label: "40-49", Min: 40, Max: 49},
	{Label: "50+", Min: 50, Max: 120},
}

// SurveySummary is the aggregated dashboard view over the stored responses.
type SurveySummary struct {
	TotalResponses     int                `json:"total_responses"`
	TotalRatings       int                `json:"total_ratings"`
	RatingsPerResponse float64            `json:"ratings_per_response"`
	Items              []models.ItemStats `json:"items"`
	GenderDistribution []GenderBucket     `json:"gender_distribution"`
	AgeDistribution    []AgeBucket        `json:"age_distribution"`
}

// Summarize computes per-item statistics and demographic breakdowns over a
// snapshot of stored responses. Pure and read-only; safe to call repeatedly.
func Summarize(responses []models.Response, cat *catalog.Catalog) *SurveySummary {
	sums := map[string]int{}
	counts := map[string]int{}
	totalRatings := 0
	for _, resp := range responses {
		totalRatings += len(resp.Ratings)
		for _, r := range resp.Ratings {
			sums[r.ItemID] += r.Score
			counts[r.ItemID]++
		}
	}

	stats := make([]models.ItemStats, 0, cat.Size())
	for _, it := range cat.Items {
		s := models.ItemStats{ItemID: it.ID, ItemName: it.Name}
		if n := counts[it.ID]; n > 0 {
			s.RatingCount = n
			s.AverageScore = float64(sums[it.ID]) / float64(n)
		}
		stats = append(stats, s)
	}
	// Ties keep catalog order: the aggregation has no secondary key.
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].AverageScore > stats[j].AverageScore
	})

	total := len(responses)
	genders := make([]GenderBucket, 0, len(models.Genders))
	for _, g := range models.Genders {
		n := 0
		for _, resp := range responses {
			if resp.Demographics.Gender == g {
				n++
			}
		}
		genders = append(genders, GenderBucket{Gender: g, Count: n, Percentage: percentage(n, total)})
	}

	ages := make([]AgeBucket, len(ageBrackets))
	copy(ages, ageBrackets)
	for i := range ages {
		n := 0
		for _, resp := range responses {
			age := resp.Demographics.Age
			if age >= ages[i].Min && age <= ages[i].Max {
				n++
			}
		}
		ages[i].Count = n
		ages[i].Percentage = percentage(n, total)
	}

	perResponse := 0.0
	if total > 0 {
		perResponse = float64(totalRatings) / float64(total)
	}

	return &SurveySummary{
		TotalResponses:     total,
		TotalRatings:       totalRatings,
		RatingsPerResponse: perResponse,
		Items:              stats,
		GenderDistribution: genders,
		AgeDistribution:    ages,
	}
}

func percentage(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
