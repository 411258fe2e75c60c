package models

import "time"

// Gender is the fixed respondent category set used by the demographics form
// and the distribution views.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Genders lists the categories in display order.
var Genders = []Gender{GenderMale, GenderFemale, GenderOther}

// Item is one ratable logo in the catalog. Immutable for the session.
type Item struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	ImageRef string `json:"image_ref" yaml:"image_ref"`
}

// Rating is one respondent's score for one item on the 1..7 scale.
type Rating struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	Score     int       `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}

// Demographics is captured once per respondent. Name is forwarded to the
// submission sink but never exported.
type Demographics struct {
	Name   string `json:"name"`
	Gender Gender `json:"gender"`
	Age    int    `json:"age"`
}

// Response is a complete, immutable submission: exactly one Rating per
// catalog item that existed at submission time, in catalog order.
type Response struct {
	ID           string       `json:"id"`
	Demographics Demographics `json:"demographics"`
	Ratings      []Rating     `json:"ratings"`
	CompletedAt  time.Time    `json:"completed_at"`
}

// ItemStats is derived by the aggregator and never stored.
type ItemStats struct {
	ItemID       string  `json:"item_id"`
	ItemName     string  `json:"item_name"`
	AverageScore float64 `json:"average_score"`
	RatingCount  int     `json:"rating_count"`
}
