package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/toria-lab/logosurvey/internal/catalog"
	"github.com/toria-lab/logosurvey/internal/models"
)

// ResponseStore abstracts the persistence operations required by the
// assembler.
type ResponseStore interface {
	Append(r models.Response) error
}

// SubmissionPayload is the document posted to the outbound sink.
type SubmissionPayload struct {
	Name    string             `json:"name"`
	Gender  models.Gender      `json:"gender"`
	Age     int                `json:"age"`
	Ratings []SubmissionRating `json:"ratings"`
}

type SubmissionRating struct {
	ItemID string `json:"item_id"`
	Score  int    `json:"score"`
}

// Sink receives each completed response. Fire-and-forget: implementations
// report transport success only.
type Sink interface {
	Submit(ctx context.Context, p SubmissionPayload) error
}

// ResponseAssembler turns demographics plus collected ratings into one
// immutable Response, persists it, and forwards it to the sink.
type ResponseAssembler struct {
	store ResponseStore
	sink  Sink
	now   func() time.Time
	idGen func() string
}

func NewResponseAssembler(store ResponseStore, sink Sink) *ResponseAssembler {
	return &ResponseAssembler{
		store: store,
		sink:  sink,
		now:   func() time.Time { return time.Now() },
		idGen: uuid.NewString,
	}
}

// Assemble validates completeness, builds the Response (ratings in catalog
// order, not presentation order), appends it to the store, then submits it.
//
// Incomplete input returns ErrIncompleteResponse with no side effects. A
// sink failure returns ErrSubmissionFailed, but the response is already
// persisted by then; retrying is the caller's decision. The returned
// Response is non-nil whenever persistence succeeded.
func (a *ResponseAssembler) Assemble(ctx context.Context, demo models.Demographics, c *RatingCollector, cat *catalog.Catalog) (*models.Response, error) {
	if !c.IsComplete(cat.Size()) {
		return nil, fmt.Errorf("%d of %d items rated: %w", c.RatedCount(), cat.Size(), ErrIncompleteResponse)
	}

	now := a.now()
	rated := c.ratingsInCatalogOrder(cat.Items)
	ratings := make([]models.Rating, 0, len(rated))
	for _, r := range rated {
		ratings = append(ratings, models.Rating{
			ID:        a.idGen(),
			ItemID:    r.ItemID,
			Score:     r.Score,
			Timestamp: now,
		})
	}

	resp := models.Response{
		ID:           a.idGen(),
		Demographics: demo,
		Ratings:      ratings,
		CompletedAt:  now,
	}
	if err := a.store.Append(resp); err != nil {
		return nil, err
	}

	payload := SubmissionPayload{Name: demo.Name, Gender: demo.Gender, Age: demo.Age}
	for _, r := range ratings {
		payload.Ratings = append(payload.Ratings, SubmissionRating{ItemID: r.ItemID, Score: r.Score})
	}
	if err := a.sink.Submit(ctx, payload); err != nil {
		return &resp, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	return &resp, nil
}
