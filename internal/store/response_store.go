package store

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/toria-lab/logosurvey/internal/models"
)

// DefaultKey is the single KV key holding the serialized response
// collection.
const DefaultKey = "logo-survey-responses"

// ResponseStore is the append-only local persistence for completed
// responses. The whole collection lives under one KV key as a JSON blob;
// the store serializes and deserializes it itself.
type ResponseStore struct {
	kv  KV
	key string
	log *zap.Logger
}

func NewResponseStore(kv KV, key string, log *zap.Logger) *ResponseStore {
	if key == "" {
		key = DefaultKey
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ResponseStore{kv: kv, key: key, log: log}
}

// Append adds r to the end of the persisted sequence, preserving all
// previously stored responses.
func (s *ResponseStore) Append(r models.Response) error {
	existing, err := s.GetAll()
	if err != nil {
		return err
	}
	updated := append(existing, r)
	blob, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("marshal responses: %w", err)
	}
	if err := s.kv.Set(s.key, blob); err != nil {
		return fmt.Errorf("persist responses: %w", err)
	}
	return nil
}

// GetAll returns every stored response in storage order (oldest first).
// An absent, empty, or corrupted blob yields an empty slice, never an
// error: after a malformed write the store recovers as "no data" instead of
// wedging the survey.
func (s *ResponseStore) GetAll() ([]models.Response, error) {
	blob, err := s.kv.Get(s.key)
	if err != nil {
		return nil, fmt.Errorf("read responses: %w", err)
	}
	if len(blob) == 0 {
		return []models.Response{}, nil
	}
	var responses []models.Response
	if err := json.Unmarshal(blob, &responses); err != nil {
		s.log.Warn("discarding corrupted response blob", zap.Error(err))
		return []models.Response{}, nil
	}
	return responses, nil
}

// ClearAll irreversibly empties the store.
func (s *ResponseStore) ClearAll() error {
	return s.kv.Delete(s.key)
}
