package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/toria-lab/logosurvey/internal/catalog"
	"github.com/toria-lab/logosurvey/internal/middleware"
	"github.com/toria-lab/logosurvey/internal/models"
	"github.com/toria-lab/logosurvey/internal/services"
	"github.com/toria-lab/logosurvey/internal/store"
)

type blockingSink struct {
	release chan struct{}
	err     error
}

func (s *blockingSink) Submit(ctx context.Context, _ services.SubmissionPayload) error {
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return s.err
}

func testRouter(t *testing.T, snk services.Sink) (*Router, *store.ResponseStore) {
	t.Helper()
	cat, err := catalog.New([]models.Item{
		{ID: "A", Name: "Logo A"},
		{ID: "B", Name: "Logo B"},
		{ID: "C", Name: "Logo C"},
	}, "B", 2)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	st := store.NewResponseStore(store.NewMemoryKV(), "", nil)
	asm := services.NewResponseAssembler(st, snk)
	hash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	admin := services.NewAdminService(hash, middleware.SignAdminToken, time.Hour)
	return NewRouter(nil, cat, st, asm, admin), st
}

func postJSON(t *testing.T, mux *http.ServeMux, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func submission() map[string]any {
	return map[string]any{
		"name":   "hana",
		"gender": "female",
		"age":    24,
		"ratings": []map[string]any{
			{"item_id": "A", "score": 5},
			{"item_id": "B", "score": 7},
			{"item_id": "C", "score": 3},
		},
	}
}

func TestSubmitResponse(t *testing.T) {
	rt, st := testRouter(t, &blockingSink{})
	mux := http.NewServeMux()
	rt.Register(mux)

	rec := postJSON(t, mux, "/api/responses", submission())
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	stored, err := st.GetAll()
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(stored) != 1 || len(stored[0].Ratings) != 3 {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestSubmitIncompleteResponse(t *testing.T) {
	rt, st := testRouter(t, &blockingSink{})
	mux := http.NewServeMux()
	rt.Register(mux)

	body := submission()
	body["ratings"] = []map[string]any{{"item_id": "A", "score": 5}}
	rec := postJSON(t, mux, "/api/responses", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	stored, _ := st.GetAll()
	if len(stored) != 0 {
		t.Fatalf("incomplete submission persisted")
	}
}

func TestSubmitUnknownItemsIgnored(t *testing.T) {
	rt, _ := testRouter(t, &blockingSink{})
	mux := http.NewServeMux()
	rt.Register(mux)

	body := submission()
	body["ratings"] = append(body["ratings"].([]map[string]any), map[string]any{"item_id": "ZZ", "score": 6})
	rec := postJSON(t, mux, "/api/responses", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestSubmitSinkFailureStillStores(t *testing.T) {
	rt, st := testRouter(t, &blockingSink{err: context.DeadlineExceeded})
	mux := http.NewServeMux()
	rt.Register(mux)

	rec := postJSON(t, mux, "/api/responses", submission())
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	var out struct {
		Stored bool `json:"stored"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil || !out.Stored {
		t.Fatalf("body = %s", rec.Body.String())
	}
	stored, _ := st.GetAll()
	if len(stored) != 1 {
		t.Fatalf("stored = %d, want 1 despite sink failure", len(stored))
	}
}

func TestSubmitInFlightGuard(t *testing.T) {
	snk := &blockingSink{release: make(chan struct{})}
	rt, _ := testRouter(t, snk)
	mux := http.NewServeMux()
	rt.Register(mux)

	first := make(chan *httptest.ResponseRecorder)
	go func() {
		first <- postJSON(t, mux, "/api/responses", submission())
	}()

	// Wait until the first submission is holding the guard.
	deadline := time.After(2 * time.Second)
	for !rt.submitting.Load() {
		select {
		case <-deadline:
			t.Fatal("first submission never started")
		case <-time.After(time.Millisecond):
		}
	}

	rec := postJSON(t, mux, "/api/responses", submission())
	if rec.Code != http.StatusConflict {
		t.Fatalf("concurrent submit status = %d, want 409", rec.Code)
	}

	close(snk.release)
	if rec := <-first; rec.Code != http.StatusCreated {
		t.Fatalf("first submit status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestSurveySequenceEndpoint(t *testing.T) {
	rt, _ := testRouter(t, &blockingSink{})
	mux := http.NewServeMux()
	rt.Register(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/survey", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var out struct {
		Items []models.Item `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(out.Items))
	}
	if out.Items[1].ID != "B" {
		t.Fatalf("trap item at index 1 = %s, want B", out.Items[1].ID)
	}
}

func TestAdminEndpointsRequireToken(t *testing.T) {
	rt, _ := testRouter(t, &blockingSink{})
	mux := http.NewServeMux()
	rt.Register(mux)

	for _, path := range []string{"/api/admin/summary", "/api/admin/export"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s status = %d, want 401", path, rec.Code)
		}
	}
}

func TestAdminLoginAndSummary(t *testing.T) {
	rt, _ := testRouter(t, &blockingSink{})
	mux := http.NewServeMux()
	rt.Register(mux)

	if rec := postJSON(t, mux, "/api/admin/login", map[string]string{"passphrase": "wrong"}); rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong passphrase status = %d, want 401", rec.Code)
	}

	rec := postJSON(t, mux, "/api/admin/login", map[string]string{"passphrase": "admin123"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &login); err != nil || login.Token == "" {
		t.Fatalf("login body = %s", rec.Body.String())
	}

	if rec := postJSON(t, mux, "/api/responses", submission()); rec.Code != http.StatusCreated {
		t.Fatalf("submit status = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/summary", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	sumRec := httptest.NewRecorder()
	mux.ServeHTTP(sumRec, req)
	if sumRec.Code != http.StatusOK {
		t.Fatalf("summary status = %d", sumRec.Code)
	}
	var sum services.SurveySummary
	if err := json.Unmarshal(sumRec.Body.Bytes(), &sum); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if sum.TotalResponses != 1 || sum.TotalRatings != 3 {
		t.Fatalf("summary totals = (%d,%d)", sum.TotalResponses, sum.TotalRatings)
	}
}

func TestAdminExportEmptyStore(t *testing.T) {
	rt, _ := testRouter(t, &blockingSink{})
	mux := http.NewServeMux()
	rt.Register(mux)

	rec := postJSON(t, mux, "/api/admin/login", map[string]string{"passphrase": "admin123"})
	var login struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &login)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/export", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	expRec := httptest.NewRecorder()
	mux.ServeHTTP(expRec, req)
	if expRec.Code != http.StatusNotFound {
		t.Fatalf("empty export status = %d, want 404", expRec.Code)
	}
}

func TestAdminClearResponses(t *testing.T) {
	rt, st := testRouter(t, &blockingSink{})
	mux := http.NewServeMux()
	rt.Register(mux)

	if rec := postJSON(t, mux, "/api/responses", submission()); rec.Code != http.StatusCreated {
		t.Fatalf("submit status = %d", rec.Code)
	}

	rec := postJSON(t, mux, "/api/admin/login", map[string]string{"passphrase": "admin123"})
	var login struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &login)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/responses", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	delRec := httptest.NewRecorder()
	mux.ServeHTTP(delRec, req)
	if delRec.Code != http.StatusOK {
		t.Fatalf("clear status = %d", delRec.Code)
	}

	stored, _ := st.GetAll()
	if len(stored) != 0 {
		t.Fatalf("stored = %d after clear", len(stored))
	}
}
