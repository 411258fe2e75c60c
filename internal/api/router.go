package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/toria-lab/logosurvey/internal/catalog"
	"github.com/toria-lab/logosurvey/internal/middleware"
	"github.com/toria-lab/logosurvey/internal/models"
	"github.com/toria-lab/logosurvey/internal/services"
	"github.com/toria-lab/logosurvey/internal/store"
)

type Router struct {
	log       *zap.Logger
	catalog   *catalog.Catalog
	store     *store.ResponseStore
	assembler *services.ResponseAssembler
	admin     *services.AdminService

	// One submission in flight at a time; duplicate attempts are rejected
	// while the current one is pending.
	submitting atomic.Bool
}

func NewRouter(log *zap.Logger, cat *catalog.Catalog, st *store.ResponseStore, asm *services.ResponseAssembler, admin *services.AdminService) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{log: log, catalog: cat, store: st, assembler: asm, admin: admin}
}

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/catalog", rt.handleCatalog)        // GET
	mux.HandleFunc("/api/survey", rt.handleSurvey)          // GET
	mux.HandleFunc("/api/responses", rt.handleResponses)    // POST
	mux.HandleFunc("/api/admin/login", rt.handleAdminLogin) // POST

	adminOnly := func(h http.HandlerFunc) http.Handler {
		return middleware.WithAuth(middleware.RequireAdmin(h))
	}
	mux.Handle("/api/admin/summary", adminOnly(rt.handleAdminSummary)) // GET
	mux.Handle("/api/admin/export", adminOnly(rt.handleAdminExport))   // GET
	mux.Handle("/api/admin/responses", adminOnly(rt.handleAdminClear)) // DELETE
}

// GET /api/catalog
func (rt *Router) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": rt.catalog.Items})
}

// GET /api/survey returns a freshly randomized presentation order; never
// cached, built once per respondent session.
func (rt *Router) handleSurvey(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	seq := services.BuildSequence(rt.catalog.Items, rt.catalog.TrapItemID, rt.catalog.TrapPosition, nil)
	writeJSON(w, http.StatusOK, map[string]any{"items": seq, "scale_max": 7})
}

// POST /api/responses
// { name, gender, age, ratings: [{item_id, score}] }
func (rt *Router) handleResponses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !rt.submitting.CompareAndSwap(false, true) {
		writeJSON(w, http.StatusConflict, map[string]any{"ok": false, "error": "submission already in progress"})
		return
	}
	defer rt.submitting.Store(false)

	var req struct {
		Name    string `json:"name"`
		Gender  string `json:"gender"`
		Age     int    `json:"age"`
		Ratings []struct {
			ItemID string `json:"item_id"`
			Score  int    `json:"score"`
		} `json:"ratings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	collector := services.NewRatingCollector()
	for _, a := range req.Ratings {
		if a.ItemID == "" || !rt.catalog.Contains(a.ItemID) {
			continue
		}
		collector.Set(a.ItemID, a.Score)
	}

	demo := models.Demographics{Name: req.Name, Gender: models.Gender(req.Gender), Age: req.Age}
	resp, err := rt.assembler.Assemble(r.Context(), demo, collector, rt.catalog)
	switch {
	case errors.Is(err, services.ErrIncompleteResponse):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"ok": false, "error": err.Error()})
		return
	case errors.Is(err, services.ErrSubmissionFailed):
		// Persisted locally; only the forward failed. The caller may retry.
		rt.log.Warn("submission sink failed", zap.String("response_id", resp.ID), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, map[string]any{"ok": false, "stored": true, "response_id": resp.ID, "error": "submission failed"})
		return
	case err != nil:
		rt.log.Error("assemble response", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	rt.log.Info("response stored", zap.String("response_id", resp.ID), zap.Int("ratings", len(resp.Ratings)))
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "response_id": resp.ID, "count": len(resp.Ratings)})
}

// POST /api/admin/login checks the shared static passphrase. Not real
// access control.
func (rt *Router) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Passphrase string `json:"passphrase"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := rt.admin.Login(req.Passphrase)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": res.Token, "expires_in": int(res.ExpiresIn / time.Second)})
}

// GET /api/admin/summary
func (rt *Router) handleAdminSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	responses, err := rt.store.GetAll()
	if err != nil {
		rt.log.Error("load responses", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, services.Summarize(responses, rt.catalog))
}

// GET /api/admin/export
func (rt *Router) handleAdminExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	responses, err := rt.store.GetAll()
	if err != nil {
		rt.log.Error("load responses", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	res, err := services.ExportCSV(responses, rt.catalog, time.Now())
	if errors.Is(err, services.ErrEmptyExport) {
		writeJSON(w, http.StatusNotFound, map[string]any{"ok": false, "error": "nothing to export"})
		return
	}
	if err != nil {
		rt.log.Error("export csv", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+res.Filename)
	_, _ = w.Write(res.Data)
}

// DELETE /api/admin/responses
func (rt *Router) handleAdminClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := rt.store.ClearAll(); err != nil {
		rt.log.Error("clear responses", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	rt.log.Info("response store cleared")
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeServiceError(w http.ResponseWriter, err error) {
	if se, ok := services.AsServiceError(err); ok {
		switch se.Code {
		case services.ErrorUnauthorized:
			http.Error(w, se.Message, http.StatusUnauthorized)
		case services.ErrorNotFound:
			http.Error(w, se.Message, http.StatusNotFound)
		case services.ErrorConflict:
			http.Error(w, se.Message, http.StatusConflict)
		default:
			http.Error(w, se.Message, http.StatusBadRequest)
		}
		return
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
}
