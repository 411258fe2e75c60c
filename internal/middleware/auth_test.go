package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func protected() http.Handler {
	return WithAuth(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))
}

func TestRequireAdminRejectsMissingToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/summary", nil)
	rec := httptest.NewRecorder()
	protected().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAdminRejectsGarbageToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/summary", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	protected().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAdminAcceptsSignedToken(t *testing.T) {
	tok, err := SignAdminToken(time.Minute)
	if err != nil {
		t.Fatalf("SignAdminToken: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/admin/summary", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	protected().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRequireAdminRejectsExpiredToken(t *testing.T) {
	tok, err := SignAdminToken(-time.Minute)
	if err != nil {
		t.Fatalf("SignAdminToken: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/admin/summary", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	protected().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
