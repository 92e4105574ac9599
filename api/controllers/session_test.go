package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/gradevault-backend/api/middleware"
)

type stubSessionRevoker struct {
	lastRevoked string
	err         error
}

func (s *stubSessionRevoker) Revoke(ctx context.Context, accessID string) error {
	s.lastRevoked = accessID
	return s.err
}

func TestAuthLogout(t *testing.T) {
	manager := &stubSessionRevoker{}
	handler := AuthLogout(manager, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/session/logout", nil)
	req = req.WithContext(middleware.WithAccessID(req.Context(), "jti-1"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if manager.lastRevoked != "jti-1" {
		t.Fatalf("expected revoked jti-1 got %s", manager.lastRevoked)
	}
}

func TestAuthLogoutWithoutSession(t *testing.T) {
	manager := &stubSessionRevoker{}
	rec := httptest.NewRecorder()
	AuthLogout(manager, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/session/logout", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
	if manager.lastRevoked != "" {
		t.Fatal("revoke should not run")
	}
}

func TestAuthLogoutStoreFailure(t *testing.T) {
	manager := &stubSessionRevoker{err: errors.New("redis down")}
	req := httptest.NewRequest(http.MethodPost, "/api/session/logout", nil)
	req = req.WithContext(middleware.WithAccessID(req.Context(), "jti-2"))
	rec := httptest.NewRecorder()
	AuthLogout(manager, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", rec.Code)
	}
}
