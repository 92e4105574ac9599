package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/gradevault-backend/pkg/auth"
	"github.com/angelmondragon/gradevault-backend/pkg/auth/session"
	"github.com/angelmondragon/gradevault-backend/pkg/config"
	"github.com/angelmondragon/gradevault-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/gradevault-backend/pkg/errors"
)

var testJWT = config.JWTConfig{Secret: "secret", Issuer: "gradevault", ExpirationMinutes: 60}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthRejections(t *testing.T) {
	valid := mintTestToken(t, testJWT, enums.UserRoleUser, session.NewAccessID())
	foreign := mintTestToken(t, config.JWTConfig{Secret: "other", Issuer: "gradevault", ExpirationMinutes: 60}, enums.UserRoleAdmin, session.NewAccessID())

	cases := []struct {
		name     string
		header   string
		verifier session.AccessSessionChecker
		status   int
		code     pkgerrors.Code
	}{
		{"missing header", "", liveSessions{ok: true}, http.StatusUnauthorized, pkgerrors.CodeUnauthorized},
		{"garbage bearer", "Bearer invalid", liveSessions{ok: true}, http.StatusUnauthorized, pkgerrors.CodeUnauthorized},
		{"basic scheme", "Basic abc", liveSessions{ok: true}, http.StatusUnauthorized, pkgerrors.CodeUnauthorized},
		{"empty bearer", "Bearer", liveSessions{ok: true}, http.StatusUnauthorized, pkgerrors.CodeUnauthorized},
		{"other secret", "Bearer " + foreign, liveSessions{ok: true}, http.StatusUnauthorized, pkgerrors.CodeUnauthorized},
		{"revoked session", "Bearer " + valid, liveSessions{ok: false}, http.StatusUnauthorized, pkgerrors.CodeUnauthorized},
		{"store down", "Bearer " + valid, liveSessions{err: errors.New("redis down")}, http.StatusServiceUnavailable, pkgerrors.CodeDependency},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			handler := Auth(testJWT, tc.verifier, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				called = true
			}))
			req := httptest.NewRequest(http.MethodGet, "/api/stock", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if called {
				t.Fatal("handler must not run")
			}
			if rec.Code != tc.status {
				t.Fatalf("expected %d got %d", tc.status, rec.Code)
			}
			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if body.Error.Code != string(tc.code) {
				t.Fatalf("expected code %s got %s", tc.code, body.Error.Code)
			}
		})
	}
}

func TestAuthSeedsContext(t *testing.T) {
	jti := session.NewAccessID()
	token := mintTestToken(t, testJWT, enums.UserRoleSeller, jti)

	var user, role, access string
	handler := Auth(testJWT, liveSessions{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user = UserIDFromContext(r.Context())
		role = RoleFromContext(r.Context())
		access = AccessIDFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/stock", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if _, err := uuid.Parse(user); err != nil {
		t.Fatalf("expected user id in context, got %q", user)
	}
	if role != string(enums.UserRoleSeller) || access != jti {
		t.Fatalf("unexpected role=%s access=%s", role, access)
	}
}

func TestAuthWithoutVerifierTrustsSignature(t *testing.T) {
	token := mintTestToken(t, testJWT, enums.UserRoleAdmin, session.NewAccessID())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	Auth(testJWT, nil, nil)(okHandler()).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func mintTestToken(t *testing.T, cfg config.JWTConfig, role enums.UserRole, jti string) string {
	t.Helper()
	token, err := auth.MintAccessToken(cfg, time.Now(), auth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    jti,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

type liveSessions struct {
	ok  bool
	err error
}

func (s liveSessions) HasSession(context.Context, string) (bool, error) {
	return s.ok, s.err
}
