package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/gradevault-backend/api/middleware"
	"github.com/angelmondragon/gradevault-backend/api/responses"
	pkgerrors "github.com/angelmondragon/gradevault-backend/pkg/errors"
	"github.com/angelmondragon/gradevault-backend/pkg/logger"
)

type sessionRevoker interface {
	Revoke(ctx context.Context, accessID string) error
}

type logoutResponse struct {
	Status string `json:"status"`
}

// AuthLogout drops the Redis session behind the caller's token, so the same
// JWT is rejected by Auth even before it expires.
func AuthLogout(sessions sessionRevoker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if sessions == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeDependency, "session store unavailable"))
			return
		}
		jti := middleware.AccessIDFromContext(ctx)
		if jti == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "token has no session id"))
			return
		}
		if err := sessions.Revoke(ctx, jti); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session"))
			return
		}
		if logg != nil {
			logg.Info(logg.WithField(ctx, "access_id", jti), "session.revoked")
		}
		responses.WriteSuccess(w, logoutResponse{Status: "logged_out"})
	}
}
