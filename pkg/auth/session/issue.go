package session

import (
	"context"
	"fmt"
	"time"

	pkgAuth "github.com/angelmondragon/gradevault-backend/pkg/auth"
	"github.com/angelmondragon/gradevault-backend/pkg/config"
	"github.com/angelmondragon/gradevault-backend/pkg/enums"
	"github.com/google/uuid"
)

// Issue opens a session and mints an access token whose jti is the session id.
// The session is revoked again when minting fails.
func (m *Manager) Issue(ctx context.Context, cfg config.JWTConfig, now time.Time, userID uuid.UUID, role enums.UserRole) (string, error) {
	accessID, err := m.Open(ctx, NewAccessID(), userID.String())
	if err != nil {
		return "", fmt.Errorf("open session: %w", err)
	}

	token, err := pkgAuth.MintAccessToken(cfg, now, pkgAuth.AccessTokenPayload{
		UserID: userID,
		Role:   role,
		JTI:    accessID,
	})
	if err != nil {
		_ = m.Revoke(ctx, accessID)
		return "", err
	}
	return token, nil
}
