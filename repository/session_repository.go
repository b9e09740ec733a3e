package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"bundle-manager/db"
)

// SessionRepository reads shop sessions written by the install flow
type SessionRepository struct{}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{}
}

var _ SessionRepositoryInterface = (*SessionRepository)(nil)

// GetAccessToken returns the offline Admin API access token of the shop
func (r *SessionRepository) GetAccessToken(ctx context.Context, shop string) (string, error) {
	query := `
		SELECT "accessToken"
		FROM "Session"
		WHERE "shop" = $1 AND "isOnline" = false
		ORDER BY "id"
		LIMIT 1
	`
	var token string
	if err := db.DB.QueryRowContext(ctx, query, shop).Scan(&token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrSessionNotFound
		}
		return "", errors.Wrapf(err, "failed to load session for shop %s", shop)
	}
	return token, nil
}
