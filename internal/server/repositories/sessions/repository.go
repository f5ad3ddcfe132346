// Package sessions declares the repository contract for server-side
// authentication sessions.
package sessions

import (
	"context"

	"github.com/rentacat/rentacat/internal/server/models"
)

type Repository interface {
	// Create stores a new session record.
	Create(ctx context.Context, session *models.Session) error

	// Find looks up a session by its id. Absent sessions yield
	// common.ErrNotFound.
	Find(ctx context.Context, id string) (*models.Session, error)

	// Delete removes a session by id. Deleting a non-existent session is
	// not an error.
	Delete(ctx context.Context, id string) error

	// DeleteExpired removes all sessions whose expiry has passed and
	// returns how many were removed.
	DeleteExpired(ctx context.Context) (int64, error)
}
