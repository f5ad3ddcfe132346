// Package reservations declares the repository contract for date-ranged
// bookings against the cat catalogue.
package reservations

import (
	"context"
	"time"

	"github.com/rentacat/rentacat/internal/server/models"
)

type Repository interface {
	// Create inserts a reservation and returns it with its generated id.
	Create(ctx context.Context, res *models.Reservation) (*models.Reservation, error)

	// GetByID looks up a reservation by id, joined with its cat's display
	// fields.
	GetByID(ctx context.Context, id int64) (*models.Reservation, error)

	// ListByUser returns the user's reservations, newest first, joined with
	// cat display fields.
	ListByUser(ctx context.Context, userID int64) ([]*models.Reservation, error)

	// HasConflict reports whether a non-cancelled reservation for catID
	// overlaps the closed interval [start, end]. When excludeID > 0 that
	// reservation is ignored (re-booking flow).
	HasConflict(ctx context.Context, catID int64, start, end time.Time, excludeID int64) (bool, error)

	// UpdateStatus sets the reservation status. An unknown id yields
	// common.ErrNotFound.
	UpdateStatus(ctx context.Context, id int64, statut string) error
}
