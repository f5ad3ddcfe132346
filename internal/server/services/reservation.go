package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rentacat/rentacat/internal/common"
	"github.com/rentacat/rentacat/internal/dbx"
	"github.com/rentacat/rentacat/internal/server/config"
	"github.com/rentacat/rentacat/internal/server/models"
	"github.com/rentacat/rentacat/internal/server/repositories/repomanager"
)

// ReservationService owns the booking lifecycle: conflict checking, pricing
// and cancellation. Reservation intervals are closed: [date_debut, date_fin]
// with both boundary days counting as rental days, so an end date equal to
// another booking's start date conflicts.
type ReservationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager

	now func() time.Time // test seam
}

func NewReservationService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *ReservationService {
	return &ReservationService{
		db:          db,
		repomanager: m,
		now:         time.Now,
	}
}

// today returns the current date truncated to midnight.
func (s *ReservationService) today() time.Time {
	t := s.now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// computePrice derives the total from the per-day rate and the interval
// length, rounding partial days up. The client-submitted total is never
// trusted; this is the only price that gets persisted.
func computePrice(start, end time.Time, dailyRate float64) float64 {
	days := math.Ceil(end.Sub(start).Hours() / 24)
	return days * dailyRate
}

// Create books catID for userID over [start, end]. The cat lookup, the
// conflict check and the insert run inside one serializable transaction so
// two concurrent bookings cannot both pass the check; the database-level
// exclusion constraint backs the same invariant.
func (s *ReservationService) Create(ctx context.Context, userID, catID int64, start, end time.Time) (*models.Reservation, error) {
	if start.Before(s.today()) {
		return nil, fmt.Errorf("%w: start date cannot be in the past", common.ErrValidation)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end date must be after start date", common.ErrValidation)
	}

	var reservation *models.Reservation

	err := dbx.WithSerializableTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		cat, err := s.repomanager.Cats(tx).GetByID(ctx, catID)
		if err != nil {
			return err
		}

		resRepo := s.repomanager.Reservations(tx)

		conflict, err := resRepo.HasConflict(ctx, catID, start, end, 0)
		if err != nil {
			return err
		}
		if conflict {
			return common.ErrDateConflict
		}

		reservation, err = resRepo.Create(ctx, &models.Reservation{
			UserID:    userID,
			CatID:     catID,
			DateDebut: start,
			DateFin:   end,
			PrixTotal: computePrice(start, end, cat.Prix),
			Statut:    models.ReservationStatusConfirmed,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) || errors.Is(err, common.ErrDateConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating reservation: %w", err)
	}

	return reservation, nil
}

// Cancel transitions the reservation to cancelled. Only the owner may
// cancel, only before the rental period starts, and only once: cancelling
// an already-cancelled reservation returns common.ErrAlreadyCancelled with
// the state unchanged. The row is kept for history.
func (s *ReservationService) Cancel(ctx context.Context, userID, reservationID int64) (*models.Reservation, error) {
	var reservation *models.Reservation

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Reservations(tx)

		res, err := repo.GetByID(ctx, reservationID)
		if err != nil {
			return err
		}

		if res.UserID != userID {
			return common.ErrForbidden
		}
		if res.Statut == models.ReservationStatusCancelled {
			return common.ErrAlreadyCancelled
		}
		if !res.DateDebut.After(s.today()) {
			return fmt.Errorf("%w: cannot cancel a reservation that has already begun", common.ErrValidation)
		}

		if err := repo.UpdateStatus(ctx, reservationID, models.ReservationStatusCancelled); err != nil {
			return err
		}

		res.Statut = models.ReservationStatusCancelled
		reservation = res
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) ||
			errors.Is(err, common.ErrForbidden) ||
			errors.Is(err, common.ErrAlreadyCancelled) ||
			errors.Is(err, common.ErrValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("error cancelling reservation: %w", err)
	}

	return reservation, nil
}

// ListForUser returns the user's reservations, newest first.
func (s *ReservationService) ListForUser(ctx context.Context, userID int64) ([]*models.Reservation, error) {
	result, err := s.repomanager.Reservations(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, common.ErrInternal
	}
	return result, nil
}

// Get returns a reservation, restricted to its owner.
func (s *ReservationService) Get(ctx context.Context, userID, reservationID int64) (*models.Reservation, error) {
	res, err := s.repomanager.Reservations(s.db).GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, common.ErrInternal
	}

	if res.UserID != userID {
		return nil, common.ErrForbidden
	}

	return res, nil
}
