package reservations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rentacat/rentacat/internal/common"
	"github.com/rentacat/rentacat/internal/dbx"
	"github.com/rentacat/rentacat/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, res *models.Reservation) (*models.Reservation, error) {

	query :=
		`INSERT INTO reservations (id_user, id_chat, date_debut, date_fin, prix_total, statut)
         VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		res.UserID, res.CatID, res.DateDebut, res.DateFin, res.PrixTotal, res.Statut).
		Scan(&res.ID, &res.CreatedAt)

	if err != nil {
		// a concurrent booking that slipped past HasConflict trips the
		// no-overlap exclusion constraint
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23P01" {
			return nil, common.ErrDateConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return res, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Reservation, error) {
	query :=
		`SELECT r.id, r.id_user, r.id_chat, r.date_debut, r.date_fin, r.prix_total, r.statut,
		        r.created_at, r.updated_at, c.nom, c.race, c.image
		 FROM reservations r
		 JOIN chats c ON r.id_chat = c.id
		 WHERE r.id = $1
		 `

	res := &models.Reservation{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&res.ID, &res.UserID, &res.CatID, &res.DateDebut, &res.DateFin,
		&res.PrixTotal, &res.Statut, &res.CreatedAt, &res.UpdatedAt,
		&res.CatNom, &res.CatRace, &res.CatImage)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return res, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Reservation, error) {
	query :=
		`SELECT r.id, r.id_user, r.id_chat, r.date_debut, r.date_fin, r.prix_total, r.statut,
		        r.created_at, r.updated_at, c.nom, c.race, c.image
		 FROM reservations r
		 JOIN chats c ON r.id_chat = c.id
		 WHERE r.id_user = $1
		 ORDER BY r.created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Reservation
	for rows.Next() {
		res := &models.Reservation{}
		err := rows.Scan(
			&res.ID, &res.UserID, &res.CatID, &res.DateDebut, &res.DateFin,
			&res.PrixTotal, &res.Statut, &res.CreatedAt, &res.UpdatedAt,
			&res.CatNom, &res.CatRace, &res.CatImage)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// HasConflict uses the minimal closed-interval overlap test: [a,b] and [c,d]
// overlap iff a <= d AND c <= b.
func (r *PostgresRepository) HasConflict(ctx context.Context, catID int64, start, end time.Time, excludeID int64) (bool, error) {
	query :=
		`SELECT EXISTS (
		     SELECT 1 FROM reservations
		     WHERE id_chat = $1
		       AND statut != $2
		       AND date_debut <= $3
		       AND date_fin >= $4
		       AND ($5 = 0 OR id != $5)
		 )`

	var exists bool
	err := r.db.QueryRowContext(ctx, query,
		catID, models.ReservationStatusCancelled, end, start, excludeID).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, statut string) error {
	query :=
		`UPDATE reservations
		 SET statut = $1, updated_at = NOW()
		 WHERE id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, statut, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}

	return nil
}
