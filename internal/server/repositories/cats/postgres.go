package cats

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

const catColumns = `id, nom, age, race, couleur, caractere, jouet_prefere, prix, description, image, disponible, created_at, updated_at`

func scanCat(row interface{ Scan(...any) error }) (*models.Cat, error) {
	cat := &models.Cat{}
	err := row.Scan(
		&cat.ID, &cat.Nom, &cat.Age, &cat.Race, &cat.Couleur, &cat.Caractere,
		&cat.JouetPrefere, &cat.Prix, &cat.Description, &cat.Image,
		&cat.Disponible, &cat.CreatedAt, &cat.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return cat, nil
}

func (r *PostgresRepository) ListAvailable(ctx context.Context) ([]*models.Cat, error) {
	query := `SELECT ` + catColumns + ` FROM chats WHERE disponible = true ORDER BY nom`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Cat
	for rows.Next() {
		cat, err := scanCat(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Cat, error) {
	query := `SELECT ` + catColumns + ` FROM chats WHERE id = $1`

	cat, err := scanCat(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return cat, nil
}

func (r *PostgresRepository) Create(ctx context.Context, cat *models.Cat) (*models.Cat, error) {
	query :=
		`INSERT INTO chats (nom, age, race, couleur, caractere, jouet_prefere, prix, description, image, disponible)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, true)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		cat.Nom, cat.Age, cat.Race, cat.Couleur, cat.Caractere,
		cat.JouetPrefere, cat.Prix, cat.Description, cat.Image).
		Scan(&cat.ID, &cat.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	cat.Disponible = true
	return cat, nil
}

func (r *PostgresRepository) Update(ctx context.Context, cat *models.Cat) error {
	query :=
		`UPDATE chats
		 SET nom = $1, age = $2, race = $3, couleur = $4, caractere = $5,
		     jouet_prefere = $6, prix = $7, description = $8, image = $9,
		     disponible = $10, updated_at = NOW()
		 WHERE id = $11
		 `

	res, err := r.db.ExecContext(ctx, query,
		cat.Nom, cat.Age, cat.Race, cat.Couleur, cat.Caractere,
		cat.JouetPrefere, cat.Prix, cat.Description, cat.Image,
		cat.Disponible, cat.ID)

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

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM chats WHERE id = $1`, id)
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
