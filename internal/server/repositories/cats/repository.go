// Package cats declares the repository contract for the rentable cat
// catalogue.
package cats

import (
	"context"

	"github.com/rentacat/rentacat/internal/server/models"
)

type Repository interface {
	// ListAvailable returns cats with disponible = true, ordered by name.
	ListAvailable(ctx context.Context) ([]*models.Cat, error)

	// GetByID looks up a cat by id.
	GetByID(ctx context.Context, id int64) (*models.Cat, error)

	// Create inserts a new cat and returns it with its generated id.
	Create(ctx context.Context, cat *models.Cat) (*models.Cat, error)

	// Update persists all mutable fields of the cat.
	Update(ctx context.Context, cat *models.Cat) error

	// Delete removes a cat. Deleting an unknown id yields common.ErrNotFound.
	Delete(ctx context.Context, id int64) error
}
