// Package users declares the repository contract for user accounts.
package users

import (
	"context"

	"github.com/rentacat/rentacat/internal/server/models"
)

type Repository interface {
	// Create inserts a new user and returns it with its generated id.
	// A duplicate email yields common.ErrEmailTaken.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail looks up a user by exact email match.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID looks up a user by id.
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// Update persists profile fields (nom, prenom, email, description, image).
	Update(ctx context.Context, user *models.User) error
}
