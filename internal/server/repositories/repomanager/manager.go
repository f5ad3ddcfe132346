// Package repomanager groups the per-aggregate repositories behind a single
// factory so services can obtain repositories bound to either the pool or a
// transaction handle.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/rentacat/rentacat/internal/dbx"
	"github.com/rentacat/rentacat/internal/server/repositories/cats"
	"github.com/rentacat/rentacat/internal/server/repositories/reservations"
	"github.com/rentacat/rentacat/internal/server/repositories/sessions"
	"github.com/rentacat/rentacat/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Cats(db dbx.DBTX) cats.Repository
	Reservations(db dbx.DBTX) reservations.Repository
	Sessions(db dbx.DBTX) sessions.Repository
}
