package httpapi

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/rentacat/rentacat/internal/server/models"
	"github.com/rentacat/rentacat/internal/server/services"
)

// The handler layer depends on small interfaces instead of the concrete
// services so tests can plug in fakes.

type Users interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Authenticate(ctx context.Context, sessionID string) (*models.Session, error)
	Logout(ctx context.Context, sessionID string) error
	GetProfile(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, in services.UpdateProfileInput) (*models.User, string, error)
}

type Reservations interface {
	Create(ctx context.Context, userID, catID int64, start, end time.Time) (*models.Reservation, error)
	Cancel(ctx context.Context, userID, reservationID int64) (*models.Reservation, error)
	ListForUser(ctx context.Context, userID int64) ([]*models.Reservation, error)
	Get(ctx context.Context, userID, reservationID int64) (*models.Reservation, error)
}

type Cats interface {
	ListAvailable(ctx context.Context) ([]*models.Cat, error)
	Get(ctx context.Context, id int64) (*models.Cat, error)
	Create(ctx context.Context, cat *models.Cat) (*models.Cat, error)
	Update(ctx context.Context, cat *models.Cat) error
	Delete(ctx context.Context, id int64) error
}

type Images interface {
	ProcessProfileImage(ctx context.Context, fh *multipart.FileHeader, userID int64) (string, error)
	RemoveProfileImage(ctx context.Context, ref string)
	DiscardUpload(ctx context.Context, ref string)
	ResolveURL(ctx context.Context, ref string) (string, error)
}
