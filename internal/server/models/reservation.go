package models

import "time"

// Reservation statuses. A cancelled reservation keeps its row for history.
const (
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "annule"
)

// Reservation covers a closed date interval [DateDebut, DateFin]:
// both boundary days are rental days.
type Reservation struct {
	ID        int64
	UserID    int64
	CatID     int64
	DateDebut time.Time
	DateFin   time.Time
	PrixTotal float64
	Statut    string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined display fields, populated by list/detail queries.
	CatNom   string
	CatRace  string
	CatImage string
}
