package httpapi

import (
	"time"

	"github.com/rentacat/rentacat/internal/server/models"
)

// Wire representations of the domain entities. Dates use the day-granular
// form the booking forms submit.

const dateLayout = "2006-01-02"

type catView struct {
	ID           int64   `json:"id"`
	Nom          string  `json:"nom"`
	Age          int     `json:"age"`
	Race         string  `json:"race"`
	Couleur      string  `json:"couleur"`
	Caractere    string  `json:"caractere"`
	JouetPrefere string  `json:"jouet_prefere"`
	Prix         float64 `json:"prix"`
	Description  string  `json:"description"`
	Image        string  `json:"image"`
	Disponible   bool    `json:"disponible"`
}

func toCatView(c *models.Cat) catView {
	return catView{
		ID:           c.ID,
		Nom:          c.Nom,
		Age:          c.Age,
		Race:         c.Race,
		Couleur:      c.Couleur,
		Caractere:    c.Caractere,
		JouetPrefere: c.JouetPrefere,
		Prix:         c.Prix,
		Description:  c.Description,
		Image:        c.Image,
		Disponible:   c.Disponible,
	}
}

func toCatViews(cats []*models.Cat) []catView {
	result := make([]catView, 0, len(cats))
	for _, c := range cats {
		result = append(result, toCatView(c))
	}
	return result
}

type reservationView struct {
	ID        int64   `json:"id"`
	CatID     int64   `json:"cat_id"`
	CatNom    string  `json:"cat_nom"`
	CatRace   string  `json:"cat_race"`
	CatImage  string  `json:"cat_image"`
	DateDebut string  `json:"date_debut"`
	DateFin   string  `json:"date_fin"`
	PrixTotal float64 `json:"prix_total"`
	Statut    string  `json:"statut"`
}

func toReservationView(r *models.Reservation) reservationView {
	return reservationView{
		ID:        r.ID,
		CatID:     r.CatID,
		CatNom:    r.CatNom,
		CatRace:   r.CatRace,
		CatImage:  r.CatImage,
		DateDebut: r.DateDebut.Format(dateLayout),
		DateFin:   r.DateFin.Format(dateLayout),
		PrixTotal: r.PrixTotal,
		Statut:    r.Statut,
	}
}

func toReservationViews(list []*models.Reservation) []reservationView {
	result := make([]reservationView, 0, len(list))
	for _, r := range list {
		result = append(result, toReservationView(r))
	}
	return result
}

type profileView struct {
	ID          int64  `json:"id"`
	Nom         string `json:"nom"`
	Prenom      string `json:"prenom"`
	Email       string `json:"email"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Admin       bool   `json:"admin"`
}

func toProfileView(u *models.User, imageURL string) profileView {
	return profileView{
		ID:          u.ID,
		Nom:         u.Nom,
		Prenom:      u.Prenom,
		Email:       u.Email,
		Description: u.Description,
		Image:       imageURL,
		Admin:       u.Admin,
	}
}

func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}
