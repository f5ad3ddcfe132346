package models

import "time"

type Cat struct {
	ID           int64
	Nom          string
	Age          int
	Race         string
	Couleur      string
	Caractere    string
	JouetPrefere string
	Prix         float64 // per-day rate
	Description  string
	Image        string
	Disponible   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
