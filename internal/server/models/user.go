// Package models defines the persistent entities of the application.
package models

import "time"

type User struct {
	ID           int64
	Nom          string
	Prenom       string
	Email        string
	PasswordHash string
	Image        string
	Description  string
	Admin        bool
	Perso        bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName is the name shown in the UI and bound to the session.
func (u *User) DisplayName() string {
	return u.Prenom + " " + u.Nom
}
