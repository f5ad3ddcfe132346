// Package services contains the server-side business logic. This file
// implements UserService: registration, login, server-side sessions, and
// profile updates.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rentacat/rentacat/internal/common"
	"github.com/rentacat/rentacat/internal/server/auth"
	"github.com/rentacat/rentacat/internal/server/config"
	"github.com/rentacat/rentacat/internal/server/models"
	"github.com/rentacat/rentacat/internal/server/repositories/repomanager"
)

// dummyHash is verified against when the email is unknown, so a miss costs
// roughly the same as a wrong password.
var dummyHash, _ = auth.HashPassword("rentacat-timing-pad")

// RegisterInput carries the fields of the registration form.
type RegisterInput struct {
	Nom         string
	Prenom      string
	Email       string
	Password    string
	Description string
}

// UpdateProfileInput carries the editable profile fields. Image, when
// non-empty, is the already-stored reference of a freshly uploaded picture.
type UpdateProfileInput struct {
	Nom         string
	Prenom      string
	Email       string
	Description string
	Image       string
}

// UserService handles accounts and their sessions.
type UserService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	sessionLifetime time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:              db,
		repomanager:     m,
		sessionLifetime: cfg.SessionLifetime,
	}
}

// Register validates the input, hashes the password and creates the account.
// A duplicate email yields common.ErrEmailTaken.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validateName("nom", in.Nom); err != nil {
		return nil, err
	}
	if err := validateName("prenom", in.Prenom); err != nil {
		return nil, err
	}
	if err := validateEmail(in.Email); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	if err := validateDescription(in.Description); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, common.ErrInternal
	}

	user := &models.User{
		Nom:          in.Nom,
		Prenom:       in.Prenom,
		Email:        in.Email,
		PasswordHash: hash,
		Description:  in.Description,
		Admin:        false,
		Perso:        true,
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return u, nil
}

// Login verifies the credentials and, on success, creates a server-side
// session bound to the user's identity and role flags. Unknown email and
// wrong password are indistinguishable to the caller: both return
// common.ErrUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			auth.VerifyPassword(dummyHash, password)
			return nil, common.ErrUnauthorized
		}
		return nil, common.ErrInternal
	}

	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, common.ErrUnauthorized
	}

	session := &models.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.DisplayName(),
		Admin:     user.Admin,
		Perso:     user.Perso,
		ExpiresAt: time.Now().Add(s.sessionLifetime),
	}

	if err := s.repomanager.Sessions(s.db).Create(ctx, session); err != nil {
		return nil, common.ErrInternal
	}

	return session, nil
}

// Authenticate resolves a session id to its live session record. Expired
// sessions are deleted and reported as common.ErrSessionExpired.
func (s *UserService) Authenticate(ctx context.Context, sessionID string) (*models.Session, error) {
	repo := s.repomanager.Sessions(s.db)

	session, err := repo.Find(ctx, sessionID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, common.ErrInternal
	}

	if session.Expired(time.Now()) {
		_ = repo.Delete(ctx, sessionID)
		return nil, common.ErrSessionExpired
	}

	return session, nil
}

// Logout destroys the session record.
func (s *UserService) Logout(ctx context.Context, sessionID string) error {
	return s.repomanager.Sessions(s.db).Delete(ctx, sessionID)
}

// CleanupSessions removes expired session rows and returns how many were
// dropped. Called periodically by the app.
func (s *UserService) CleanupSessions(ctx context.Context) (int64, error) {
	return s.repomanager.Sessions(s.db).DeleteExpired(ctx)
}

// GetProfile returns the user's account record.
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, common.ErrInternal
	}
	return user, nil
}

// UpdateProfile validates and persists the editable profile fields and
// returns the previous image reference so the caller can clean it up once
// the update is committed.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (user *models.User, oldImage string, err error) {
	if err := validateName("nom", in.Nom); err != nil {
		return nil, "", err
	}
	if err := validateName("prenom", in.Prenom); err != nil {
		return nil, "", err
	}
	if err := validateEmail(in.Email); err != nil {
		return nil, "", err
	}
	if err := validateDescription(in.Description); err != nil {
		return nil, "", err
	}

	repo := s.repomanager.Users(s.db)

	user, err = repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", err
		}
		return nil, "", common.ErrInternal
	}

	oldImage = user.Image

	user.Nom = in.Nom
	user.Prenom = in.Prenom
	user.Email = in.Email
	user.Description = in.Description
	if in.Image != "" {
		user.Image = in.Image
	} else {
		oldImage = "" // keeping the current image, nothing to clean up
	}

	if err := repo.Update(ctx, user); err != nil {
		if errors.Is(err, common.ErrEmailTaken) || errors.Is(err, common.ErrNotFound) {
			return nil, "", err
		}
		return nil, "", common.ErrInternal
	}

	return user, oldImage, nil
}
