package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rentacat/rentacat/internal/common"
	"github.com/rentacat/rentacat/internal/dbx"
	"github.com/rentacat/rentacat/internal/server/auth"
	"github.com/rentacat/rentacat/internal/server/config"
	"github.com/rentacat/rentacat/internal/server/models"
	catsrepo "github.com/rentacat/rentacat/internal/server/repositories/cats"
	reservationsrepo "github.com/rentacat/rentacat/internal/server/repositories/reservations"
	sessionsrepo "github.com/rentacat/rentacat/internal/server/repositories/sessions"
	usersrepo "github.com/rentacat/rentacat/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	byEmailOut *models.User
	byEmailErr error

	byIDOut *models.User
	byIDErr error

	updated   *models.User
	updateErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = 42
	return u, nil
}
func (f *fakeUsersRepo) GetByEmail(context.Context, string) (*models.User, error) {
	return f.byEmailOut, f.byEmailErr
}
func (f *fakeUsersRepo) GetByID(context.Context, int64) (*models.User, error) {
	return f.byIDOut, f.byIDErr
}
func (f *fakeUsersRepo) Update(ctx context.Context, u *models.User) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = u
	return nil
}

type fakeSessionsRepo struct {
	created *models.Session

	findOut *models.Session
	findErr error

	deleted   []string
	deleteErr error
}

func (f *fakeSessionsRepo) Create(ctx context.Context, s *models.Session) error {
	f.created = s
	return nil
}
func (f *fakeSessionsRepo) Find(context.Context, string) (*models.Session, error) {
	return f.findOut, f.findErr
}
func (f *fakeSessionsRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}
func (f *fakeSessionsRepo) DeleteExpired(context.Context) (int64, error) { return 0, nil }

type fakeUserRepoManager struct {
	users    *fakeUsersRepo
	sessions *fakeSessionsRepo
}

func (m *fakeUserRepoManager) RunMigrations(context.Context, *sql.DB) error      { return nil }
func (m *fakeUserRepoManager) Users(dbx.DBTX) usersrepo.Repository               { return m.users }
func (m *fakeUserRepoManager) Cats(dbx.DBTX) catsrepo.Repository                 { return nil }
func (m *fakeUserRepoManager) Reservations(dbx.DBTX) reservationsrepo.Repository { return nil }
func (m *fakeUserRepoManager) Sessions(dbx.DBTX) sessionsrepo.Repository         { return m.sessions }

func newUserService(t *testing.T, rm *fakeUserRepoManager) *UserService {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{SessionLifetime: 2 * time.Hour}
	return NewUserService(db, rm, cfg)
}

func registeredUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return &models.User{
		ID:           1,
		Nom:          "Dupont",
		Prenom:       "Jean",
		Email:        "a@b.com",
		PasswordHash: hash,
		Perso:        true,
	}
}

// --- register ---

func TestRegister_Success(t *testing.T) {
	rm := &fakeUserRepoManager{users: &fakeUsersRepo{}, sessions: &fakeSessionsRepo{}}
	svc := newUserService(t, rm)

	u, err := svc.Register(context.Background(), RegisterInput{
		Nom:      "Dupont",
		Prenom:   "Jean",
		Email:    "a@b.com",
		Password: "Abcd1234",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(42), u.ID)
	assert.False(t, u.Admin)
	assert.True(t, u.Perso)
	assert.NotEqual(t, "Abcd1234", u.PasswordHash, "password must never be stored in clear")
	assert.True(t, auth.VerifyPassword(u.PasswordHash, "Abcd1234"))
}

func TestRegister_ValidationFailures(t *testing.T) {
	rm := &fakeUserRepoManager{users: &fakeUsersRepo{}, sessions: &fakeSessionsRepo{}}
	svc := newUserService(t, rm)

	base := RegisterInput{Nom: "Dupont", Prenom: "Jean", Email: "a@b.com", Password: "Abcd1234"}

	bad := base
	bad.Nom = "X"
	_, err := svc.Register(context.Background(), bad)
	assert.ErrorIs(t, err, common.ErrValidation)

	bad = base
	bad.Email = "nope"
	_, err = svc.Register(context.Background(), bad)
	assert.ErrorIs(t, err, common.ErrValidation)

	bad = base
	bad.Password = "weak"
	_, err = svc.Register(context.Background(), bad)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	rm := &fakeUserRepoManager{
		users:    &fakeUsersRepo{createErr: common.ErrEmailTaken},
		sessions: &fakeSessionsRepo{},
	}
	svc := newUserService(t, rm)

	_, err := svc.Register(context.Background(), RegisterInput{
		Nom: "Dupont", Prenom: "Jean", Email: "a@b.com", Password: "Abcd1234",
	})
	assert.ErrorIs(t, err, common.ErrEmailTaken)
}

// --- login ---

func TestLogin_Success(t *testing.T) {
	user := registeredUser(t, "Abcd1234")
	rm := &fakeUserRepoManager{
		users:    &fakeUsersRepo{byEmailOut: user},
		sessions: &fakeSessionsRepo{},
	}
	svc := newUserService(t, rm)

	session, err := svc.Login(context.Background(), "a@b.com", "Abcd1234")
	require.NoError(t, err)

	assert.NotEmpty(t, session.ID)
	assert.Equal(t, int64(1), session.UserID)
	assert.Equal(t, "a@b.com", session.Email)
	assert.Equal(t, "Jean Dupont", session.Name)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), session.ExpiresAt, time.Minute)
	assert.Equal(t, session, rm.sessions.created, "session must be persisted")
}

func TestLogin_WrongPasswordAndUnknownEmailAreIndistinguishable(t *testing.T) {
	user := registeredUser(t, "Abcd1234")

	rmKnown := &fakeUserRepoManager{users: &fakeUsersRepo{byEmailOut: user}, sessions: &fakeSessionsRepo{}}
	_, errWrongPassword := newUserService(t, rmKnown).Login(context.Background(), "a@b.com", "Wrong999")

	rmUnknown := &fakeUserRepoManager{users: &fakeUsersRepo{byEmailErr: common.ErrNotFound}, sessions: &fakeSessionsRepo{}}
	_, errUnknownEmail := newUserService(t, rmUnknown).Login(context.Background(), "ghost@b.com", "Abcd1234")

	assert.ErrorIs(t, errWrongPassword, common.ErrUnauthorized)
	assert.ErrorIs(t, errUnknownEmail, common.ErrUnauthorized)
	assert.Equal(t, errWrongPassword.Error(), errUnknownEmail.Error(), "no enumeration signal")
}

func TestLogin_NoSessionOnFailure(t *testing.T) {
	user := registeredUser(t, "Abcd1234")
	rm := &fakeUserRepoManager{users: &fakeUsersRepo{byEmailOut: user}, sessions: &fakeSessionsRepo{}}
	svc := newUserService(t, rm)

	_, err := svc.Login(context.Background(), "a@b.com", "Wrong999")
	require.Error(t, err)
	assert.Nil(t, rm.sessions.created)
}

// --- sessions ---

func TestAuthenticate_Live(t *testing.T) {
	session := &models.Session{ID: "s1", UserID: 1, ExpiresAt: time.Now().Add(time.Hour)}
	rm := &fakeUserRepoManager{users: &fakeUsersRepo{}, sessions: &fakeSessionsRepo{findOut: session}}
	svc := newUserService(t, rm)

	got, err := svc.Authenticate(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.UserID)
}

func TestAuthenticate_Expired(t *testing.T) {
	session := &models.Session{ID: "s1", UserID: 1, ExpiresAt: time.Now().Add(-time.Minute)}
	rm := &fakeUserRepoManager{users: &fakeUsersRepo{}, sessions: &fakeSessionsRepo{findOut: session}}
	svc := newUserService(t, rm)

	_, err := svc.Authenticate(context.Background(), "s1")
	assert.ErrorIs(t, err, common.ErrSessionExpired)
	assert.Contains(t, rm.sessions.deleted, "s1", "expired session must be removed")
}

func TestAuthenticate_Unknown(t *testing.T) {
	rm := &fakeUserRepoManager{users: &fakeUsersRepo{}, sessions: &fakeSessionsRepo{findErr: common.ErrNotFound}}
	svc := newUserService(t, rm)

	_, err := svc.Authenticate(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestLogout_DeletesSession(t *testing.T) {
	rm := &fakeUserRepoManager{users: &fakeUsersRepo{}, sessions: &fakeSessionsRepo{}}
	svc := newUserService(t, rm)

	require.NoError(t, svc.Logout(context.Background(), "s1"))
	assert.Equal(t, []string{"s1"}, rm.sessions.deleted)
}

// --- profile ---

func TestUpdateProfile_ReplacesImage(t *testing.T) {
	user := registeredUser(t, "Abcd1234")
	user.Image = "/images/profiles/old.png"
	rm := &fakeUserRepoManager{users: &fakeUsersRepo{byIDOut: user}, sessions: &fakeSessionsRepo{}}
	svc := newUserService(t, rm)

	updated, oldImage, err := svc.UpdateProfile(context.Background(), 1, UpdateProfileInput{
		Nom: "Dupont", Prenom: "Jean", Email: "a@b.com", Image: "/images/profiles/new.png",
	})
	require.NoError(t, err)

	assert.Equal(t, "/images/profiles/old.png", oldImage)
	assert.Equal(t, "/images/profiles/new.png", updated.Image)
	assert.Equal(t, updated, rm.users.updated)
}

func TestUpdateProfile_KeepsImageWhenNoneUploaded(t *testing.T) {
	user := registeredUser(t, "Abcd1234")
	user.Image = "/images/profiles/old.png"
	rm := &fakeUserRepoManager{users: &fakeUsersRepo{byIDOut: user}, sessions: &fakeSessionsRepo{}}
	svc := newUserService(t, rm)

	updated, oldImage, err := svc.UpdateProfile(context.Background(), 1, UpdateProfileInput{
		Nom: "Dupont", Prenom: "Jean", Email: "a@b.com",
	})
	require.NoError(t, err)

	assert.Empty(t, oldImage, "nothing to clean up when image is kept")
	assert.Equal(t, "/images/profiles/old.png", updated.Image)
}

func TestUpdateProfile_Validation(t *testing.T) {
	rm := &fakeUserRepoManager{users: &fakeUsersRepo{}, sessions: &fakeSessionsRepo{}}
	svc := newUserService(t, rm)

	_, _, err := svc.UpdateProfile(context.Background(), 1, UpdateProfileInput{
		Nom: "Dupont", Prenom: "Jean", Email: "broken",
	})
	assert.ErrorIs(t, err, common.ErrValidation)
}
