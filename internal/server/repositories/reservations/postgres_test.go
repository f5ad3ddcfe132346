package reservations

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rentacat/rentacat/internal/common"
	"github.com/rentacat/rentacat/internal/server/models"
	_ "modernc.org/sqlite"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const insertQuery = `(?s)^INSERT\s+INTO\s+reservations\s*\(id_user,\s*id_chat,\s*date_debut,\s*date_fin,\s*prix_total,\s*statut\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6\)\s*RETURNING\s+id,\s*created_at\s*$`

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	start, end := day(2025, time.October, 10), day(2025, time.October, 13)
	rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), time.Now())
	mock.ExpectQuery(insertQuery).
		WithArgs(int64(1), int64(5), start, end, 75.0, models.ReservationStatusConfirmed).
		WillReturnRows(rows)

	res := &models.Reservation{
		UserID: 1, CatID: 5, DateDebut: start, DateFin: end,
		PrixTotal: 75.0, Statut: models.ReservationStatusConfirmed,
	}
	got, err := repo.Create(context.Background(), res)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 7 {
		t.Fatalf("unexpected reservation: %+v", got)
	}
}

func TestCreate_OverlapConstraintViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	start, end := day(2025, time.October, 10), day(2025, time.October, 13)
	mock.ExpectQuery(insertQuery).
		WithArgs(int64(1), int64(5), start, end, 75.0, models.ReservationStatusConfirmed).
		WillReturnError(&pgconn.PgError{Code: "23P01", ConstraintName: "reservations_no_overlap"})

	res := &models.Reservation{
		UserID: 1, CatID: 5, DateDebut: start, DateFin: end,
		PrixTotal: 75.0, Statut: models.ReservationStatusConfirmed,
	}
	_, err := repo.Create(context.Background(), res)
	if !errors.Is(err, common.ErrDateConflict) {
		t.Fatalf("want common.ErrDateConflict, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	start, end := day(2025, time.October, 10), day(2025, time.October, 13)
	mock.ExpectQuery(insertQuery).
		WithArgs(int64(1), int64(5), start, end, 75.0, models.ReservationStatusConfirmed).
		WillReturnError(errors.New("db down"))

	res := &models.Reservation{
		UserID: 1, CatID: 5, DateDebut: start, DateFin: end,
		PrixTotal: 75.0, Statut: models.ReservationStatusConfirmed,
	}
	_, err := repo.Create(context.Background(), res)
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

const getByIDQuery = `(?s)^SELECT\s+r\.id,\s*r\.id_user,\s*r\.id_chat.*FROM\s+reservations\s+r\s+JOIN\s+chats\s+c\s+ON\s+r\.id_chat\s*=\s*c\.id\s+WHERE\s+r\.id\s*=\s*\$1\s*$`

func reservationRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "id_user", "id_chat", "date_debut", "date_fin", "prix_total",
		"statut", "created_at", "updated_at", "nom", "race", "image",
	}).AddRow(int64(7), int64(1), int64(5), day(2025, time.October, 10), day(2025, time.October, 13),
		75.0, models.ReservationStatusConfirmed, now, now, "Felix", "Siamois", "/images/felix.png")
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(getByIDQuery).
		WithArgs(int64(7)).
		WillReturnRows(reservationRows())

	got, err := repo.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.ID != 7 || got.CatNom != "Felix" {
		t.Fatalf("unexpected reservation: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(getByIDQuery).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 404)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestListByUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+r\.id,\s*r\.id_user,\s*r\.id_chat.*WHERE\s+r\.id_user\s*=\s*\$1\s+ORDER\s+BY\s+r\.created_at\s+DESC\s*$`
	mock.ExpectQuery(q).
		WithArgs(int64(1)).
		WillReturnRows(reservationRows())

	got, err := repo.ListByUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListByUser error: %v", err)
	}
	if len(got) != 1 || got[0].ID != 7 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

const conflictQuery = `(?s)^SELECT\s+EXISTS\s*\(\s*SELECT\s+1\s+FROM\s+reservations\s+WHERE\s+id_chat\s*=\s*\$1\s+AND\s+statut\s*!=\s*\$2\s+AND\s+date_debut\s*<=\s*\$3\s+AND\s+date_fin\s*>=\s*\$4\s+AND\s+\(\$5\s*=\s*0\s+OR\s+id\s*!=\s*\$5\)\s*\)$`

func TestHasConflict(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	start, end := day(2025, time.October, 10), day(2025, time.October, 13)

	mock.ExpectQuery(conflictQuery).
		WithArgs(int64(5), models.ReservationStatusCancelled, end, start, int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	conflict, err := repo.HasConflict(context.Background(), 5, start, end, 0)
	if err != nil {
		t.Fatalf("HasConflict error: %v", err)
	}
	if !conflict {
		t.Fatal("expected conflict")
	}
}

func TestHasConflict_ExcludesGivenReservation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	start, end := day(2025, time.October, 10), day(2025, time.October, 13)

	mock.ExpectQuery(conflictQuery).
		WithArgs(int64(5), models.ReservationStatusCancelled, end, start, int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	conflict, err := repo.HasConflict(context.Background(), 5, start, end, 7)
	if err != nil {
		t.Fatalf("HasConflict error: %v", err)
	}
	if conflict {
		t.Fatal("unexpected conflict")
	}
}

// setupConflictDB builds an in-memory database holding one confirmed booking
// for cat 5 over [2025-10-10, 2025-10-15], so the overlap predicate can be
// evaluated against real rows.
func setupConflictDB(t *testing.T) *PostgresRepository {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("sql.Open error: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE reservations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		id_user INTEGER,
		id_chat INTEGER,
		date_debut TIMESTAMP,
		date_fin TIMESTAMP,
		prix_total REAL,
		statut TEXT
	)`)
	if err != nil {
		t.Fatalf("create table error: %v", err)
	}

	insertBooking(t, db, 5, day(2025, time.October, 10), day(2025, time.October, 15), models.ReservationStatusConfirmed)

	return NewPostgresRepository(db)
}

func insertBooking(t *testing.T, db *sql.DB, catID int64, start, end time.Time, statut string) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO reservations (id_user, id_chat, date_debut, date_fin, prix_total, statut) VALUES (1, ?, ?, ?, 100, ?)`,
		catID, start, end, statut)
	if err != nil {
		t.Fatalf("insert error: %v", err)
	}
}

func TestHasConflict_BoundaryDates(t *testing.T) {
	repo := setupConflictDB(t)

	// existing confirmed booking: [2025-10-10, 2025-10-15]
	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"shared boundary day conflicts", day(2025, time.October, 15), day(2025, time.October, 20), true},
		{"day after checkout is free", day(2025, time.October, 16), day(2025, time.October, 20), false},
		{"overlap inside the interval", day(2025, time.October, 12), day(2025, time.October, 18), true},
		{"fully before is free", day(2025, time.October, 1), day(2025, time.October, 9), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.HasConflict(context.Background(), 5, tt.start, tt.end, 0)
			if err != nil {
				t.Fatalf("HasConflict error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("HasConflict(%s, %s) = %v, want %v",
					tt.start.Format("2006-01-02"), tt.end.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestHasConflict_IgnoresCancelledAndOtherCats(t *testing.T) {
	repo := setupConflictDB(t)

	// a cancelled booking over the requested dates must not block
	got, err := repo.HasConflict(context.Background(), 7, day(2025, time.October, 12), day(2025, time.October, 18), 0)
	if err != nil {
		t.Fatalf("HasConflict error: %v", err)
	}
	if got {
		t.Fatal("another cat's booking must not conflict")
	}

	insertBooking(t, repo.db.(*sql.DB), 7, day(2025, time.October, 10), day(2025, time.October, 15), models.ReservationStatusCancelled)

	got, err = repo.HasConflict(context.Background(), 7, day(2025, time.October, 12), day(2025, time.October, 18), 0)
	if err != nil {
		t.Fatalf("HasConflict error: %v", err)
	}
	if got {
		t.Fatal("cancelled bookings must not conflict")
	}
}

const updateStatusQuery = `(?s)^UPDATE\s+reservations\s+SET\s+statut\s*=\s*\$1,\s*updated_at\s*=\s*NOW\(\)\s+WHERE\s+id\s*=\s*\$2\s*$`

func TestUpdateStatus_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(updateStatusQuery).
		WithArgs(models.ReservationStatusCancelled, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateStatus(context.Background(), 7, models.ReservationStatusCancelled); err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}
}

func TestUpdateStatus_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(updateStatusQuery).
		WithArgs(models.ReservationStatusCancelled, int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 404, models.ReservationStatusCancelled)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}
