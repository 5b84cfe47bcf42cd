package sqlxrepos

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/chekechea/core/school"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestSchoolRepositoryCreateSchool(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSchoolRepository(db)

	now := time.Now().UTC()
	sch := school.School{
		Name:      "Sunny Daycare",
		LegacyID:  null.StringFrom("S001"),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO school")).
		WithArgs(sch.Name, sch.LegacyID, sch.TruckID, sch.Price, sch.Formula, sch.Comments,
			sch.IsActive, sch.CreatedAt, sch.UpdatedAt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	created, err := repo.CreateSchool(context.Background(), sch)
	require.NoError(t, err)
	assert.Equal(t, 42, created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchoolRepositoryGetSchoolByLegacyID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSchoolRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "name", "legacy_id", "is_active", "created_at", "updated_at"}).
		AddRow(7, "Sunny Daycare", "S001", true, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM school WHERE legacy_id = $1")).
		WithArgs("S001").
		WillReturnRows(rows)

	sch, err := repo.GetSchoolByLegacyID(context.Background(), "S001")
	require.NoError(t, err)
	assert.Equal(t, 7, sch.ID)
	assert.Equal(t, "Sunny Daycare", sch.Name)
	assert.Equal(t, "S001", sch.LegacyID.String)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchoolRepositoryGetSchoolByLegacyIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSchoolRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM school WHERE legacy_id = $1")).
		WithArgs("NOPE").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetSchoolByLegacyID(context.Background(), "NOPE")
	assert.Equal(t, school.ErrNotFound, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchoolRepositorySchoolIDsByName(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSchoolRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name"}).
		AddRow(1, "Sunny Daycare").
		AddRow(2, "Rainbow Prep")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM school WHERE name <> ''")).
		WillReturnRows(rows)

	byName, err := repo.SchoolIDsByName(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Sunny Daycare": 1, "Rainbow Prep": 2}, byName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
