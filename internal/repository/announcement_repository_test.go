package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/schoolsync/school-admin-api/internal/scope"
)

func TestAnnouncementRepositoryFindByIDAnonymousSchoolWideOnly(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	cols := []string{"id", "title", "description", "date", "class_id"}

	mock.ExpectQuery(regexp.QuoteMeta("FROM announcements a WHERE (a.id = $1) AND (a.class_id IS NULL)")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(3, "Holiday", "School closed", time.Now(), nil))

	ann, err := repo.FindByID(context.Background(), 3, scope.Anonymous())
	require.NoError(t, err)
	require.Equal(t, "Holiday", ann.Title)
	require.Nil(t, ann.ClassID)

	// A class-scoped announcement reads as absent for the same caller.
	mock.ExpectQuery(regexp.QuoteMeta("FROM announcements a WHERE (a.id = $1) AND (a.class_id IS NULL)")).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows(cols))

	_, err = repo.FindByID(context.Background(), 4, scope.Anonymous())
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
