package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/schoolsync/school-admin-api/internal/models"
	"github.com/schoolsync/school-admin-api/internal/scope"
)

func TestStudentRepositoryCreateFullClass(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").
		WillReturnResult(sqlmock.NewResult(0, 0))

	inserted, err := repo.Create(context.Background(), &models.Student{ID: "stu-1", ClassID: 5})
	require.NoError(t, err)
	require.False(t, inserted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreateWithSeat(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").
		WillReturnResult(sqlmock.NewResult(0, 1))

	inserted, err := repo.Create(context.Background(), &models.Student{ID: "stu-1", ClassID: 5})
	require.NoError(t, err)
	require.True(t, inserted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryClassSeats(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("SELECT c.capacity").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"capacity", "enrolled"}).AddRow(30, 30))

	capacity, enrolled, err := repo.ClassSeats(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, 30, capacity)
	require.Equal(t, 30, enrolled)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListAnonymousSeesNothing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)SELECT COUNT.+WHERE FALSE`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`(?s)SELECT s\.id, s\.username.+WHERE FALSE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	rows, total, err := repo.List(context.Background(), models.StudentFilter{}, scope.Anonymous(), models.NewPageRequest(1, 10))
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, rows)
	require.NoError(t, mock.ExpectationsWereMet())
}
