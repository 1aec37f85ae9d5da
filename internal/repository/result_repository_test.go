package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/schoolsync/school-admin-api/internal/scope"
)

func resultColumns() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "score", "exam_id", "assignment_id", "student_id"})
}

func TestResultRepositoryFindByIDAdminUnscoped(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM results r WHERE r.id = $1")).
		WithArgs(5).
		WillReturnRows(resultColumns().AddRow(5, 91, 4, nil, "stu-2"))

	result, err := repo.FindByID(context.Background(), 5, scope.Caller{ID: "admin-1", Role: scope.RoleAdmin})
	require.NoError(t, err)
	require.Equal(t, 91, result.Score)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryFindByIDStudentOnlyOwnRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM results r WHERE (r.id = $1) AND (r.student_id = $2)")).
		WithArgs(5, "stu-1").
		WillReturnRows(resultColumns())

	_, err := repo.FindByID(context.Background(), 5, scope.Caller{ID: "stu-1", Role: scope.RoleStudent})
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryFindByIDAnonymousSeesNothing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM results r WHERE (r.id = $1) AND (FALSE)")).
		WithArgs(5).
		WillReturnRows(resultColumns())

	_, err := repo.FindByID(context.Background(), 5, scope.Anonymous())
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
