package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/schoolsync/school-admin-api/internal/models"
	"github.com/schoolsync/school-admin-api/internal/scope"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func examRowColumns() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "start_time", "end_time", "lesson_id",
		"subject_name", "class_name", "teacher_name", "teacher_surname",
	})
}

func TestExamRepositoryListAdminUnrestricted(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExamRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM exams e")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`(?s)SELECT e\.id, e\.title,.+WHERE TRUE ORDER BY e\.id LIMIT 10 OFFSET 0`).
		WillReturnRows(examRowColumns().
			AddRow(1, "Midterm", time.Now(), time.Now(), 3, "Math", "1A", "Jane", "Smith"))
	mock.ExpectCommit()

	caller := scope.Caller{ID: "admin-1", Role: scope.RoleAdmin}
	rows, total, err := repo.List(context.Background(), models.ExamFilter{}, caller, models.NewPageRequest(1, 10))
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, rows, 1)
	require.Equal(t, "Midterm", rows[0].Title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExamRepositoryListTeacherScoped(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExamRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE l.teacher_id = $1")).
		WithArgs("teacher-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE l.teacher_id = $1")).
		WithArgs("teacher-1").
		WillReturnRows(examRowColumns())
	mock.ExpectCommit()

	caller := scope.Caller{ID: "teacher-1", Role: scope.RoleTeacher}
	rows, total, err := repo.List(context.Background(), models.ExamFilter{}, caller, models.NewPageRequest(1, 10))
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExamRepositoryListMergesFilterWithScope(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExamRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE (l.class_id = $1) AND (l.teacher_id = $2)")).
		WithArgs(7, "teacher-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE (l.class_id = $1) AND (l.teacher_id = $2)")).
		WithArgs(7, "teacher-1").
		WillReturnRows(examRowColumns())
	mock.ExpectCommit()

	classID := 7
	caller := scope.Caller{ID: "teacher-1", Role: scope.RoleTeacher}
	_, _, err := repo.List(context.Background(), models.ExamFilter{ClassID: &classID}, caller, models.NewPageRequest(1, 10))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExamRepositoryCreateReturnsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExamRepository(db)

	mock.ExpectQuery("INSERT INTO exams").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	exam := &models.Exam{Title: "Final", LessonID: 3}
	require.NoError(t, repo.Create(context.Background(), exam))
	require.Equal(t, 42, exam.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
