package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolsync/school-admin-api/internal/models"
	"github.com/schoolsync/school-admin-api/internal/scope"
)

func teacherRowColumns() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "username", "name", "surname", "email", "phone", "address", "img",
		"blood_type", "sex", "birthday", "created_at", "subject_names",
	})
}

func TestTeacherRepositoryListSearchMatchesNameOrSubject(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)SELECT COUNT\(\*\) FROM teachers t WHERE \(LOWER\(t\.name\) LIKE \$1\) OR \(EXISTS \(SELECT 1 FROM subject_teachers st JOIN subjects sub ON sub\.id = st\.subject_id WHERE st\.teacher_id = t\.id AND LOWER\(sub\.name\) LIKE \$2\)\)`).
		WithArgs("%math%", "%math%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`(?s)SELECT t\.id, t\.username,.+LIKE \$1.+LIKE \$2.+ORDER BY t\.id LIMIT 10 OFFSET 0`).
		WithArgs("%math%", "%math%").
		WillReturnRows(teacherRowColumns().
			AddRow("teacher-1", "jsmith", "Jane", "Smith", nil, nil, "1 Main St", nil,
				"A+", "FEMALE", time.Now(), time.Now(), "{Math}"))
	mock.ExpectCommit()

	rows, total, err := repo.List(context.Background(), models.TeacherFilter{Search: "Math"},
		scope.Caller{ID: "student-1", Role: scope.RoleStudent}, models.NewPageRequest(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Jane", rows[0].Name)
	assert.Equal(t, []string{"Math"}, []string(rows[0].SubjectNames))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryListSecondPageWindow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM teachers t WHERE TRUE")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(13))
	mock.ExpectQuery(`(?s)SELECT t\.id, t\.username,.+WHERE TRUE ORDER BY t\.id LIMIT 10 OFFSET 10`).
		WillReturnRows(teacherRowColumns())
	mock.ExpectCommit()

	rows, total, err := repo.List(context.Background(), models.TeacherFilter{},
		scope.Caller{ID: "admin-1", Role: scope.RoleAdmin}, models.NewPageRequest(2, 10))
	require.NoError(t, err)
	assert.Equal(t, 13, total)
	assert.Empty(t, rows)

	require.NoError(t, mock.ExpectationsWereMet())
}
