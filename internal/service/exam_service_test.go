package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolsync/school-admin-api/internal/models"
	"github.com/schoolsync/school-admin-api/internal/scope"
	appErrors "github.com/schoolsync/school-admin-api/pkg/errors"
)

type fakeExamRepo struct {
	exams   map[int]models.Exam
	created *models.Exam
	updated *models.Exam
	deleted []int
}

func (f *fakeExamRepo) List(ctx context.Context, filter models.ExamFilter, caller scope.Caller, page models.PageRequest) ([]models.ExamRow, int, error) {
	return nil, 0, nil
}

func (f *fakeExamRepo) FindByID(ctx context.Context, id int, caller scope.Caller) (*models.Exam, error) {
	if caller.Role == scope.RoleAnonymous {
		return nil, sql.ErrNoRows
	}
	if e, ok := f.exams[id]; ok {
		return &e, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeExamRepo) Create(ctx context.Context, exam *models.Exam) error {
	exam.ID = 1
	f.created = exam
	return nil
}

func (f *fakeExamRepo) Update(ctx context.Context, exam *models.Exam) error {
	f.updated = exam
	return nil
}

func (f *fakeExamRepo) Delete(ctx context.Context, id int) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeLessonOwnership struct {
	owners map[int]string
}

func (f *fakeLessonOwnership) OwnedBy(ctx context.Context, lessonID int, teacherID string) (bool, error) {
	return f.owners[lessonID] == teacherID, nil
}

func validExamRequest(lessonID int) models.ExamRequest {
	return models.ExamRequest{
		Title:     "Midterm",
		StartTime: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC),
		LessonID:  lessonID,
	}
}

func TestExamServiceCreateRejectsForeignLesson(t *testing.T) {
	repo := &fakeExamRepo{}
	lessons := &fakeLessonOwnership{owners: map[int]string{3: "teacher-2"}}
	svc := NewExamService(repo, lessons, nil, nil, 10)

	caller := scope.Caller{ID: "teacher-1", Role: scope.RoleTeacher}
	_, err := svc.Create(context.Background(), validExamRequest(3), caller)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.created)
}

func TestExamServiceCreateOwnLesson(t *testing.T) {
	repo := &fakeExamRepo{}
	lessons := &fakeLessonOwnership{owners: map[int]string{3: "teacher-1"}}
	svc := NewExamService(repo, lessons, nil, nil, 10)

	caller := scope.Caller{ID: "teacher-1", Role: scope.RoleTeacher}
	exam, err := svc.Create(context.Background(), validExamRequest(3), caller)
	require.NoError(t, err)
	assert.Equal(t, 1, exam.ID)
}

func TestExamServiceAdminBypassesOwnership(t *testing.T) {
	repo := &fakeExamRepo{}
	lessons := &fakeLessonOwnership{owners: map[int]string{3: "teacher-2"}}
	svc := NewExamService(repo, lessons, nil, nil, 10)

	caller := scope.Caller{ID: "admin-1", Role: scope.RoleAdmin}
	_, err := svc.Create(context.Background(), validExamRequest(3), caller)
	require.NoError(t, err)
}

func TestExamServiceUpdateChecksBothLessons(t *testing.T) {
	repo := &fakeExamRepo{exams: map[int]models.Exam{
		7: {ID: 7, Title: "Quiz", LessonID: 3},
	}}
	lessons := &fakeLessonOwnership{owners: map[int]string{3: "teacher-1", 4: "teacher-2"}}
	svc := NewExamService(repo, lessons, nil, nil, 10)

	caller := scope.Caller{ID: "teacher-1", Role: scope.RoleTeacher}
	_, err := svc.Update(context.Background(), 7, validExamRequest(4), caller)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.updated)
}

func TestExamServiceDeleteRejectsForeignExam(t *testing.T) {
	repo := &fakeExamRepo{exams: map[int]models.Exam{
		7: {ID: 7, Title: "Quiz", LessonID: 3},
	}}
	lessons := &fakeLessonOwnership{owners: map[int]string{3: "teacher-2"}}
	svc := NewExamService(repo, lessons, nil, nil, 10)

	caller := scope.Caller{ID: "teacher-1", Role: scope.RoleTeacher}
	err := svc.Delete(context.Background(), 7, caller)
	require.Error(t, err)
	assert.Empty(t, repo.deleted)
}
