package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolsync/school-admin-api/internal/models"
	"github.com/schoolsync/school-admin-api/internal/scope"
	appErrors "github.com/schoolsync/school-admin-api/pkg/errors"
	"github.com/schoolsync/school-admin-api/pkg/export"
)

type fakeResultRepo struct {
	results map[int]models.Result
	records []models.ResultRecord
	owners  map[int]string
	created *models.Result
}

func (f *fakeResultRepo) List(ctx context.Context, filter models.ResultFilter, caller scope.Caller, page models.PageRequest) ([]models.ResultRecord, int, error) {
	return f.records, len(f.records), nil
}

func (f *fakeResultRepo) ListAll(ctx context.Context, filter models.ResultFilter, caller scope.Caller) ([]models.ResultRecord, error) {
	return f.records, nil
}

func (f *fakeResultRepo) FindByID(ctx context.Context, id int, caller scope.Caller) (*models.Result, error) {
	if caller.Role == scope.RoleAnonymous {
		return nil, sql.ErrNoRows
	}
	if r, ok := f.results[id]; ok {
		return &r, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeResultRepo) AssessmentOwnedBy(ctx context.Context, examID, assignmentID *int, teacherID string) (bool, error) {
	if examID != nil {
		return f.owners[*examID] == teacherID, nil
	}
	if assignmentID != nil {
		return f.owners[*assignmentID] == teacherID, nil
	}
	return false, nil
}

func (f *fakeResultRepo) Create(ctx context.Context, result *models.Result) error {
	result.ID = 1
	f.created = result
	return nil
}

func (f *fakeResultRepo) Update(ctx context.Context, result *models.Result) error { return nil }
func (f *fakeResultRepo) Delete(ctx context.Context, id int) error                { return nil }

func examRecord(id int) models.ResultRecord {
	return models.ResultRecord{
		ID:             id,
		Score:          88,
		StudentID:      "stu-1",
		StudentName:    "Alex",
		StudentSurname: "Kid",
		ExamID:         sql.NullInt64{Int64: 4, Valid: true},
		ExamTitle:      sql.NullString{String: "Midterm", Valid: true},
		ExamStartTime:  sql.NullTime{Time: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), Valid: true},
		ExamClassName:  sql.NullString{String: "1A", Valid: true},
	}
}

func TestResultServiceCreateRejectsBothReferences(t *testing.T) {
	svc := NewResultService(&fakeResultRepo{}, export.NewCSVExporter(), export.NewPDFExporter(), nil, nil, 10)

	examID, assignmentID := 4, 9
	req := models.ResultRequest{Score: 80, ExamID: &examID, AssignmentID: &assignmentID, StudentID: "stu-1"}
	_, err := svc.Create(context.Background(), req, scope.Caller{ID: "admin-1", Role: scope.RoleAdmin})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestResultServiceCreateRejectsNeitherReference(t *testing.T) {
	svc := NewResultService(&fakeResultRepo{}, export.NewCSVExporter(), export.NewPDFExporter(), nil, nil, 10)

	req := models.ResultRequest{Score: 80, StudentID: "stu-1"}
	_, err := svc.Create(context.Background(), req, scope.Caller{ID: "admin-1", Role: scope.RoleAdmin})
	require.Error(t, err)
}

func TestResultServiceCreateTeacherOwnershipEnforced(t *testing.T) {
	repo := &fakeResultRepo{owners: map[int]string{4: "teacher-2"}}
	svc := NewResultService(repo, export.NewCSVExporter(), export.NewPDFExporter(), nil, nil, 10)

	examID := 4
	req := models.ResultRequest{Score: 80, ExamID: &examID, StudentID: "stu-1"}
	_, err := svc.Create(context.Background(), req, scope.Caller{ID: "teacher-1", Role: scope.RoleTeacher})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.created)
}

func TestResultServiceListDropsOrphanRecords(t *testing.T) {
	repo := &fakeResultRepo{records: []models.ResultRecord{
		examRecord(1),
		{ID: 2, Score: 50, StudentID: "stu-2"},
	}}
	svc := NewResultService(repo, export.NewCSVExporter(), export.NewPDFExporter(), nil, nil, 10)

	rows, _, err := svc.List(context.Background(), models.ResultFilter{}, scope.Caller{ID: "admin-1", Role: scope.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.AssessmentExam, rows[0].Kind)
	assert.Equal(t, "Midterm", rows[0].Title)
}

func TestResultServiceExportCSV(t *testing.T) {
	repo := &fakeResultRepo{records: []models.ResultRecord{examRecord(1)}}
	svc := NewResultService(repo, export.NewCSVExporter(), export.NewPDFExporter(), nil, nil, 10)

	payload, contentType, err := svc.Export(context.Background(), models.ResultFilter{}, scope.Caller{ID: "admin-1", Role: scope.RoleAdmin}, ExportCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	body := string(payload)
	assert.True(t, strings.Contains(body, "Midterm"))
	assert.True(t, strings.Contains(body, "Alex Kid"))
}

func TestResultServiceExportUnknownFormat(t *testing.T) {
	svc := NewResultService(&fakeResultRepo{}, export.NewCSVExporter(), export.NewPDFExporter(), nil, nil, 10)

	_, _, err := svc.Export(context.Background(), models.ResultFilter{}, scope.Caller{ID: "admin-1", Role: scope.RoleAdmin}, ExportFormat("xml"))
	require.Error(t, err)
}
