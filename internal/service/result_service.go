package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolsync/school-admin-api/internal/models"
	"github.com/schoolsync/school-admin-api/internal/scope"
	appErrors "github.com/schoolsync/school-admin-api/pkg/errors"
	"github.com/schoolsync/school-admin-api/pkg/export"
)

type resultRepository interface {
	List(ctx context.Context, filter models.ResultFilter, caller scope.Caller, page models.PageRequest) ([]models.ResultRecord, int, error)
	ListAll(ctx context.Context, filter models.ResultFilter, caller scope.Caller) ([]models.ResultRecord, error)
	FindByID(ctx context.Context, id int, caller scope.Caller) (*models.Result, error)
	AssessmentOwnedBy(ctx context.Context, examID, assignmentID *int, teacherID string) (bool, error)
	Create(ctx context.Context, result *models.Result) error
	Update(ctx context.Context, result *models.Result) error
	Delete(ctx context.Context, id int) error
}

// ExportFormat selects the rendering of a result export.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ResultService orchestrates result operations and exports.
type ResultService struct {
	repo      resultRepository
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validator *validator.Validate
	logger    *zap.Logger
	pageSize  int
}

// NewResultService constructs a ResultService.
func NewResultService(repo resultRepository, csv *export.CSVExporter, pdf *export.PDFExporter, validate *validator.Validate, logger *zap.Logger, pageSize int) *ResultService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultService{repo: repo, csv: csv, pdf: pdf, validator: validate, logger: logger, pageSize: pageSize}
}

// List returns the flattened result rows visible to the caller. Joined
// records pointing at neither assessment are dropped, not errored.
func (s *ResultService) List(ctx context.Context, filter models.ResultFilter, caller scope.Caller) ([]models.ResultRow, *models.Pagination, error) {
	page := models.NewPageRequest(filter.Page, s.pageSize)
	records, total, err := s.repo.List(ctx, filter, caller, page)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list results")
	}
	pagination := &models.Pagination{Page: page.Number, PageSize: page.Size, TotalCount: total}
	return models.BuildResultRows(records), pagination, nil
}

// Get returns a result by id. A record outside the caller's read scope
// reports as not found.
func (s *ResultService) Get(ctx context.Context, id int, caller scope.Caller) (*models.Result, error) {
	result, err := s.repo.FindByID(ctx, id, caller)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "result not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load result")
	}
	return result, nil
}

// Create records a score after checking the assessment reference and, for
// teachers, ownership of the underlying lesson.
func (s *ResultService) Create(ctx context.Context, req models.ResultRequest, caller scope.Caller) (*models.Result, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	if err := s.ensureOwnership(ctx, req.ExamID, req.AssignmentID, caller); err != nil {
		return nil, err
	}

	result := &models.Result{
		Score:        req.Score,
		ExamID:       req.ExamID,
		AssignmentID: req.AssignmentID,
		StudentID:    req.StudentID,
	}
	if err := s.repo.Create(ctx, result); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create result")
	}
	return result, nil
}

// Update modifies a result. Teachers must own both the current and the
// requested assessment.
func (s *ResultService) Update(ctx context.Context, id int, req models.ResultRequest, caller scope.Caller) (*models.Result, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	existing, err := s.Get(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	if err := s.ensureOwnership(ctx, existing.ExamID, existing.AssignmentID, caller); err != nil {
		return nil, err
	}
	if err := s.ensureOwnership(ctx, req.ExamID, req.AssignmentID, caller); err != nil {
		return nil, err
	}

	result := &models.Result{
		ID:           id,
		Score:        req.Score,
		ExamID:       req.ExamID,
		AssignmentID: req.AssignmentID,
		StudentID:    req.StudentID,
	}
	if err := s.repo.Update(ctx, result); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update result")
	}
	return result, nil
}

// Delete removes a result after checking assessment ownership.
func (s *ResultService) Delete(ctx context.Context, id int, caller scope.Caller) error {
	existing, err := s.Get(ctx, id, caller)
	if err != nil {
		return err
	}
	if err := s.ensureOwnership(ctx, existing.ExamID, existing.AssignmentID, caller); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete result")
	}
	return nil
}

// Export renders the caller's full scoped result set as CSV or PDF.
func (s *ResultService) Export(ctx context.Context, filter models.ResultFilter, caller scope.Caller, format ExportFormat) ([]byte, string, error) {
	records, err := s.repo.ListAll(ctx, filter, caller)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load results for export")
	}

	rows := models.BuildResultRows(records)
	table := export.Table{
		Title:   "Results",
		Columns: []string{"ID", "Title", "Kind", "Student", "Score", "Teacher", "Class", "Date"},
		Rows:    make([][]string, 0, len(rows)),
	}
	for _, row := range rows {
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(row.ID),
			row.Title,
			string(row.Kind),
			row.StudentName + " " + row.StudentSurname,
			strconv.Itoa(row.Score),
			row.TeacherName + " " + row.TeacherSurname,
			row.ClassName,
			row.Date.Format("2006-01-02"),
		})
	}

	switch format {
	case ExportCSV:
		payload, err := s.csv.Render(table)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return payload, "text/csv", nil
	case ExportPDF:
		payload, err := s.pdf.Render(table)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}

func (s *ResultService) validateRequest(req models.ResultRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Validation(err, "invalid result payload")
	}
	if (req.ExamID == nil) == (req.AssignmentID == nil) {
		return appErrors.Clone(appErrors.ErrValidation, "exactly one of exam_id and assignment_id must be set")
	}
	return nil
}

func (s *ResultService) ensureOwnership(ctx context.Context, examID, assignmentID *int, caller scope.Caller) error {
	if caller.Role == scope.RoleAdmin {
		return nil
	}
	owned, err := s.repo.AssessmentOwnedBy(ctx, examID, assignmentID, caller.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check assessment ownership")
	}
	if !owned {
		return appErrors.Clone(appErrors.ErrForbidden, "assessment belongs to another teacher")
	}
	return nil
}
