package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolsync/school-admin-api/internal/models"
	"github.com/schoolsync/school-admin-api/internal/scope"
	appErrors "github.com/schoolsync/school-admin-api/pkg/errors"
)

type examRepository interface {
	List(ctx context.Context, filter models.ExamFilter, caller scope.Caller, page models.PageRequest) ([]models.ExamRow, int, error)
	FindByID(ctx context.Context, id int, caller scope.Caller) (*models.Exam, error)
	Create(ctx context.Context, exam *models.Exam) error
	Update(ctx context.Context, exam *models.Exam) error
	Delete(ctx context.Context, id int) error
}

type lessonOwnership interface {
	OwnedBy(ctx context.Context, lessonID int, teacherID string) (bool, error)
}

// ExamService orchestrates exam operations. Teachers may only manage exams
// attached to their own lessons; admins manage any.
type ExamService struct {
	repo      examRepository
	lessons   lessonOwnership
	validator *validator.Validate
	logger    *zap.Logger
	pageSize  int
}

// NewExamService constructs an ExamService.
func NewExamService(repo examRepository, lessons lessonOwnership, validate *validator.Validate, logger *zap.Logger, pageSize int) *ExamService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExamService{repo: repo, lessons: lessons, validator: validate, logger: logger, pageSize: pageSize}
}

// List returns the exams visible to the caller plus pagination data.
func (s *ExamService) List(ctx context.Context, filter models.ExamFilter, caller scope.Caller) ([]models.ExamRow, *models.Pagination, error) {
	page := models.NewPageRequest(filter.Page, s.pageSize)
	rows, total, err := s.repo.List(ctx, filter, caller, page)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list exams")
	}
	pagination := &models.Pagination{Page: page.Number, PageSize: page.Size, TotalCount: total}
	return rows, pagination, nil
}

// Get returns an exam by id. A record outside the caller's read scope
// reports as not found.
func (s *ExamService) Get(ctx context.Context, id int, caller scope.Caller) (*models.Exam, error) {
	exam, err := s.repo.FindByID(ctx, id, caller)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam")
	}
	return exam, nil
}

// Create registers a new exam after checking the caller owns the lesson.
func (s *ExamService) Create(ctx context.Context, req models.ExamRequest, caller scope.Caller) (*models.Exam, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid exam payload")
	}
	if err := s.ensureLessonOwnership(ctx, req.LessonID, caller); err != nil {
		return nil, err
	}

	exam := &models.Exam{
		Title:     req.Title,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		LessonID:  req.LessonID,
	}
	if err := s.repo.Create(ctx, exam); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create exam")
	}
	return exam, nil
}

// Update modifies an exam. Teachers must own both the exam's current
// lesson and the requested one.
func (s *ExamService) Update(ctx context.Context, id int, req models.ExamRequest, caller scope.Caller) (*models.Exam, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid exam payload")
	}

	existing, err := s.Get(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	if err := s.ensureLessonOwnership(ctx, existing.LessonID, caller); err != nil {
		return nil, err
	}
	if req.LessonID != existing.LessonID {
		if err := s.ensureLessonOwnership(ctx, req.LessonID, caller); err != nil {
			return nil, err
		}
	}

	exam := &models.Exam{
		ID:        id,
		Title:     req.Title,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		LessonID:  req.LessonID,
	}
	if err := s.repo.Update(ctx, exam); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update exam")
	}
	return exam, nil
}

// Delete removes an exam after checking lesson ownership.
func (s *ExamService) Delete(ctx context.Context, id int, caller scope.Caller) error {
	existing, err := s.Get(ctx, id, caller)
	if err != nil {
		return err
	}
	if err := s.ensureLessonOwnership(ctx, existing.LessonID, caller); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete exam")
	}
	return nil
}

func (s *ExamService) ensureLessonOwnership(ctx context.Context, lessonID int, caller scope.Caller) error {
	if caller.Role == scope.RoleAdmin {
		return nil
	}
	owned, err := s.lessons.OwnedBy(ctx, lessonID, caller.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check lesson ownership")
	}
	if !owned {
		return appErrors.Clone(appErrors.ErrForbidden, "lesson belongs to another teacher")
	}
	return nil
}
