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

type lessonRepository interface {
	List(ctx context.Context, filter models.LessonFilter, caller scope.Caller, page models.PageRequest) ([]models.LessonRow, int, error)
	FindByID(ctx context.Context, id int, caller scope.Caller) (*models.Lesson, error)
	OwnedBy(ctx context.Context, lessonID int, teacherID string) (bool, error)
	Create(ctx context.Context, lesson *models.Lesson) error
	Update(ctx context.Context, lesson *models.Lesson) error
	Delete(ctx context.Context, id int) error
}

// LessonService orchestrates lesson operations.
type LessonService struct {
	repo      lessonRepository
	validator *validator.Validate
	logger    *zap.Logger
	pageSize  int
}

// NewLessonService constructs a LessonService.
func NewLessonService(repo lessonRepository, validate *validator.Validate, logger *zap.Logger, pageSize int) *LessonService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LessonService{repo: repo, validator: validate, logger: logger, pageSize: pageSize}
}

// List returns the lessons visible to the caller plus pagination data.
func (s *LessonService) List(ctx context.Context, filter models.LessonFilter, caller scope.Caller) ([]models.LessonRow, *models.Pagination, error) {
	page := models.NewPageRequest(filter.Page, s.pageSize)
	rows, total, err := s.repo.List(ctx, filter, caller, page)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
	}
	pagination := &models.Pagination{Page: page.Number, PageSize: page.Size, TotalCount: total}
	return rows, pagination, nil
}

// Get returns a lesson by id. A record outside the caller's read scope
// reports as not found.
func (s *LessonService) Get(ctx context.Context, id int, caller scope.Caller) (*models.Lesson, error) {
	lesson, err := s.repo.FindByID(ctx, id, caller)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
	}
	return lesson, nil
}

// Create registers a new lesson.
func (s *LessonService) Create(ctx context.Context, req models.LessonRequest) (*models.Lesson, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid lesson payload")
	}

	lesson := &models.Lesson{
		Name:      req.Name,
		Day:       req.Day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		SubjectID: req.SubjectID,
		ClassID:   req.ClassID,
		TeacherID: req.TeacherID,
	}
	if err := s.repo.Create(ctx, lesson); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create lesson")
	}
	return lesson, nil
}

// Update modifies an existing lesson.
func (s *LessonService) Update(ctx context.Context, id int, req models.LessonRequest, caller scope.Caller) (*models.Lesson, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid lesson payload")
	}
	if _, err := s.Get(ctx, id, caller); err != nil {
		return nil, err
	}

	lesson := &models.Lesson{
		ID:        id,
		Name:      req.Name,
		Day:       req.Day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		SubjectID: req.SubjectID,
		ClassID:   req.ClassID,
		TeacherID: req.TeacherID,
	}
	if err := s.repo.Update(ctx, lesson); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update lesson")
	}
	return lesson, nil
}

// Delete removes a lesson.
func (s *LessonService) Delete(ctx context.Context, id int, caller scope.Caller) error {
	if _, err := s.Get(ctx, id, caller); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete lesson")
	}
	return nil
}
