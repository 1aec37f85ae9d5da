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

type classRepository interface {
	List(ctx context.Context, filter models.ClassFilter, caller scope.Caller, page models.PageRequest) ([]models.ClassRow, int, error)
	FindByID(ctx context.Context, id int, caller scope.Caller) (*models.Class, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, id int) error
}

// ClassService orchestrates class operations.
type ClassService struct {
	repo      classRepository
	validator *validator.Validate
	logger    *zap.Logger
	pageSize  int
}

// NewClassService constructs a ClassService.
func NewClassService(repo classRepository, validate *validator.Validate, logger *zap.Logger, pageSize int) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{repo: repo, validator: validate, logger: logger, pageSize: pageSize}
}

// List returns the classes visible to the caller plus pagination data.
func (s *ClassService) List(ctx context.Context, filter models.ClassFilter, caller scope.Caller) ([]models.ClassRow, *models.Pagination, error) {
	page := models.NewPageRequest(filter.Page, s.pageSize)
	rows, total, err := s.repo.List(ctx, filter, caller, page)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	pagination := &models.Pagination{Page: page.Number, PageSize: page.Size, TotalCount: total}
	return rows, pagination, nil
}

// Get returns a class by id. A record outside the caller's read scope
// reports as not found.
func (s *ClassService) Get(ctx context.Context, id int, caller scope.Caller) (*models.Class, error) {
	class, err := s.repo.FindByID(ctx, id, caller)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return class, nil
}

// Create registers a new class.
func (s *ClassService) Create(ctx context.Context, req models.ClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid class payload")
	}

	class := &models.Class{
		Name:         req.Name,
		Capacity:     req.Capacity,
		GradeID:      req.GradeID,
		SupervisorID: req.SupervisorID,
	}
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}
	return class, nil
}

// Update modifies an existing class.
func (s *ClassService) Update(ctx context.Context, id int, req models.ClassRequest, caller scope.Caller) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid class payload")
	}
	if _, err := s.Get(ctx, id, caller); err != nil {
		return nil, err
	}

	class := &models.Class{
		ID:           id,
		Name:         req.Name,
		Capacity:     req.Capacity,
		GradeID:      req.GradeID,
		SupervisorID: req.SupervisorID,
	}
	if err := s.repo.Update(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class")
	}
	return class, nil
}

// Delete removes a class.
func (s *ClassService) Delete(ctx context.Context, id int, caller scope.Caller) error {
	if _, err := s.Get(ctx, id, caller); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete class")
	}
	return nil
}
