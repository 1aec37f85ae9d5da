package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolsync/school-admin-api/internal/identity"
	"github.com/schoolsync/school-admin-api/internal/models"
	"github.com/schoolsync/school-admin-api/internal/scope"
	appErrors "github.com/schoolsync/school-admin-api/pkg/errors"
)

type teacherRepository interface {
	List(ctx context.Context, filter models.TeacherFilter, caller scope.Caller, page models.PageRequest) ([]models.TeacherRow, int, error)
	FindByID(ctx context.Context, id string, caller scope.Caller) (*models.TeacherRow, error)
	Create(ctx context.Context, teacher *models.Teacher, subjectIDs []int) error
	Update(ctx context.Context, teacher *models.Teacher, subjectIDs []int) error
	Delete(ctx context.Context, id string) error
}

// TeacherService orchestrates teacher roster operations. Accounts live at
// the identity provider; the local row is keyed by the provider's user id.
type TeacherService struct {
	repo      teacherRepository
	provider  identity.Provider
	validator *validator.Validate
	logger    *zap.Logger
	pageSize  int
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(repo teacherRepository, provider identity.Provider, validate *validator.Validate, logger *zap.Logger, pageSize int) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, provider: provider, validator: validate, logger: logger, pageSize: pageSize}
}

// List returns the teachers visible to the caller plus pagination data.
func (s *TeacherService) List(ctx context.Context, filter models.TeacherFilter, caller scope.Caller) ([]models.TeacherRow, *models.Pagination, error) {
	page := models.NewPageRequest(filter.Page, s.pageSize)
	rows, total, err := s.repo.List(ctx, filter, caller, page)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	pagination := &models.Pagination{Page: page.Number, PageSize: page.Size, TotalCount: total}
	return rows, pagination, nil
}

// Get returns a teacher by id. A record outside the caller's read scope
// reports as not found.
func (s *TeacherService) Get(ctx context.Context, id string, caller scope.Caller) (*models.TeacherRow, error) {
	teacher, err := s.repo.FindByID(ctx, id, caller)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	return teacher, nil
}

// Create provisions the identity account and then inserts the roster row.
// When the insert fails the freshly created account is removed again so
// the provider does not accumulate orphans.
func (s *TeacherService) Create(ctx context.Context, req models.TeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid teacher payload")
	}
	if req.Password == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "password is required")
	}

	account, err := s.provider.CreateUser(ctx, identity.CreateUserParams{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.Name,
		LastName:  req.Surname,
		Role:      string(scope.RoleTeacher),
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrIdentityProvider.Code, appErrors.ErrIdentityProvider.Status, "failed to provision teacher account")
	}

	teacher := &models.Teacher{
		ID:        account.ID,
		Username:  req.Username,
		Name:      req.Name,
		Surname:   req.Surname,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		Img:       req.Img,
		BloodType: req.BloodType,
		Sex:       req.Sex,
		Birthday:  req.Birthday,
	}

	if err := s.repo.Create(ctx, teacher, req.SubjectIDs); err != nil {
		if delErr := s.provider.DeleteUser(ctx, account.ID); delErr != nil && !errors.Is(delErr, identity.ErrNotFound) {
			s.logger.Error("failed to roll back identity account",
				zap.String("id", account.ID), zap.Error(delErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher")
	}

	return teacher, nil
}

// Update modifies the identity account and the roster row.
func (s *TeacherService) Update(ctx context.Context, id string, req models.TeacherRequest, caller scope.Caller) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid teacher payload")
	}

	existing, err := s.Get(ctx, id, caller)
	if err != nil {
		return nil, err
	}

	if _, err := s.provider.UpdateUser(ctx, id, identity.UpdateUserParams{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.Name,
		LastName:  req.Surname,
	}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrIdentityProvider.Code, appErrors.ErrIdentityProvider.Status, "failed to update teacher account")
	}

	teacher := &models.Teacher{
		ID:        id,
		Username:  req.Username,
		Name:      req.Name,
		Surname:   req.Surname,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		Img:       req.Img,
		BloodType: req.BloodType,
		Sex:       req.Sex,
		Birthday:  req.Birthday,
		CreatedAt: existing.CreatedAt,
	}

	if err := s.repo.Update(ctx, teacher, req.SubjectIDs); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update teacher")
	}
	return teacher, nil
}

// Delete removes the identity account and the roster row. A provider
// account that is already gone does not fail the removal.
func (s *TeacherService) Delete(ctx context.Context, id string, caller scope.Caller) error {
	if _, err := s.Get(ctx, id, caller); err != nil {
		return err
	}

	if err := s.provider.DeleteUser(ctx, id); err != nil && !errors.Is(err, identity.ErrNotFound) {
		return appErrors.Wrap(err, appErrors.ErrIdentityProvider.Code, appErrors.ErrIdentityProvider.Status, "failed to delete teacher account")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete teacher")
	}
	return nil
}
