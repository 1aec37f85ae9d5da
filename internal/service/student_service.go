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

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter, caller scope.Caller, page models.PageRequest) ([]models.StudentRow, int, error)
	FindByID(ctx context.Context, id string, caller scope.Caller) (*models.StudentRow, error)
	ClassSeats(ctx context.Context, classID int) (capacity, enrolled int, err error)
	Create(ctx context.Context, student *models.Student) (bool, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

// StudentService orchestrates student roster operations.
type StudentService struct {
	repo      studentRepository
	provider  identity.Provider
	validator *validator.Validate
	logger    *zap.Logger
	pageSize  int
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, provider identity.Provider, validate *validator.Validate, logger *zap.Logger, pageSize int) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, provider: provider, validator: validate, logger: logger, pageSize: pageSize}
}

// List returns the students visible to the caller plus pagination data.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter, caller scope.Caller) ([]models.StudentRow, *models.Pagination, error) {
	page := models.NewPageRequest(filter.Page, s.pageSize)
	rows, total, err := s.repo.List(ctx, filter, caller, page)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	pagination := &models.Pagination{Page: page.Number, PageSize: page.Size, TotalCount: total}
	return rows, pagination, nil
}

// Get returns a student by id. A record outside the caller's read scope
// reports as not found.
func (s *StudentService) Get(ctx context.Context, id string, caller scope.Caller) (*models.StudentRow, error) {
	student, err := s.repo.FindByID(ctx, id, caller)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create enrols a student. The class capacity is checked before the
// identity account is provisioned so an obviously full class costs no
// provider round trip, and enforced again inside the insert itself so a
// concurrent enrolment cannot claim the same last seat.
func (s *StudentService) Create(ctx context.Context, req models.StudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid student payload")
	}
	if req.Password == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "password is required")
	}

	capacity, enrolled, err := s.repo.ClassSeats(ctx, req.ClassID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check class capacity")
	}
	if enrolled >= capacity {
		return nil, appErrors.Clone(appErrors.ErrClassFull, "")
	}

	account, err := s.provider.CreateUser(ctx, identity.CreateUserParams{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.Name,
		LastName:  req.Surname,
		Role:      string(scope.RoleStudent),
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrIdentityProvider.Code, appErrors.ErrIdentityProvider.Status, "failed to provision student account")
	}

	student := &models.Student{
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
		GradeID:   req.GradeID,
		ClassID:   req.ClassID,
		ParentID:  req.ParentID,
	}

	inserted, err := s.repo.Create(ctx, student)
	if err != nil || !inserted {
		if delErr := s.provider.DeleteUser(ctx, account.ID); delErr != nil && !errors.Is(delErr, identity.ErrNotFound) {
			s.logger.Error("failed to roll back identity account",
				zap.String("id", account.ID), zap.Error(delErr))
		}
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
		}
		return nil, appErrors.Clone(appErrors.ErrClassFull, "")
	}

	return student, nil
}

// Update modifies the identity account and the roster row.
func (s *StudentService) Update(ctx context.Context, id string, req models.StudentRequest, caller scope.Caller) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid student payload")
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
		return nil, appErrors.Wrap(err, appErrors.ErrIdentityProvider.Code, appErrors.ErrIdentityProvider.Status, "failed to update student account")
	}

	student := &models.Student{
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
		GradeID:   req.GradeID,
		ClassID:   req.ClassID,
		ParentID:  req.ParentID,
		CreatedAt: existing.CreatedAt,
	}

	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return student, nil
}

// Delete removes the identity account and the roster row.
func (s *StudentService) Delete(ctx context.Context, id string, caller scope.Caller) error {
	if _, err := s.Get(ctx, id, caller); err != nil {
		return err
	}

	if err := s.provider.DeleteUser(ctx, id); err != nil && !errors.Is(err, identity.ErrNotFound) {
		return appErrors.Wrap(err, appErrors.ErrIdentityProvider.Code, appErrors.ErrIdentityProvider.Status, "failed to delete student account")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	return nil
}
