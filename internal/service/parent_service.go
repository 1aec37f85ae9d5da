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

type parentRepository interface {
	List(ctx context.Context, filter models.ParentFilter, caller scope.Caller, page models.PageRequest) ([]models.ParentRow, int, error)
	FindByID(ctx context.Context, id string, caller scope.Caller) (*models.ParentRow, error)
	Create(ctx context.Context, parent *models.Parent) error
	Update(ctx context.Context, parent *models.Parent) error
	Delete(ctx context.Context, id string) error
}

// ParentService orchestrates parent roster operations.
type ParentService struct {
	repo      parentRepository
	provider  identity.Provider
	validator *validator.Validate
	logger    *zap.Logger
	pageSize  int
}

// NewParentService constructs a ParentService.
func NewParentService(repo parentRepository, provider identity.Provider, validate *validator.Validate, logger *zap.Logger, pageSize int) *ParentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParentService{repo: repo, provider: provider, validator: validate, logger: logger, pageSize: pageSize}
}

// List returns the parents visible to the caller plus pagination data.
func (s *ParentService) List(ctx context.Context, filter models.ParentFilter, caller scope.Caller) ([]models.ParentRow, *models.Pagination, error) {
	page := models.NewPageRequest(filter.Page, s.pageSize)
	rows, total, err := s.repo.List(ctx, filter, caller, page)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list parents")
	}
	pagination := &models.Pagination{Page: page.Number, PageSize: page.Size, TotalCount: total}
	return rows, pagination, nil
}

// Get returns a parent by id. A record outside the caller's read scope
// reports as not found.
func (s *ParentService) Get(ctx context.Context, id string, caller scope.Caller) (*models.ParentRow, error) {
	parent, err := s.repo.FindByID(ctx, id, caller)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "parent not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load parent")
	}
	return parent, nil
}

// Create provisions the identity account and inserts the roster row.
func (s *ParentService) Create(ctx context.Context, req models.ParentRequest) (*models.Parent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid parent payload")
	}
	if req.Password == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "password is required")
	}

	account, err := s.provider.CreateUser(ctx, identity.CreateUserParams{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.Name,
		LastName:  req.Surname,
		Role:      string(scope.RoleParent),
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrIdentityProvider.Code, appErrors.ErrIdentityProvider.Status, "failed to provision parent account")
	}

	parent := &models.Parent{
		ID:       account.ID,
		Username: req.Username,
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
	}

	if err := s.repo.Create(ctx, parent); err != nil {
		if delErr := s.provider.DeleteUser(ctx, account.ID); delErr != nil && !errors.Is(delErr, identity.ErrNotFound) {
			s.logger.Error("failed to roll back identity account",
				zap.String("id", account.ID), zap.Error(delErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create parent")
	}

	return parent, nil
}

// Update modifies the identity account and the roster row.
func (s *ParentService) Update(ctx context.Context, id string, req models.ParentRequest, caller scope.Caller) (*models.Parent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid parent payload")
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
		return nil, appErrors.Wrap(err, appErrors.ErrIdentityProvider.Code, appErrors.ErrIdentityProvider.Status, "failed to update parent account")
	}

	parent := &models.Parent{
		ID:        id,
		Username:  req.Username,
		Name:      req.Name,
		Surname:   req.Surname,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		CreatedAt: existing.CreatedAt,
	}

	if err := s.repo.Update(ctx, parent); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update parent")
	}
	return parent, nil
}

// Delete removes the identity account and the roster row.
func (s *ParentService) Delete(ctx context.Context, id string, caller scope.Caller) error {
	if _, err := s.Get(ctx, id, caller); err != nil {
		return err
	}

	if err := s.provider.DeleteUser(ctx, id); err != nil && !errors.Is(err, identity.ErrNotFound) {
		return appErrors.Wrap(err, appErrors.ErrIdentityProvider.Code, appErrors.ErrIdentityProvider.Status, "failed to delete parent account")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete parent")
	}
	return nil
}
