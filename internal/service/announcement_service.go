package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolsync/school-admin-api/internal/models"
	"github.com/schoolsync/school-admin-api/internal/scope"
	appErrors "github.com/schoolsync/school-admin-api/pkg/errors"
)

type announcementRepository interface {
	List(ctx context.Context, filter models.AnnouncementFilter, caller scope.Caller, page models.PageRequest) ([]models.AnnouncementRow, int, error)
	FindByID(ctx context.Context, id int, caller scope.Caller) (*models.Announcement, error)
	Create(ctx context.Context, ann *models.Announcement) error
	Update(ctx context.Context, ann *models.Announcement) error
	Delete(ctx context.Context, id int) error
}

type announcementPage struct {
	Rows       []models.AnnouncementRow `json:"rows"`
	Pagination models.Pagination        `json:"pagination"`
}

// AnnouncementService orchestrates announcements. Lists are cached per
// caller scope so one role's rows never leak into another's.
type AnnouncementService struct {
	repo      announcementRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	pageSize  int
}

// NewAnnouncementService constructs an AnnouncementService.
func NewAnnouncementService(repo announcementRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger, pageSize int) *AnnouncementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnnouncementService{repo: repo, cache: cache, validator: validate, logger: logger, pageSize: pageSize}
}

// List returns the announcements visible to the caller. The bool reports
// whether the page came from cache.
func (s *AnnouncementService) List(ctx context.Context, filter models.AnnouncementFilter, caller scope.Caller) ([]models.AnnouncementRow, *models.Pagination, bool, error) {
	page := models.NewPageRequest(filter.Page, s.pageSize)
	key := fmt.Sprintf("announcements:%s:%s:search=%s:page=%d", caller.Role, caller.ID, filter.Search, page.Number)

	var cached announcementPage
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		pagination := cached.Pagination
		return cached.Rows, &pagination, true, nil
	}

	rows, total, err := s.repo.List(ctx, filter, caller, page)
	if err != nil {
		return nil, nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list announcements")
	}
	pagination := &models.Pagination{Page: page.Number, PageSize: page.Size, TotalCount: total}

	if err := s.cache.Set(ctx, key, announcementPage{Rows: rows, Pagination: *pagination}, 0); err != nil {
		s.logger.Warn("failed to cache announcement page", zap.Error(err))
	}
	return rows, pagination, false, nil
}

// Get returns an announcement by id. A record outside the caller's read
// scope reports as not found.
func (s *AnnouncementService) Get(ctx context.Context, id int, caller scope.Caller) (*models.Announcement, error) {
	ann, err := s.repo.FindByID(ctx, id, caller)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load announcement")
	}
	return ann, nil
}

// Create publishes a new announcement and drops cached pages.
func (s *AnnouncementService) Create(ctx context.Context, req models.AnnouncementRequest) (*models.Announcement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid announcement payload")
	}

	ann := &models.Announcement{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		ClassID:     req.ClassID,
	}
	if err := s.repo.Create(ctx, ann); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create announcement")
	}
	s.invalidate(ctx)
	return ann, nil
}

// Update modifies an announcement and drops cached pages.
func (s *AnnouncementService) Update(ctx context.Context, id int, req models.AnnouncementRequest, caller scope.Caller) (*models.Announcement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid announcement payload")
	}
	if _, err := s.Get(ctx, id, caller); err != nil {
		return nil, err
	}

	ann := &models.Announcement{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		ClassID:     req.ClassID,
	}
	if err := s.repo.Update(ctx, ann); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update announcement")
	}
	s.invalidate(ctx)
	return ann, nil
}

// Delete removes an announcement and drops cached pages.
func (s *AnnouncementService) Delete(ctx context.Context, id int, caller scope.Caller) error {
	if _, err := s.Get(ctx, id, caller); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete announcement")
	}
	s.invalidate(ctx)
	return nil
}

func (s *AnnouncementService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, "announcements:*"); err != nil {
		s.logger.Warn("failed to invalidate announcement cache", zap.Error(err))
	}
}
