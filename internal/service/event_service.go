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

type eventRepository interface {
	List(ctx context.Context, filter models.EventFilter, caller scope.Caller, page models.PageRequest) ([]models.EventRow, int, error)
	FindByID(ctx context.Context, id int, caller scope.Caller) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id int) error
}

type eventPage struct {
	Rows       []models.EventRow `json:"rows"`
	Pagination models.Pagination `json:"pagination"`
}

// EventService orchestrates calendar events with the same per-scope list
// caching as announcements.
type EventService struct {
	repo      eventRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	pageSize  int
}

// NewEventService constructs an EventService.
func NewEventService(repo eventRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger, pageSize int) *EventService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{repo: repo, cache: cache, validator: validate, logger: logger, pageSize: pageSize}
}

// List returns the events visible to the caller. The bool reports whether
// the page came from cache.
func (s *EventService) List(ctx context.Context, filter models.EventFilter, caller scope.Caller) ([]models.EventRow, *models.Pagination, bool, error) {
	page := models.NewPageRequest(filter.Page, s.pageSize)
	key := fmt.Sprintf("events:%s:%s:search=%s:page=%d", caller.Role, caller.ID, filter.Search, page.Number)

	var cached eventPage
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		pagination := cached.Pagination
		return cached.Rows, &pagination, true, nil
	}

	rows, total, err := s.repo.List(ctx, filter, caller, page)
	if err != nil {
		return nil, nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}
	pagination := &models.Pagination{Page: page.Number, PageSize: page.Size, TotalCount: total}

	if err := s.cache.Set(ctx, key, eventPage{Rows: rows, Pagination: *pagination}, 0); err != nil {
		s.logger.Warn("failed to cache event page", zap.Error(err))
	}
	return rows, pagination, false, nil
}

// Get returns an event by id. A record outside the caller's read scope
// reports as not found.
func (s *EventService) Get(ctx context.Context, id int, caller scope.Caller) (*models.Event, error) {
	event, err := s.repo.FindByID(ctx, id, caller)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	return event, nil
}

// Create publishes a new event and drops cached pages.
func (s *EventService) Create(ctx context.Context, req models.EventRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid event payload")
	}

	event := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		ClassID:     req.ClassID,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create event")
	}
	s.invalidate(ctx)
	return event, nil
}

// Update modifies an event and drops cached pages.
func (s *EventService) Update(ctx context.Context, id int, req models.EventRequest, caller scope.Caller) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid event payload")
	}
	if _, err := s.Get(ctx, id, caller); err != nil {
		return nil, err
	}

	event := &models.Event{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		ClassID:     req.ClassID,
	}
	if err := s.repo.Update(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update event")
	}
	s.invalidate(ctx)
	return event, nil
}

// Delete removes an event and drops cached pages.
func (s *EventService) Delete(ctx context.Context, id int, caller scope.Caller) error {
	if _, err := s.Get(ctx, id, caller); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete event")
	}
	s.invalidate(ctx)
	return nil
}

func (s *EventService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, "events:*"); err != nil {
		s.logger.Warn("failed to invalidate event cache", zap.Error(err))
	}
}
