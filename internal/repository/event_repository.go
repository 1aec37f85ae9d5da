package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/schoolsync/school-admin-api/internal/models"
	"github.com/schoolsync/school-admin-api/internal/scope"
)

// EventRepository manages persistence for calendar events.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventListBase = `FROM events ev
    LEFT JOIN classes c ON c.id = ev.class_id`

const eventListColumns = `ev.id, ev.title, ev.description, ev.start_time, ev.end_time, ev.class_id, c.name AS class_name`

// List returns events visible to the caller, soonest first.
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter, caller scope.Caller, page models.PageRequest) ([]models.EventRow, int, error) {
	explicit := make([]scope.Predicate, 0, 1)
	if filter.Search != "" {
		explicit = append(explicit, scope.Cond("LOWER(ev.title) LIKE ?", likeTerm(filter.Search)))
	}

	where := scope.Merge(scope.And(explicit...), scope.For(scope.EntityEvent, caller), caller.Role)

	countQuery := "SELECT COUNT(*) " + eventListBase + " WHERE " + where.SQL()
	pageQuery := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY ev.start_time LIMIT %d OFFSET %d",
		eventListColumns, eventListBase, where.SQL(), page.Size, page.Offset())

	var rows []models.EventRow
	total, err := fetchPage(ctx, r.db, &rows, countQuery, pageQuery, where.Args(), where.Args())
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return rows, total, nil
}

// FindByID fetches a single event the caller is allowed to see. A row
// outside the caller's read scope reads as absent.
func (r *EventRepository) FindByID(ctx context.Context, id int, caller scope.Caller) (*models.Event, error) {
	where := scope.Merge(scope.Cond("ev.id = ?", id), scope.For(scope.EntityEvent, caller), caller.Role)
	query := sqlx.Rebind(sqlx.DOLLAR,
		"SELECT ev.id, ev.title, ev.description, ev.start_time, ev.end_time, ev.class_id FROM events ev WHERE "+where.SQL())
	var event models.Event
	if err := r.db.GetContext(ctx, &event, query, where.Args()...); err != nil {
		return nil, err
	}
	return &event, nil
}

// Create inserts a new event.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	const query = `INSERT INTO events (title, description, start_time, end_time, class_id)
        VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.GetContext(ctx, &event.ID, query,
		event.Title, event.Description, event.StartTime, event.EndTime, event.ClassID); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// Update modifies an existing event.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	const query = `UPDATE events SET title = :title, description = :description, start_time = :start_time,
        end_time = :end_time, class_id = :class_id WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

// Delete removes an event.
func (r *EventRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}
