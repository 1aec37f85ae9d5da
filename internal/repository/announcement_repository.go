package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/schoolsync/school-admin-api/internal/models"
	"github.com/schoolsync/school-admin-api/internal/scope"
)

// AnnouncementRepository manages persistence for announcements.
type AnnouncementRepository struct {
	db *sqlx.DB
}

// NewAnnouncementRepository constructs an AnnouncementRepository.
func NewAnnouncementRepository(db *sqlx.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

const announcementListBase = `FROM announcements a
    LEFT JOIN classes c ON c.id = a.class_id`

const announcementListColumns = `a.id, a.title, a.description, a.date, a.class_id, c.name AS class_name`

// List returns announcements visible to the caller, newest first.
func (r *AnnouncementRepository) List(ctx context.Context, filter models.AnnouncementFilter, caller scope.Caller, page models.PageRequest) ([]models.AnnouncementRow, int, error) {
	explicit := make([]scope.Predicate, 0, 1)
	if filter.Search != "" {
		explicit = append(explicit, scope.Cond("LOWER(a.title) LIKE ?", likeTerm(filter.Search)))
	}

	where := scope.Merge(scope.And(explicit...), scope.For(scope.EntityAnnouncement, caller), caller.Role)

	countQuery := "SELECT COUNT(*) " + announcementListBase + " WHERE " + where.SQL()
	pageQuery := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY a.date DESC LIMIT %d OFFSET %d",
		announcementListColumns, announcementListBase, where.SQL(), page.Size, page.Offset())

	var rows []models.AnnouncementRow
	total, err := fetchPage(ctx, r.db, &rows, countQuery, pageQuery, where.Args(), where.Args())
	if err != nil {
		return nil, 0, fmt.Errorf("list announcements: %w", err)
	}
	return rows, total, nil
}

// FindByID fetches a single announcement the caller is allowed to see. A
// row outside the caller's read scope reads as absent.
func (r *AnnouncementRepository) FindByID(ctx context.Context, id int, caller scope.Caller) (*models.Announcement, error) {
	where := scope.Merge(scope.Cond("a.id = ?", id), scope.For(scope.EntityAnnouncement, caller), caller.Role)
	query := sqlx.Rebind(sqlx.DOLLAR,
		"SELECT a.id, a.title, a.description, a.date, a.class_id FROM announcements a WHERE "+where.SQL())
	var ann models.Announcement
	if err := r.db.GetContext(ctx, &ann, query, where.Args()...); err != nil {
		return nil, err
	}
	return &ann, nil
}

// Create inserts a new announcement.
func (r *AnnouncementRepository) Create(ctx context.Context, ann *models.Announcement) error {
	const query = `INSERT INTO announcements (title, description, date, class_id)
        VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.GetContext(ctx, &ann.ID, query, ann.Title, ann.Description, ann.Date, ann.ClassID); err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}
	return nil
}

// Update modifies an existing announcement.
func (r *AnnouncementRepository) Update(ctx context.Context, ann *models.Announcement) error {
	const query = `UPDATE announcements SET title = :title, description = :description, date = :date,
        class_id = :class_id WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, ann); err != nil {
		return fmt.Errorf("update announcement: %w", err)
	}
	return nil
}

// Delete removes an announcement.
func (r *AnnouncementRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	return nil
}
