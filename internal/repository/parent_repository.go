package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/schoolsync/school-admin-api/internal/models"
	"github.com/schoolsync/school-admin-api/internal/scope"
)

// ParentRepository manages persistence for parent roster records.
type ParentRepository struct {
	db *sqlx.DB
}

// NewParentRepository constructs a ParentRepository.
func NewParentRepository(db *sqlx.DB) *ParentRepository {
	return &ParentRepository{db: db}
}

const parentListColumns = `p.id, p.username, p.name, p.surname, p.email, p.phone, p.address, p.created_at,
    COALESCE((SELECT array_agg(s.name ORDER BY s.name) FROM students s WHERE s.parent_id = p.id), '{}') AS student_names`

// List returns parents matching the filter.
func (r *ParentRepository) List(ctx context.Context, filter models.ParentFilter, caller scope.Caller, page models.PageRequest) ([]models.ParentRow, int, error) {
	explicit := make([]scope.Predicate, 0, 1)
	if filter.Search != "" {
		explicit = append(explicit, scope.Cond("LOWER(p.name) LIKE ?", likeTerm(filter.Search)))
	}

	where := scope.Merge(scope.And(explicit...), scope.For(scope.EntityParent, caller), caller.Role)

	countQuery := "SELECT COUNT(*) FROM parents p WHERE " + where.SQL()
	pageQuery := fmt.Sprintf("SELECT %s FROM parents p WHERE %s ORDER BY p.id LIMIT %d OFFSET %d",
		parentListColumns, where.SQL(), page.Size, page.Offset())

	var rows []models.ParentRow
	total, err := fetchPage(ctx, r.db, &rows, countQuery, pageQuery, where.Args(), where.Args())
	if err != nil {
		return nil, 0, fmt.Errorf("list parents: %w", err)
	}
	return rows, total, nil
}

// FindByID fetches a parent with their children's names, subject to the
// caller's read scope.
func (r *ParentRepository) FindByID(ctx context.Context, id string, caller scope.Caller) (*models.ParentRow, error) {
	where := scope.Merge(scope.Cond("p.id = ?", id), scope.For(scope.EntityParent, caller), caller.Role)
	query := sqlx.Rebind(sqlx.DOLLAR, fmt.Sprintf("SELECT %s FROM parents p WHERE %s", parentListColumns, where.SQL()))
	var row models.ParentRow
	if err := r.db.GetContext(ctx, &row, query, where.Args()...); err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts a parent row keyed by the external identity id.
func (r *ParentRepository) Create(ctx context.Context, parent *models.Parent) error {
	const query = `INSERT INTO parents (id, username, name, surname, email, phone, address)
        VALUES (:id, :username, :name, :surname, :email, :phone, :address)`
	if _, err := r.db.NamedExecContext(ctx, query, parent); err != nil {
		return fmt.Errorf("create parent: %w", err)
	}
	return nil
}

// Update modifies a parent row.
func (r *ParentRepository) Update(ctx context.Context, parent *models.Parent) error {
	const query = `UPDATE parents SET username = :username, name = :name, surname = :surname, email = :email,
        phone = :phone, address = :address WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, parent); err != nil {
		return fmt.Errorf("update parent: %w", err)
	}
	return nil
}

// Delete removes a parent row.
func (r *ParentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM parents WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete parent: %w", err)
	}
	return nil
}
