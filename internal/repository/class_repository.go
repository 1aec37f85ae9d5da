package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/schoolsync/school-admin-api/internal/models"
	"github.com/schoolsync/school-admin-api/internal/scope"
)

// ClassRepository manages persistence for classes.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a ClassRepository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

const classListBase = `FROM classes c
    JOIN grades g ON g.id = c.grade_id
    LEFT JOIN teachers t ON t.id = c.supervisor_id`

const classListColumns = `c.id, c.name, c.capacity, c.grade_id, c.supervisor_id,
    g.level AS grade_level, t.name AS supervisor_name, t.surname AS supervisor_surname,
    (SELECT COUNT(*) FROM students s WHERE s.class_id = c.id) AS student_count`

// List returns classes matching the filter.
func (r *ClassRepository) List(ctx context.Context, filter models.ClassFilter, caller scope.Caller, page models.PageRequest) ([]models.ClassRow, int, error) {
	explicit := make([]scope.Predicate, 0, 2)
	if filter.SupervisorID != "" {
		explicit = append(explicit, scope.Cond("c.supervisor_id = ?", filter.SupervisorID))
	}
	if filter.Search != "" {
		term := likeTerm(filter.Search)
		explicit = append(explicit, scope.Or(
			scope.Cond("LOWER(c.name) LIKE ?", term),
			scope.Cond("LOWER(t.name) LIKE ?", term),
		))
	}

	where := scope.Merge(scope.And(explicit...), scope.For(scope.EntityClass, caller), caller.Role)

	countQuery := "SELECT COUNT(*) " + classListBase + " WHERE " + where.SQL()
	pageQuery := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY c.id LIMIT %d OFFSET %d",
		classListColumns, classListBase, where.SQL(), page.Size, page.Offset())

	var rows []models.ClassRow
	total, err := fetchPage(ctx, r.db, &rows, countQuery, pageQuery, where.Args(), where.Args())
	if err != nil {
		return nil, 0, fmt.Errorf("list classes: %w", err)
	}
	return rows, total, nil
}

// FindByID fetches a single class, subject to the caller's read scope.
func (r *ClassRepository) FindByID(ctx context.Context, id int, caller scope.Caller) (*models.Class, error) {
	where := scope.Merge(scope.Cond("c.id = ?", id), scope.For(scope.EntityClass, caller), caller.Role)
	query := sqlx.Rebind(sqlx.DOLLAR,
		"SELECT c.id, c.name, c.capacity, c.grade_id, c.supervisor_id FROM classes c WHERE "+where.SQL())
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, where.Args()...); err != nil {
		return nil, err
	}
	return &class, nil
}

// Create inserts a new class.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	const query = `INSERT INTO classes (name, capacity, grade_id, supervisor_id)
        VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.GetContext(ctx, &class.ID, query, class.Name, class.Capacity, class.GradeID, class.SupervisorID); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// Update modifies an existing class.
func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	const query = `UPDATE classes SET name = :name, capacity = :capacity, grade_id = :grade_id,
        supervisor_id = :supervisor_id WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	return nil
}

// Delete removes a class.
func (r *ClassRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	return nil
}
