package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/schoolsync/school-admin-api/internal/models"
	"github.com/schoolsync/school-admin-api/internal/scope"
)

// SubjectRepository manages persistence for subjects and their teacher links.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs a SubjectRepository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

const subjectListColumns = `sub.id, sub.name,
    COALESCE((SELECT array_agg(t.name || ' ' || t.surname ORDER BY t.surname)
        FROM subject_teachers st JOIN teachers t ON t.id = st.teacher_id
        WHERE st.subject_id = sub.id), '{}') AS teacher_names`

// List returns subjects matching the filter.
func (r *SubjectRepository) List(ctx context.Context, filter models.SubjectFilter, caller scope.Caller, page models.PageRequest) ([]models.SubjectRow, int, error) {
	explicit := make([]scope.Predicate, 0, 1)
	if filter.Search != "" {
		explicit = append(explicit, scope.Cond("LOWER(sub.name) LIKE ?", likeTerm(filter.Search)))
	}

	where := scope.Merge(scope.And(explicit...), scope.For(scope.EntitySubject, caller), caller.Role)

	countQuery := "SELECT COUNT(*) FROM subjects sub WHERE " + where.SQL()
	pageQuery := fmt.Sprintf("SELECT %s FROM subjects sub WHERE %s ORDER BY sub.id LIMIT %d OFFSET %d",
		subjectListColumns, where.SQL(), page.Size, page.Offset())

	var rows []models.SubjectRow
	total, err := fetchPage(ctx, r.db, &rows, countQuery, pageQuery, where.Args(), where.Args())
	if err != nil {
		return nil, 0, fmt.Errorf("list subjects: %w", err)
	}
	return rows, total, nil
}

// FindByID fetches a single subject, subject to the caller's read scope.
func (r *SubjectRepository) FindByID(ctx context.Context, id int, caller scope.Caller) (*models.Subject, error) {
	where := scope.Merge(scope.Cond("sub.id = ?", id), scope.For(scope.EntitySubject, caller), caller.Role)
	query := sqlx.Rebind(sqlx.DOLLAR, "SELECT sub.id, sub.name FROM subjects sub WHERE "+where.SQL())
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, where.Args()...); err != nil {
		return nil, err
	}
	return &subject, nil
}

// Create inserts a subject and links the given teachers.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject, teacherIDs []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const query = `INSERT INTO subjects (name) VALUES ($1) RETURNING id`
	if err := tx.GetContext(ctx, &subject.ID, query, subject.Name); err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	if err := linkSubjectTeachers(ctx, tx, subject.ID, teacherIDs); err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	return tx.Commit()
}

// Update modifies a subject and replaces its teacher links.
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject, teacherIDs []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update subject: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `UPDATE subjects SET name = $1 WHERE id = $2`, subject.Name, subject.ID); err != nil {
		return fmt.Errorf("update subject: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM subject_teachers WHERE subject_id = $1`, subject.ID); err != nil {
		return fmt.Errorf("update subject: %w", err)
	}
	if err := linkSubjectTeachers(ctx, tx, subject.ID, teacherIDs); err != nil {
		return fmt.Errorf("update subject: %w", err)
	}
	return tx.Commit()
}

// Delete removes a subject.
func (r *SubjectRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	return nil
}

func linkSubjectTeachers(ctx context.Context, tx *sqlx.Tx, subjectID int, teacherIDs []string) error {
	for _, teacherID := range teacherIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO subject_teachers (subject_id, teacher_id) VALUES ($1, $2)`,
			subjectID, teacherID); err != nil {
			return err
		}
	}
	return nil
}
