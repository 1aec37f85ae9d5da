package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/schoolsync/school-admin-api/internal/models"
	"github.com/schoolsync/school-admin-api/internal/scope"
)

// TeacherRepository manages persistence for teacher roster records.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

const teacherListColumns = `t.id, t.username, t.name, t.surname, t.email, t.phone, t.address, t.img,
    t.blood_type, t.sex, t.birthday, t.created_at,
    COALESCE((SELECT array_agg(sub.name ORDER BY sub.name)
        FROM subject_teachers st JOIN subjects sub ON sub.id = st.subject_id
        WHERE st.teacher_id = t.id), '{}') AS subject_names`

// List returns teachers matching the filter. The search term matches the
// teacher's name or any of their subjects' names, case-insensitively.
func (r *TeacherRepository) List(ctx context.Context, filter models.TeacherFilter, caller scope.Caller, page models.PageRequest) ([]models.TeacherRow, int, error) {
	explicit := make([]scope.Predicate, 0, 2)
	if filter.ClassID != nil {
		explicit = append(explicit, scope.Cond("EXISTS (SELECT 1 FROM lessons tl WHERE tl.teacher_id = t.id AND tl.class_id = ?)", *filter.ClassID))
	}
	if filter.Search != "" {
		term := likeTerm(filter.Search)
		explicit = append(explicit, scope.Or(
			scope.Cond("LOWER(t.name) LIKE ?", term),
			scope.Cond("EXISTS (SELECT 1 FROM subject_teachers st JOIN subjects sub ON sub.id = st.subject_id WHERE st.teacher_id = t.id AND LOWER(sub.name) LIKE ?)", term),
		))
	}

	where := scope.Merge(scope.And(explicit...), scope.For(scope.EntityTeacher, caller), caller.Role)

	countQuery := "SELECT COUNT(*) FROM teachers t WHERE " + where.SQL()
	pageQuery := fmt.Sprintf("SELECT %s FROM teachers t WHERE %s ORDER BY t.id LIMIT %d OFFSET %d",
		teacherListColumns, where.SQL(), page.Size, page.Offset())

	var rows []models.TeacherRow
	total, err := fetchPage(ctx, r.db, &rows, countQuery, pageQuery, where.Args(), where.Args())
	if err != nil {
		return nil, 0, fmt.Errorf("list teachers: %w", err)
	}
	return rows, total, nil
}

// FindByID fetches a teacher with their subjects, subject to the caller's
// read scope.
func (r *TeacherRepository) FindByID(ctx context.Context, id string, caller scope.Caller) (*models.TeacherRow, error) {
	where := scope.Merge(scope.Cond("t.id = ?", id), scope.For(scope.EntityTeacher, caller), caller.Role)
	query := sqlx.Rebind(sqlx.DOLLAR, fmt.Sprintf("SELECT %s FROM teachers t WHERE %s", teacherListColumns, where.SQL()))
	var row models.TeacherRow
	if err := r.db.GetContext(ctx, &row, query, where.Args()...); err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts a teacher row keyed by the external identity id and links
// the given subjects, in one transaction.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher, subjectIDs []int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create teacher: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const query = `INSERT INTO teachers (id, username, name, surname, email, phone, address, img, blood_type, sex, birthday)
        VALUES (:id, :username, :name, :surname, :email, :phone, :address, :img, :blood_type, :sex, :birthday)`
	if _, err := tx.NamedExecContext(ctx, query, teacher); err != nil {
		return fmt.Errorf("create teacher: %w", err)
	}

	if err := linkTeacherSubjects(ctx, tx, teacher.ID, subjectIDs); err != nil {
		return err
	}
	return tx.Commit()
}

// Update modifies a teacher row and replaces their subject links.
func (r *TeacherRepository) Update(ctx context.Context, teacher *models.Teacher, subjectIDs []int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update teacher: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const query = `UPDATE teachers SET username = :username, name = :name, surname = :surname, email = :email,
        phone = :phone, address = :address, img = :img, blood_type = :blood_type, sex = :sex, birthday = :birthday
        WHERE id = :id`
	if _, err := tx.NamedExecContext(ctx, query, teacher); err != nil {
		return fmt.Errorf("update teacher: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM subject_teachers WHERE teacher_id = $1`, teacher.ID); err != nil {
		return fmt.Errorf("clear teacher subjects: %w", err)
	}
	if err := linkTeacherSubjects(ctx, tx, teacher.ID, subjectIDs); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes a teacher row.
func (r *TeacherRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM teachers WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete teacher: %w", err)
	}
	return nil
}

func linkTeacherSubjects(ctx context.Context, tx *sqlx.Tx, teacherID string, subjectIDs []int) error {
	for _, subjectID := range subjectIDs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO subject_teachers (subject_id, teacher_id) VALUES ($1, $2)`, subjectID, teacherID); err != nil {
			return fmt.Errorf("link subject %d: %w", subjectID, err)
		}
	}
	return nil
}
