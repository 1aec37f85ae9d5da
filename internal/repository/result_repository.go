package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/schoolsync/school-admin-api/internal/models"
	"github.com/schoolsync/school-admin-api/internal/scope"
)

// ResultRepository manages persistence for results. Both assessment sides
// are joined optionally; disambiguation happens in the view-model mapper.
type ResultRepository struct {
	db *sqlx.DB
}

// NewResultRepository constructs a ResultRepository.
func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

const resultListBase = `FROM results r
    JOIN students s ON s.id = r.student_id
    LEFT JOIN exams e ON e.id = r.exam_id
    LEFT JOIN lessons el ON el.id = e.lesson_id
    LEFT JOIN classes ec ON ec.id = el.class_id
    LEFT JOIN teachers et ON et.id = el.teacher_id
    LEFT JOIN assignments asg ON asg.id = r.assignment_id
    LEFT JOIN lessons al ON al.id = asg.lesson_id
    LEFT JOIN classes ac ON ac.id = al.class_id
    LEFT JOIN teachers att ON att.id = al.teacher_id`

const resultListColumns = `r.id, r.score, r.student_id,
    s.name AS student_name, s.surname AS student_surname,
    e.id AS exam_id, e.title AS exam_title, e.start_time AS exam_start_time,
    ec.name AS exam_class_name, et.name AS exam_teacher_name, et.surname AS exam_teacher_surname,
    asg.id AS assignment_id, asg.title AS assignment_title, asg.start_date AS assignment_start_date,
    ac.name AS assignment_class_name, att.name AS assignment_teacher_name, att.surname AS assignment_teacher_surname`

func resultFilterPredicate(filter models.ResultFilter) scope.Predicate {
	explicit := make([]scope.Predicate, 0, 2)
	if filter.StudentID != "" {
		explicit = append(explicit, scope.Cond("r.student_id = ?", filter.StudentID))
	}
	if filter.Search != "" {
		term := likeTerm(filter.Search)
		explicit = append(explicit, scope.Or(
			scope.Cond("LOWER(s.name) LIKE ?", term),
			scope.Cond("LOWER(e.title) LIKE ?", term),
			scope.Cond("LOWER(asg.title) LIKE ?", term),
		))
	}
	return scope.And(explicit...)
}

// List returns the joined result records visible to the caller.
func (r *ResultRepository) List(ctx context.Context, filter models.ResultFilter, caller scope.Caller, page models.PageRequest) ([]models.ResultRecord, int, error) {
	where := scope.Merge(resultFilterPredicate(filter), scope.For(scope.EntityResult, caller), caller.Role)

	countQuery := "SELECT COUNT(*) " + resultListBase + " WHERE " + where.SQL()
	pageQuery := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY r.id LIMIT %d OFFSET %d",
		resultListColumns, resultListBase, where.SQL(), page.Size, page.Offset())

	var records []models.ResultRecord
	total, err := fetchPage(ctx, r.db, &records, countQuery, pageQuery, where.Args(), where.Args())
	if err != nil {
		return nil, 0, fmt.Errorf("list results: %w", err)
	}
	return records, total, nil
}

// ListAll returns every visible record under the filter without windowing,
// for exports.
func (r *ResultRepository) ListAll(ctx context.Context, filter models.ResultFilter, caller scope.Caller) ([]models.ResultRecord, error) {
	where := scope.Merge(resultFilterPredicate(filter), scope.For(scope.EntityResult, caller), caller.Role)

	query := sqlx.Rebind(sqlx.DOLLAR, fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY r.id",
		resultListColumns, resultListBase, where.SQL()))

	var records []models.ResultRecord
	if err := r.db.SelectContext(ctx, &records, query, where.Args()...); err != nil {
		return nil, fmt.Errorf("export results: %w", err)
	}
	return records, nil
}

// AssessmentOwnedBy reports whether the exam or assignment the result
// points at sits on one of the teacher's lessons.
func (r *ResultRepository) AssessmentOwnedBy(ctx context.Context, examID, assignmentID *int, teacherID string) (bool, error) {
	var (
		query string
		id    int
	)
	switch {
	case examID != nil:
		query = `SELECT 1 FROM exams e JOIN lessons l ON l.id = e.lesson_id WHERE e.id = $1 AND l.teacher_id = $2`
		id = *examID
	case assignmentID != nil:
		query = `SELECT 1 FROM assignments asg JOIN lessons l ON l.id = asg.lesson_id WHERE asg.id = $1 AND l.teacher_id = $2`
		id = *assignmentID
	default:
		return false, nil
	}

	var one int
	if err := r.db.GetContext(ctx, &one, query, id, teacherID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check assessment ownership: %w", err)
	}
	return true, nil
}

// FindByID fetches a single result the caller is allowed to see. A row
// outside the caller's read scope reads as absent.
func (r *ResultRepository) FindByID(ctx context.Context, id int, caller scope.Caller) (*models.Result, error) {
	where := scope.Merge(scope.Cond("r.id = ?", id), scope.For(scope.EntityResult, caller), caller.Role)
	query := sqlx.Rebind(sqlx.DOLLAR,
		"SELECT r.id, r.score, r.exam_id, r.assignment_id, r.student_id FROM results r WHERE "+where.SQL())
	var result models.Result
	if err := r.db.GetContext(ctx, &result, query, where.Args()...); err != nil {
		return nil, err
	}
	return &result, nil
}

// Create inserts a new result.
func (r *ResultRepository) Create(ctx context.Context, result *models.Result) error {
	const query = `INSERT INTO results (score, exam_id, assignment_id, student_id)
        VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.GetContext(ctx, &result.ID, query, result.Score, result.ExamID, result.AssignmentID, result.StudentID); err != nil {
		return fmt.Errorf("create result: %w", err)
	}
	return nil
}

// Update modifies an existing result.
func (r *ResultRepository) Update(ctx context.Context, result *models.Result) error {
	const query = `UPDATE results SET score = :score, exam_id = :exam_id, assignment_id = :assignment_id, student_id = :student_id WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, result); err != nil {
		return fmt.Errorf("update result: %w", err)
	}
	return nil
}

// Delete removes a result.
func (r *ResultRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM results WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete result: %w", err)
	}
	return nil
}
