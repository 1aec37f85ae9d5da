package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/schoolsync/school-admin-api/internal/models"
	"github.com/schoolsync/school-admin-api/internal/scope"
)

// ExamRepository manages persistence for exams.
type ExamRepository struct {
	db *sqlx.DB
}

// NewExamRepository constructs an ExamRepository.
func NewExamRepository(db *sqlx.DB) *ExamRepository {
	return &ExamRepository{db: db}
}

const examListBase = `FROM exams e
    JOIN lessons l ON l.id = e.lesson_id
    JOIN subjects sub ON sub.id = l.subject_id
    JOIN classes c ON c.id = l.class_id
    JOIN teachers t ON t.id = l.teacher_id`

const examListColumns = `e.id, e.title, e.start_time, e.end_time, e.lesson_id,
    sub.name AS subject_name, c.name AS class_name, t.name AS teacher_name, t.surname AS teacher_surname`

// List returns the exam rows visible to the caller under the merged filter.
func (r *ExamRepository) List(ctx context.Context, filter models.ExamFilter, caller scope.Caller, page models.PageRequest) ([]models.ExamRow, int, error) {
	explicit := make([]scope.Predicate, 0, 3)
	if filter.ClassID != nil {
		explicit = append(explicit, scope.Cond("l.class_id = ?", *filter.ClassID))
	}
	if filter.TeacherID != "" {
		explicit = append(explicit, scope.Cond("l.teacher_id = ?", filter.TeacherID))
	}
	if filter.Search != "" {
		explicit = append(explicit, scope.Cond("LOWER(sub.name) LIKE ?", likeTerm(filter.Search)))
	}

	where := scope.Merge(scope.And(explicit...), scope.For(scope.EntityExam, caller), caller.Role)

	countQuery := "SELECT COUNT(*) " + examListBase + " WHERE " + where.SQL()
	pageQuery := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY e.id LIMIT %d OFFSET %d",
		examListColumns, examListBase, where.SQL(), page.Size, page.Offset())

	var rows []models.ExamRow
	total, err := fetchPage(ctx, r.db, &rows, countQuery, pageQuery, where.Args(), where.Args())
	if err != nil {
		return nil, 0, fmt.Errorf("list exams: %w", err)
	}
	return rows, total, nil
}

// FindByID fetches a single exam the caller is allowed to see. The lessons
// join is carried so the scope predicates keep their alias; a row outside
// the caller's read scope reads as absent.
func (r *ExamRepository) FindByID(ctx context.Context, id int, caller scope.Caller) (*models.Exam, error) {
	where := scope.Merge(scope.Cond("e.id = ?", id), scope.For(scope.EntityExam, caller), caller.Role)
	query := sqlx.Rebind(sqlx.DOLLAR,
		"SELECT e.id, e.title, e.start_time, e.end_time, e.lesson_id FROM exams e JOIN lessons l ON l.id = e.lesson_id WHERE "+where.SQL())
	var exam models.Exam
	if err := r.db.GetContext(ctx, &exam, query, where.Args()...); err != nil {
		return nil, err
	}
	return &exam, nil
}

// Create inserts a new exam.
func (r *ExamRepository) Create(ctx context.Context, exam *models.Exam) error {
	const query = `INSERT INTO exams (title, start_time, end_time, lesson_id)
        VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.GetContext(ctx, &exam.ID, query, exam.Title, exam.StartTime, exam.EndTime, exam.LessonID); err != nil {
		return fmt.Errorf("create exam: %w", err)
	}
	return nil
}

// Update modifies an existing exam.
func (r *ExamRepository) Update(ctx context.Context, exam *models.Exam) error {
	const query = `UPDATE exams SET title = :title, start_time = :start_time, end_time = :end_time, lesson_id = :lesson_id WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, exam); err != nil {
		return fmt.Errorf("update exam: %w", err)
	}
	return nil
}

// Delete removes an exam.
func (r *ExamRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM exams WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete exam: %w", err)
	}
	return nil
}
