package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/schoolsync/school-admin-api/internal/models"
	"github.com/schoolsync/school-admin-api/internal/scope"
)

// LessonRepository manages persistence for lessons.
type LessonRepository struct {
	db *sqlx.DB
}

// NewLessonRepository constructs a LessonRepository.
func NewLessonRepository(db *sqlx.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

const lessonListBase = `FROM lessons l
    JOIN subjects sub ON sub.id = l.subject_id
    JOIN classes c ON c.id = l.class_id
    JOIN teachers t ON t.id = l.teacher_id`

const lessonListColumns = `l.id, l.name, l.day, l.start_time, l.end_time, l.subject_id, l.class_id, l.teacher_id,
    sub.name AS subject_name, c.name AS class_name, t.name AS teacher_name, t.surname AS teacher_surname`

// List returns the lesson rows matching the filter for the caller.
func (r *LessonRepository) List(ctx context.Context, filter models.LessonFilter, caller scope.Caller, page models.PageRequest) ([]models.LessonRow, int, error) {
	explicit := make([]scope.Predicate, 0, 3)
	if filter.ClassID != nil {
		explicit = append(explicit, scope.Cond("l.class_id = ?", *filter.ClassID))
	}
	if filter.TeacherID != "" {
		explicit = append(explicit, scope.Cond("l.teacher_id = ?", filter.TeacherID))
	}
	if filter.Search != "" {
		term := likeTerm(filter.Search)
		explicit = append(explicit, scope.Or(
			scope.Cond("LOWER(sub.name) LIKE ?", term),
			scope.Cond("LOWER(t.name) LIKE ?", term),
		))
	}

	where := scope.Merge(scope.And(explicit...), scope.For(scope.EntityLesson, caller), caller.Role)

	countQuery := "SELECT COUNT(*) " + lessonListBase + " WHERE " + where.SQL()
	pageQuery := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY l.id LIMIT %d OFFSET %d",
		lessonListColumns, lessonListBase, where.SQL(), page.Size, page.Offset())

	var rows []models.LessonRow
	total, err := fetchPage(ctx, r.db, &rows, countQuery, pageQuery, where.Args(), where.Args())
	if err != nil {
		return nil, 0, fmt.Errorf("list lessons: %w", err)
	}
	return rows, total, nil
}

// FindByID fetches a single lesson, subject to the caller's read scope.
func (r *LessonRepository) FindByID(ctx context.Context, id int, caller scope.Caller) (*models.Lesson, error) {
	where := scope.Merge(scope.Cond("l.id = ?", id), scope.For(scope.EntityLesson, caller), caller.Role)
	query := sqlx.Rebind(sqlx.DOLLAR,
		"SELECT l.id, l.name, l.day, l.start_time, l.end_time, l.subject_id, l.class_id, l.teacher_id FROM lessons l WHERE "+where.SQL())
	var lesson models.Lesson
	if err := r.db.GetContext(ctx, &lesson, query, where.Args()...); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// Create inserts a lesson.
func (r *LessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	const query = `INSERT INTO lessons (name, day, start_time, end_time, subject_id, class_id, teacher_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := r.db.GetContext(ctx, &lesson.ID, query,
		lesson.Name, lesson.Day, lesson.StartTime, lesson.EndTime,
		lesson.SubjectID, lesson.ClassID, lesson.TeacherID); err != nil {
		return fmt.Errorf("create lesson: %w", err)
	}
	return nil
}

// Update modifies a lesson.
func (r *LessonRepository) Update(ctx context.Context, lesson *models.Lesson) error {
	const query = `UPDATE lessons SET name = $1, day = $2, start_time = $3, end_time = $4,
        subject_id = $5, class_id = $6, teacher_id = $7 WHERE id = $8`
	if _, err := r.db.ExecContext(ctx, query,
		lesson.Name, lesson.Day, lesson.StartTime, lesson.EndTime,
		lesson.SubjectID, lesson.ClassID, lesson.TeacherID, lesson.ID); err != nil {
		return fmt.Errorf("update lesson: %w", err)
	}
	return nil
}

// Delete removes a lesson.
func (r *LessonRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM lessons WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}
	return nil
}

// OwnedBy reports whether the lesson exists and is taught by the teacher.
func (r *LessonRepository) OwnedBy(ctx context.Context, lessonID int, teacherID string) (bool, error) {
	var one int
	err := r.db.GetContext(ctx, &one, `SELECT 1 FROM lessons WHERE id = $1 AND teacher_id = $2`, lessonID, teacherID)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check lesson owner: %w", err)
	}
	return true, nil
}
