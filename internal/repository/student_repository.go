package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/schoolsync/school-admin-api/internal/models"
	"github.com/schoolsync/school-admin-api/internal/scope"
)

// StudentRepository manages persistence for student roster records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentListBase = `FROM students s
    JOIN classes c ON c.id = s.class_id
    JOIN grades g ON g.id = s.grade_id`

const studentListColumns = `s.id, s.username, s.name, s.surname, s.email, s.phone, s.address, s.img,
    s.blood_type, s.sex, s.birthday, s.grade_id, s.class_id, s.parent_id, s.created_at,
    c.name AS class_name, g.level AS grade_level`

// List returns students matching the filter. teacherId narrows to classes
// the teacher has a lesson in.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter, caller scope.Caller, page models.PageRequest) ([]models.StudentRow, int, error) {
	explicit := make([]scope.Predicate, 0, 2)
	if filter.TeacherID != "" {
		explicit = append(explicit, scope.Cond("EXISTS (SELECT 1 FROM lessons tl WHERE tl.class_id = s.class_id AND tl.teacher_id = ?)", filter.TeacherID))
	}
	if filter.Search != "" {
		explicit = append(explicit, scope.Cond("LOWER(s.name) LIKE ?", likeTerm(filter.Search)))
	}

	where := scope.Merge(scope.And(explicit...), scope.For(scope.EntityStudent, caller), caller.Role)

	countQuery := "SELECT COUNT(*) " + studentListBase + " WHERE " + where.SQL()
	pageQuery := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY s.id LIMIT %d OFFSET %d",
		studentListColumns, studentListBase, where.SQL(), page.Size, page.Offset())

	var rows []models.StudentRow
	total, err := fetchPage(ctx, r.db, &rows, countQuery, pageQuery, where.Args(), where.Args())
	if err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}
	return rows, total, nil
}

// FindByID fetches a student row, subject to the caller's read scope.
func (r *StudentRepository) FindByID(ctx context.Context, id string, caller scope.Caller) (*models.StudentRow, error) {
	where := scope.Merge(scope.Cond("s.id = ?", id), scope.For(scope.EntityStudent, caller), caller.Role)
	query := sqlx.Rebind(sqlx.DOLLAR, fmt.Sprintf("SELECT %s %s WHERE %s", studentListColumns, studentListBase, where.SQL()))
	var row models.StudentRow
	if err := r.db.GetContext(ctx, &row, query, where.Args()...); err != nil {
		return nil, err
	}
	return &row, nil
}

// ClassSeats returns the capacity and current enrolment of a class.
func (r *StudentRepository) ClassSeats(ctx context.Context, classID int) (capacity, enrolled int, err error) {
	const query = `SELECT c.capacity, (SELECT COUNT(*) FROM students s WHERE s.class_id = c.id) AS enrolled
        FROM classes c WHERE c.id = $1`
	var seats struct {
		Capacity int `db:"capacity"`
		Enrolled int `db:"enrolled"`
	}
	if err := r.db.GetContext(ctx, &seats, query, classID); err != nil {
		return 0, 0, err
	}
	return seats.Capacity, seats.Enrolled, nil
}

// Create inserts a student only while the target class has a free seat.
// The capacity check runs inside the insert statement itself so two
// concurrent creations cannot both squeeze into the last seat. Returns
// false when the class was full and nothing was inserted.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) (bool, error) {
	const query = `INSERT INTO students (id, username, name, surname, email, phone, address, img, blood_type, sex, birthday, grade_id, class_id, parent_id)
        SELECT :id, :username, :name, :surname, :email, :phone, :address, :img, :blood_type, :sex, :birthday, :grade_id, :class_id, :parent_id
        WHERE (SELECT COUNT(*) FROM students WHERE class_id = :class_id)
            < (SELECT capacity FROM classes WHERE id = :class_id)`
	res, err := r.db.NamedExecContext(ctx, query, student)
	if err != nil {
		return false, fmt.Errorf("create student: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create student rows: %w", err)
	}
	return inserted == 1, nil
}

// Update modifies a student row.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	const query = `UPDATE students SET username = :username, name = :name, surname = :surname, email = :email,
        phone = :phone, address = :address, img = :img, blood_type = :blood_type, sex = :sex, birthday = :birthday,
        grade_id = :grade_id, class_id = :class_id, parent_id = :parent_id
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// Delete removes a student row.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return nil
}
