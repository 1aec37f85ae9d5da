package models

import (
	"database/sql"
	"time"
)

// Exam is a scheduled assessment on a lesson.
type Exam struct {
	ID        int       `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
	LessonID  int       `db:"lesson_id" json:"lesson_id"`
}

// ExamRow is the exam list view.
type ExamRow struct {
	Exam
	SubjectName    string `db:"subject_name" json:"subject_name"`
	ClassName      string `db:"class_name" json:"class_name"`
	TeacherName    string `db:"teacher_name" json:"teacher_name"`
	TeacherSurname string `db:"teacher_surname" json:"teacher_surname"`
}

// ExamFilter captures the recognised query keys of the exam list.
type ExamFilter struct {
	Search    string
	ClassID   *int
	TeacherID string
	Page      int
}

// Assignment is take-home work on a lesson. Its date field is start_date,
// unlike an exam's start_time.
type Assignment struct {
	ID        int       `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	DueDate   time.Time `db:"due_date" json:"due_date"`
	LessonID  int       `db:"lesson_id" json:"lesson_id"`
}

// Result is a score a student obtained on exactly one assessment: an exam
// or an assignment, never both.
type Result struct {
	ID           int    `db:"id" json:"id"`
	Score        int    `db:"score" json:"score"`
	ExamID       *int   `db:"exam_id" json:"exam_id,omitempty"`
	AssignmentID *int   `db:"assignment_id" json:"assignment_id,omitempty"`
	StudentID    string `db:"student_id" json:"student_id"`
}

// ResultFilter captures the recognised query keys of the result list.
type ResultFilter struct {
	Search    string
	StudentID string
	Page      int
}

// ResultRecord is the raw joined row: both assessment sides are scanned as
// nullable and disambiguated by the mapper.
type ResultRecord struct {
	ID             int    `db:"id"`
	Score          int    `db:"score"`
	StudentID      string `db:"student_id"`
	StudentName    string `db:"student_name"`
	StudentSurname string `db:"student_surname"`

	ExamID             sql.NullInt64  `db:"exam_id"`
	ExamTitle          sql.NullString `db:"exam_title"`
	ExamStartTime      sql.NullTime   `db:"exam_start_time"`
	ExamClassName      sql.NullString `db:"exam_class_name"`
	ExamTeacherName    sql.NullString `db:"exam_teacher_name"`
	ExamTeacherSurname sql.NullString `db:"exam_teacher_surname"`

	AssignmentID             sql.NullInt64  `db:"assignment_id"`
	AssignmentTitle          sql.NullString `db:"assignment_title"`
	AssignmentStartDate      sql.NullTime   `db:"assignment_start_date"`
	AssignmentClassName      sql.NullString `db:"assignment_class_name"`
	AssignmentTeacherName    sql.NullString `db:"assignment_teacher_name"`
	AssignmentTeacherSurname sql.NullString `db:"assignment_teacher_surname"`
}

// AssessmentKind tags the variant a result points at.
type AssessmentKind string

const (
	AssessmentExam       AssessmentKind = "exam"
	AssessmentAssignment AssessmentKind = "assignment"
)

// Assessment is the resolved variant with its date normalised: start_time
// for exams, start_date for assignments.
type Assessment struct {
	Kind           AssessmentKind `json:"kind"`
	Title          string         `json:"title"`
	Date           time.Time      `json:"date"`
	ClassName      string         `json:"class_name"`
	TeacherName    string         `json:"teacher_name"`
	TeacherSurname string         `json:"teacher_surname"`
}

// Assessment resolves the variant. The exam side wins when present; a
// record with neither side reports ok=false.
func (rec ResultRecord) Assessment() (Assessment, bool) {
	switch {
	case rec.ExamID.Valid:
		return Assessment{
			Kind:           AssessmentExam,
			Title:          rec.ExamTitle.String,
			Date:           rec.ExamStartTime.Time,
			ClassName:      rec.ExamClassName.String,
			TeacherName:    rec.ExamTeacherName.String,
			TeacherSurname: rec.ExamTeacherSurname.String,
		}, true
	case rec.AssignmentID.Valid:
		return Assessment{
			Kind:           AssessmentAssignment,
			Title:          rec.AssignmentTitle.String,
			Date:           rec.AssignmentStartDate.Time,
			ClassName:      rec.AssignmentClassName.String,
			TeacherName:    rec.AssignmentTeacherName.String,
			TeacherSurname: rec.AssignmentTeacherSurname.String,
		}, true
	}
	return Assessment{}, false
}

// ResultRow is the flat display row of the result list.
type ResultRow struct {
	ID             int            `json:"id"`
	Title          string         `json:"title"`
	Kind           AssessmentKind `json:"kind"`
	StudentName    string         `json:"student_name"`
	StudentSurname string         `json:"student_surname"`
	Score          int            `json:"score"`
	TeacherName    string         `json:"teacher_name"`
	TeacherSurname string         `json:"teacher_surname"`
	ClassName      string         `json:"class_name"`
	Date           time.Time      `json:"date"`
}

// BuildResultRow flattens a joined record. Records referencing neither an
// exam nor an assignment are excluded (ok=false), not an error.
func BuildResultRow(rec ResultRecord) (ResultRow, bool) {
	assessment, ok := rec.Assessment()
	if !ok {
		return ResultRow{}, false
	}
	return ResultRow{
		ID:             rec.ID,
		Title:          assessment.Title,
		Kind:           assessment.Kind,
		StudentName:    rec.StudentName,
		StudentSurname: rec.StudentSurname,
		Score:          rec.Score,
		TeacherName:    assessment.TeacherName,
		TeacherSurname: assessment.TeacherSurname,
		ClassName:      assessment.ClassName,
		Date:           assessment.Date,
	}, true
}

// BuildResultRows maps records to display rows, dropping orphans.
func BuildResultRows(recs []ResultRecord) []ResultRow {
	rows := make([]ResultRow, 0, len(recs))
	for _, rec := range recs {
		if row, ok := BuildResultRow(rec); ok {
			rows = append(rows, row)
		}
	}
	return rows
}
