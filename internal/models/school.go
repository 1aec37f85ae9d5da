package models

import (
	"time"

	"github.com/lib/pq"
)

// Day is a school day a lesson can be scheduled on.
type Day string

const (
	DayMonday    Day = "MONDAY"
	DayTuesday   Day = "TUESDAY"
	DayWednesday Day = "WEDNESDAY"
	DayThursday  Day = "THURSDAY"
	DayFriday    Day = "FRIDAY"
)

// Grade is a school year level.
type Grade struct {
	ID    int `db:"id" json:"id"`
	Level int `db:"level" json:"level"`
}

// Class groups students of one grade under an optional supervising teacher.
type Class struct {
	ID           int     `db:"id" json:"id"`
	Name         string  `db:"name" json:"name"`
	Capacity     int     `db:"capacity" json:"capacity"`
	GradeID      int     `db:"grade_id" json:"grade_id"`
	SupervisorID *string `db:"supervisor_id" json:"supervisor_id,omitempty"`
}

// ClassRow is the class list view.
type ClassRow struct {
	Class
	GradeLevel        int     `db:"grade_level" json:"grade_level"`
	SupervisorName    *string `db:"supervisor_name" json:"supervisor_name,omitempty"`
	SupervisorSurname *string `db:"supervisor_surname" json:"supervisor_surname,omitempty"`
	StudentCount      int     `db:"student_count" json:"student_count"`
}

// ClassFilter captures the recognised query keys of the class list.
type ClassFilter struct {
	Search       string
	SupervisorID string
	Page         int
}

// Subject is a taught discipline, linked many-to-many to teachers.
type Subject struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// SubjectRow is the subject list view with aggregated teacher names.
type SubjectRow struct {
	Subject
	TeacherNames pq.StringArray `db:"teacher_names" json:"teacher_names"`
}

// SubjectFilter captures the recognised query keys of the subject list.
type SubjectFilter struct {
	Search string
	Page   int
}

// Lesson is one teaching slot binding a subject, class and teacher.
type Lesson struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Day       Day       `db:"day" json:"day"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
	SubjectID int       `db:"subject_id" json:"subject_id"`
	ClassID   int       `db:"class_id" json:"class_id"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
}

// LessonRow is the lesson list view.
type LessonRow struct {
	Lesson
	SubjectName    string `db:"subject_name" json:"subject_name"`
	ClassName      string `db:"class_name" json:"class_name"`
	TeacherName    string `db:"teacher_name" json:"teacher_name"`
	TeacherSurname string `db:"teacher_surname" json:"teacher_surname"`
}

// LessonFilter captures the recognised query keys of the lesson list.
type LessonFilter struct {
	Search    string
	ClassID   *int
	TeacherID string
	Page      int
}
