package models

import "time"

// TeacherRequest is the create/update payload for teachers. Password is
// required on create and optional on update.
type TeacherRequest struct {
	Username   string    `json:"username" validate:"required,min=3,max=20"`
	Password   string    `json:"password,omitempty" validate:"omitempty,min=8"`
	Name       string    `json:"name" validate:"required"`
	Surname    string    `json:"surname" validate:"required"`
	Email      *string   `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string   `json:"phone,omitempty"`
	Address    string    `json:"address" validate:"required"`
	Img        *string   `json:"img,omitempty"`
	BloodType  string    `json:"blood_type" validate:"required"`
	Sex        Sex       `json:"sex" validate:"required,oneof=MALE FEMALE"`
	Birthday   time.Time `json:"birthday" validate:"required"`
	SubjectIDs []int     `json:"subject_ids,omitempty"`
}

// StudentRequest is the create/update payload for students.
type StudentRequest struct {
	Username  string    `json:"username" validate:"required,min=3,max=20"`
	Password  string    `json:"password,omitempty" validate:"omitempty,min=8"`
	Name      string    `json:"name" validate:"required"`
	Surname   string    `json:"surname" validate:"required"`
	Email     *string   `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string   `json:"phone,omitempty"`
	Address   string    `json:"address" validate:"required"`
	Img       *string   `json:"img,omitempty"`
	BloodType string    `json:"blood_type" validate:"required"`
	Sex       Sex       `json:"sex" validate:"required,oneof=MALE FEMALE"`
	Birthday  time.Time `json:"birthday" validate:"required"`
	GradeID   int       `json:"grade_id" validate:"required,gt=0"`
	ClassID   int       `json:"class_id" validate:"required,gt=0"`
	ParentID  string    `json:"parent_id" validate:"required"`
}

// ParentRequest is the create/update payload for parents.
type ParentRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=20"`
	Password string  `json:"password,omitempty" validate:"omitempty,min=8"`
	Name     string  `json:"name" validate:"required"`
	Surname  string  `json:"surname" validate:"required"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    *string `json:"phone,omitempty" validate:"required"`
	Address  string  `json:"address" validate:"required"`
}

// ClassRequest is the create/update payload for classes.
type ClassRequest struct {
	Name         string  `json:"name" validate:"required"`
	Capacity     int     `json:"capacity" validate:"required,gt=0"`
	GradeID      int     `json:"grade_id" validate:"required,gt=0"`
	SupervisorID *string `json:"supervisor_id,omitempty"`
}

// SubjectRequest is the create/update payload for subjects.
type SubjectRequest struct {
	Name       string   `json:"name" validate:"required"`
	TeacherIDs []string `json:"teacher_ids,omitempty"`
}

// LessonRequest is the create/update payload for lessons.
type LessonRequest struct {
	Name      string    `json:"name" validate:"required"`
	Day       Day       `json:"day" validate:"required,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
	SubjectID int       `json:"subject_id" validate:"required,gt=0"`
	ClassID   int       `json:"class_id" validate:"required,gt=0"`
	TeacherID string    `json:"teacher_id" validate:"required"`
}

// ExamRequest is the create/update payload for exams.
type ExamRequest struct {
	Title     string    `json:"title" validate:"required"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
	LessonID  int       `json:"lesson_id" validate:"required,gt=0"`
}

// ResultRequest is the create/update payload for results. Exactly one of
// ExamID and AssignmentID must be set.
type ResultRequest struct {
	Score        int    `json:"score" validate:"gte=0,lte=100"`
	ExamID       *int   `json:"exam_id,omitempty" validate:"omitempty,gt=0"`
	AssignmentID *int   `json:"assignment_id,omitempty" validate:"omitempty,gt=0"`
	StudentID    string `json:"student_id" validate:"required"`
}

// AnnouncementRequest is the create/update payload for announcements. A nil
// ClassID makes the announcement school-wide.
type AnnouncementRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Date        time.Time `json:"date" validate:"required"`
	ClassID     *int      `json:"class_id,omitempty" validate:"omitempty,gt=0"`
}

// EventRequest is the create/update payload for events.
type EventRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
	ClassID     *int      `json:"class_id,omitempty" validate:"omitempty,gt=0"`
}
