package models

import (
	"time"

	"github.com/lib/pq"
)

// Sex mirrors the roster enum used by the forms.
type Sex string

const (
	SexMale   Sex = "MALE"
	SexFemale Sex = "FEMALE"
)

// Teacher is a roster record. The ID is the external identity id: the row
// is only ever created after the identity provider account exists.
type Teacher struct {
	ID        string    `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Name      string    `db:"name" json:"name"`
	Surname   string    `db:"surname" json:"surname"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Address   string    `db:"address" json:"address"`
	Img       *string   `db:"img" json:"img,omitempty"`
	BloodType string    `db:"blood_type" json:"blood_type"`
	Sex       Sex       `db:"sex" json:"sex"`
	Birthday  time.Time `db:"birthday" json:"birthday"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TeacherRow is the teacher list view with aggregated subject names.
type TeacherRow struct {
	Teacher
	SubjectNames pq.StringArray `db:"subject_names" json:"subject_names"`
}

// TeacherFilter captures the recognised query keys of the teacher list.
type TeacherFilter struct {
	Search  string
	ClassID *int
	Page    int
}

// Student is a roster record keyed by the external identity id.
type Student struct {
	ID        string    `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Name      string    `db:"name" json:"name"`
	Surname   string    `db:"surname" json:"surname"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Address   string    `db:"address" json:"address"`
	Img       *string   `db:"img" json:"img,omitempty"`
	BloodType string    `db:"blood_type" json:"blood_type"`
	Sex       Sex       `db:"sex" json:"sex"`
	Birthday  time.Time `db:"birthday" json:"birthday"`
	GradeID   int       `db:"grade_id" json:"grade_id"`
	ClassID   int       `db:"class_id" json:"class_id"`
	ParentID  string    `db:"parent_id" json:"parent_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// StudentRow is the student list view.
type StudentRow struct {
	Student
	ClassName  string `db:"class_name" json:"class_name"`
	GradeLevel int    `db:"grade_level" json:"grade_level"`
}

// StudentFilter captures the recognised query keys of the student list.
type StudentFilter struct {
	Search    string
	TeacherID string
	Page      int
}

// Parent is a roster record keyed by the external identity id.
type Parent struct {
	ID        string    `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Name      string    `db:"name" json:"name"`
	Surname   string    `db:"surname" json:"surname"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Address   string    `db:"address" json:"address"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ParentRow is the parent list view with aggregated child names.
type ParentRow struct {
	Parent
	StudentNames pq.StringArray `db:"student_names" json:"student_names"`
}

// ParentFilter captures the recognised query keys of the parent list.
type ParentFilter struct {
	Search string
	Page   int
}
