package models

import "time"

// Student represents a learner registered in the institution. ClassID is
// nil until an admin assigns a class (see ClassAssignmentRequest).
type Student struct {
	ID        string    `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Name      string    `db:"name" json:"name"`
	Surname   string    `db:"surname" json:"surname"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Address   string    `db:"address" json:"address"`
	Sex       string    `db:"sex" json:"sex"`
	Birthday  time.Time `db:"birthday" json:"birthday"`
	GradeID   int64     `db:"grade_id" json:"grade_id"`
	ClassID   *int64    `db:"class_id" json:"class_id,omitempty"`
	ParentID  *string   `db:"parent_id" json:"parent_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// StudentDetail decorates a student with class and parent names for lists.
type StudentDetail struct {
	Student
	ClassName  *string `db:"class_name" json:"class_name,omitempty"`
	ParentName *string `db:"parent_name" json:"parent_name,omitempty"`
}

// StudentFilter captures list filters for students.
type StudentFilter struct {
	Search    string
	ClassID   *int64
	TeacherID string
	Page      int
}
