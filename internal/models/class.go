package models

// Grade is a school year level.
type Grade struct {
	ID    int64 `db:"id" json:"id"`
	Level int   `db:"level" json:"level"`
}

// Class groups students under a grade with an optional supervising teacher.
type Class struct {
	ID           int64   `db:"id" json:"id"`
	Name         string  `db:"name" json:"name"`
	Capacity     int     `db:"capacity" json:"capacity"`
	GradeID      int64   `db:"grade_id" json:"grade_id"`
	SupervisorID *string `db:"supervisor_id" json:"supervisor_id,omitempty"`
}

// ClassDetail decorates a class with grade level and supervisor name.
type ClassDetail struct {
	Class
	GradeLevel     int     `db:"grade_level" json:"grade_level"`
	SupervisorName *string `db:"supervisor_name" json:"supervisor_name,omitempty"`
}

// ClassFilter captures list filters for classes.
type ClassFilter struct {
	Search       string
	SupervisorID string
	Page         int
}

// Subject is a taught discipline.
type Subject struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// SubjectFilter captures list filters for subjects.
type SubjectFilter struct {
	Search string
	Page   int
}
