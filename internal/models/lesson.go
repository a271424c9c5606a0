package models

import "time"

// Lesson links a teacher, a class and a subject inside a weekly schedule
// window.
type Lesson struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Day       string    `db:"day" json:"day"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
	SubjectID int64     `db:"subject_id" json:"subject_id"`
	ClassID   int64     `db:"class_id" json:"class_id"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
}

// LessonDetail decorates a lesson with joined display names.
type LessonDetail struct {
	Lesson
	SubjectName string `db:"subject_name" json:"subject_name"`
	ClassName   string `db:"class_name" json:"class_name"`
	TeacherName string `db:"teacher_name" json:"teacher_name"`
}

// LessonFilter captures list filters for lessons.
type LessonFilter struct {
	Search    string
	ClassID   *int64
	TeacherID string
	Page      int
}
