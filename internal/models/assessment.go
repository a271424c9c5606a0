package models

import "time"

// AssessmentKind discriminates exams from assignments.
type AssessmentKind string

const (
	AssessmentExam       AssessmentKind = "exam"
	AssessmentAssignment AssessmentKind = "assignment"
)

// Exam is a scheduled assessment attached to one lesson.
type Exam struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
	LessonID  int64     `db:"lesson_id" json:"lesson_id"`
}

// Assignment is homework with a due window attached to one lesson.
type Assignment struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	DueDate   time.Time `db:"due_date" json:"due_date"`
	LessonID  int64     `db:"lesson_id" json:"lesson_id"`
}

// AssessmentDetail is the shared list row for exams and assignments with
// lesson chain names joined in.
type AssessmentDetail struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	StartTime   time.Time `db:"start_time" json:"start_time"`
	EndTime     time.Time `db:"end_time" json:"end_time"`
	LessonID    int64     `db:"lesson_id" json:"lesson_id"`
	SubjectName string    `db:"subject_name" json:"subject_name"`
	ClassName   string    `db:"class_name" json:"class_name"`
	TeacherName string    `db:"teacher_name" json:"teacher_name"`
}

// AssessmentFilter captures list filters for exams and assignments.
type AssessmentFilter struct {
	Search    string
	ClassID   *int64
	TeacherID string
	Page      int
}

// Result scores exactly one student on exactly one exam or assignment.
type Result struct {
	ID           int64  `db:"id" json:"id"`
	Score        int    `db:"score" json:"score"`
	ExamID       *int64 `db:"exam_id" json:"exam_id,omitempty"`
	AssignmentID *int64 `db:"assignment_id" json:"assignment_id,omitempty"`
	StudentID    string `db:"student_id" json:"student_id"`
}

// ResultDetail is the list row joining assessment title and student name.
type ResultDetail struct {
	Result
	Title       string    `db:"title" json:"title"`
	StudentName string    `db:"student_name" json:"student_name"`
	TeacherName string    `db:"teacher_name" json:"teacher_name"`
	ClassName   string    `db:"class_name" json:"class_name"`
	StartTime   time.Time `db:"start_time" json:"start_time"`
}

// ResultFilter captures list filters for results.
type ResultFilter struct {
	Search    string
	StudentID string
	Page      int
}
