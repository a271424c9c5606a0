package models

import "time"

// CreateStudentRequest creates a student together with their login.
type CreateStudentRequest struct {
	Username string    `json:"username" validate:"required,min=3,max=64"`
	Password string    `json:"password" validate:"required,min=8"`
	Name     string    `json:"name" validate:"required"`
	Surname  string    `json:"surname" validate:"required"`
	Email    *string   `json:"email" validate:"omitempty,email"`
	Phone    *string   `json:"phone"`
	Address  string    `json:"address" validate:"required"`
	Sex      string    `json:"sex" validate:"required,oneof=M F"`
	Birthday time.Time `json:"birthday" validate:"required"`
	GradeID  int64     `json:"grade_id" validate:"required"`
	ClassID  *int64    `json:"class_id"`
	ParentID *string   `json:"parent_id"`
}

// UpdateStudentRequest updates an existing student.
type UpdateStudentRequest struct {
	ID       string    `json:"id" validate:"required"`
	Username string    `json:"username" validate:"required,min=3,max=64"`
	Name     string    `json:"name" validate:"required"`
	Surname  string    `json:"surname" validate:"required"`
	Email    *string   `json:"email" validate:"omitempty,email"`
	Phone    *string   `json:"phone"`
	Address  string    `json:"address" validate:"required"`
	Sex      string    `json:"sex" validate:"required,oneof=M F"`
	Birthday time.Time `json:"birthday" validate:"required"`
	GradeID  int64     `json:"grade_id" validate:"required"`
	ClassID  *int64    `json:"class_id"`
	ParentID *string   `json:"parent_id"`
}

// CreateTeacherRequest creates a teacher together with their login.
type CreateTeacherRequest struct {
	Username string    `json:"username" validate:"required,min=3,max=64"`
	Password string    `json:"password" validate:"required,min=8"`
	Name     string    `json:"name" validate:"required"`
	Surname  string    `json:"surname" validate:"required"`
	Email    *string   `json:"email" validate:"omitempty,email"`
	Phone    *string   `json:"phone"`
	Address  string    `json:"address" validate:"required"`
	Sex      string    `json:"sex" validate:"required,oneof=M F"`
	Birthday time.Time `json:"birthday" validate:"required"`
}

// UpdateTeacherRequest updates an existing teacher.
type UpdateTeacherRequest struct {
	ID       string    `json:"id" validate:"required"`
	Username string    `json:"username" validate:"required,min=3,max=64"`
	Name     string    `json:"name" validate:"required"`
	Surname  string    `json:"surname" validate:"required"`
	Email    *string   `json:"email" validate:"omitempty,email"`
	Phone    *string   `json:"phone"`
	Address  string    `json:"address" validate:"required"`
	Sex      string    `json:"sex" validate:"required,oneof=M F"`
	Birthday time.Time `json:"birthday" validate:"required"`
}

// CreateParentRequest creates a parent together with their login.
type CreateParentRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=64"`
	Password string  `json:"password" validate:"required,min=8"`
	Name     string  `json:"name" validate:"required"`
	Surname  string  `json:"surname" validate:"required"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone"`
	Address  string  `json:"address" validate:"required"`
}

// UpdateParentRequest updates an existing parent.
type UpdateParentRequest struct {
	ID       string  `json:"id" validate:"required"`
	Username string  `json:"username" validate:"required,min=3,max=64"`
	Name     string  `json:"name" validate:"required"`
	Surname  string  `json:"surname" validate:"required"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone"`
	Address  string  `json:"address" validate:"required"`
}

// ClassRequest creates or updates a class; ID is required on update.
type ClassRequest struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name" validate:"required"`
	Capacity     int     `json:"capacity" validate:"required,min=1"`
	GradeID      int64   `json:"grade_id" validate:"required"`
	SupervisorID *string `json:"supervisor_id"`
}

// SubjectRequest creates or updates a subject.
type SubjectRequest struct {
	ID   int64  `json:"id"`
	Name string `json:"name" validate:"required"`
}

// LessonRequest creates or updates a lesson.
type LessonRequest struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"required"`
	Day       string    `json:"day" validate:"required,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	SubjectID int64     `json:"subject_id" validate:"required"`
	ClassID   int64     `json:"class_id" validate:"required"`
	TeacherID string    `json:"teacher_id" validate:"required"`
}

// ExamRequest creates or updates an exam.
type ExamRequest struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title" validate:"required"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	LessonID  int64     `json:"lesson_id" validate:"required"`
}

// AssignmentRequest creates or updates an assignment.
type AssignmentRequest struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title" validate:"required"`
	StartDate time.Time `json:"start_date" validate:"required"`
	DueDate   time.Time `json:"due_date" validate:"required,gtfield=StartDate"`
	LessonID  int64     `json:"lesson_id" validate:"required"`
}

// ResultRequest creates or updates a result. Exactly one of ExamID and
// AssignmentID must be set.
type ResultRequest struct {
	ID           int64  `json:"id"`
	Score        int    `json:"score" validate:"min=0,max=100"`
	ExamID       *int64 `json:"exam_id"`
	AssignmentID *int64 `json:"assignment_id"`
	StudentID    string `json:"student_id" validate:"required"`
}

// EventRequest creates or updates an event.
type EventRequest struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	ClassID     *int64    `json:"class_id"`
}

// AnnouncementRequest creates or updates an announcement.
type AnnouncementRequest struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Date        time.Time `json:"date" validate:"required"`
	ClassID     *int64    `json:"class_id"`
}

// SendMessageRequest sends a direct message. SenderID must match the
// authenticated caller.
type SendMessageRequest struct {
	SenderID   string `json:"sender_id" validate:"required"`
	ReceiverID string `json:"receiver_id" validate:"required"`
	Content    string `json:"content" validate:"required"`
}

// ClassRequestDecision resolves a pending class assignment request.
// ClassID is required when the action is approve.
type ClassRequestDecision struct {
	Action  string `json:"action" validate:"required,oneof=approve reject"`
	ClassID *int64 `json:"class_id"`
}
