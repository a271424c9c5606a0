package models

import "time"

// ClassRequestStatus captures the workflow states of a class assignment
// request. Pending is the only non-terminal state.
type ClassRequestStatus string

const (
	ClassRequestPending  ClassRequestStatus = "pending"
	ClassRequestApproved ClassRequestStatus = "approved"
	ClassRequestRejected ClassRequestStatus = "rejected"
)

// ClassAssignmentRequest is a student's petition to be placed in a class.
// At most one pending request may exist per student.
type ClassAssignmentRequest struct {
	ID        int64              `db:"id" json:"id"`
	StudentID string             `db:"student_id" json:"student_id"`
	Status    ClassRequestStatus `db:"status" json:"status"`
	CreatedAt time.Time          `db:"created_at" json:"created_at"`
}

// ClassAssignmentRequestDetail joins the requesting student's name.
type ClassAssignmentRequestDetail struct {
	ClassAssignmentRequest
	StudentName string `db:"student_name" json:"student_name"`
}
