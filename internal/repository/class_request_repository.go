package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/scholara/scholara-api/internal/models"
)

// uniqueViolation is the Postgres error code raised by the partial
// unique index guarding one pending request per student.
const uniqueViolation = "23505"

// ClassRequestRepository manages persistence for class assignment
// requests.
type ClassRequestRepository struct {
	db *sqlx.DB
}

// NewClassRequestRepository constructs a ClassRequestRepository.
func NewClassRequestRepository(db *sqlx.DB) *ClassRequestRepository {
	return &ClassRequestRepository{db: db}
}

// Create inserts a pending request for the student. Returns
// ErrDuplicatePending when a pending request already exists; the unique
// index makes the check race-free.
func (r *ClassRequestRepository) Create(ctx context.Context, request *models.ClassAssignmentRequest) error {
	request.Status = models.ClassRequestPending
	request.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO class_assignment_requests (student_id, status, created_at)
        VALUES ($1, $2, $3) RETURNING id`
	err := r.db.GetContext(ctx, &request.ID, query, request.StudentID, request.Status, request.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
			return ErrDuplicatePending
		}
		return fmt.Errorf("create class request: %w", err)
	}
	return nil
}

// ErrDuplicatePending reports that a student already has a pending
// request.
var ErrDuplicatePending = fmt.Errorf("student already has a pending class assignment request")

// FindPending returns the student's pending request, or nil when none
// exists.
func (r *ClassRequestRepository) FindPending(ctx context.Context, studentID string) (*models.ClassAssignmentRequest, error) {
	const query = `SELECT id, student_id, status, created_at FROM class_assignment_requests
        WHERE student_id = $1 AND status = $2`
	var requests []models.ClassAssignmentRequest
	if err := r.db.SelectContext(ctx, &requests, query, studentID, models.ClassRequestPending); err != nil {
		return nil, fmt.Errorf("find pending class request: %w", err)
	}
	if len(requests) == 0 {
		return nil, nil
	}
	return &requests[0], nil
}

// FindByID fetches a request by id.
func (r *ClassRequestRepository) FindByID(ctx context.Context, id int64) (*models.ClassAssignmentRequest, error) {
	var request models.ClassAssignmentRequest
	const query = `SELECT id, student_id, status, created_at FROM class_assignment_requests WHERE id = $1`
	if err := r.db.GetContext(ctx, &request, query, id); err != nil {
		return nil, err
	}
	return &request, nil
}

// List returns a page of requests with the requesting student's name
// joined in, pending first then newest.
func (r *ClassRequestRepository) List(ctx context.Context, status models.ClassRequestStatus, page int) ([]models.ClassAssignmentRequestDetail, int, error) {
	base := `FROM class_assignment_requests
        JOIN students st ON st.id = class_assignment_requests.student_id`
	conds := []string{}
	args := []interface{}{}
	if status != "" {
		conds = append(conds, "class_assignment_requests.status = ?")
		args = append(args, status)
	}

	where := whereOf(conds)
	limit, offset := pageWindow(page)

	pageQuery := fmt.Sprintf(`SELECT class_assignment_requests.id, class_assignment_requests.student_id,
        class_assignment_requests.status, class_assignment_requests.created_at,
        st.name || ' ' || st.surname AS student_name
        %s%s ORDER BY (class_assignment_requests.status = 'pending') DESC,
        class_assignment_requests.created_at DESC LIMIT %d OFFSET %d`, base, where, limit, offset)
	countQuery := fmt.Sprintf("SELECT COUNT(*) %s%s", base, where)

	var requests []models.ClassAssignmentRequestDetail
	total, err := listInTx(ctx, r.db, &requests, pageQuery, countQuery, args)
	if err != nil {
		return nil, 0, fmt.Errorf("list class requests: %w", err)
	}
	return requests, total, nil
}

// Approve transitions a pending request to approved and moves the
// student into the chosen class, both inside one transaction. The
// status update is conditional on the row still being pending, so of
// two racing approvals only the first commits; the loser sees zero
// rows matched and this returns false.
func (r *ClassRequestRepository) Approve(ctx context.Context, id int64, classID int64) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin approve: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx,
		`UPDATE class_assignment_requests SET status = $2 WHERE id = $1 AND status = $3`,
		id, models.ClassRequestApproved, models.ClassRequestPending)
	if err != nil {
		return false, fmt.Errorf("approve class request: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("approve class request: %w", err)
	}
	if rows == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE students SET class_id = $2 WHERE id = (SELECT student_id FROM class_assignment_requests WHERE id = $1)`,
		id, classID); err != nil {
		return false, fmt.Errorf("assign student class: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit approve: %w", err)
	}
	return true, nil
}

// Reject transitions a pending request to rejected. Returns false when
// the request was not pending anymore.
func (r *ClassRequestRepository) Reject(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE class_assignment_requests SET status = $2 WHERE id = $1 AND status = $3`,
		id, models.ClassRequestRejected, models.ClassRequestPending)
	if err != nil {
		return false, fmt.Errorf("reject class request: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reject class request: %w", err)
	}
	return rows > 0, nil
}
