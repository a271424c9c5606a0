package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/scholara/scholara-api/internal/models"
	"github.com/scholara/scholara-api/internal/scope"
)

// AssessmentRepository manages persistence for exams and assignments.
// Both kinds share the lesson chain, so listing is built once and
// parameterized by kind.
type AssessmentRepository struct {
	db *sqlx.DB
}

// NewAssessmentRepository constructs an AssessmentRepository.
func NewAssessmentRepository(db *sqlx.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

// List returns the page of exams or assignments within the caller's
// scope. Assignment due dates are surfaced through the shared
// start/end columns.
func (r *AssessmentRepository) List(ctx context.Context, kind models.AssessmentKind, restrict scope.Clause, filter models.AssessmentFilter) ([]models.AssessmentDetail, int, error) {
	var base, columns string
	switch kind {
	case models.AssessmentExam:
		columns = "exams.id, exams.title, exams.start_time, exams.end_time, exams.lesson_id"
		base = "FROM exams JOIN lessons l ON l.id = exams.lesson_id"
	case models.AssessmentAssignment:
		columns = "assignments.id, assignments.title, assignments.start_date AS start_time, assignments.due_date AS end_time, assignments.lesson_id"
		base = "FROM assignments JOIN lessons l ON l.id = assignments.lesson_id"
	default:
		return nil, 0, fmt.Errorf("unknown assessment kind %q", kind)
	}
	base += `
        JOIN subjects sub ON sub.id = l.subject_id
        JOIN classes c ON c.id = l.class_id
        JOIN teachers t ON t.id = l.teacher_id`

	table := string(kind) + "s"
	conds := []string{}
	args := []interface{}{}

	if !restrict.Empty() {
		conds = append(conds, restrict.Cond)
		args = append(args, restrict.Args...)
	}
	if filter.ClassID != nil {
		conds = append(conds, "l.class_id = ?")
		args = append(args, *filter.ClassID)
	}
	if filter.TeacherID != "" {
		conds = append(conds, "l.teacher_id = ?")
		args = append(args, filter.TeacherID)
	}
	if filter.Search != "" {
		cond, arg := searchClause([]string{table + ".title", "sub.name"}, filter.Search)
		conds = append(conds, cond)
		args = append(args, arg, arg)
	}

	where := whereOf(conds)
	limit, offset := pageWindow(filter.Page)

	pageQuery := fmt.Sprintf(`SELECT %s, sub.name AS subject_name, c.name AS class_name, t.name || ' ' || t.surname AS teacher_name
        %s%s ORDER BY 3 DESC LIMIT %d OFFSET %d`, columns, base, where, limit, offset)
	countQuery := fmt.Sprintf("SELECT COUNT(*) %s%s", base, where)

	var rows []models.AssessmentDetail
	total, err := listInTx(ctx, r.db, &rows, pageQuery, countQuery, args)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", table, err)
	}
	return rows, total, nil
}

// FindExamByID fetches an exam by id.
func (r *AssessmentRepository) FindExamByID(ctx context.Context, id int64) (*models.Exam, error) {
	var exam models.Exam
	const query = `SELECT id, title, start_time, end_time, lesson_id FROM exams WHERE id = $1`
	if err := r.db.GetContext(ctx, &exam, query, id); err != nil {
		return nil, err
	}
	return &exam, nil
}

// CreateExam inserts a new exam.
func (r *AssessmentRepository) CreateExam(ctx context.Context, exam *models.Exam) error {
	const query = `INSERT INTO exams (title, start_time, end_time, lesson_id) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.GetContext(ctx, &exam.ID, query, exam.Title, exam.StartTime, exam.EndTime, exam.LessonID); err != nil {
		return fmt.Errorf("create exam: %w", err)
	}
	return nil
}

// UpdateExam modifies an existing exam.
func (r *AssessmentRepository) UpdateExam(ctx context.Context, exam *models.Exam) error {
	const query = `UPDATE exams SET title = :title, start_time = :start_time, end_time = :end_time, lesson_id = :lesson_id WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, exam); err != nil {
		return fmt.Errorf("update exam: %w", err)
	}
	return nil
}

// DeleteExam removes an exam.
func (r *AssessmentRepository) DeleteExam(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM exams WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete exam: %w", err)
	}
	return nil
}

// FindAssignmentByID fetches an assignment by id.
func (r *AssessmentRepository) FindAssignmentByID(ctx context.Context, id int64) (*models.Assignment, error) {
	var assignment models.Assignment
	const query = `SELECT id, title, start_date, due_date, lesson_id FROM assignments WHERE id = $1`
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// CreateAssignment inserts a new assignment.
func (r *AssessmentRepository) CreateAssignment(ctx context.Context, assignment *models.Assignment) error {
	const query = `INSERT INTO assignments (title, start_date, due_date, lesson_id) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.GetContext(ctx, &assignment.ID, query, assignment.Title, assignment.StartDate, assignment.DueDate, assignment.LessonID); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// UpdateAssignment modifies an existing assignment.
func (r *AssessmentRepository) UpdateAssignment(ctx context.Context, assignment *models.Assignment) error {
	const query = `UPDATE assignments SET title = :title, start_date = :start_date, due_date = :due_date, lesson_id = :lesson_id WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	return nil
}

// DeleteAssignment removes an assignment.
func (r *AssessmentRepository) DeleteAssignment(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}
