package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/scholara/scholara-api/internal/models"
	"github.com/scholara/scholara-api/internal/scope"
)

// resultBase joins a result row to whichever assessment it references
// and then up the lesson chain. Scope fragments for results bind on the
// r and l aliases.
const resultBase = `FROM results r
        LEFT JOIN exams e ON e.id = r.exam_id
        LEFT JOIN assignments a ON a.id = r.assignment_id
        JOIN lessons l ON l.id = COALESCE(e.lesson_id, a.lesson_id)
        JOIN classes c ON c.id = l.class_id
        JOIN teachers t ON t.id = l.teacher_id
        JOIN students st ON st.id = r.student_id`

// ResultRepository manages persistence for assessment results.
type ResultRepository struct {
	db *sqlx.DB
}

// NewResultRepository constructs a ResultRepository.
func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// List returns the page of results within the caller's scope.
func (r *ResultRepository) List(ctx context.Context, restrict scope.Clause, filter models.ResultFilter) ([]models.ResultDetail, int, error) {
	conds := []string{}
	args := []interface{}{}

	if !restrict.Empty() {
		conds = append(conds, restrict.Cond)
		args = append(args, restrict.Args...)
	}
	if filter.StudentID != "" {
		conds = append(conds, "r.student_id = ?")
		args = append(args, filter.StudentID)
	}
	if filter.Search != "" {
		cond, arg := searchClause([]string{"COALESCE(e.title, a.title)", "st.name", "st.surname"}, filter.Search)
		conds = append(conds, cond)
		args = append(args, arg, arg, arg)
	}

	where := whereOf(conds)
	limit, offset := pageWindow(filter.Page)

	pageQuery := fmt.Sprintf(`SELECT %s %s%s ORDER BY start_time DESC, r.id DESC LIMIT %d OFFSET %d`,
		resultColumns, resultBase, where, limit, offset)
	countQuery := fmt.Sprintf("SELECT COUNT(*) %s%s", resultBase, where)

	var results []models.ResultDetail
	total, err := listInTx(ctx, r.db, &results, pageQuery, countQuery, args)
	if err != nil {
		return nil, 0, fmt.Errorf("list results: %w", err)
	}
	return results, total, nil
}

const resultColumns = `r.id, r.score, r.exam_id, r.assignment_id, r.student_id,
        COALESCE(e.title, a.title) AS title,
        st.name || ' ' || st.surname AS student_name,
        t.name || ' ' || t.surname AS teacher_name,
        c.name AS class_name,
        COALESCE(e.start_time, a.start_date) AS start_time`

// ListAll returns every result within the caller's scope without
// pagination, for export rendering.
func (r *ResultRepository) ListAll(ctx context.Context, restrict scope.Clause, filter models.ResultFilter) ([]models.ResultDetail, error) {
	conds := []string{}
	args := []interface{}{}
	if !restrict.Empty() {
		conds = append(conds, restrict.Cond)
		args = append(args, restrict.Args...)
	}
	if filter.StudentID != "" {
		conds = append(conds, "r.student_id = ?")
		args = append(args, filter.StudentID)
	}

	query := fmt.Sprintf("SELECT %s %s%s ORDER BY start_time DESC, r.id DESC", resultColumns, resultBase, whereOf(conds))

	var results []models.ResultDetail
	if err := r.db.SelectContext(ctx, &results, rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list all results: %w", err)
	}
	return results, nil
}

// FindByID fetches a result by id.
func (r *ResultRepository) FindByID(ctx context.Context, id int64) (*models.Result, error) {
	var result models.Result
	const query = `SELECT id, score, exam_id, assignment_id, student_id FROM results WHERE id = $1`
	if err := r.db.GetContext(ctx, &result, query, id); err != nil {
		return nil, err
	}
	return &result, nil
}

// Create inserts a new result.
func (r *ResultRepository) Create(ctx context.Context, result *models.Result) error {
	const query = `INSERT INTO results (score, exam_id, assignment_id, student_id) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.GetContext(ctx, &result.ID, query, result.Score, result.ExamID, result.AssignmentID, result.StudentID); err != nil {
		return fmt.Errorf("create result: %w", err)
	}
	return nil
}

// Update modifies an existing result.
func (r *ResultRepository) Update(ctx context.Context, result *models.Result) error {
	const query = `UPDATE results SET score = :score, exam_id = :exam_id, assignment_id = :assignment_id, student_id = :student_id WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, result); err != nil {
		return fmt.Errorf("update result: %w", err)
	}
	return nil
}

// Delete removes a result.
func (r *ResultRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM results WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete result: %w", err)
	}
	return nil
}
