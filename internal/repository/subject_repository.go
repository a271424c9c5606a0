package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/scholara/scholara-api/internal/models"
)

// SubjectRepository manages persistence for subjects. Subjects are not
// role-scoped; every authenticated user may browse them.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs a SubjectRepository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// List returns a page of subjects.
func (r *SubjectRepository) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error) {
	conds := []string{}
	args := []interface{}{}
	if filter.Search != "" {
		cond, arg := searchClause([]string{"subjects.name"}, filter.Search)
		conds = append(conds, cond)
		args = append(args, arg)
	}

	where := whereOf(conds)
	limit, offset := pageWindow(filter.Page)

	pageQuery := fmt.Sprintf("SELECT subjects.id, subjects.name FROM subjects%s ORDER BY subjects.name ASC LIMIT %d OFFSET %d", where, limit, offset)
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM subjects%s", where)

	var subjects []models.Subject
	total, err := listInTx(ctx, r.db, &subjects, pageQuery, countQuery, args)
	if err != nil {
		return nil, 0, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, total, nil
}

// FindByID fetches a subject by id.
func (r *SubjectRepository) FindByID(ctx context.Context, id int64) (*models.Subject, error) {
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, `SELECT id, name FROM subjects WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// Create inserts a new subject.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	const query = `INSERT INTO subjects (name) VALUES ($1) RETURNING id`
	if err := r.db.GetContext(ctx, &subject.ID, query, subject.Name); err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}

// Update renames a subject.
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE subjects SET name = $2 WHERE id = $1`, subject.ID, subject.Name); err != nil {
		return fmt.Errorf("update subject: %w", err)
	}
	return nil
}

// Delete removes a subject.
func (r *SubjectRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	return nil
}
