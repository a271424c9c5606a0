package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/scholara/scholara-api/internal/models"
	"github.com/scholara/scholara-api/internal/scope"
)

// ClassRepository manages persistence for classes and grades.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a ClassRepository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns the page of classes within the caller's scope.
func (r *ClassRepository) List(ctx context.Context, restrict scope.Clause, filter models.ClassFilter) ([]models.ClassDetail, int, error) {
	base := `FROM classes
        JOIN grades g ON g.id = classes.grade_id
        LEFT JOIN teachers t ON t.id = classes.supervisor_id`
	conds := []string{}
	args := []interface{}{}

	if !restrict.Empty() {
		conds = append(conds, restrict.Cond)
		args = append(args, restrict.Args...)
	}
	if filter.SupervisorID != "" {
		conds = append(conds, "classes.supervisor_id = ?")
		args = append(args, filter.SupervisorID)
	}
	if filter.Search != "" {
		cond, arg := searchClause([]string{"classes.name"}, filter.Search)
		conds = append(conds, cond)
		args = append(args, arg)
	}

	where := whereOf(conds)
	limit, offset := pageWindow(filter.Page)

	pageQuery := fmt.Sprintf(`SELECT classes.id, classes.name, classes.capacity, classes.grade_id, classes.supervisor_id,
        g.level AS grade_level, t.name || ' ' || t.surname AS supervisor_name
        %s%s ORDER BY classes.name ASC LIMIT %d OFFSET %d`, base, where, limit, offset)
	countQuery := fmt.Sprintf("SELECT COUNT(*) %s%s", base, where)

	var classes []models.ClassDetail
	total, err := listInTx(ctx, r.db, &classes, pageQuery, countQuery, args)
	if err != nil {
		return nil, 0, fmt.Errorf("list classes: %w", err)
	}
	return classes, total, nil
}

// AllNames returns every class as an {id, name} pair for form selects.
func (r *ClassRepository) AllNames(ctx context.Context) ([]models.NameRef, error) {
	const query = `SELECT CAST(id AS TEXT) AS id, name FROM classes ORDER BY name ASC`
	var refs []models.NameRef
	if err := r.db.SelectContext(ctx, &refs, query); err != nil {
		return nil, fmt.Errorf("list class names: %w", err)
	}
	return refs, nil
}

// FindByID fetches a class by id.
func (r *ClassRepository) FindByID(ctx context.Context, id int64) (*models.Class, error) {
	const query = `SELECT id, name, capacity, grade_id, supervisor_id FROM classes WHERE id = $1`
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// Create inserts a new class.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	const query = `INSERT INTO classes (name, capacity, grade_id, supervisor_id)
        VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.GetContext(ctx, &class.ID, query, class.Name, class.Capacity, class.GradeID, class.SupervisorID); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// Update modifies an existing class.
func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	const query = `UPDATE classes SET name = :name, capacity = :capacity, grade_id = :grade_id, supervisor_id = :supervisor_id WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	return nil
}

// Delete removes a class.
func (r *ClassRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	return nil
}

// Grades lists all grade levels.
func (r *ClassRepository) Grades(ctx context.Context) ([]models.Grade, error) {
	var grades []models.Grade
	if err := r.db.SelectContext(ctx, &grades, `SELECT id, level FROM grades ORDER BY level ASC`); err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}
	return grades, nil
}
