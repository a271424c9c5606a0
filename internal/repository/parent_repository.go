package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/scholara/scholara-api/internal/models"
	"github.com/scholara/scholara-api/internal/scope"
)

// ParentRepository manages persistence for guardians.
type ParentRepository struct {
	db *sqlx.DB
}

// NewParentRepository constructs a ParentRepository.
func NewParentRepository(db *sqlx.DB) *ParentRepository {
	return &ParentRepository{db: db}
}

// List returns the page of parents within the caller's scope, with their
// children's names aggregated for display.
func (r *ParentRepository) List(ctx context.Context, restrict scope.Clause, filter models.ParentFilter) ([]models.ParentDetail, int, error) {
	base := "FROM parents"
	conds := []string{}
	args := []interface{}{}

	if !restrict.Empty() {
		conds = append(conds, restrict.Cond)
		args = append(args, restrict.Args...)
	}
	if filter.Search != "" {
		cond, arg := searchClause([]string{"parents.name", "parents.surname", "parents.username"}, filter.Search)
		conds = append(conds, cond)
		args = append(args, arg, arg, arg)
	}

	where := whereOf(conds)
	limit, offset := pageWindow(filter.Page)

	pageQuery := fmt.Sprintf(`SELECT parents.id, parents.username, parents.name, parents.surname,
        parents.email, parents.phone, parents.address, parents.created_at,
        (SELECT STRING_AGG(st.name || ' ' || st.surname, ', ' ORDER BY st.name)
         FROM students st WHERE st.parent_id = parents.id) AS student_names
        %s%s ORDER BY parents.surname ASC, parents.name ASC LIMIT %d OFFSET %d`, base, where, limit, offset)
	countQuery := fmt.Sprintf("SELECT COUNT(*) %s%s", base, where)

	var parents []models.ParentDetail
	total, err := listInTx(ctx, r.db, &parents, pageQuery, countQuery, args)
	if err != nil {
		return nil, 0, fmt.Errorf("list parents: %w", err)
	}
	return parents, total, nil
}

// FindByID fetches a parent by id.
func (r *ParentRepository) FindByID(ctx context.Context, id string) (*models.Parent, error) {
	const query = `SELECT id, username, name, surname, email, phone, address, created_at FROM parents WHERE id = $1`
	var parent models.Parent
	if err := r.db.GetContext(ctx, &parent, query, id); err != nil {
		return nil, err
	}
	return &parent, nil
}

// Create inserts the login row and the parent row in one transaction.
func (r *ParentRepository) Create(ctx context.Context, parent *models.Parent, login *models.User) error {
	if parent.ID == "" {
		parent.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	parent.CreatedAt = now
	login.ID = parent.ID
	login.Role = models.RoleParent
	login.CreatedAt = now
	login.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create parent: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const userQuery = `INSERT INTO users (id, username, password_hash, full_name, role, active, created_at, updated_at)
        VALUES (:id, :username, :password_hash, :full_name, :role, :active, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, userQuery, login); err != nil {
		return fmt.Errorf("create parent login: %w", err)
	}

	const parentQuery = `INSERT INTO parents (id, username, name, surname, email, phone, address, created_at)
        VALUES (:id, :username, :name, :surname, :email, :phone, :address, :created_at)`
	if _, err := tx.NamedExecContext(ctx, parentQuery, parent); err != nil {
		return fmt.Errorf("create parent: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create parent: %w", err)
	}
	return nil
}

// Update modifies an existing parent row.
func (r *ParentRepository) Update(ctx context.Context, parent *models.Parent) error {
	const query = `UPDATE parents SET username = :username, name = :name, surname = :surname,
        email = :email, phone = :phone, address = :address WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, parent); err != nil {
		return fmt.Errorf("update parent: %w", err)
	}
	return nil
}

// Delete removes the login row; the parent row cascades and children
// keep a null parent reference.
func (r *ParentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete parent: %w", err)
	}
	return nil
}
