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

// TeacherRepository manages persistence for teaching staff.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// List returns the page of teachers within the caller's scope.
func (r *TeacherRepository) List(ctx context.Context, restrict scope.Clause, filter models.TeacherFilter) ([]models.Teacher, int, error) {
	base := "FROM teachers"
	conds := []string{}
	args := []interface{}{}

	if !restrict.Empty() {
		conds = append(conds, restrict.Cond)
		args = append(args, restrict.Args...)
	}
	if filter.ClassID != nil {
		conds = append(conds, "teachers.id IN (SELECT l.teacher_id FROM lessons l WHERE l.class_id = ?)")
		args = append(args, *filter.ClassID)
	}
	if filter.Search != "" {
		cond, arg := searchClause([]string{"teachers.name", "teachers.surname", "teachers.username"}, filter.Search)
		conds = append(conds, cond)
		args = append(args, arg, arg, arg)
	}

	where := whereOf(conds)
	limit, offset := pageWindow(filter.Page)

	pageQuery := fmt.Sprintf(`SELECT teachers.id, teachers.username, teachers.name, teachers.surname,
        teachers.email, teachers.phone, teachers.address, teachers.sex, teachers.birthday, teachers.created_at
        %s%s ORDER BY teachers.surname ASC, teachers.name ASC LIMIT %d OFFSET %d`, base, where, limit, offset)
	countQuery := fmt.Sprintf("SELECT COUNT(*) %s%s", base, where)

	var teachers []models.Teacher
	total, err := listInTx(ctx, r.db, &teachers, pageQuery, countQuery, args)
	if err != nil {
		return nil, 0, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, total, nil
}

// AllNames returns the full staff roster as {id, name} pairs for forms.
func (r *TeacherRepository) AllNames(ctx context.Context) ([]models.NameRef, error) {
	const query = `SELECT id, name || ' ' || surname AS name FROM teachers ORDER BY name ASC`
	var refs []models.NameRef
	if err := r.db.SelectContext(ctx, &refs, query); err != nil {
		return nil, fmt.Errorf("list teacher names: %w", err)
	}
	return refs, nil
}

// FindByID fetches a teacher by id.
func (r *TeacherRepository) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	const query = `SELECT id, username, name, surname, email, phone, address, sex, birthday, created_at
        FROM teachers WHERE id = $1`
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, id); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// Create inserts the login row and the teacher row in one transaction.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher, login *models.User) error {
	if teacher.ID == "" {
		teacher.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	teacher.CreatedAt = now
	login.ID = teacher.ID
	login.Role = models.RoleTeacher
	login.CreatedAt = now
	login.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create teacher: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const userQuery = `INSERT INTO users (id, username, password_hash, full_name, role, active, created_at, updated_at)
        VALUES (:id, :username, :password_hash, :full_name, :role, :active, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, userQuery, login); err != nil {
		return fmt.Errorf("create teacher login: %w", err)
	}

	const teacherQuery = `INSERT INTO teachers (id, username, name, surname, email, phone, address, sex, birthday, created_at)
        VALUES (:id, :username, :name, :surname, :email, :phone, :address, :sex, :birthday, :created_at)`
	if _, err := tx.NamedExecContext(ctx, teacherQuery, teacher); err != nil {
		return fmt.Errorf("create teacher: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create teacher: %w", err)
	}
	return nil
}

// Update modifies an existing teacher row.
func (r *TeacherRepository) Update(ctx context.Context, teacher *models.Teacher) error {
	const query = `UPDATE teachers SET username = :username, name = :name, surname = :surname,
        email = :email, phone = :phone, address = :address, sex = :sex, birthday = :birthday WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, teacher); err != nil {
		return fmt.Errorf("update teacher: %w", err)
	}
	return nil
}

// Delete removes the login row; the teacher row cascades.
func (r *TeacherRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete teacher: %w", err)
	}
	return nil
}
