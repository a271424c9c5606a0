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

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns the page of students visible through the caller's scope,
// narrowed by the request filters, plus the total count.
func (r *StudentRepository) List(ctx context.Context, restrict scope.Clause, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	base := `FROM students
        LEFT JOIN classes c ON c.id = students.class_id
        LEFT JOIN parents p ON p.id = students.parent_id`
	conds := []string{}
	args := []interface{}{}

	if !restrict.Empty() {
		conds = append(conds, restrict.Cond)
		args = append(args, restrict.Args...)
	}
	if filter.ClassID != nil {
		conds = append(conds, "students.class_id = ?")
		args = append(args, *filter.ClassID)
	}
	if filter.TeacherID != "" {
		conds = append(conds, "students.class_id IN (SELECT l.class_id FROM lessons l WHERE l.teacher_id = ?)")
		args = append(args, filter.TeacherID)
	}
	if filter.Search != "" {
		cond, arg := searchClause([]string{"students.name", "students.surname", "students.username"}, filter.Search)
		conds = append(conds, cond)
		args = append(args, arg, arg, arg)
	}

	where := whereOf(conds)
	limit, offset := pageWindow(filter.Page)

	pageQuery := fmt.Sprintf(`SELECT students.id, students.username, students.name, students.surname,
        students.email, students.phone, students.address, students.sex, students.birthday,
        students.grade_id, students.class_id, students.parent_id, students.created_at,
        c.name AS class_name, p.name || ' ' || p.surname AS parent_name
        %s%s ORDER BY students.surname ASC, students.name ASC LIMIT %d OFFSET %d`, base, where, limit, offset)
	countQuery := fmt.Sprintf("SELECT COUNT(*) %s%s", base, where)

	var students []models.StudentDetail
	total, err := listInTx(ctx, r.db, &students, pageQuery, countQuery, args)
	if err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}
	return students, total, nil
}

// FindByID fetches a student detail by id.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	const query = `SELECT students.id, students.username, students.name, students.surname,
        students.email, students.phone, students.address, students.sex, students.birthday,
        students.grade_id, students.class_id, students.parent_id, students.created_at,
        c.name AS class_name, p.name || ' ' || p.surname AS parent_name
        FROM students
        LEFT JOIN classes c ON c.id = students.class_id
        LEFT JOIN parents p ON p.id = students.parent_id
        WHERE students.id = $1`
	var detail models.StudentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create inserts the login row and the student row in one transaction.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student, login *models.User) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	student.CreatedAt = now
	login.ID = student.ID
	login.Role = models.RoleStudent
	login.CreatedAt = now
	login.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create student: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const userQuery = `INSERT INTO users (id, username, password_hash, full_name, role, active, created_at, updated_at)
        VALUES (:id, :username, :password_hash, :full_name, :role, :active, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, userQuery, login); err != nil {
		return fmt.Errorf("create student login: %w", err)
	}

	const studentQuery = `INSERT INTO students (id, username, name, surname, email, phone, address, sex, birthday, grade_id, class_id, parent_id, created_at)
        VALUES (:id, :username, :name, :surname, :email, :phone, :address, :sex, :birthday, :grade_id, :class_id, :parent_id, :created_at)`
	if _, err := tx.NamedExecContext(ctx, studentQuery, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create student: %w", err)
	}
	return nil
}

// Update modifies an existing student row.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	const query = `UPDATE students SET username = :username, name = :name, surname = :surname,
        email = :email, phone = :phone, address = :address, sex = :sex, birthday = :birthday,
        grade_id = :grade_id, class_id = :class_id, parent_id = :parent_id WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// Delete removes the login row; the student row and dependents cascade.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return nil
}
