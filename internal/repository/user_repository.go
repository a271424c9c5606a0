package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/scholara/scholara-api/internal/models"
)

// UserRepository manages login rows, refresh tokens and cross-table
// identity resolution.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByUsername fetches a login row by username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	const query = `SELECT id, username, password_hash, full_name, role, active, last_login, created_at, updated_at
        FROM users WHERE username = $1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID fetches a login row by id.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	const query = `SELECT id, username, password_hash, full_name, role, active, last_login, created_at, updated_at
        FROM users WHERE id = $1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateLastLogin stamps the latest successful login.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	const query = `UPDATE users SET last_login = $2, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, ts); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// CreateRefreshToken persists a refresh token.
func (r *UserRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	const query = `INSERT INTO refresh_tokens (id, user_id, token, expires_at, created_at, revoked, ip_address, user_agent)
        VALUES (:id, :user_id, :token, :expires_at, :created_at, :revoked, :ip_address, :user_agent)`
	if _, err := r.db.NamedExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

// FindRefreshToken fetches a refresh token by its opaque value.
func (r *UserRepository) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	const query = `SELECT id, user_id, token, expires_at, created_at, revoked, revoked_at, ip_address, user_agent
        FROM refresh_tokens WHERE token = $1`
	var stored models.RefreshToken
	if err := r.db.GetContext(ctx, &stored, query, token); err != nil {
		return nil, err
	}
	return &stored, nil
}

// RevokeRefreshToken marks a refresh token revoked.
func (r *UserRepository) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	const query = `UPDATE refresh_tokens SET revoked = true, revoked_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, revokedAt); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// AssignedClass resolves the caller's class attribute: the student's own
// class, or the supervised class for a teacher. Returns nil when absent.
func (r *UserRepository) AssignedClass(ctx context.Context, userID string, role models.UserRole) (*int64, error) {
	var query string
	switch role {
	case models.RoleStudent:
		query = `SELECT class_id FROM students WHERE id = $1`
	case models.RoleTeacher:
		query = `SELECT id FROM classes WHERE supervisor_id = $1 LIMIT 1`
	default:
		return nil, nil
	}
	var classID *int64
	if err := r.db.GetContext(ctx, &classID, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve assigned class: %w", err)
	}
	return classID, nil
}

const identityQuery = `SELECT u.id, u.username, u.role,
        COALESCE(t.name || ' ' || t.surname, s.name || ' ' || s.surname, p.name || ' ' || p.surname, u.full_name) AS display_name
        FROM users u
        LEFT JOIN teachers t ON t.id = u.id
        LEFT JOIN students s ON s.id = u.id
        LEFT JOIN parents p ON p.id = u.id`

// ResolveIdentity resolves any user id across all role tables into a
// display-name projection.
func (r *UserRepository) ResolveIdentity(ctx context.Context, id string) (*models.Identity, error) {
	var identity models.Identity
	if err := r.db.GetContext(ctx, &identity, identityQuery+" WHERE u.id = $1", id); err != nil {
		return nil, err
	}
	return &identity, nil
}

// IdentityExists reports whether the id resolves to any known identity.
func (r *UserRepository) IdentityExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("check identity: %w", err)
	}
	return exists, nil
}

// SearchIdentities matches identities by name or username, excluding the
// caller, capped to keep the payload small.
func (r *UserRepository) SearchIdentities(ctx context.Context, term, excludeID string) ([]models.Identity, error) {
	query := identityQuery + ` WHERE u.id <> $2 AND (
            LOWER(u.username) LIKE $1
            OR LOWER(COALESCE(t.name || ' ' || t.surname, s.name || ' ' || s.surname, p.name || ' ' || p.surname, u.full_name)) LIKE $1)
        ORDER BY display_name ASC LIMIT 20`
	var identities []models.Identity
	pattern := "%" + strings.ToLower(term) + "%"
	if err := r.db.SelectContext(ctx, &identities, query, pattern, excludeID); err != nil {
		return nil, fmt.Errorf("search identities: %w", err)
	}
	return identities, nil
}

// Contacts returns the messaging directory visible to the caller. Admins
// and teachers see the whole school; students see their class teachers,
// classmates and parent; parents see their children and the children's
// teachers.
func (r *UserRepository) Contacts(ctx context.Context, callerID string, role models.UserRole) ([]models.ContactUser, error) {
	var query string
	args := []interface{}{callerID}

	const teacherCols = `t.id, t.username, t.name, t.surname, 'teacher' AS role, t.name || ' ' || t.surname || ' (Teacher)' AS display_name, NULL AS class_name`
	const parentCols = `p.id, p.username, p.name, p.surname, 'parent' AS role, p.name || ' ' || p.surname || ' (Parent)' AS display_name, NULL AS class_name`

	switch role {
	case models.RoleAdmin, models.RoleTeacher:
		query = `SELECT ` + teacherCols + ` FROM teachers t WHERE t.id <> $1
            UNION ALL
            SELECT s.id, s.username, s.name, s.surname, 'student', s.name || ' ' || s.surname || ' (' || COALESCE(c.name, 'Unassigned') || ')', c.name
            FROM students s LEFT JOIN classes c ON c.id = s.class_id WHERE s.id <> $1
            UNION ALL
            SELECT ` + parentCols + ` FROM parents p WHERE p.id <> $1
            ORDER BY display_name ASC`
	case models.RoleStudent:
		query = `SELECT ` + teacherCols + ` FROM teachers t
            WHERE t.id IN (SELECT l.teacher_id FROM lessons l JOIN students me ON me.class_id = l.class_id WHERE me.id = $1)
            UNION ALL
            SELECT s.id, s.username, s.name, s.surname, 'student', s.name || ' ' || s.surname || ' (Classmate)', c.name
            FROM students s
            JOIN students me ON me.class_id = s.class_id AND me.id = $1
            LEFT JOIN classes c ON c.id = s.class_id
            WHERE s.id <> $1
            UNION ALL
            SELECT ` + parentCols + ` FROM parents p
            WHERE p.id IN (SELECT me.parent_id FROM students me WHERE me.id = $1 AND me.parent_id IS NOT NULL)
            ORDER BY display_name ASC`
	case models.RoleParent:
		query = `SELECT ` + teacherCols + ` FROM teachers t
            WHERE t.id IN (SELECT l.teacher_id FROM lessons l JOIN students ch ON ch.class_id = l.class_id WHERE ch.parent_id = $1)
            UNION ALL
            SELECT s.id, s.username, s.name, s.surname, 'student', s.name || ' ' || s.surname || ' (' || COALESCE(c.name, 'Unassigned') || ')', c.name
            FROM students s LEFT JOIN classes c ON c.id = s.class_id WHERE s.parent_id = $1
            ORDER BY display_name ASC`
	default:
		return nil, nil
	}

	var contacts []models.ContactUser
	if err := r.db.SelectContext(ctx, &contacts, query, args...); err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}
