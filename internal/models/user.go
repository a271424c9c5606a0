package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleTeacher UserRole = "teacher"
	RoleStudent UserRole = "student"
	RoleParent  UserRole = "parent"
)

// Valid reports whether the role is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent, RoleParent:
		return true
	}
	return false
}

// User represents an application login stored in the users table. Every
// teacher, student and parent row shares its id with a users row; admins
// exist only here.
type User struct {
	ID           string     `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	Role         UserRole   `db:"role" json:"role"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Identity is the cross-table projection of any user id, resolved across
// the admin, teacher, student and parent tables.
type Identity struct {
	ID          string   `db:"id" json:"id"`
	Username    string   `db:"username" json:"username"`
	DisplayName string   `db:"display_name" json:"display_name"`
	Role        UserRole `db:"role" json:"role"`
}

// ContactUser is a messaging directory entry.
type ContactUser struct {
	ID          string   `db:"id" json:"id"`
	Username    string   `db:"username" json:"username"`
	Name        string   `db:"name" json:"name"`
	Surname     string   `db:"surname" json:"surname"`
	Role        UserRole `db:"role" json:"type"`
	DisplayName string   `db:"display_name" json:"display_name"`
	ClassName   *string  `db:"class_name" json:"class_name,omitempty"`
}

// PageSize is the fixed page size for every listing endpoint.
const PageSize = 10

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// NormalizePage clamps a 1-indexed page number; anything non-positive
// falls back to the first page.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
