package models

import "time"

// Parent is a guardian linked to one or more students.
type Parent struct {
	ID        string    `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Name      string    `db:"name" json:"name"`
	Surname   string    `db:"surname" json:"surname"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Address   string    `db:"address" json:"address"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ParentDetail includes the concatenated student names for list rows.
type ParentDetail struct {
	Parent
	StudentNames *string `db:"student_names" json:"student_names,omitempty"`
}

// ParentFilter captures list filters for parents.
type ParentFilter struct {
	Search string
	Page   int
}
