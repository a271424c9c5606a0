package models

import "time"

// Teacher represents a member of the teaching staff.
type Teacher struct {
	ID        string    `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Name      string    `db:"name" json:"name"`
	Surname   string    `db:"surname" json:"surname"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Address   string    `db:"address" json:"address"`
	Sex       string    `db:"sex" json:"sex"`
	Birthday  time.Time `db:"birthday" json:"birthday"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TeacherFilter captures list filters for teachers.
type TeacherFilter struct {
	Search  string
	ClassID *int64
	Page    int
}

// NameRef is a bare {id, name} projection used by form helpers such as
// GET /classes/all and GET /teachers/all.
type NameRef struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
