package models

import "time"

// Event is a calendar entry, school-wide when ClassID is nil.
type Event struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	StartTime   time.Time `db:"start_time" json:"start_time"`
	EndTime     time.Time `db:"end_time" json:"end_time"`
	ClassID     *int64    `db:"class_id" json:"class_id,omitempty"`
}

// Announcement is a dated notice, school-wide when ClassID is nil.
type Announcement struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Date        time.Time `db:"date" json:"date"`
	ClassID     *int64    `db:"class_id" json:"class_id,omitempty"`
}

// CalendarFilter captures list filters for events and announcements.
type CalendarFilter struct {
	Search  string
	ClassID *int64
	Page    int
}
