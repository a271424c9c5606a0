package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/scholara/scholara-api/internal/models"
	"github.com/scholara/scholara-api/internal/scope"
)

// CalendarRepository manages persistence for events and announcements.
type CalendarRepository struct {
	db *sqlx.DB
}

// NewCalendarRepository constructs a CalendarRepository.
func NewCalendarRepository(db *sqlx.DB) *CalendarRepository {
	return &CalendarRepository{db: db}
}

// ListEvents returns the page of events visible to the caller. Rows
// with a null class_id are school-wide.
func (r *CalendarRepository) ListEvents(ctx context.Context, restrict scope.Clause, filter models.CalendarFilter) ([]models.Event, int, error) {
	conds := []string{}
	args := []interface{}{}

	if !restrict.Empty() {
		conds = append(conds, restrict.Cond)
		args = append(args, restrict.Args...)
	}
	if filter.ClassID != nil {
		conds = append(conds, "class_id = ?")
		args = append(args, *filter.ClassID)
	}
	if filter.Search != "" {
		cond, arg := searchClause([]string{"title"}, filter.Search)
		conds = append(conds, cond)
		args = append(args, arg)
	}

	where := whereOf(conds)
	limit, offset := pageWindow(filter.Page)

	pageQuery := fmt.Sprintf(`SELECT id, title, description, start_time, end_time, class_id
        FROM events%s ORDER BY start_time DESC LIMIT %d OFFSET %d`, where, limit, offset)
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM events%s", where)

	var events []models.Event
	total, err := listInTx(ctx, r.db, &events, pageQuery, countQuery, args)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return events, total, nil
}

// FindEventByID fetches an event by id.
func (r *CalendarRepository) FindEventByID(ctx context.Context, id int64) (*models.Event, error) {
	var event models.Event
	const query = `SELECT id, title, description, start_time, end_time, class_id FROM events WHERE id = $1`
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		return nil, err
	}
	return &event, nil
}

// CreateEvent inserts a new event.
func (r *CalendarRepository) CreateEvent(ctx context.Context, event *models.Event) error {
	const query = `INSERT INTO events (title, description, start_time, end_time, class_id)
        VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.GetContext(ctx, &event.ID, query, event.Title, event.Description, event.StartTime, event.EndTime, event.ClassID); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// UpdateEvent modifies an existing event.
func (r *CalendarRepository) UpdateEvent(ctx context.Context, event *models.Event) error {
	const query = `UPDATE events SET title = :title, description = :description,
        start_time = :start_time, end_time = :end_time, class_id = :class_id WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

// DeleteEvent removes an event.
func (r *CalendarRepository) DeleteEvent(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// ListAnnouncements returns the page of announcements visible to the
// caller, newest first.
func (r *CalendarRepository) ListAnnouncements(ctx context.Context, restrict scope.Clause, filter models.CalendarFilter) ([]models.Announcement, int, error) {
	conds := []string{}
	args := []interface{}{}

	if !restrict.Empty() {
		conds = append(conds, restrict.Cond)
		args = append(args, restrict.Args...)
	}
	if filter.ClassID != nil {
		conds = append(conds, "class_id = ?")
		args = append(args, *filter.ClassID)
	}
	if filter.Search != "" {
		cond, arg := searchClause([]string{"title"}, filter.Search)
		conds = append(conds, cond)
		args = append(args, arg)
	}

	where := whereOf(conds)
	limit, offset := pageWindow(filter.Page)

	pageQuery := fmt.Sprintf(`SELECT id, title, description, date, class_id
        FROM announcements%s ORDER BY date DESC LIMIT %d OFFSET %d`, where, limit, offset)
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM announcements%s", where)

	var announcements []models.Announcement
	total, err := listInTx(ctx, r.db, &announcements, pageQuery, countQuery, args)
	if err != nil {
		return nil, 0, fmt.Errorf("list announcements: %w", err)
	}
	return announcements, total, nil
}

// FindAnnouncementByID fetches an announcement by id.
func (r *CalendarRepository) FindAnnouncementByID(ctx context.Context, id int64) (*models.Announcement, error) {
	var announcement models.Announcement
	const query = `SELECT id, title, description, date, class_id FROM announcements WHERE id = $1`
	if err := r.db.GetContext(ctx, &announcement, query, id); err != nil {
		return nil, err
	}
	return &announcement, nil
}

// CreateAnnouncement inserts a new announcement.
func (r *CalendarRepository) CreateAnnouncement(ctx context.Context, announcement *models.Announcement) error {
	const query = `INSERT INTO announcements (title, description, date, class_id)
        VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.GetContext(ctx, &announcement.ID, query, announcement.Title, announcement.Description, announcement.Date, announcement.ClassID); err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}
	return nil
}

// UpdateAnnouncement modifies an existing announcement.
func (r *CalendarRepository) UpdateAnnouncement(ctx context.Context, announcement *models.Announcement) error {
	const query = `UPDATE announcements SET title = :title, description = :description,
        date = :date, class_id = :class_id WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, announcement); err != nil {
		return fmt.Errorf("update announcement: %w", err)
	}
	return nil
}

// DeleteAnnouncement removes an announcement.
func (r *CalendarRepository) DeleteAnnouncement(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	return nil
}
