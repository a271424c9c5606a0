package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/scholara/scholara-api/internal/models"
	"github.com/scholara/scholara-api/internal/scope"
)

// LessonRepository manages persistence for lessons.
type LessonRepository struct {
	db *sqlx.DB
}

// NewLessonRepository constructs a LessonRepository.
func NewLessonRepository(db *sqlx.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

// List returns the page of lessons within the caller's scope.
func (r *LessonRepository) List(ctx context.Context, restrict scope.Clause, filter models.LessonFilter) ([]models.LessonDetail, int, error) {
	base := `FROM lessons
        JOIN subjects sub ON sub.id = lessons.subject_id
        JOIN classes c ON c.id = lessons.class_id
        JOIN teachers t ON t.id = lessons.teacher_id`
	conds := []string{}
	args := []interface{}{}

	if !restrict.Empty() {
		conds = append(conds, restrict.Cond)
		args = append(args, restrict.Args...)
	}
	if filter.ClassID != nil {
		conds = append(conds, "lessons.class_id = ?")
		args = append(args, *filter.ClassID)
	}
	if filter.TeacherID != "" {
		conds = append(conds, "lessons.teacher_id = ?")
		args = append(args, filter.TeacherID)
	}
	if filter.Search != "" {
		cond, arg := searchClause([]string{"sub.name", "t.name", "t.surname"}, filter.Search)
		conds = append(conds, cond)
		args = append(args, arg, arg, arg)
	}

	where := whereOf(conds)
	limit, offset := pageWindow(filter.Page)

	pageQuery := fmt.Sprintf(`SELECT lessons.id, lessons.name, lessons.day, lessons.start_time, lessons.end_time,
        lessons.subject_id, lessons.class_id, lessons.teacher_id,
        sub.name AS subject_name, c.name AS class_name, t.name || ' ' || t.surname AS teacher_name
        %s%s ORDER BY lessons.start_time ASC LIMIT %d OFFSET %d`, base, where, limit, offset)
	countQuery := fmt.Sprintf("SELECT COUNT(*) %s%s", base, where)

	var lessons []models.LessonDetail
	total, err := listInTx(ctx, r.db, &lessons, pageQuery, countQuery, args)
	if err != nil {
		return nil, 0, fmt.Errorf("list lessons: %w", err)
	}
	return lessons, total, nil
}

// FindByID fetches a lesson by id.
func (r *LessonRepository) FindByID(ctx context.Context, id int64) (*models.Lesson, error) {
	const query = `SELECT id, name, day, start_time, end_time, subject_id, class_id, teacher_id FROM lessons WHERE id = $1`
	var lesson models.Lesson
	if err := r.db.GetContext(ctx, &lesson, query, id); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// Create inserts a new lesson.
func (r *LessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	const query = `INSERT INTO lessons (name, day, start_time, end_time, subject_id, class_id, teacher_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := r.db.GetContext(ctx, &lesson.ID, query,
		lesson.Name, lesson.Day, lesson.StartTime, lesson.EndTime, lesson.SubjectID, lesson.ClassID, lesson.TeacherID); err != nil {
		return fmt.Errorf("create lesson: %w", err)
	}
	return nil
}

// Update modifies an existing lesson.
func (r *LessonRepository) Update(ctx context.Context, lesson *models.Lesson) error {
	const query = `UPDATE lessons SET name = :name, day = :day, start_time = :start_time, end_time = :end_time,
        subject_id = :subject_id, class_id = :class_id, teacher_id = :teacher_id WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, lesson); err != nil {
		return fmt.Errorf("update lesson: %w", err)
	}
	return nil
}

// Delete removes a lesson.
func (r *LessonRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM lessons WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}
	return nil
}
