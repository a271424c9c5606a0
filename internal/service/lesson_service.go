package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/scholara/scholara-api/internal/models"
	"github.com/scholara/scholara-api/internal/scope"
	appErrors "github.com/scholara/scholara-api/pkg/errors"
)

type lessonRepository interface {
	List(ctx context.Context, restrict scope.Clause, filter models.LessonFilter) ([]models.LessonDetail, int, error)
	FindByID(ctx context.Context, id int64) (*models.Lesson, error)
	Create(ctx context.Context, lesson *models.Lesson) error
	Update(ctx context.Context, lesson *models.Lesson) error
	Delete(ctx context.Context, id int64) error
}

// LessonService provides schedule management use cases.
type LessonService struct {
	repo      lessonRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLessonService constructs a LessonService instance.
func NewLessonService(repo lessonRepository, validate *validator.Validate, logger *zap.Logger) *LessonService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &LessonService{repo: repo, validator: validate, logger: logger}
}

// List returns the page of lessons the caller is allowed to see.
func (s *LessonService) List(ctx context.Context, claims *models.JWTClaims, filter models.LessonFilter) ([]models.LessonDetail, *models.Pagination, error) {
	sc, err := scope.For(scope.FromClaims(claims))
	if err != nil {
		return nil, nil, err
	}

	lessons, total, err := s.repo.List(ctx, sc.Lessons(), filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
	}
	return lessons, pageMeta(filter.Page, total), nil
}

// Create registers a new lesson.
func (s *LessonService) Create(ctx context.Context, req models.LessonRequest) (*models.Lesson, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson payload")
	}

	lesson := &models.Lesson{
		Name:      req.Name,
		Day:       req.Day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		SubjectID: req.SubjectID,
		ClassID:   req.ClassID,
		TeacherID: req.TeacherID,
	}
	if err := s.repo.Create(ctx, lesson); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create lesson")
	}
	s.logger.Info("lesson created", zap.Int64("lessonId", lesson.ID))
	return lesson, nil
}

// Update modifies an existing lesson.
func (s *LessonService) Update(ctx context.Context, req models.LessonRequest) (*models.Lesson, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson payload")
	}
	if req.ID == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "lesson id is required")
	}

	if _, err := s.repo.FindByID(ctx, req.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
	}

	lesson := &models.Lesson{
		ID:        req.ID,
		Name:      req.Name,
		Day:       req.Day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		SubjectID: req.SubjectID,
		ClassID:   req.ClassID,
		TeacherID: req.TeacherID,
	}
	if err := s.repo.Update(ctx, lesson); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update lesson")
	}
	return lesson, nil
}

// Delete removes a lesson.
func (s *LessonService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete lesson")
	}
	s.logger.Info("lesson deleted", zap.Int64("lessonId", id))
	return nil
}
