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

type classRepository interface {
	List(ctx context.Context, restrict scope.Clause, filter models.ClassFilter) ([]models.ClassDetail, int, error)
	AllNames(ctx context.Context) ([]models.NameRef, error)
	FindByID(ctx context.Context, id int64) (*models.Class, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, id int64) error
	Grades(ctx context.Context) ([]models.Grade, error)
}

// ClassService provides class and grade management use cases.
type ClassService struct {
	repo      classRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs a ClassService instance.
func NewClassService(repo classRepository, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ClassService{repo: repo, validator: validate, logger: logger}
}

// List returns the page of classes the caller is allowed to see.
func (s *ClassService) List(ctx context.Context, claims *models.JWTClaims, filter models.ClassFilter) ([]models.ClassDetail, *models.Pagination, error) {
	sc, err := scope.For(scope.FromClaims(claims))
	if err != nil {
		return nil, nil, err
	}

	classes, total, err := s.repo.List(ctx, sc.Classes(), filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	return classes, pageMeta(filter.Page, total), nil
}

// All returns every class as {id, name} pairs for form selects.
func (s *ClassService) All(ctx context.Context) ([]models.NameRef, error) {
	refs, err := s.repo.AllNames(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	return refs, nil
}

// Get fetches a single class.
func (s *ClassService) Get(ctx context.Context, id int64) (*models.Class, error) {
	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return class, nil
}

// Create registers a new class.
func (s *ClassService) Create(ctx context.Context, req models.ClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}

	class := &models.Class{
		Name:         req.Name,
		Capacity:     req.Capacity,
		GradeID:      req.GradeID,
		SupervisorID: req.SupervisorID,
	}
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}
	s.logger.Info("class created", zap.Int64("classId", class.ID))
	return class, nil
}

// Update modifies an existing class.
func (s *ClassService) Update(ctx context.Context, req models.ClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	if req.ID == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class id is required")
	}

	if _, err := s.repo.FindByID(ctx, req.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	class := &models.Class{
		ID:           req.ID,
		Name:         req.Name,
		Capacity:     req.Capacity,
		GradeID:      req.GradeID,
		SupervisorID: req.SupervisorID,
	}
	if err := s.repo.Update(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class")
	}
	return class, nil
}

// Delete removes a class.
func (s *ClassService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete class")
	}
	s.logger.Info("class deleted", zap.Int64("classId", id))
	return nil
}

// Grades lists all grade levels.
func (s *ClassService) Grades(ctx context.Context) ([]models.Grade, error) {
	grades, err := s.repo.Grades(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grades")
	}
	return grades, nil
}
