package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/scholara/scholara-api/internal/models"
	"github.com/scholara/scholara-api/internal/scope"
	appErrors "github.com/scholara/scholara-api/pkg/errors"
)

type parentRepository interface {
	List(ctx context.Context, restrict scope.Clause, filter models.ParentFilter) ([]models.ParentDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Parent, error)
	Create(ctx context.Context, parent *models.Parent, login *models.User) error
	Update(ctx context.Context, parent *models.Parent) error
	Delete(ctx context.Context, id string) error
}

// ParentService provides guardian management use cases.
type ParentService struct {
	repo      parentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewParentService constructs a ParentService instance.
func NewParentService(repo parentRepository, validate *validator.Validate, logger *zap.Logger) *ParentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ParentService{repo: repo, validator: validate, logger: logger}
}

// List returns the page of parents the caller is allowed to see.
func (s *ParentService) List(ctx context.Context, claims *models.JWTClaims, filter models.ParentFilter) ([]models.ParentDetail, *models.Pagination, error) {
	sc, err := scope.For(scope.FromClaims(claims))
	if err != nil {
		return nil, nil, err
	}

	parents, total, err := s.repo.List(ctx, sc.Parents(), filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list parents")
	}
	return parents, pageMeta(filter.Page, total), nil
}

// Get fetches a single parent.
func (s *ParentService) Get(ctx context.Context, id string) (*models.Parent, error) {
	parent, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "parent not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load parent")
	}
	return parent, nil
}

// Create registers a new parent together with their login.
func (s *ParentService) Create(ctx context.Context, req models.CreateParentRequest) (*models.Parent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid parent payload")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	parent := &models.Parent{
		Username: req.Username,
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
	}
	login := &models.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		FullName:     req.Name + " " + req.Surname,
		Active:       true,
	}

	if err := s.repo.Create(ctx, parent, login); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create parent")
	}
	s.logger.Info("parent created", zap.String("parentId", parent.ID))
	return parent, nil
}

// Update modifies an existing parent.
func (s *ParentService) Update(ctx context.Context, req models.UpdateParentRequest) (*models.Parent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid parent payload")
	}

	if _, err := s.repo.FindByID(ctx, req.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "parent not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load parent")
	}

	parent := &models.Parent{
		ID:       req.ID,
		Username: req.Username,
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
	}
	if err := s.repo.Update(ctx, parent); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update parent")
	}
	return parent, nil
}

// Delete removes a parent and their login.
func (s *ParentService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "parent not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load parent")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete parent")
	}
	s.logger.Info("parent deleted", zap.String("parentId", id))
	return nil
}
