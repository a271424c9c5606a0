package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/scholara/scholara-api/internal/models"
	"github.com/scholara/scholara-api/internal/repository"
	appErrors "github.com/scholara/scholara-api/pkg/errors"
)

type classRequestRepository interface {
	Create(ctx context.Context, request *models.ClassAssignmentRequest) error
	FindPending(ctx context.Context, studentID string) (*models.ClassAssignmentRequest, error)
	FindByID(ctx context.Context, id int64) (*models.ClassAssignmentRequest, error)
	List(ctx context.Context, status models.ClassRequestStatus, page int) ([]models.ClassAssignmentRequestDetail, int, error)
	Approve(ctx context.Context, id int64, classID int64) (bool, error)
	Reject(ctx context.Context, id int64) (bool, error)
}

// ClassRequestService drives the class assignment request workflow:
// students open a pending request, admins approve it into a class or
// reject it, both terminally.
type ClassRequestService struct {
	repo      classRequestRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassRequestService constructs a ClassRequestService instance.
func NewClassRequestService(repo classRequestRepository, validate *validator.Validate, logger *zap.Logger) *ClassRequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ClassRequestService{repo: repo, validator: validate, logger: logger}
}

// Create opens a pending request for the calling student. Only students
// may request, and only for themselves; a second pending request is a
// conflict.
func (s *ClassRequestService) Create(ctx context.Context, claims *models.JWTClaims) (*models.ClassAssignmentRequest, error) {
	if claims == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
	if claims.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only students may request a class assignment")
	}

	request := &models.ClassAssignmentRequest{StudentID: claims.UserID}
	if err := s.repo.Create(ctx, request); err != nil {
		if errors.Is(err, repository.ErrDuplicatePending) {
			return nil, appErrors.Clone(appErrors.ErrRequestPending, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class request")
	}

	s.logger.Info("class assignment requested", zap.String("studentId", claims.UserID), zap.Int64("requestId", request.ID))
	return request, nil
}

// Pending returns the student's open request, or nil when none exists.
// Students may only check their own status.
func (s *ClassRequestService) Pending(ctx context.Context, claims *models.JWTClaims, studentID string) (*models.ClassAssignmentRequest, error) {
	if claims == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
	if claims.Role != models.RoleAdmin && claims.UserID != studentID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot check another student's request")
	}

	request, err := s.repo.FindPending(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check pending request")
	}
	return request, nil
}

// List returns a page of requests for admin review.
func (s *ClassRequestService) List(ctx context.Context, claims *models.JWTClaims, status models.ClassRequestStatus, page int) ([]models.ClassAssignmentRequestDetail, *models.Pagination, error) {
	if claims == nil || claims.Role != models.RoleAdmin {
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "only admins may list class requests")
	}
	if status != "" && status != models.ClassRequestPending && status != models.ClassRequestApproved && status != models.ClassRequestRejected {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown request status")
	}

	requests, total, err := s.repo.List(ctx, status, page)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list class requests")
	}
	return requests, pageMeta(page, total), nil
}

// Decide resolves a pending request. Approval assigns the chosen class
// and flips the status in one transaction; of two racing decisions the
// first one wins and the second reports a conflict.
func (s *ClassRequestService) Decide(ctx context.Context, claims *models.JWTClaims, id int64, decision models.ClassRequestDecision) (*models.ClassAssignmentRequest, error) {
	if claims == nil || claims.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only admins may resolve class requests")
	}
	if err := s.validator.Struct(decision); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid decision payload")
	}

	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class request")
	}
	if request.Status != models.ClassRequestPending {
		return nil, appErrors.Clone(appErrors.ErrRequestClosed, "")
	}

	var applied bool
	switch decision.Action {
	case "approve":
		if decision.ClassID == nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "class_id is required to approve")
		}
		applied, err = s.repo.Approve(ctx, id, *decision.ClassID)
		request.Status = models.ClassRequestApproved
	case "reject":
		applied, err = s.repo.Reject(ctx, id)
		request.Status = models.ClassRequestRejected
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown action")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve class request")
	}
	if !applied {
		return nil, appErrors.Clone(appErrors.ErrRequestClosed, "")
	}

	s.logger.Info("class request resolved",
		zap.Int64("requestId", id),
		zap.String("action", decision.Action),
		zap.String("studentId", request.StudentID))
	return request, nil
}
