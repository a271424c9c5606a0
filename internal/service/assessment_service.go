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

type assessmentRepository interface {
	List(ctx context.Context, kind models.AssessmentKind, restrict scope.Clause, filter models.AssessmentFilter) ([]models.AssessmentDetail, int, error)
	FindExamByID(ctx context.Context, id int64) (*models.Exam, error)
	CreateExam(ctx context.Context, exam *models.Exam) error
	UpdateExam(ctx context.Context, exam *models.Exam) error
	DeleteExam(ctx context.Context, id int64) error
	FindAssignmentByID(ctx context.Context, id int64) (*models.Assignment, error)
	CreateAssignment(ctx context.Context, assignment *models.Assignment) error
	UpdateAssignment(ctx context.Context, assignment *models.Assignment) error
	DeleteAssignment(ctx context.Context, id int64) error
}

// AssessmentService provides exam and assignment management use cases.
type AssessmentService struct {
	repo      assessmentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssessmentService constructs an AssessmentService instance.
func NewAssessmentService(repo assessmentRepository, validate *validator.Validate, logger *zap.Logger) *AssessmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AssessmentService{repo: repo, validator: validate, logger: logger}
}

// ListExams returns the page of exams the caller is allowed to see.
func (s *AssessmentService) ListExams(ctx context.Context, claims *models.JWTClaims, filter models.AssessmentFilter) ([]models.AssessmentDetail, *models.Pagination, error) {
	return s.list(ctx, models.AssessmentExam, claims, filter)
}

// ListAssignments returns the page of assignments the caller is allowed
// to see.
func (s *AssessmentService) ListAssignments(ctx context.Context, claims *models.JWTClaims, filter models.AssessmentFilter) ([]models.AssessmentDetail, *models.Pagination, error) {
	return s.list(ctx, models.AssessmentAssignment, claims, filter)
}

func (s *AssessmentService) list(ctx context.Context, kind models.AssessmentKind, claims *models.JWTClaims, filter models.AssessmentFilter) ([]models.AssessmentDetail, *models.Pagination, error) {
	sc, err := scope.For(scope.FromClaims(claims))
	if err != nil {
		return nil, nil, err
	}

	rows, total, err := s.repo.List(ctx, kind, sc.Assessments(), filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assessments")
	}
	return rows, pageMeta(filter.Page, total), nil
}

// CreateExam registers a new exam.
func (s *AssessmentService) CreateExam(ctx context.Context, req models.ExamRequest) (*models.Exam, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam payload")
	}

	exam := &models.Exam{Title: req.Title, StartTime: req.StartTime, EndTime: req.EndTime, LessonID: req.LessonID}
	if err := s.repo.CreateExam(ctx, exam); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create exam")
	}
	return exam, nil
}

// UpdateExam modifies an existing exam.
func (s *AssessmentService) UpdateExam(ctx context.Context, req models.ExamRequest) (*models.Exam, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam payload")
	}
	if req.ID == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "exam id is required")
	}

	if _, err := s.repo.FindExamByID(ctx, req.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam")
	}

	exam := &models.Exam{ID: req.ID, Title: req.Title, StartTime: req.StartTime, EndTime: req.EndTime, LessonID: req.LessonID}
	if err := s.repo.UpdateExam(ctx, exam); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update exam")
	}
	return exam, nil
}

// DeleteExam removes an exam.
func (s *AssessmentService) DeleteExam(ctx context.Context, id int64) error {
	if _, err := s.repo.FindExamByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "exam not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam")
	}
	if err := s.repo.DeleteExam(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete exam")
	}
	return nil
}

// CreateAssignment registers a new assignment.
func (s *AssessmentService) CreateAssignment(ctx context.Context, req models.AssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	assignment := &models.Assignment{Title: req.Title, StartDate: req.StartDate, DueDate: req.DueDate, LessonID: req.LessonID}
	if err := s.repo.CreateAssignment(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}
	return assignment, nil
}

// UpdateAssignment modifies an existing assignment.
func (s *AssessmentService) UpdateAssignment(ctx context.Context, req models.AssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	if req.ID == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "assignment id is required")
	}

	if _, err := s.repo.FindAssignmentByID(ctx, req.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}

	assignment := &models.Assignment{ID: req.ID, Title: req.Title, StartDate: req.StartDate, DueDate: req.DueDate, LessonID: req.LessonID}
	if err := s.repo.UpdateAssignment(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update assignment")
	}
	return assignment, nil
}

// DeleteAssignment removes an assignment.
func (s *AssessmentService) DeleteAssignment(ctx context.Context, id int64) error {
	if _, err := s.repo.FindAssignmentByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	if err := s.repo.DeleteAssignment(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete assignment")
	}
	return nil
}
