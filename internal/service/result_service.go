package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/scholara/scholara-api/internal/models"
	"github.com/scholara/scholara-api/internal/scope"
	appErrors "github.com/scholara/scholara-api/pkg/errors"
	"github.com/scholara/scholara-api/pkg/export"
)

type resultRepository interface {
	List(ctx context.Context, restrict scope.Clause, filter models.ResultFilter) ([]models.ResultDetail, int, error)
	ListAll(ctx context.Context, restrict scope.Clause, filter models.ResultFilter) ([]models.ResultDetail, error)
	FindByID(ctx context.Context, id int64) (*models.Result, error)
	Create(ctx context.Context, result *models.Result) error
	Update(ctx context.Context, result *models.Result) error
	Delete(ctx context.Context, id int64) error
}

// ExportFormat selects the rendering for a result sheet export.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ExportFile is a rendered export ready for download.
type ExportFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ResultService provides score management and export use cases.
type ResultService struct {
	repo      resultRepository
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewResultService constructs a ResultService instance.
func NewResultService(repo resultRepository, csv *export.CSVExporter, pdf *export.PDFExporter, validate *validator.Validate, logger *zap.Logger) *ResultService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ResultService{repo: repo, csv: csv, pdf: pdf, validator: validate, logger: logger}
}

// List returns the page of results the caller is allowed to see.
func (s *ResultService) List(ctx context.Context, claims *models.JWTClaims, filter models.ResultFilter) ([]models.ResultDetail, *models.Pagination, error) {
	sc, err := scope.For(scope.FromClaims(claims))
	if err != nil {
		return nil, nil, err
	}

	results, total, err := s.repo.List(ctx, sc.Results(), filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list results")
	}
	return results, pageMeta(filter.Page, total), nil
}

// Create records a new score. Exactly one assessment reference must be
// present.
func (s *ResultService) Create(ctx context.Context, req models.ResultRequest) (*models.Result, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid result payload")
	}
	if err := validateAssessmentRef(req); err != nil {
		return nil, err
	}

	result := &models.Result{Score: req.Score, ExamID: req.ExamID, AssignmentID: req.AssignmentID, StudentID: req.StudentID}
	if err := s.repo.Create(ctx, result); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create result")
	}
	return result, nil
}

// Update modifies an existing score.
func (s *ResultService) Update(ctx context.Context, req models.ResultRequest) (*models.Result, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid result payload")
	}
	if req.ID == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "result id is required")
	}
	if err := validateAssessmentRef(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByID(ctx, req.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "result not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load result")
	}

	result := &models.Result{ID: req.ID, Score: req.Score, ExamID: req.ExamID, AssignmentID: req.AssignmentID, StudentID: req.StudentID}
	if err := s.repo.Update(ctx, result); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update result")
	}
	return result, nil
}

// Delete removes a score.
func (s *ResultService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "result not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load result")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete result")
	}
	return nil
}

// Export renders the caller's visible result sheet as CSV or PDF.
func (s *ResultService) Export(ctx context.Context, claims *models.JWTClaims, filter models.ResultFilter, format ExportFormat) (*ExportFile, error) {
	sc, err := scope.For(scope.FromClaims(claims))
	if err != nil {
		return nil, err
	}

	results, err := s.repo.ListAll(ctx, sc.Results(), filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load results for export")
	}

	headers := []string{"Student", "Assessment", "Class", "Teacher", "Score"}
	rows := make([]map[string]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, map[string]string{
			"Student":    r.StudentName,
			"Assessment": r.Title,
			"Class":      r.ClassName,
			"Teacher":    r.TeacherName,
			"Score":      strconv.Itoa(r.Score),
		})
	}
	dataset := export.Dataset{Headers: headers, Rows: rows}

	switch format {
	case ExportCSV:
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportFile{FileName: "results.csv", ContentType: "text/csv", Data: data}, nil
	case ExportPDF:
		data, err := s.pdf.Render(dataset, "Result Sheet")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportFile{FileName: "results.pdf", ContentType: "application/pdf", Data: data}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}

func validateAssessmentRef(req models.ResultRequest) error {
	if (req.ExamID == nil) == (req.AssignmentID == nil) {
		return appErrors.Clone(appErrors.ErrValidation, "exactly one of exam_id and assignment_id must be set")
	}
	return nil
}
