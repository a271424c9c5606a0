package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scholara/scholara-api/internal/models"
	"github.com/scholara/scholara-api/internal/service"
	appErrors "github.com/scholara/scholara-api/pkg/errors"
	"github.com/scholara/scholara-api/pkg/response"
)

// AssessmentHandler handles exam and assignment endpoints.
type AssessmentHandler struct {
	service *service.AssessmentService
}

// NewAssessmentHandler constructs an assessment handler.
func NewAssessmentHandler(svc *service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{service: svc}
}

func assessmentFilter(c *gin.Context) models.AssessmentFilter {
	return models.AssessmentFilter{
		Search:    searchQuery(c),
		ClassID:   int64Query(c, "classId"),
		TeacherID: c.Query("teacherId"),
		Page:      pageQuery(c),
	}
}

// ListExams godoc
// @Summary List exams visible to the caller
// @Tags Assessments
// @Produce json
// @Param page query int false "Page number"
// @Param search query string false "Search term"
// @Param classId query int false "Filter by class"
// @Param teacherId query string false "Filter by teacher"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /exams [get]
func (h *AssessmentHandler) ListExams(c *gin.Context) {
	exams, pagination, err := h.service.ListExams(c.Request.Context(), claimsFromContext(c), assessmentFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, exams, pagination)
}

// CreateExam godoc
// @Summary Create an exam
// @Tags Assessments
// @Accept json
// @Produce json
// @Param payload body models.ExamRequest true "Exam"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /exams [post]
func (h *AssessmentHandler) CreateExam(c *gin.Context) {
	var req models.ExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	exam, err := h.service.CreateExam(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, exam)
}

// UpdateExam godoc
// @Summary Update an existing exam
// @Tags Assessments
// @Accept json
// @Produce json
// @Param payload body models.ExamRequest true "Exam"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /exams [put]
func (h *AssessmentHandler) UpdateExam(c *gin.Context) {
	var req models.ExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	exam, err := h.service.UpdateExam(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, exam, nil)
}

// DeleteExam godoc
// @Summary Remove an exam
// @Tags Assessments
// @Produce json
// @Param id path int true "Exam id"
// @Success 204
// @Security BearerAuth
// @Router /exams/{id} [delete]
func (h *AssessmentHandler) DeleteExam(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid id"))
		return
	}

	if err := h.service.DeleteExam(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListAssignments godoc
// @Summary List assignments visible to the caller
// @Tags Assessments
// @Produce json
// @Param page query int false "Page number"
// @Param search query string false "Search term"
// @Param classId query int false "Filter by class"
// @Param teacherId query string false "Filter by teacher"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /assignments [get]
func (h *AssessmentHandler) ListAssignments(c *gin.Context) {
	assignments, pagination, err := h.service.ListAssignments(c.Request.Context(), claimsFromContext(c), assessmentFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, pagination)
}

// CreateAssignment godoc
// @Summary Create an assignment
// @Tags Assessments
// @Accept json
// @Produce json
// @Param payload body models.AssignmentRequest true "Assignment"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /assignments [post]
func (h *AssessmentHandler) CreateAssignment(c *gin.Context) {
	var req models.AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	assignment, err := h.service.CreateAssignment(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// UpdateAssignment godoc
// @Summary Update an existing assignment
// @Tags Assessments
// @Accept json
// @Produce json
// @Param payload body models.AssignmentRequest true "Assignment"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /assignments [put]
func (h *AssessmentHandler) UpdateAssignment(c *gin.Context) {
	var req models.AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	assignment, err := h.service.UpdateAssignment(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// DeleteAssignment godoc
// @Summary Remove an assignment
// @Tags Assessments
// @Produce json
// @Param id path int true "Assignment id"
// @Success 204
// @Security BearerAuth
// @Router /assignments/{id} [delete]
func (h *AssessmentHandler) DeleteAssignment(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid id"))
		return
	}

	if err := h.service.DeleteAssignment(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
