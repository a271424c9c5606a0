package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scholara/scholara-api/internal/models"
	"github.com/scholara/scholara-api/internal/service"
	appErrors "github.com/scholara/scholara-api/pkg/errors"
	"github.com/scholara/scholara-api/pkg/response"
)

// LessonHandler handles lesson endpoints.
type LessonHandler struct {
	service *service.LessonService
}

// NewLessonHandler constructs a lesson handler.
func NewLessonHandler(svc *service.LessonService) *LessonHandler {
	return &LessonHandler{service: svc}
}

// List godoc
// @Summary List lessons visible to the caller
// @Tags Lessons
// @Produce json
// @Param page query int false "Page number"
// @Param search query string false "Search term"
// @Param classId query int false "Filter by class"
// @Param teacherId query string false "Filter by teacher"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /lessons [get]
func (h *LessonHandler) List(c *gin.Context) {
	filter := models.LessonFilter{
		Search:    searchQuery(c),
		ClassID:   int64Query(c, "classId"),
		TeacherID: c.Query("teacherId"),
		Page:      pageQuery(c),
	}

	lessons, pagination, err := h.service.List(c.Request.Context(), claimsFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lessons, pagination)
}

// Create godoc
// @Summary Create a lesson
// @Tags Lessons
// @Accept json
// @Produce json
// @Param payload body models.LessonRequest true "Lesson"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /lessons [post]
func (h *LessonHandler) Create(c *gin.Context) {
	var req models.LessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	lesson, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, lesson)
}

// Update godoc
// @Summary Update an existing lesson
// @Tags Lessons
// @Accept json
// @Produce json
// @Param payload body models.LessonRequest true "Lesson"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /lessons [put]
func (h *LessonHandler) Update(c *gin.Context) {
	var req models.LessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	lesson, err := h.service.Update(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lesson, nil)
}

// Delete godoc
// @Summary Remove a lesson
// @Tags Lessons
// @Produce json
// @Param id path int true "Lesson id"
// @Success 204
// @Security BearerAuth
// @Router /lessons/{id} [delete]
func (h *LessonHandler) Delete(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid id"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
