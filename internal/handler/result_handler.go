package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scholara/scholara-api/internal/models"
	"github.com/scholara/scholara-api/internal/service"
	appErrors "github.com/scholara/scholara-api/pkg/errors"
	"github.com/scholara/scholara-api/pkg/response"
)

// ResultHandler handles result endpoints, including sheet exports.
type ResultHandler struct {
	service *service.ResultService
}

// NewResultHandler constructs a result handler.
func NewResultHandler(svc *service.ResultService) *ResultHandler {
	return &ResultHandler{service: svc}
}

func resultFilter(c *gin.Context) models.ResultFilter {
	return models.ResultFilter{
		Search:    searchQuery(c),
		StudentID: c.Query("studentId"),
		Page:      pageQuery(c),
	}
}

// List godoc
// @Summary List results visible to the caller
// @Tags Results
// @Produce json
// @Param page query int false "Page number"
// @Param search query string false "Search term"
// @Param studentId query string false "Filter by student"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /results [get]
func (h *ResultHandler) List(c *gin.Context) {
	results, pagination, err := h.service.List(c.Request.Context(), claimsFromContext(c), resultFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, pagination)
}

// Create godoc
// @Summary Record a result
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body models.ResultRequest true "Result"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /results [post]
func (h *ResultHandler) Create(c *gin.Context) {
	var req models.ResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	result, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Update godoc
// @Summary Update an existing result
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body models.ResultRequest true "Result"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /results [put]
func (h *ResultHandler) Update(c *gin.Context) {
	var req models.ResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	result, err := h.service.Update(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Delete godoc
// @Summary Remove a result
// @Tags Results
// @Produce json
// @Param id path int true "Result id"
// @Success 204
// @Security BearerAuth
// @Router /results/{id} [delete]
func (h *ResultHandler) Delete(c *gin.Context) {
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

// Export godoc
// @Summary Download the caller's visible results as CSV or PDF
// @Tags Results
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Param studentId query string false "Filter by student"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /results/export [get]
func (h *ResultHandler) Export(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", string(service.ExportCSV)))

	file, err := h.service.Export(c.Request.Context(), claimsFromContext(c), resultFilter(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
