package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scholara/scholara-api/internal/models"
	"github.com/scholara/scholara-api/internal/service"
	appErrors "github.com/scholara/scholara-api/pkg/errors"
	"github.com/scholara/scholara-api/pkg/response"
)

// ClassRequestHandler handles the class assignment request workflow.
type ClassRequestHandler struct {
	service *service.ClassRequestService
}

// NewClassRequestHandler constructs a class request handler.
func NewClassRequestHandler(svc *service.ClassRequestService) *ClassRequestHandler {
	return &ClassRequestHandler{service: svc}
}

// Create godoc
// @Summary Submit a class assignment request for the calling student
// @Tags ClassRequests
// @Produce json
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /class-assignment-request [post]
func (h *ClassRequestHandler) Create(c *gin.Context) {
	request, err := h.service.Create(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, request)
}

// Pending godoc
// @Summary Fetch a student's pending request, if any
// @Tags ClassRequests
// @Produce json
// @Param studentId query string true "Student id"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /class-assignment-request [get]
func (h *ClassRequestHandler) Pending(c *gin.Context) {
	claims := claimsFromContext(c)
	studentID := c.Query("studentId")
	if studentID == "" && claims != nil {
		studentID = claims.UserID
	}

	request, err := h.service.Pending(c.Request.Context(), claims, studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, request, nil)
}

// List godoc
// @Summary List class assignment requests for review
// @Tags ClassRequests
// @Produce json
// @Param status query string false "Filter by status" default(pending)
// @Param page query int false "Page number"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /class-assignment-requests [get]
func (h *ClassRequestHandler) List(c *gin.Context) {
	status := models.ClassRequestStatus(c.DefaultQuery("status", string(models.ClassRequestPending)))

	requests, pagination, err := h.service.List(c.Request.Context(), claimsFromContext(c), status, pageQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests, pagination)
}

// Decide godoc
// @Summary Approve or reject a pending class assignment request
// @Tags ClassRequests
// @Accept json
// @Produce json
// @Param id path int true "Request id"
// @Param payload body models.ClassRequestDecision true "Decision"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /class-assignment-request/{id} [patch]
func (h *ClassRequestHandler) Decide(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid id"))
		return
	}

	var decision models.ClassRequestDecision
	if err := c.ShouldBindJSON(&decision); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	request, err := h.service.Decide(c.Request.Context(), claimsFromContext(c), id, decision)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, request, nil)
}
