package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scholara/scholara-api/internal/models"
	"github.com/scholara/scholara-api/internal/service"
	appErrors "github.com/scholara/scholara-api/pkg/errors"
	"github.com/scholara/scholara-api/pkg/response"
)

// ParentHandler handles parent endpoints.
type ParentHandler struct {
	service *service.ParentService
}

// NewParentHandler constructs a parent handler.
func NewParentHandler(svc *service.ParentService) *ParentHandler {
	return &ParentHandler{service: svc}
}

// List godoc
// @Summary List parents visible to the caller
// @Tags Parents
// @Produce json
// @Param page query int false "Page number"
// @Param search query string false "Search term"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /parents [get]
func (h *ParentHandler) List(c *gin.Context) {
	filter := models.ParentFilter{
		Search: searchQuery(c),
		Page:   pageQuery(c),
	}

	parents, pagination, err := h.service.List(c.Request.Context(), claimsFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, parents, pagination)
}

// Get godoc
// @Summary Fetch a single parent
// @Tags Parents
// @Produce json
// @Param id path string true "Parent id"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /parents/{id} [get]
func (h *ParentHandler) Get(c *gin.Context) {
	parent, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, parent, nil)
}

// Create godoc
// @Summary Register a parent with a login account
// @Tags Parents
// @Accept json
// @Produce json
// @Param payload body models.CreateParentRequest true "Parent"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /parents [post]
func (h *ParentHandler) Create(c *gin.Context) {
	var req models.CreateParentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	parent, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, parent)
}

// Update godoc
// @Summary Update an existing parent
// @Tags Parents
// @Accept json
// @Produce json
// @Param payload body models.UpdateParentRequest true "Parent"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /parents [put]
func (h *ParentHandler) Update(c *gin.Context) {
	var req models.UpdateParentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	parent, err := h.service.Update(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, parent, nil)
}

// Delete godoc
// @Summary Remove a parent and their login
// @Tags Parents
// @Produce json
// @Param id path string true "Parent id"
// @Success 204
// @Security BearerAuth
// @Router /parents/{id} [delete]
func (h *ParentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
