package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scholara/scholara-api/internal/models"
	"github.com/scholara/scholara-api/internal/service"
	appErrors "github.com/scholara/scholara-api/pkg/errors"
	"github.com/scholara/scholara-api/pkg/response"
)

// CalendarHandler handles event and announcement endpoints.
type CalendarHandler struct {
	service *service.CalendarService
}

// NewCalendarHandler constructs a calendar handler.
func NewCalendarHandler(svc *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{service: svc}
}

func calendarFilter(c *gin.Context) models.CalendarFilter {
	return models.CalendarFilter{
		Search:  searchQuery(c),
		ClassID: int64Query(c, "classId"),
		Page:    pageQuery(c),
	}
}

// ListEvents godoc
// @Summary List events visible to the caller
// @Tags Calendar
// @Produce json
// @Param page query int false "Page number"
// @Param search query string false "Search term"
// @Param classId query int false "Filter by class"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /events [get]
func (h *CalendarHandler) ListEvents(c *gin.Context) {
	events, pagination, err := h.service.ListEvents(c.Request.Context(), claimsFromContext(c), calendarFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, pagination)
}

// CreateEvent godoc
// @Summary Create an event
// @Tags Calendar
// @Accept json
// @Produce json
// @Param payload body models.EventRequest true "Event"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /events [post]
func (h *CalendarHandler) CreateEvent(c *gin.Context) {
	var req models.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	event, err := h.service.CreateEvent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}

// UpdateEvent godoc
// @Summary Update an existing event
// @Tags Calendar
// @Accept json
// @Produce json
// @Param payload body models.EventRequest true "Event"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /events [put]
func (h *CalendarHandler) UpdateEvent(c *gin.Context) {
	var req models.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	event, err := h.service.UpdateEvent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// DeleteEvent godoc
// @Summary Remove an event
// @Tags Calendar
// @Produce json
// @Param id path int true "Event id"
// @Success 204
// @Security BearerAuth
// @Router /events/{id} [delete]
func (h *CalendarHandler) DeleteEvent(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid id"))
		return
	}

	if err := h.service.DeleteEvent(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListAnnouncements godoc
// @Summary List announcements visible to the caller
// @Tags Calendar
// @Produce json
// @Param page query int false "Page number"
// @Param search query string false "Search term"
// @Param classId query int false "Filter by class"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /announcements [get]
func (h *CalendarHandler) ListAnnouncements(c *gin.Context) {
	announcements, pagination, err := h.service.ListAnnouncements(c.Request.Context(), claimsFromContext(c), calendarFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, announcements, pagination)
}

// CreateAnnouncement godoc
// @Summary Create an announcement
// @Tags Calendar
// @Accept json
// @Produce json
// @Param payload body models.AnnouncementRequest true "Announcement"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /announcements [post]
func (h *CalendarHandler) CreateAnnouncement(c *gin.Context) {
	var req models.AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	announcement, err := h.service.CreateAnnouncement(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, announcement)
}

// UpdateAnnouncement godoc
// @Summary Update an existing announcement
// @Tags Calendar
// @Accept json
// @Produce json
// @Param payload body models.AnnouncementRequest true "Announcement"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /announcements [put]
func (h *CalendarHandler) UpdateAnnouncement(c *gin.Context) {
	var req models.AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	announcement, err := h.service.UpdateAnnouncement(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, announcement, nil)
}

// DeleteAnnouncement godoc
// @Summary Remove an announcement
// @Tags Calendar
// @Produce json
// @Param id path int true "Announcement id"
// @Success 204
// @Security BearerAuth
// @Router /announcements/{id} [delete]
func (h *CalendarHandler) DeleteAnnouncement(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid id"))
		return
	}

	if err := h.service.DeleteAnnouncement(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
