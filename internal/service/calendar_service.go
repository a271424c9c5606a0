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

type calendarRepository interface {
	ListEvents(ctx context.Context, restrict scope.Clause, filter models.CalendarFilter) ([]models.Event, int, error)
	FindEventByID(ctx context.Context, id int64) (*models.Event, error)
	CreateEvent(ctx context.Context, event *models.Event) error
	UpdateEvent(ctx context.Context, event *models.Event) error
	DeleteEvent(ctx context.Context, id int64) error
	ListAnnouncements(ctx context.Context, restrict scope.Clause, filter models.CalendarFilter) ([]models.Announcement, int, error)
	FindAnnouncementByID(ctx context.Context, id int64) (*models.Announcement, error)
	CreateAnnouncement(ctx context.Context, announcement *models.Announcement) error
	UpdateAnnouncement(ctx context.Context, announcement *models.Announcement) error
	DeleteAnnouncement(ctx context.Context, id int64) error
}

// CalendarService provides event and announcement use cases.
type CalendarService struct {
	repo      calendarRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCalendarService constructs a CalendarService instance.
func NewCalendarService(repo calendarRepository, validate *validator.Validate, logger *zap.Logger) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CalendarService{repo: repo, validator: validate, logger: logger}
}

// ListEvents returns the page of events visible to the caller.
func (s *CalendarService) ListEvents(ctx context.Context, claims *models.JWTClaims, filter models.CalendarFilter) ([]models.Event, *models.Pagination, error) {
	sc, err := scope.For(scope.FromClaims(claims))
	if err != nil {
		return nil, nil, err
	}

	events, total, err := s.repo.ListEvents(ctx, sc.Calendar(), filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}
	return events, pageMeta(filter.Page, total), nil
}

// CreateEvent registers a new event.
func (s *CalendarService) CreateEvent(ctx context.Context, req models.EventRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}

	event := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		ClassID:     req.ClassID,
	}
	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create event")
	}
	return event, nil
}

// UpdateEvent modifies an existing event.
func (s *CalendarService) UpdateEvent(ctx context.Context, req models.EventRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}
	if req.ID == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "event id is required")
	}

	if _, err := s.repo.FindEventByID(ctx, req.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}

	event := &models.Event{
		ID:          req.ID,
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		ClassID:     req.ClassID,
	}
	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update event")
	}
	return event, nil
}

// DeleteEvent removes an event.
func (s *CalendarService) DeleteEvent(ctx context.Context, id int64) error {
	if _, err := s.repo.FindEventByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	if err := s.repo.DeleteEvent(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete event")
	}
	return nil
}

// ListAnnouncements returns the page of announcements visible to the
// caller.
func (s *CalendarService) ListAnnouncements(ctx context.Context, claims *models.JWTClaims, filter models.CalendarFilter) ([]models.Announcement, *models.Pagination, error) {
	sc, err := scope.For(scope.FromClaims(claims))
	if err != nil {
		return nil, nil, err
	}

	announcements, total, err := s.repo.ListAnnouncements(ctx, sc.Calendar(), filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list announcements")
	}
	return announcements, pageMeta(filter.Page, total), nil
}

// CreateAnnouncement registers a new announcement.
func (s *CalendarService) CreateAnnouncement(ctx context.Context, req models.AnnouncementRequest) (*models.Announcement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid announcement payload")
	}

	announcement := &models.Announcement{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		ClassID:     req.ClassID,
	}
	if err := s.repo.CreateAnnouncement(ctx, announcement); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create announcement")
	}
	return announcement, nil
}

// UpdateAnnouncement modifies an existing announcement.
func (s *CalendarService) UpdateAnnouncement(ctx context.Context, req models.AnnouncementRequest) (*models.Announcement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid announcement payload")
	}
	if req.ID == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "announcement id is required")
	}

	if _, err := s.repo.FindAnnouncementByID(ctx, req.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load announcement")
	}

	announcement := &models.Announcement{
		ID:          req.ID,
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		ClassID:     req.ClassID,
	}
	if err := s.repo.UpdateAnnouncement(ctx, announcement); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update announcement")
	}
	return announcement, nil
}

// DeleteAnnouncement removes an announcement.
func (s *CalendarService) DeleteAnnouncement(ctx context.Context, id int64) error {
	if _, err := s.repo.FindAnnouncementByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load announcement")
	}
	if err := s.repo.DeleteAnnouncement(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete announcement")
	}
	return nil
}
