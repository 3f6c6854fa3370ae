package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/memoria-server/internal/apierrors"
	"github.com/dtroode/memoria-server/internal/logger"
	"github.com/dtroode/memoria-server/internal/model"
)

// Timeline curates the chronological record of historical events.
type Timeline struct {
	timelineStore model.TimelineStore
	userStore     model.UserStore
	text          plainText
	logger        *logger.Logger
	now           func() time.Time
}

func NewTimeline(timelineStore model.TimelineStore, userStore model.UserStore, logger *logger.Logger) *Timeline {
	return &Timeline{
		timelineStore: timelineStore,
		userStore:     userStore,
		text:          newPlainText(),
		logger:        logger,
		now:           time.Now,
	}
}

// ListEvents returns every event in chronological order.
func (s *Timeline) ListEvents(ctx context.Context) ([]model.TimelineEvent, error) {
	events, err := s.timelineStore.List(ctx)
	if err != nil {
		s.logger.Error("Timeline service: failed to list events",
			"error", err.Error())
		return nil, apierrors.NewErrUpstreamUnavailable(fmt.Errorf("failed to list events: %w", err))
	}

	model.SortEvents(events)
	return events, nil
}

// AddEvent creates an event. Admin only. Title and description are
// stored as plain text with tag-like sequences removed.
func (s *Timeline) AddEvent(ctx context.Context, caller model.Identity, params model.TimelineEventParams) (model.TimelineEvent, error) {
	if _, err := requireAdmin(ctx, s.userStore, s.logger, caller, "add timeline events"); err != nil {
		return model.TimelineEvent{}, err
	}

	event, err := s.buildEvent(params)
	if err != nil {
		return model.TimelineEvent{}, err
	}

	now := s.now()
	event.ID = uuid.New()
	event.CreatedAt = now
	event.UpdatedAt = now

	saved, err := s.timelineStore.Create(ctx, event)
	if err != nil {
		s.logger.Error("Timeline service: failed to create event",
			"error", err.Error())
		return model.TimelineEvent{}, apierrors.NewErrUpstreamUnavailable(fmt.Errorf("failed to create event: %w", err))
	}

	s.logger.Info("Timeline service: event added",
		"event_id", saved.ID,
		"by", caller.UserID)

	return saved, nil
}

// EditEvent replaces every field of an event. Admin only.
func (s *Timeline) EditEvent(ctx context.Context, caller model.Identity, eventID uuid.UUID, params model.TimelineEventParams) (model.TimelineEvent, error) {
	if _, err := requireAdmin(ctx, s.userStore, s.logger, caller, "edit timeline events"); err != nil {
		return model.TimelineEvent{}, err
	}

	event, err := s.buildEvent(params)
	if err != nil {
		return model.TimelineEvent{}, err
	}

	existing, err := s.timelineStore.GetByID(ctx, eventID)
	if errors.Is(err, model.ErrNotFound) {
		return model.TimelineEvent{}, apierrors.NewErrNotFound("timeline event", eventID)
	}
	if err != nil {
		s.logger.Error("Timeline service: failed to get event",
			"event_id", eventID,
			"error", err.Error())
		return model.TimelineEvent{}, apierrors.NewErrUpstreamUnavailable(fmt.Errorf("failed to get event: %w", err))
	}

	event.ID = existing.ID
	event.CreatedAt = existing.CreatedAt
	event.UpdatedAt = s.now()

	saved, err := s.timelineStore.Update(ctx, event)
	if errors.Is(err, model.ErrNotFound) {
		return model.TimelineEvent{}, apierrors.NewErrNotFound("timeline event", eventID)
	}
	if err != nil {
		s.logger.Error("Timeline service: failed to update event",
			"event_id", eventID,
			"error", err.Error())
		return model.TimelineEvent{}, apierrors.NewErrUpstreamUnavailable(fmt.Errorf("failed to update event: %w", err))
	}

	s.logger.Info("Timeline service: event edited",
		"event_id", eventID,
		"by", caller.UserID)

	return saved, nil
}

// DeleteEvent removes an event. Admin only.
func (s *Timeline) DeleteEvent(ctx context.Context, caller model.Identity, eventID uuid.UUID) error {
	if _, err := requireAdmin(ctx, s.userStore, s.logger, caller, "delete timeline events"); err != nil {
		return err
	}

	err := s.timelineStore.Delete(ctx, eventID)
	if errors.Is(err, model.ErrNotFound) {
		return apierrors.NewErrNotFound("timeline event", eventID)
	}
	if err != nil {
		s.logger.Error("Timeline service: failed to delete event",
			"event_id", eventID,
			"error", err.Error())
		return apierrors.NewErrUpstreamUnavailable(fmt.Errorf("failed to delete event: %w", err))
	}

	s.logger.Info("Timeline service: event deleted",
		"event_id", eventID,
		"by", caller.UserID)

	return nil
}

func (s *Timeline) buildEvent(params model.TimelineEventParams) (model.TimelineEvent, error) {
	if params.Year == nil {
		return model.TimelineEvent{}, apierrors.NewErrValidation("year is required")
	}
	if params.Month != nil && (*params.Month < 1 || *params.Month > 12) {
		return model.TimelineEvent{}, apierrors.NewErrValidation("month must be between 1 and 12, got %d", *params.Month)
	}
	if params.Day != nil && (*params.Day < 1 || *params.Day > 31) {
		return model.TimelineEvent{}, apierrors.NewErrValidation("day must be between 1 and 31, got %d", *params.Day)
	}

	var image *string
	if params.Image != nil {
		if v := strings.TrimSpace(*params.Image); v != "" {
			image = &v
		}
	}

	return model.TimelineEvent{
		Year:        *params.Year,
		Month:       params.Month,
		Day:         params.Day,
		Title:       s.text.clean(params.Title),
		Description: s.text.clean(params.Description),
		Image:       image,
	}, nil
}
