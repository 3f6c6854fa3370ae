package handler

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/memoria-server/internal/api/grpc/rpc"
	"github.com/dtroode/memoria-server/internal/logger"
	"github.com/dtroode/memoria-server/internal/model"
)

// TimelineService defines timeline curation operations.
type TimelineService interface {
	ListEvents(ctx context.Context) ([]model.TimelineEvent, error)
	AddEvent(ctx context.Context, caller model.Identity, params model.TimelineEventParams) (model.TimelineEvent, error)
	EditEvent(ctx context.Context, caller model.Identity, eventID uuid.UUID, params model.TimelineEventParams) (model.TimelineEvent, error)
	DeleteEvent(ctx context.Context, caller model.Identity, eventID uuid.UUID) error
}

// Timeline handles the api.Timeline service.
type Timeline struct {
	timelineService TimelineService
	contextManager  model.ContextManager
	logger          *logger.Logger
}

var _ rpc.Service = (*Timeline)(nil)

// NewTimeline creates a new Timeline handler.
func NewTimeline(timelineService TimelineService, contextManager model.ContextManager, logger *logger.Logger) *Timeline {
	return &Timeline{
		timelineService: timelineService,
		contextManager:  contextManager,
		logger:          logger,
	}
}

func (h *Timeline) ServiceName() string { return "api.Timeline" }

func (h *Timeline) Methods() []rpc.Method {
	return []rpc.Method{
		{Name: "ListEvents", Handler: h.ListEvents},
		{Name: "AddEvent", Handler: h.AddEvent},
		{Name: "EditEvent", Handler: h.EditEvent},
		{Name: "DeleteEvent", Handler: h.DeleteEvent},
	}
}

func (h *Timeline) caller(ctx context.Context) model.Identity {
	identity, _ := h.contextManager.GetIdentityFromContext(ctx)
	return identity
}

func eventParams(r *rpc.Reader) model.TimelineEventParams {
	return model.TimelineEventParams{
		Year:        r.OptInt("year"),
		Month:       r.OptInt("month"),
		Day:         r.OptInt("day"),
		Title:       r.String("title"),
		Description: r.String("description"),
		Image:       r.OptString("image"),
	}
}

// ListEvents returns the timeline in chronological order.
func (h *Timeline) ListEvents(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	events, err := h.timelineService.ListEvents(ctx)
	if err != nil {
		return nil, fail(h.logger, "Timeline handler: failed to list events", err)
	}
	return toStruct(map[string]any{"events": list(events, eventFields)})
}

// AddEvent creates a timeline event.
func (h *Timeline) AddEvent(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := rpc.NewReader(req)
	params := eventParams(r)
	if err := r.Err(); err != nil {
		return nil, handleError(err)
	}

	event, err := h.timelineService.AddEvent(ctx, h.caller(ctx), params)
	if err != nil {
		return nil, fail(h.logger, "Timeline handler: failed to add event", err)
	}
	return toStruct(map[string]any{"event": eventFields(event)})
}

// EditEvent replaces a timeline event.
func (h *Timeline) EditEvent(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := rpc.NewReader(req)
	id := r.UUID("id")
	params := eventParams(r)
	if err := r.Err(); err != nil {
		return nil, handleError(err)
	}

	event, err := h.timelineService.EditEvent(ctx, h.caller(ctx), id, params)
	if err != nil {
		return nil, fail(h.logger, "Timeline handler: failed to edit event", err, "event_id", id)
	}
	return toStruct(map[string]any{"event": eventFields(event)})
}

// DeleteEvent removes a timeline event.
func (h *Timeline) DeleteEvent(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := rpc.NewReader(req)
	id := r.UUID("id")
	if err := r.Err(); err != nil {
		return nil, handleError(err)
	}

	if err := h.timelineService.DeleteEvent(ctx, h.caller(ctx), id); err != nil {
		return nil, fail(h.logger, "Timeline handler: failed to delete event", err, "event_id", id)
	}
	return empty(), nil
}
