package model

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
)

// TimelineStore defines persistence operations for timeline events.
type TimelineStore interface {
	Create(ctx context.Context, event TimelineEvent) (TimelineEvent, error)
	GetByID(ctx context.Context, id uuid.UUID) (TimelineEvent, error)
	List(ctx context.Context) ([]TimelineEvent, error)
	Update(ctx context.Context, event TimelineEvent) (TimelineEvent, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TimelineEvent is a dated historical event curated by admins.
type TimelineEvent struct {
	ID          uuid.UUID
	Year        int
	Month       *int
	Day         *int
	Title       string
	Description string
	Image       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TimelineEventParams contains input for adding or replacing an event.
type TimelineEventParams struct {
	Year        *int
	Month       *int
	Day         *int
	Title       string
	Description string
	Image       *string
}

// CompareEvents orders events by year, then by month when both have one,
// then by day when both have one. Events missing a component compare equal
// on it, so their relative order is left to the caller's stable sort.
func CompareEvents(a, b TimelineEvent) int {
	if c := cmp.Compare(a.Year, b.Year); c != 0 {
		return c
	}
	if a.Month != nil && b.Month != nil {
		if c := cmp.Compare(*a.Month, *b.Month); c != 0 {
			return c
		}
	}
	if a.Day != nil && b.Day != nil {
		return cmp.Compare(*a.Day, *b.Day)
	}
	return 0
}

// SortEvents sorts events in place with CompareEvents, keeping fetch order for ties.
func SortEvents(events []TimelineEvent) {
	slices.SortStableFunc(events, CompareEvents)
}
