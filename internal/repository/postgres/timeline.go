package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/memoria-server/internal/model"
)

var _ model.TimelineStore = (*TimelineRepository)(nil)

const eventColumns = `id, year, month, day, title, description, image, created_at, updated_at`

type TimelineRepository struct {
	db *Connection
}

func NewTimelineRepository(db *Connection) *TimelineRepository {
	return &TimelineRepository{
		db: db,
	}
}

func scanEvent(row pgx.Row) (model.TimelineEvent, error) {
	var event model.TimelineEvent
	err := row.Scan(
		&event.ID, &event.Year, &event.Month, &event.Day, &event.Title, &event.Description,
		&event.Image, &event.CreatedAt, &event.UpdatedAt,
	)
	return event, err
}

func (r *TimelineRepository) Create(ctx context.Context, event model.TimelineEvent) (model.TimelineEvent, error) {
	query := `INSERT INTO timeline_events (id, year, month, day, title, description, image, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING ` + eventColumns

	saved, err := scanEvent(r.db.QueryRow(ctx, query,
		event.ID, event.Year, event.Month, event.Day, event.Title, event.Description,
		event.Image, event.CreatedAt, event.UpdatedAt,
	))
	if err != nil {
		return model.TimelineEvent{}, fmt.Errorf("failed to create timeline event: %w", err)
	}

	return saved, nil
}

func (r *TimelineRepository) GetByID(ctx context.Context, id uuid.UUID) (model.TimelineEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM timeline_events WHERE id = $1`

	event, err := scanEvent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.TimelineEvent{}, model.ErrNotFound
		}
		return model.TimelineEvent{}, fmt.Errorf("failed to get timeline event by id: %w", err)
	}

	return event, nil
}

// List returns events in insertion order. Chronological ordering is applied
// by the caller with model.SortEvents.
func (r *TimelineRepository) List(ctx context.Context) ([]model.TimelineEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM timeline_events ORDER BY created_at ASC, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list timeline events: %w", err)
	}
	defer rows.Close()

	events := []model.TimelineEvent{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timeline event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate timeline events: %w", err)
	}

	return events, nil
}

func (r *TimelineRepository) Update(ctx context.Context, event model.TimelineEvent) (model.TimelineEvent, error) {
	query := `UPDATE timeline_events
			  SET year = $2, month = $3, day = $4, title = $5, description = $6, image = $7, updated_at = $8
			  WHERE id = $1
			  RETURNING ` + eventColumns

	saved, err := scanEvent(r.db.QueryRow(ctx, query,
		event.ID, event.Year, event.Month, event.Day, event.Title, event.Description,
		event.Image, event.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.TimelineEvent{}, model.ErrNotFound
		}
		return model.TimelineEvent{}, fmt.Errorf("failed to update timeline event: %w", err)
	}

	return saved, nil
}

func (r *TimelineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM timeline_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete timeline event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}
