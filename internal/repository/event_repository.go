// internal/repository/event_repository.go
package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"escpos-service/internal/database"
	"escpos-service/internal/model"
)

// eventRepository implements EventRepository on postgres
type eventRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *database.DB, logger *zap.Logger) EventRepository {
	return &eventRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends an event to the journal
func (r *eventRepository) Create(ctx context.Context, event *model.JobEvent) error {
	query := `
		INSERT INTO job_events (id, event_type, job_id, source, data, severity, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		event.ID, event.EventType, event.JobID, event.Source,
		event.Data, event.Severity, event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	return nil
}

// ListRecent returns the newest events first
func (r *eventRepository) ListRecent(ctx context.Context, limit int) ([]*model.JobEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, event_type, job_id, source, data, severity, timestamp
		FROM job_events
		ORDER BY timestamp DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := []*model.JobEvent{}
	for rows.Next() {
		event := &model.JobEvent{}
		if err := rows.Scan(
			&event.ID, &event.EventType, &event.JobID, &event.Source,
			&event.Data, &event.Severity, &event.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	return events, rows.Err()
}
