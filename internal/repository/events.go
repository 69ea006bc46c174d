package repository

import (
	"context"
	"errors"

	"namidia/internal/models"
	"namidia/internal/supabase"
)

type EventRepository struct {
	sb *supabase.Client
}

func NewEventRepository(sb *supabase.Client) *EventRepository {
	return &EventRepository{sb: sb}
}

// List returns events ordered by start time. When activeOnly is set only
// events with the active flag are returned.
func (r *EventRepository) List(ctx context.Context, activeOnly bool) ([]models.Event, error) {
	query := r.sb.From("events").Select("*").Order("starts_at", true)
	if activeOnly {
		query = query.Eq("active", true)
	}

	var events []models.Event
	if err := query.Get(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	var event models.Event
	err := r.sb.From("events").Select("*").Eq("id", id).Single().Get(ctx, &event)
	if errors.Is(err, supabase.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// eventColumns lists the writable columns. The id, created_at and
// confirmation_count columns belong to the backend and are never sent.
func eventColumns(event *models.Event) map[string]any {
	return map[string]any{
		"name":              event.Name,
		"location":          event.Location,
		"starts_at":         event.StartsAt,
		"ends_at":           event.EndsAt,
		"type":              event.Type,
		"active":            event.Active,
		"requires_presence": event.RequiresPresence,
		"image_path":        event.ImagePath,
	}
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.sb.From("events").AsServiceRole().Single().Insert(ctx, eventColumns(event), event)
}

func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	return r.sb.From("events").AsServiceRole().Eq("id", event.ID).Single().Update(ctx, eventColumns(event), event)
}

func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	return r.sb.From("events").AsServiceRole().Eq("id", id).Delete(ctx)
}

// IncrementConfirmations bumps the derived confirmation counter through a
// stored procedure so concurrent confirmations don't lose updates.
func (r *EventRepository) IncrementConfirmations(ctx context.Context, eventID int64) error {
	return r.sb.RPC(ctx, "increment_confirmation_count", map[string]any{"p_event_id": eventID}, nil)
}

func (r *EventRepository) CountAll(ctx context.Context) (int64, error) {
	return r.sb.From("events").Count(ctx)
}
