package repository

import (
	"context"

	"namidia/internal/models"
	"namidia/internal/supabase"
)

type ConfirmationRepository struct {
	sb *supabase.Client
}

func NewConfirmationRepository(sb *supabase.Client) *ConfirmationRepository {
	return &ConfirmationRepository{sb: sb}
}

// Create inserts the confirmation; id and created_at come back from the
// backend.
func (r *ConfirmationRepository) Create(ctx context.Context, confirmation *models.Confirmation) error {
	payload := map[string]any{
		"event_id": confirmation.EventID,
		"name":     confirmation.Name,
		"phone":    confirmation.Phone,
	}
	return r.sb.From("confirmations").Single().Insert(ctx, payload, confirmation)
}

func (r *ConfirmationRepository) ListByEvent(ctx context.Context, eventID int64) ([]models.Confirmation, error) {
	var confirmations []models.Confirmation
	err := r.sb.From("confirmations").Select("*").Eq("event_id", eventID).Order("created_at", false).Get(ctx, &confirmations)
	if err != nil {
		return nil, err
	}
	return confirmations, nil
}

func (r *ConfirmationRepository) CountByEvent(ctx context.Context, eventID int64) (int64, error) {
	return r.sb.From("confirmations").Eq("event_id", eventID).Count(ctx)
}

func (r *ConfirmationRepository) CountAll(ctx context.Context) (int64, error) {
	return r.sb.From("confirmations").Count(ctx)
}
