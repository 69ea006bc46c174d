package repository

import (
	"context"
	"errors"
	"time"

	"namidia/internal/models"
	"namidia/internal/supabase"
)

type ProfileRepository struct {
	sb *supabase.Client
}

func NewProfileRepository(sb *supabase.Client) *ProfileRepository {
	return &ProfileRepository{sb: sb}
}

func (r *ProfileRepository) Get(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	err := r.sb.From("profiles").Select("*").Eq("id", userID).Single().Get(ctx, &profile)
	if errors.Is(err, supabase.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Upsert writes the profile row keyed by the auth user id, creating it on
// first save. The id is the auth user's uuid, so it is part of the
// payload; updated_at is stamped here.
func (r *ProfileRepository) Upsert(ctx context.Context, profile *models.Profile) error {
	payload := map[string]any{
		"id":          profile.ID,
		"name":        profile.Name,
		"phone":       profile.Phone,
		"condominium": profile.Condominium,
		"tower":       profile.Tower,
		"apartment":   profile.Apartment,
		"updated_at":  time.Now().Format(time.RFC3339),
	}
	return r.sb.From("profiles").Single().Upsert(ctx, payload, "id", profile)
}
