package service

import (
	"context"
	"fmt"

	"namidia/internal/models"
	"namidia/internal/repository"
)

type ProfileService struct {
	profileRepo *repository.ProfileRepository
}

func NewProfileService(profileRepo *repository.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

// Get returns the stored profile, or an empty one when the user has not
// saved anything yet.
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.profileRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return &models.Profile{ID: userID}, nil
	}
	return profile, nil
}

// Update upserts the profile row for the authenticated user.
func (s *ProfileService) Update(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.Profile, error) {
	profile := &models.Profile{
		ID:          userID,
		Name:        req.Name,
		Phone:       req.Phone,
		Condominium: req.Condominium,
		Tower:       req.Tower,
		Apartment:   req.Apartment,
	}

	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}
