package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	apperrors "namidia/internal/errors"
	"namidia/internal/messaging"
	"namidia/internal/models"
	"namidia/internal/repository"
)

type EventService struct {
	eventRepo        *repository.EventRepository
	confirmationRepo *repository.ConfirmationRepository
	coupons          *CouponService
	natsClient       *messaging.NATSClient
}

func NewEventService(eventRepo *repository.EventRepository, confirmationRepo *repository.ConfirmationRepository, coupons *CouponService, natsClient *messaging.NATSClient) *EventService {
	return &EventService{
		eventRepo:        eventRepo,
		confirmationRepo: confirmationRepo,
		coupons:          coupons,
		natsClient:       natsClient,
	}
}

// List returns the public event feed: active events only.
func (s *EventService) List(ctx context.Context) ([]models.Event, error) {
	events, err := s.eventRepo.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// ListAll returns every event, for the admin dashboard.
func (s *EventService) ListAll(ctx context.Context) ([]models.Event, error) {
	events, err := s.eventRepo.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (s *EventService) Get(ctx context.Context, id int64) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrNotFound
	}
	return event, nil
}

// Confirm records a visitor's presence at an event and issues a discount
// coupon for it. A failed coupon issuance does not undo the confirmation.
func (s *EventService) Confirm(ctx context.Context, eventID int64, req *models.ConfirmPresenceRequest) (*models.ConfirmPresenceResponse, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrNotFound
	}
	if !event.Active {
		return nil, apperrors.ErrEventInactive
	}

	confirmation := &models.Confirmation{
		EventID: eventID,
		Name:    req.Name,
		Phone:   req.Phone,
	}
	if err := s.confirmationRepo.Create(ctx, confirmation); err != nil {
		return nil, fmt.Errorf("failed to create confirmation: %w", err)
	}

	if err := s.eventRepo.IncrementConfirmations(ctx, eventID); err != nil {
		slog.Error("Failed to increment confirmation count", "event_id", eventID, "error", err)
	}

	coupon, err := s.coupons.Issue(ctx, eventID, &confirmation.ID, DefaultDiscountPercent)
	if err != nil {
		slog.Error("Failed to issue coupon for confirmation",
			"event_id", eventID, "confirmation_id", confirmation.ID, "error", err)
	}

	if s.natsClient != nil {
		confirmedEvent := models.PresenceConfirmedEvent{
			EventID:        eventID,
			ConfirmationID: confirmation.ID,
			Name:           confirmation.Name,
			Timestamp:      time.Now(),
		}
		if err := s.natsClient.Publish(models.EventPresenceConfirmed, confirmedEvent); err != nil {
			slog.Error("Failed to publish presence confirmed event", "event_id", eventID, "error", err)
		}
	}

	return &models.ConfirmPresenceResponse{
		ConfirmationID: confirmation.ID,
		Coupon:         coupon,
	}, nil
}

// Admin passthroughs

func (s *EventService) Create(ctx context.Context, event *models.Event) error {
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (s *EventService) Update(ctx context.Context, event *models.Event) error {
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

func (s *EventService) Delete(ctx context.Context, id int64) error {
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}
