package consumers

import (
	"context"
	"log/slog"

	"namidia/internal/config"
	"namidia/internal/external"
	"namidia/internal/messaging"
	"namidia/internal/models"
	"namidia/internal/realtime"
	"namidia/internal/repository"
	"namidia/internal/supabase"
)

// ConsumerService runs the background side of the platform: NATS queue
// subscriptions for domain events plus the change-feed bridge.
type ConsumerService struct {
	sb       *supabase.Client
	nats     *messaging.NATSClient
	repos    *repository.Repositories
	handlers *Handlers
	bridge   *realtime.Bridge
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	sb, err := supabase.New(cfg.Supabase)
	if err != nil {
		return nil, err
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		return nil, err
	}

	repos := repository.NewRepositories(sb)
	pushClient := external.NewPushClient(cfg.Push)
	handlers := NewHandlers(repos, pushClient)

	bridge := realtime.NewBridge(supabase.NewRealtimeClient(cfg.Supabase), natsClient)

	return &ConsumerService{
		sb:       sb,
		nats:     natsClient,
		repos:    repos,
		handlers: handlers,
		bridge:   bridge,
	}, nil
}

func (cs *ConsumerService) Start(ctx context.Context) error {
	slog.Info("Starting NATS consumers...")

	_, err := cs.nats.SubscribeQueue(models.EventOrderCreated, "consumers", cs.handlers.HandleOrderCreated)
	if err != nil {
		return err
	}

	_, err = cs.nats.SubscribeQueue(models.EventOrderStatusChanged, "consumers", cs.handlers.HandleOrderStatusChanged)
	if err != nil {
		return err
	}

	_, err = cs.nats.SubscribeQueue(models.EventPresenceConfirmed, "consumers", cs.handlers.HandlePresenceConfirmed)
	if err != nil {
		return err
	}

	_, err = cs.nats.SubscribeQueue(models.EventCouponIssued, "consumers", cs.handlers.HandleCouponIssued)
	if err != nil {
		return err
	}

	// The bridge is best effort. Without it, events published by the
	// API still flow; only changes written by other clients are missed.
	if err := cs.bridge.Start(ctx); err != nil {
		slog.Warn("Change feed bridge unavailable", "error", err)
	}

	slog.Info("All consumers started successfully")
	return nil
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down consumer service...")

	if cs.bridge != nil {
		if err := cs.bridge.Close(); err != nil {
			slog.Error("Error closing change feed bridge", "error", err)
		}
	}

	if cs.nats != nil {
		if err := cs.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
			return err
		}
	}

	return nil
}
