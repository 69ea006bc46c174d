// Package realtime bridges the backend's change feed onto NATS so the
// consumer process reacts to rows written by any client, not only ones
// created through this API.
package realtime

import (
	"context"
	"log/slog"
	"strings"

	"namidia/internal/messaging"
	"namidia/internal/metrics"
	"namidia/internal/supabase"
)

// Bridge republishes row changes from watched tables as NATS messages
// under realtime.<table>.
type Bridge struct {
	rt   *supabase.RealtimeClient
	nats *messaging.NATSClient
}

func NewBridge(rt *supabase.RealtimeClient, nats *messaging.NATSClient) *Bridge {
	return &Bridge{rt: rt, nats: nats}
}

// Start subscribes to the watched tables and opens the websocket. It
// returns once connected; delivery continues on the client's read loop.
func (b *Bridge) Start(ctx context.Context) error {
	for _, table := range []string{"delivery_orders", "events"} {
		b.rt.Subscribe(table, "*", b.forward)
	}
	return b.rt.Connect(ctx)
}

func (b *Bridge) forward(event supabase.ChangeEvent) {
	metrics.RealtimeEvents.WithLabelValues(event.Table, event.Type).Inc()

	payload := map[string]any{
		"table":      event.Table,
		"type":       event.Type,
		"record":     event.Record,
		"old_record": event.OldRecord,
	}

	subject := "realtime." + strings.ToLower(event.Table)
	if err := b.nats.Publish(subject, payload); err != nil {
		slog.Error("Failed to republish change event", "subject", subject, "error", err)
	}
}

func (b *Bridge) Close() error {
	return b.rt.Close()
}
