package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ChangeEvent is one row change pushed by the backend's change feed.
type ChangeEvent struct {
	Table     string
	Type      string // INSERT, UPDATE or DELETE
	Record    map[string]any
	OldRecord map[string]any
}

// ChangeHandler consumes change events for one subscription.
type ChangeHandler func(ChangeEvent)

// RealtimeClient subscribes to the backend's change feed over websocket.
// It is a direct pass-through of the vendor subscription protocol; there
// is no local buffering or backpressure handling.
type RealtimeClient struct {
	mu       sync.Mutex
	wsURL    string
	conn     *websocket.Conn
	handlers map[string][]ChangeHandler // table -> handlers
	events   map[string]string          // table -> subscribed event type
	done     chan struct{}
	ref      int
}

// NewRealtimeClient builds a realtime client from the backend config.
func NewRealtimeClient(cfg Config) *RealtimeClient {
	wsURL := cfg.URL
	switch {
	case strings.HasPrefix(wsURL, "https"):
		wsURL = "wss" + wsURL[len("https"):]
	case strings.HasPrefix(wsURL, "http"):
		wsURL = "ws" + wsURL[len("http"):]
	}
	wsURL = strings.TrimSuffix(wsURL, "/") + "/realtime/v1/websocket?apikey=" + cfg.AnonKey + "&vsn=1.0.0"

	return &RealtimeClient{
		wsURL:    wsURL,
		handlers: make(map[string][]ChangeHandler),
		events:   make(map[string]string),
	}
}

// Subscribe registers a handler for changes on a table. event is one of
// INSERT, UPDATE, DELETE or "*".
func (r *RealtimeClient) Subscribe(table, event string, handler ChangeHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event == "" {
		event = "*"
	}
	r.handlers[table] = append(r.handlers[table], handler)
	r.events[table] = event
}

// Connect dials the websocket, joins a channel per subscribed table and
// starts the read and heartbeat loops.
func (r *RealtimeClient) Connect(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn != nil {
		return nil
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, r.wsURL, nil)
	if err != nil {
		return fmt.Errorf("supabase realtime: dial: %w", err)
	}
	r.conn = conn
	r.done = make(chan struct{})

	for table, event := range r.events {
		if err := r.join(table, event); err != nil {
			conn.Close()
			r.conn = nil
			return err
		}
	}

	go r.readLoop()
	go r.heartbeat()

	return nil
}

// Close stops the loops and closes the connection.
func (r *RealtimeClient) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn == nil {
		return nil
	}
	close(r.done)

	r.conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
	)
	err := r.conn.Close()
	r.conn = nil
	return err
}

// join sends a phx_join with a postgres_changes config for one table.
func (r *RealtimeClient) join(table, event string) error {
	r.ref++
	ref := strconv.Itoa(r.ref)

	msg := map[string]any{
		"topic": "realtime:public:" + table,
		"event": "phx_join",
		"payload": map[string]any{
			"config": map[string]any{
				"postgres_changes": []map[string]any{
					{"event": event, "schema": "public", "table": table},
				},
			},
		},
		"ref":      ref,
		"join_ref": ref,
	}
	if err := r.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("supabase realtime: join %s: %w", table, err)
	}
	return nil
}

type realtimeMessage struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

type changePayload struct {
	Data struct {
		Table     string         `json:"table"`
		Type      string         `json:"type"`
		Record    map[string]any `json:"record"`
		OldRecord map[string]any `json:"old_record"`
	} `json:"data"`
}

func (r *RealtimeClient) readLoop() {
	for {
		select {
		case <-r.done:
			return
		default:
		}

		r.mu.Lock()
		conn := r.conn
		r.mu.Unlock()
		if conn == nil {
			return
		}

		_, raw, err := conn.ReadMessage()
		if err != nil {
			slog.Error("Realtime connection closed", "error", err)
			return
		}

		var msg realtimeMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		if msg.Event != "postgres_changes" {
			continue
		}

		var payload changePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			slog.Error("Failed to decode change payload", "topic", msg.Topic, "error", err)
			continue
		}

		r.dispatch(ChangeEvent{
			Table:     payload.Data.Table,
			Type:      payload.Data.Type,
			Record:    payload.Data.Record,
			OldRecord: payload.Data.OldRecord,
		})
	}
}

func (r *RealtimeClient) dispatch(event ChangeEvent) {
	r.mu.Lock()
	handlers := append([]ChangeHandler(nil), r.handlers[event.Table]...)
	r.mu.Unlock()

	for _, handler := range handlers {
		go handler(event)
	}
}

func (r *RealtimeClient) heartbeat() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.mu.Lock()
			if r.conn != nil {
				r.ref++
				r.conn.WriteJSON(map[string]any{
					"topic":   "phoenix",
					"event":   "heartbeat",
					"payload": map[string]any{},
					"ref":     strconv.Itoa(r.ref),
				})
			}
			r.mu.Unlock()
		}
	}
}
