// internal/supabase/realtime.go
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const heartbeatInterval = 25 * time.Second

// RealtimeClient manages websocket subscriptions to postgres changes.
type RealtimeClient struct {
	client *Client

	mu            sync.Mutex
	subscriptions map[string]*Subscription
}

// Subscription is one active channel. Events are delivered to the handler
// in arrival order from a single reader goroutine.
type Subscription struct {
	Topic   string
	Config  SubscriptionConfig
	Handler RealtimeHandler

	client    *RealtimeClient
	conn      *websocket.Conn
	stopCh    chan struct{}
	closeOnce sync.Once
	refSeq    int64
	writeMu   sync.Mutex
}

// phoenixMessage is the realtime server's framing.
type phoenixMessage struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     string          `json:"ref"`
}

// changePayload is the body of a postgres_changes event.
type changePayload struct {
	Data struct {
		Type      string                 `json:"type"`
		Table     string                 `json:"table"`
		Schema    string                 `json:"schema"`
		Record    map[string]interface{} `json:"record"`
		OldRecord map[string]interface{} `json:"old_record"`
	} `json:"data"`
}

// Subscribe opens a websocket, joins the named channel with the given
// change config and delivers matching events to handler until Unsubscribe.
func (r *RealtimeClient) Subscribe(ctx context.Context, topic string, cfg SubscriptionConfig, handler RealtimeHandler) (*Subscription, error) {
	if handler == nil {
		return nil, fmt.Errorf("handler is required")
	}

	dialURL := r.client.realtimeURL + "?apikey=" + r.client.config.AnonKey + "&vsn=1.0.0"
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, dialURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial realtime: %w", err)
	}

	sub := &Subscription{
		Topic:   "realtime:" + topic,
		Config:  cfg,
		Handler: handler,
		client:  r,
		conn:    conn,
		stopCh:  make(chan struct{}),
	}

	if err := sub.join(); err != nil {
		conn.Close()
		return nil, err
	}

	r.mu.Lock()
	if r.subscriptions == nil {
		r.subscriptions = make(map[string]*Subscription)
	}
	r.subscriptions[sub.Topic] = sub
	r.mu.Unlock()

	go sub.readLoop()
	go sub.heartbeatLoop()

	return sub, nil
}

// Unsubscribe tears the channel down. Safe to call more than once; the
// handler is never invoked after the first call returns the connection to
// closed state.
func (s *Subscription) Unsubscribe() {
	s.closeOnce.Do(func() {
		// Best effort leave; the server also reaps dead connections.
		s.send(phoenixMessage{
			Topic: s.Topic,
			Event: "phx_leave",
			Ref:   s.nextRef(),
		})

		close(s.stopCh)
		s.conn.Close()

		s.client.mu.Lock()
		delete(s.client.subscriptions, s.Topic)
		s.client.mu.Unlock()
	})
}

func (s *Subscription) join() error {
	join := map[string]interface{}{
		"config": map[string]interface{}{
			"postgres_changes": []map[string]string{
				{
					"event":  string(s.Config.Event),
					"schema": s.Config.Schema,
					"table":  s.Config.Table,
					"filter": s.Config.Filter,
				},
			},
		},
	}
	payload, err := json.Marshal(join)
	if err != nil {
		return fmt.Errorf("marshal join payload: %w", err)
	}

	return s.send(phoenixMessage{
		Topic:   s.Topic,
		Event:   "phx_join",
		Payload: payload,
		Ref:     s.nextRef(),
	})
}

func (s *Subscription) readLoop() {
	for {
		var msg phoenixMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			select {
			case <-s.stopCh:
			default:
				s.Unsubscribe()
			}
			return
		}

		if msg.Event != "postgres_changes" {
			// phx_reply, heartbeat acks and system messages.
			continue
		}

		var change changePayload
		if err := json.Unmarshal(msg.Payload, &change); err != nil {
			continue
		}

		select {
		case <-s.stopCh:
			return
		default:
		}

		s.Handler(RealtimeEvent{
			Type:      change.Data.Type,
			Table:     change.Data.Table,
			Schema:    change.Data.Schema,
			Record:    change.Data.Record,
			OldRecord: change.Data.OldRecord,
			Timestamp: time.Now().UTC(),
		})
	}
}

func (s *Subscription) heartbeatLoop() {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.send(phoenixMessage{
				Topic:   "phoenix",
				Event:   "heartbeat",
				Payload: json.RawMessage(`{}`),
				Ref:     s.nextRef(),
			})
		}
	}
}

func (s *Subscription) send(msg phoenixMessage) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(msg)
}

func (s *Subscription) nextRef() string {
	return strconv.FormatInt(atomic.AddInt64(&s.refSeq, 1), 10)
}

// UnsubscribeAll tears down every active subscription.
func (r *RealtimeClient) UnsubscribeAll() {
	r.mu.Lock()
	subs := make([]*Subscription, 0, len(r.subscriptions))
	for _, sub := range r.subscriptions {
		subs = append(subs, sub)
	}
	r.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}
