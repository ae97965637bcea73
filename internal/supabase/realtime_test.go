package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Fake Realtime Server
// ==========================

// fakeRealtimeServer speaks just enough of the channel protocol: it acks
// joins and lets the test push change events to the connected client.
// writeMu serializes the handler's replies with pushInsert; the websocket
// connection tolerates only one writer at a time.
type fakeRealtimeServer struct {
	server  *httptest.Server
	joined  chan phoenixMessage
	conns   chan *websocket.Conn
	writeMu sync.Mutex
}

func (f *fakeRealtimeServer) writeJSON(conn *websocket.Conn, msg phoenixMessage) error {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()
	return conn.WriteJSON(msg)
}

func newFakeRealtimeServer(t *testing.T) *fakeRealtimeServer {
	f := &fakeRealtimeServer{
		joined: make(chan phoenixMessage, 4),
		conns:  make(chan *websocket.Conn, 4),
	}
	upgrader := websocket.Upgrader{}

	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		f.conns <- conn

		for {
			var msg phoenixMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			switch msg.Event {
			case "phx_join":
				f.joined <- msg
				f.writeJSON(conn, phoenixMessage{
					Topic:   msg.Topic,
					Event:   "phx_reply",
					Payload: json.RawMessage(`{"status":"ok"}`),
					Ref:     msg.Ref,
				})
			case "heartbeat":
				f.writeJSON(conn, phoenixMessage{
					Topic:   "phoenix",
					Event:   "phx_reply",
					Payload: json.RawMessage(`{"status":"ok"}`),
					Ref:     msg.Ref,
				})
			}
		}
	}))
	return f
}

func (f *fakeRealtimeServer) pushInsert(t *testing.T, topic string, record map[string]interface{}) {
	conn := <-f.conns
	f.conns <- conn

	payload, err := json.Marshal(map[string]interface{}{
		"data": map[string]interface{}{
			"type":   "INSERT",
			"table":  "chat_messages",
			"schema": "public",
			"record": record,
		},
	})
	require.NoError(t, err)

	require.NoError(t, f.writeJSON(conn, phoenixMessage{
		Topic:   topic,
		Event:   "postgres_changes",
		Payload: payload,
	}))
}

func (f *fakeRealtimeServer) close() {
	f.server.Close()
}

func newRealtimeTestClient(t *testing.T, f *fakeRealtimeServer) *Client {
	client, err := New(Config{
		ProjectURL: f.server.URL,
		AnonKey:    "anon-key",
		Timeout:    5 * time.Second,
	})
	require.NoError(t, err)
	return client
}

// ==========================
// Subscription Tests
// ==========================

func TestSubscribe_JoinsAndDeliversEvents(t *testing.T) {
	fake := newFakeRealtimeServer(t)
	defer fake.close()

	client := newRealtimeTestClient(t, fake)
	events := make(chan RealtimeEvent, 4)

	sub, err := client.Realtime().Subscribe(context.Background(), "chat:JOB-1", SubscriptionConfig{
		Schema: "public",
		Table:  "chat_messages",
		Event:  EventInsert,
		Filter: "job_id=eq.JOB-1",
	}, func(ev RealtimeEvent) {
		events <- ev
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	join := <-fake.joined
	assert.Equal(t, "realtime:chat:JOB-1", join.Topic)
	assert.Contains(t, string(join.Payload), `"filter":"job_id=eq.JOB-1"`)

	fake.pushInsert(t, "realtime:chat:JOB-1", map[string]interface{}{
		"id":      "m-1",
		"message": "hello",
	})

	select {
	case ev := <-events:
		assert.Equal(t, "INSERT", ev.Type)
		assert.Equal(t, "chat_messages", ev.Table)
		assert.Equal(t, "hello", ev.Record["message"])
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestSubscribe_EventsInArrivalOrder(t *testing.T) {
	fake := newFakeRealtimeServer(t)
	defer fake.close()

	client := newRealtimeTestClient(t, fake)
	events := make(chan RealtimeEvent, 8)

	sub, err := client.Realtime().Subscribe(context.Background(), "chat:JOB-1", SubscriptionConfig{
		Schema: "public",
		Table:  "chat_messages",
		Event:  EventInsert,
	}, func(ev RealtimeEvent) {
		events <- ev
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()
	<-fake.joined

	for i := 1; i <= 3; i++ {
		fake.pushInsert(t, "realtime:chat:JOB-1", map[string]interface{}{"id": i})
	}

	for i := 1; i <= 3; i++ {
		select {
		case ev := <-events:
			assert.EqualValues(t, i, ev.Record["id"])
		case <-time.After(2 * time.Second):
			t.Fatalf("event %d not delivered", i)
		}
	}
}

func TestUnsubscribe_Idempotent(t *testing.T) {
	fake := newFakeRealtimeServer(t)
	defer fake.close()

	client := newRealtimeTestClient(t, fake)
	var delivered atomic.Int32

	sub, err := client.Realtime().Subscribe(context.Background(), "chat:JOB-2", SubscriptionConfig{
		Schema: "public",
		Table:  "chat_messages",
		Event:  EventInsert,
	}, func(ev RealtimeEvent) {
		delivered.Add(1)
	})
	require.NoError(t, err)
	<-fake.joined

	// Calling teardown twice must not panic and must leave no handler
	// invocations behind.
	sub.Unsubscribe()
	assert.NotPanics(t, sub.Unsubscribe)

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, delivered.Load())
}

func TestUnsubscribeAll(t *testing.T) {
	fake := newFakeRealtimeServer(t)
	defer fake.close()

	client := newRealtimeTestClient(t, fake)
	for _, topic := range []string{"chat:A", "chat:B"} {
		_, err := client.Realtime().Subscribe(context.Background(), topic, SubscriptionConfig{
			Schema: "public",
			Table:  "chat_messages",
			Event:  EventInsert,
		}, func(RealtimeEvent) {})
		require.NoError(t, err)
		<-fake.joined
	}

	client.Realtime().UnsubscribeAll()

	client.Realtime().mu.Lock()
	remaining := len(client.Realtime().subscriptions)
	client.Realtime().mu.Unlock()
	assert.Zero(t, remaining)
}
