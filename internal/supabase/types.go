// Package supabase is a minimal client for the hosted backend: PostgREST
// queries, GoTrue auth and realtime change subscriptions over websocket.
package supabase

import "time"

// Config holds client configuration.
type Config struct {
	// ProjectURL is the project URL (e.g. https://xxx.supabase.co).
	ProjectURL string

	// AnonKey is the public anon API key sent with every request.
	AnonKey string

	// Timeout for HTTP requests.
	Timeout time.Duration
}

// Configured reports whether the config names a reachable project.
func (c Config) Configured() bool {
	return c.ProjectURL != "" && c.AnonKey != ""
}

// User represents a GoTrue user.
type User struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email,omitempty"`
	Phone        string                 `json:"phone,omitempty"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}

// Session represents an auth session.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user,omitempty"`
}

// SignUpRequest for user registration.
type SignUpRequest struct {
	Email    string                 `json:"email,omitempty"`
	Phone    string                 `json:"phone,omitempty"`
	Password string                 `json:"password"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

// OrderDirection for sorting.
type OrderDirection string

const (
	OrderAsc  OrderDirection = "asc"
	OrderDesc OrderDirection = "desc"
)

// RealtimeEventType for subscription filtering.
type RealtimeEventType string

const (
	EventInsert RealtimeEventType = "INSERT"
	EventUpdate RealtimeEventType = "UPDATE"
	EventDelete RealtimeEventType = "DELETE"
	EventAll    RealtimeEventType = "*"
)

// SubscriptionConfig describes one postgres_changes subscription.
type SubscriptionConfig struct {
	Schema string
	Table  string
	Event  RealtimeEventType
	Filter string // optional PostgREST filter, e.g. "job_id=eq.JOB-1"
}

// RealtimeEvent is one change delivered over the realtime channel.
type RealtimeEvent struct {
	Type      string                 `json:"type"`
	Table     string                 `json:"table"`
	Schema    string                 `json:"schema"`
	Record    map[string]interface{} `json:"record,omitempty"`
	OldRecord map[string]interface{} `json:"old_record,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// RealtimeHandler handles realtime events.
type RealtimeHandler func(event RealtimeEvent)

// Error represents an API error from the hosted backend.
type Error struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	Hint       string `json:"hint,omitempty"`
	StatusCode int    `json:"status_code"`
}

func (e *Error) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// NewError creates a new API error.
func NewError(code, message string, statusCode int) *Error {
	return &Error{Code: code, Message: message, StatusCode: statusCode}
}
