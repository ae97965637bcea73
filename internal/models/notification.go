// internal/models/notification.go
package models

// NotificationEntry is a single in-app notification. Read state is tracked
// server-side only; the local count is simply the list length.
type NotificationEntry struct {
	ID      string `json:"id,omitempty"`
	Icon    string `json:"icon"`
	Message string `json:"message"`
	Date    string `json:"date"`
}
