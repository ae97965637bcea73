// internal/services/notifications/service.go
package notifications

import (
	"context"
	"fmt"

	"elite-customer/internal/api"
	"elite-customer/internal/models"
)

// Service exposes notification operations against the REST gateway.
type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// notificationResponse is the wire shape of one notification. The read flag
// and type stay server-side; the canonical model only carries what renders.
type notificationResponse struct {
	ID      string `json:"id"`
	Icon    string `json:"icon"`
	Message string `json:"message"`
	Date    string `json:"date"`
	Read    bool   `json:"read"`
	Type    string `json:"type"`
}

// GetNotifications fetches all notifications for the current user.
func (s *Service) GetNotifications(ctx context.Context) ([]models.NotificationEntry, error) {
	var wire []notificationResponse
	resp := s.client.Get(ctx, "/notifications")
	if err := resp.Decode(&wire); err != nil {
		return nil, err
	}
	entries := make([]models.NotificationEntry, 0, len(wire))
	for _, w := range wire {
		entries = append(entries, models.NotificationEntry{
			ID:      w.ID,
			Icon:    w.Icon,
			Message: w.Message,
			Date:    w.Date,
		})
	}
	return entries, nil
}

// MarkAsRead marks one notification read.
func (s *Service) MarkAsRead(ctx context.Context, notificationID string) error {
	resp := s.client.Put(ctx, fmt.Sprintf("/notifications/%s/read", notificationID), struct{}{})
	if !resp.Success {
		return resp.Error
	}
	return nil
}

// MarkAllAsRead marks every notification read.
func (s *Service) MarkAllAsRead(ctx context.Context) error {
	resp := s.client.Put(ctx, "/notifications/read-all", struct{}{})
	if !resp.Success {
		return resp.Error
	}
	return nil
}

// GetUnreadCount fetches the server-side unread counter.
func (s *Service) GetUnreadCount(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	resp := s.client.Get(ctx, "/notifications/unread-count")
	if err := resp.Decode(&out); err != nil {
		return 0, err
	}
	return out.Count, nil
}
