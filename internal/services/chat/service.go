// internal/services/chat/service.go
package chat

import (
	"context"
	"fmt"
	"time"

	"elite-customer/internal/api"
	"elite-customer/internal/models"
)

// Service exposes chat operations against the REST gateway.
type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// messageResponse is the wire shape of one chat message.
type messageResponse struct {
	ID              string `json:"id"`
	Text            string `json:"text"`
	Sender          string `json:"sender"`
	Timestamp       string `json:"timestamp"`
	ImageURL        string `json:"imageUrl,omitempty"`
	IsDesignPreview bool   `json:"isDesignPreview,omitempty"`
}

// SendMessageRequest is the body of POST /jobs/{id}/chat.
type SendMessageRequest struct {
	Text     string `json:"text"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// DesignApprovalRequest is the body of POST /jobs/{id}/design-approval.
type DesignApprovalRequest struct {
	MessageID string `json:"messageId"`
	Approved  bool   `json:"approved"`
	Feedback  string `json:"feedback,omitempty"`
}

func transformMessage(m messageResponse) models.ChatMessage {
	ts, err := time.Parse(time.RFC3339, m.Timestamp)
	if err != nil {
		ts = time.Now().UTC()
	}
	return models.ChatMessage{
		ID:              m.ID,
		Text:            m.Text,
		Sender:          models.SenderFromWire(m.Sender),
		Timestamp:       ts,
		ImageURL:        m.ImageURL,
		IsDesignPreview: m.IsDesignPreview,
		Delivery:        models.DeliveryConfirmed,
	}
}

// GetMessages fetches the full message list for a job, oldest first.
func (s *Service) GetMessages(ctx context.Context, jobID string) ([]models.ChatMessage, error) {
	var wire []messageResponse
	resp := s.client.Get(ctx, fmt.Sprintf("/jobs/%s/chat", jobID))
	if err := resp.Decode(&wire); err != nil {
		return nil, err
	}
	messages := make([]models.ChatMessage, 0, len(wire))
	for _, w := range wire {
		messages = append(messages, transformMessage(w))
	}
	return messages, nil
}

// SendMessage creates a message server-side and returns the server echo
// with its assigned id.
func (s *Service) SendMessage(ctx context.Context, jobID string, req SendMessageRequest) (models.ChatMessage, error) {
	var wire messageResponse
	resp := s.client.Post(ctx, fmt.Sprintf("/jobs/%s/chat", jobID), req)
	if err := resp.Decode(&wire); err != nil {
		return models.ChatMessage{}, err
	}
	return transformMessage(wire), nil
}

// SubmitDesignApproval records an approval or change request for a design
// preview message.
func (s *Service) SubmitDesignApproval(ctx context.Context, jobID string, req DesignApprovalRequest) error {
	resp := s.client.Post(ctx, fmt.Sprintf("/jobs/%s/design-approval", jobID), req)
	if !resp.Success {
		return resp.Error
	}
	return nil
}
