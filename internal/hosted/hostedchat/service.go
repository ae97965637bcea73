// Package hostedchat serves chat operations from the hosted backend's
// chat_messages table, including the realtime push subscription.
package hostedchat

import (
	"context"
	"sync"
	"time"

	apperrors "elite-customer/internal/common/errors"
	"elite-customer/internal/common/logger"
	"elite-customer/internal/common/metrics"
	"elite-customer/internal/models"
	"elite-customer/internal/supabase"
)

// messageRow mirrors the chat_messages table. Most columns are nullable;
// normalization happens in transformRow.
type messageRow struct {
	ID         string  `json:"id"`
	JobID      *string `json:"job_id"`
	SenderType string  `json:"sender_type"`
	SenderID   string  `json:"sender_id"`
	SenderName *string `json:"sender_name"`
	Message    *string `json:"message"`
	ImageURL   *string `json:"image_url"`
	CreatedAt  *string `json:"created_at"`
}

// Service is the hosted chat adapter. A nil backend client means the
// hosted source is not configured; checked once at construction.
type Service struct {
	backend *supabase.Client
	log     logger.Logger
}

func NewService(backend *supabase.Client, log logger.Logger) *Service {
	return &Service{backend: backend, log: log}
}

// IsConfigured reports whether the hosted backend is available.
func (s *Service) IsConfigured() bool {
	return s.backend != nil
}

// transformRow normalizes one table row into the canonical message. Null
// columns degrade to safe defaults rather than failing: empty text, the
// current time, no image. A non-null image marks a design preview.
func transformRow(row messageRow) models.ChatMessage {
	msg := models.ChatMessage{
		ID:       row.ID,
		Sender:   models.SenderFromWire(row.SenderType),
		Delivery: models.DeliveryConfirmed,
	}

	if row.Message != nil {
		msg.Text = *row.Message
	}
	if row.ImageURL != nil && *row.ImageURL != "" {
		msg.ImageURL = *row.ImageURL
		msg.IsDesignPreview = true
	}
	msg.Timestamp = time.Now().UTC()
	if row.CreatedAt != nil {
		if ts, err := time.Parse(time.RFC3339, *row.CreatedAt); err == nil {
			msg.Timestamp = ts
		}
	}

	return msg
}

// GetMessages fetches all messages for a job, oldest first.
func (s *Service) GetMessages(ctx context.Context, jobID string) ([]models.ChatMessage, error) {
	if s.backend == nil {
		return nil, apperrors.NewNotConfiguredError("hosted backend")
	}

	var rows []messageRow
	err := s.backend.Database().
		From("chat_messages").
		Select("*").
		Eq("job_id", jobID).
		Order("created_at", supabase.OrderAsc).
		ExecuteInto(ctx, &rows)
	if err != nil {
		return nil, err
	}

	messages := make([]models.ChatMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, transformRow(row))
	}
	return messages, nil
}

// SendMessage inserts a customer message and returns the stored row with
// its server-assigned id and timestamp.
func (s *Service) SendMessage(ctx context.Context, jobID, senderID, senderName, text, imageURL string) (models.ChatMessage, error) {
	if s.backend == nil {
		return models.ChatMessage{}, apperrors.NewNotConfiguredError("hosted backend")
	}

	insert := map[string]interface{}{
		"job_id":      jobID,
		"sender_type": string(models.SenderCustomer),
		"sender_id":   senderID,
		"sender_name": senderName,
		"message":     text,
	}
	if imageURL != "" {
		insert["image_url"] = imageURL
	}

	var rows []messageRow
	err := s.backend.Database().
		From("chat_messages").
		Insert(insert).
		ExecuteInto(ctx, &rows)
	if err != nil {
		metrics.ChatMessagesSent.WithLabelValues("hosted", "error").Inc()
		return models.ChatMessage{}, err
	}
	if len(rows) == 0 {
		metrics.ChatMessagesSent.WithLabelValues("hosted", "rejected").Inc()
		return models.ChatMessage{}, apperrors.NewMessageRejectedError("insert returned no representation")
	}

	metrics.ChatMessagesSent.WithLabelValues("hosted", "ok").Inc()
	return transformRow(rows[0]), nil
}

// SubscribeToMessages opens a push channel for INSERTs on one job's
// messages and invokes fn once per event, in arrival order. The returned
// teardown is idempotent. Fails with a not-configured error when the
// backend is absent; callers should branch on IsConfigured first.
func (s *Service) SubscribeToMessages(ctx context.Context, jobID string, fn func(models.ChatMessage)) (func(), error) {
	if s.backend == nil {
		return nil, apperrors.NewNotConfiguredError("hosted backend")
	}

	sub, err := s.backend.Realtime().Subscribe(ctx, "chat:"+jobID, supabase.SubscriptionConfig{
		Schema: "public",
		Table:  "chat_messages",
		Event:  supabase.EventInsert,
		Filter: "job_id=eq." + jobID,
	}, func(ev supabase.RealtimeEvent) {
		metrics.RealtimeEventsReceived.WithLabelValues(ev.Type).Inc()
		fn(transformRecord(ev.Record))
	})
	if err != nil {
		return nil, err
	}

	metrics.RealtimeSubscriptionsActive.Inc()
	s.log.Info("chat subscription opened", map[string]interface{}{"job_id": jobID})

	var once sync.Once
	return func() {
		once.Do(func() {
			metrics.RealtimeSubscriptionsActive.Dec()
		})
		sub.Unsubscribe()
	}, nil
}

// transformRecord normalizes a realtime event record, which arrives as a
// generic map rather than a typed row.
func transformRecord(record map[string]interface{}) models.ChatMessage {
	row := messageRow{}
	if v, ok := record["id"].(string); ok {
		row.ID = v
	}
	if v, ok := record["sender_type"].(string); ok {
		row.SenderType = v
	}
	if v, ok := record["sender_id"].(string); ok {
		row.SenderID = v
	}
	if v, ok := record["message"].(string); ok {
		row.Message = &v
	}
	if v, ok := record["image_url"].(string); ok {
		row.ImageURL = &v
	}
	if v, ok := record["created_at"].(string); ok {
		row.CreatedAt = &v
	}
	return transformRow(row)
}

// GetMessagesCount returns how many messages a job has, via the count
// metadata so the transcript itself is never transferred.
func (s *Service) GetMessagesCount(ctx context.Context, jobID string) (int, error) {
	if s.backend == nil {
		return 0, apperrors.NewNotConfiguredError("hosted backend")
	}

	return s.backend.Database().
		From("chat_messages").
		Eq("job_id", jobID).
		Count(ctx)
}
