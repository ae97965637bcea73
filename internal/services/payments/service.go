// internal/services/payments/service.go
package payments

import (
	"context"
	"fmt"

	"elite-customer/internal/api"
	"elite-customer/internal/models"
)

// Service exposes payment operations against the REST gateway. Actual
// payment processing happens at an external gateway; this layer only reads
// summaries and hands off initiation/verification.
type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// entryResponse is the wire shape of one payment history row.
type entryResponse struct {
	ID            string  `json:"id"`
	Date          string  `json:"date"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	TransactionID string  `json:"transactionId,omitempty"`
	Method        string  `json:"method,omitempty"`
}

// InitiateRequest is the body of POST /jobs/{id}/payments/initiate.
type InitiateRequest struct {
	Amount float64 `json:"amount"`
	Method string  `json:"method"` // "card", "upi" or "netbanking"
}

// Initiation is the handoff returned by the payment gateway.
type Initiation struct {
	PaymentID   string `json:"paymentId"`
	RedirectURL string `json:"redirectUrl,omitempty"`
	OrderID     string `json:"orderId,omitempty"`
}

// Verification is the outcome of a completed payment.
type Verification struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transactionId"`
}

// GetSummary fetches the payment totals for a job. The summary is passed
// through as-is; paid+due may not equal total upstream and is not corrected.
func (s *Service) GetSummary(ctx context.Context, jobID string) (models.PaymentSummary, error) {
	var summary models.PaymentSummary
	resp := s.client.Get(ctx, fmt.Sprintf("/jobs/%s/payments/summary", jobID))
	if err := resp.Decode(&summary); err != nil {
		return models.PaymentSummary{}, err
	}
	return summary, nil
}

// GetHistory fetches the payment history rows for a job.
func (s *Service) GetHistory(ctx context.Context, jobID string) ([]models.PaymentEntry, error) {
	var wire []entryResponse
	resp := s.client.Get(ctx, fmt.Sprintf("/jobs/%s/payments/history", jobID))
	if err := resp.Decode(&wire); err != nil {
		return nil, err
	}
	entries := make([]models.PaymentEntry, 0, len(wire))
	for _, w := range wire {
		entries = append(entries, models.PaymentEntry{
			Date:   w.Date,
			Amount: w.Amount,
			Status: models.PaymentStatusFromWire(w.Status),
		})
	}
	return entries, nil
}

// Initiate starts a payment with the external gateway.
func (s *Service) Initiate(ctx context.Context, jobID string, req InitiateRequest) (Initiation, error) {
	var init Initiation
	resp := s.client.Post(ctx, fmt.Sprintf("/jobs/%s/payments/initiate", jobID), req)
	if err := resp.Decode(&init); err != nil {
		return Initiation{}, err
	}
	return init, nil
}

// Verify confirms a payment completed at the external gateway.
func (s *Service) Verify(ctx context.Context, jobID, paymentID string) (Verification, error) {
	var ver Verification
	body := map[string]string{"paymentId": paymentID}
	resp := s.client.Post(ctx, fmt.Sprintf("/jobs/%s/payments/verify", jobID), body)
	if err := resp.Decode(&ver); err != nil {
		return Verification{}, err
	}
	return ver, nil
}
