// internal/models/chat.go
package models

import "time"

// MessageSender identifies which party authored a chat message.
type MessageSender string

const (
	SenderCustomer MessageSender = "customer"
	SenderDesigner MessageSender = "designer"
)

// SenderFromWire maps a wire-format sender string onto the enum.
// "customer" maps to SenderCustomer, everything else to SenderDesigner.
func SenderFromWire(s string) MessageSender {
	if s == string(SenderCustomer) {
		return SenderCustomer
	}
	return SenderDesigner
}

// DeliveryState tracks a locally originated message through its round trip
// to the backend. Fetched and pushed messages are always Confirmed.
type DeliveryState string

const (
	DeliveryPending   DeliveryState = "pending"
	DeliveryConfirmed DeliveryState = "confirmed"
)

// ChatMessage is a single chat entry, ordered by Timestamp ascending for
// display. Never mutated after creation except for the pending-to-confirmed
// collapse of a locally sent message.
type ChatMessage struct {
	ID              string        `json:"id"`
	Text            string        `json:"text"`
	Sender          MessageSender `json:"sender"`
	Timestamp       time.Time     `json:"timestamp"`
	ImageURL        string        `json:"imageUrl,omitempty"`
	IsDesignPreview bool          `json:"isDesignPreview,omitempty"`
	Delivery        DeliveryState `json:"delivery"`
	// ClientID is set for locally originated messages and used to
	// reconcile the pending entry with the server echo.
	ClientID string `json:"clientId,omitempty"`
}
