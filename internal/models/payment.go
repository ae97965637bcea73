// internal/models/payment.go
package models

// PaymentStatus is the settlement state of one payment entry.
type PaymentStatus string

const (
	PaymentPaid PaymentStatus = "paid"
	PaymentDue  PaymentStatus = "due"
)

// PaymentStatusFromWire maps a wire-format status string onto the enum.
func PaymentStatusFromWire(s string) PaymentStatus {
	if s == string(PaymentPaid) {
		return PaymentPaid
	}
	return PaymentDue
}

// PaymentEntry is a single row of payment history.
type PaymentEntry struct {
	Date   string        `json:"date"`
	Amount float64       `json:"amount"`
	Status PaymentStatus `json:"status"`
}

// PaymentSummary totals an order's payments. Paid + Due is expected to
// equal Total but upstream data may violate that; no correction is applied.
type PaymentSummary struct {
	Total float64 `json:"total"`
	Paid  float64 `json:"paid"`
	Due   float64 `json:"due"`
}
