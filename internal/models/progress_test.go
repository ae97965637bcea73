package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Progress Derivation Tests
// ==========================

func TestNewProgress_Percentage(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		expected  int
	}{
		{name: "three of five rounds to sixty", completed: 3, total: 5, expected: 60},
		{name: "four of seven rounds down to fifty-seven", completed: 4, total: 7, expected: 57},
		{name: "empty list yields zero without dividing", completed: 0, total: 0, expected: 0},
		{name: "all completed yields one hundred", completed: 7, total: 7, expected: 100},
		{name: "two of three rounds up to sixty-seven", completed: 2, total: 3, expected: 67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProgress(tt.completed, tt.total)
			assert.Equal(t, tt.expected, p.Percentage)
			assert.Equal(t, tt.completed, p.Completed)
			assert.Equal(t, tt.total, p.Total)
		})
	}
}

func TestProgressFromSteps(t *testing.T) {
	steps := []ProgressStep{
		{Label: "Order Received", Status: StatusDone},
		{Label: "Design Phase", Status: StatusDone},
		{Label: "Production", Status: StatusInProgress},
		{Label: "Quality Check", Status: StatusPending},
		{Label: "Delivery", Status: StatusPending},
	}

	p := ProgressFromSteps(steps)
	assert.Equal(t, 2, p.Completed)
	assert.Equal(t, 5, p.Total)
	assert.Equal(t, 40, p.Percentage)
}

func TestProgressFromSteps_Empty(t *testing.T) {
	p := ProgressFromSteps(nil)
	assert.Equal(t, Progress{}, p)
}

// ==========================
// Wire Mapping Tests
// ==========================

func TestSenderFromWire(t *testing.T) {
	tests := []struct {
		name     string
		wire     string
		expected MessageSender
	}{
		{name: "customer maps to customer", wire: "customer", expected: SenderCustomer},
		{name: "designer maps to designer", wire: "designer", expected: SenderDesigner},
		{name: "unknown maps to designer", wire: "system", expected: SenderDesigner},
		{name: "empty maps to designer", wire: "", expected: SenderDesigner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SenderFromWire(tt.wire))
		})
	}
}

func TestProgressStatusFromWire(t *testing.T) {
	assert.Equal(t, StatusDone, ProgressStatusFromWire("done"))
	assert.Equal(t, StatusInProgress, ProgressStatusFromWire("inprogress"))
	assert.Equal(t, StatusPending, ProgressStatusFromWire("pending"))
	assert.Equal(t, StatusPending, ProgressStatusFromWire("something-else"))
}
