// internal/models/progress.go
package models

import "math"

// ProgressStatus is the completion state of a single order stage.
type ProgressStatus string

const (
	StatusDone       ProgressStatus = "done"
	StatusInProgress ProgressStatus = "inprogress"
	StatusPending    ProgressStatus = "pending"
)

// ProgressStatusFromWire maps a wire-format status string onto the enum.
// Unknown values degrade to StatusPending.
func ProgressStatusFromWire(s string) ProgressStatus {
	switch s {
	case string(StatusDone):
		return StatusDone
	case string(StatusInProgress):
		return StatusInProgress
	default:
		return StatusPending
	}
}

// ProgressStep is the canonical shape for one stage of an order lifecycle.
// Stage order is the slice's insertion order. Every source (REST, hosted
// timeline, demo fixtures) is mapped into this type at the service boundary.
type ProgressStep struct {
	Label       string         `json:"label"`
	Date        string         `json:"date,omitempty"`
	Status      ProgressStatus `json:"status"`
	Description string         `json:"description,omitempty"`
}

// Progress summarizes completion across a list of steps.
type Progress struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// ProgressFromSteps derives completion counts from canonical steps.
// Percentage is rounded, and 0 when there are no steps.
func ProgressFromSteps(steps []ProgressStep) Progress {
	completed := 0
	for _, s := range steps {
		if s.Status == StatusDone {
			completed++
		}
	}
	return NewProgress(completed, len(steps))
}

// NewProgress computes the rounded percentage, guarding division by zero.
func NewProgress(completed, total int) Progress {
	p := Progress{Completed: completed, Total: total}
	if total > 0 {
		p.Percentage = int(math.Round(float64(completed) / float64(total) * 100))
	}
	return p
}
