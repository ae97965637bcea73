// internal/services/jobs/service.go
package jobs

import (
	"context"
	"fmt"

	"elite-customer/internal/api"
	"elite-customer/internal/models"
)

// Service exposes job operations against the REST gateway. Stateless; every
// method is one endpoint call plus a pure transform to the canonical model.
type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// jobResponse is the wire shape of GET /jobs/{id}.
type jobResponse struct {
	ID                string `json:"id"`
	Status            string `json:"status"`
	EstimatedDelivery string `json:"estimatedDelivery"`
	CreatedAt         string `json:"createdAt"`
	UpdatedAt         string `json:"updatedAt"`
}

// progressStepResponse is the wire shape of one progress entry.
type progressStepResponse struct {
	Label       string `json:"label"`
	Date        string `json:"date"`
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
}

// jobDetailsResponse is the wire shape of GET /jobs/{id}/details.
type jobDetailsResponse struct {
	Job           jobResponse            `json:"job"`
	ProgressSteps []progressStepResponse `json:"progressSteps"`
}

func transformSummary(j jobResponse) models.JobSummary {
	return models.JobSummary{
		Status:            j.Status,
		EstimatedDelivery: j.EstimatedDelivery,
	}
}

func transformStep(s progressStepResponse) models.ProgressStep {
	return models.ProgressStep{
		Label:       s.Label,
		Date:        s.Date,
		Status:      models.ProgressStatusFromWire(s.Status),
		Description: s.Description,
	}
}

// GetJobSummary fetches the dashboard projection of one job.
func (s *Service) GetJobSummary(ctx context.Context, jobID string) (models.JobSummary, error) {
	var wire jobResponse
	resp := s.client.Get(ctx, fmt.Sprintf("/jobs/%s", jobID))
	if err := resp.Decode(&wire); err != nil {
		return models.JobSummary{}, err
	}
	return transformSummary(wire), nil
}

// GetProgressSteps fetches the job's ordered progress timeline.
func (s *Service) GetProgressSteps(ctx context.Context, jobID string) ([]models.ProgressStep, error) {
	var wire []progressStepResponse
	resp := s.client.Get(ctx, fmt.Sprintf("/jobs/%s/progress", jobID))
	if err := resp.Decode(&wire); err != nil {
		return nil, err
	}
	steps := make([]models.ProgressStep, 0, len(wire))
	for _, w := range wire {
		steps = append(steps, transformStep(w))
	}
	return steps, nil
}

// JobDetails bundles the summary and steps of one details call.
type JobDetails struct {
	Summary models.JobSummary
	Steps   []models.ProgressStep
}

// GetJobDetails fetches summary and progress in a single round trip.
func (s *Service) GetJobDetails(ctx context.Context, jobID string) (JobDetails, error) {
	var wire jobDetailsResponse
	resp := s.client.Get(ctx, fmt.Sprintf("/jobs/%s/details", jobID))
	if err := resp.Decode(&wire); err != nil {
		return JobDetails{}, err
	}
	details := JobDetails{Summary: transformSummary(wire.Job)}
	for _, w := range wire.ProgressSteps {
		details.Steps = append(details.Steps, transformStep(w))
	}
	return details, nil
}
