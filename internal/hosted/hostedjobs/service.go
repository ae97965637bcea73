// Package hostedjobs serves job and progress data from the hosted
// backend's jobs table, whose timeline column replaces the REST API's
// separate progress endpoint.
package hostedjobs

import (
	"context"
	"strconv"
	"strings"

	apperrors "elite-customer/internal/common/errors"
	"elite-customer/internal/common/logger"
	"elite-customer/internal/models"
	"elite-customer/internal/supabase"
)

// Stages is the fixed order of lifecycle stages a job moves through.
// Completion is derived by matching the job's status against this list,
// not from per-entry flags.
var Stages = []string{
	"receptionist",
	"salesperson",
	"design",
	"production",
	"printing",
	"accounts",
	"completed",
}

// jobRow mirrors the jobs table.
type jobRow struct {
	ID          string                  `json:"id"`
	Status      string                  `json:"status"`
	BranchID    *int64                  `json:"branch_id"`
	CreatedAt   *string                 `json:"created_at"`
	JobCode     *string                 `json:"job_code"`
	Amount      *float64                `json:"amount"`
	Timeline    []models.TimelineEntry  `json:"timeline"`
	Design      *models.DesignInfo      `json:"design"`
	Salesperson *models.SalespersonInfo `json:"salesperson"`
}

// Service is the hosted jobs adapter.
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

const jobColumns = "id, status, branch_id, created_at, job_code, amount, timeline, design, salesperson"

// transformJob normalizes one row into the canonical job, mapping the raw
// timeline entries to canonical steps so consumers never see the hosted
// shape.
func transformJob(row jobRow) models.Job {
	job := models.Job{
		ID:          row.ID,
		Status:      row.Status,
		Design:      row.Design,
		Salesperson: row.Salesperson,
		Timeline:    stepsFromTimeline(row.Timeline, row.Status),
	}
	if row.BranchID != nil {
		job.BranchID = strconv.FormatInt(*row.BranchID, 10)
	}
	if row.CreatedAt != nil {
		job.CreatedAt = *row.CreatedAt
	}
	if row.JobCode != nil {
		job.JobCode = *row.JobCode
	}
	if row.Amount != nil {
		job.Amount = *row.Amount
	}
	return job
}

// stepsFromTimeline maps raw timeline entries to canonical steps. An
// entry's completion comes from matching its status against the current
// job status position in the stage list.
func stepsFromTimeline(timeline []models.TimelineEntry, jobStatus string) []models.ProgressStep {
	currentIdx := stageIndex(jobStatus)

	steps := make([]models.ProgressStep, 0, len(timeline))
	for _, entry := range timeline {
		status := models.StatusPending
		entryIdx := stageIndex(entry.Status)
		switch {
		case entryIdx >= 0 && entryIdx < currentIdx:
			status = models.StatusDone
		case entryIdx >= 0 && entryIdx == currentIdx:
			status = models.StatusInProgress
		}

		steps = append(steps, models.ProgressStep{
			Label:       entry.Status,
			Date:        entry.Timestamp,
			Status:      status,
			Description: entry.Note,
		})
	}
	return steps
}

// stageIndex finds which fixed stage a status string refers to, -1 when
// it matches none.
func stageIndex(status string) int {
	lowered := strings.ToLower(status)
	for i, stage := range Stages {
		if strings.Contains(lowered, stage) {
			return i
		}
	}
	return -1
}

// ProgressFromTimeline derives overall completion from the job's status
// position in the stage list. An empty timeline reports zero progress
// regardless of status.
func ProgressFromTimeline(timeline []models.TimelineEntry, jobStatus string) models.Progress {
	if len(timeline) == 0 {
		return models.Progress{}
	}

	idx := stageIndex(jobStatus)
	if idx < 0 {
		return models.Progress{Total: len(Stages)}
	}
	return models.NewProgress(idx+1, len(Stages))
}

// GetJobs fetches all jobs, newest first, each annotated with its latest
// chat message.
func (s *Service) GetJobs(ctx context.Context) ([]models.Job, error) {
	if s.backend == nil {
		return nil, apperrors.NewNotConfiguredError("hosted backend")
	}

	var rows []jobRow
	err := s.backend.Database().
		From("jobs").
		Select(jobColumns).
		Order("created_at", supabase.OrderDesc).
		ExecuteInto(ctx, &rows)
	if err != nil {
		return nil, err
	}

	jobs := make([]models.Job, 0, len(rows))
	for _, row := range rows {
		job := transformJob(row)
		job.LastChatMessage = s.lastMessage(ctx, row.ID)
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// lastMessage fetches the newest chat message text for a job, "" when
// there is none or the lookup fails. Failures only lose the preview text.
func (s *Service) lastMessage(ctx context.Context, jobID string) string {
	var rows []struct {
		Message *string `json:"message"`
	}
	err := s.backend.Database().
		From("chat_messages").
		Select("message, created_at").
		Eq("job_id", jobID).
		Order("created_at", supabase.OrderDesc).
		Limit(1).
		ExecuteInto(ctx, &rows)
	if err != nil || len(rows) == 0 || rows[0].Message == nil {
		return ""
	}
	return *rows[0].Message
}

// GetJob fetches a single job by id.
func (s *Service) GetJob(ctx context.Context, jobID string) (models.Job, error) {
	if s.backend == nil {
		return models.Job{}, apperrors.NewNotConfiguredError("hosted backend")
	}

	var row jobRow
	err := s.backend.Database().
		From("jobs").
		Select(jobColumns).
		Eq("id", jobID).
		Single().
		ExecuteInto(ctx, &row)
	if err != nil {
		return models.Job{}, err
	}
	return transformJob(row), nil
}

// GetJobProgress fetches a job's timeline as canonical steps plus the
// derived completion summary.
func (s *Service) GetJobProgress(ctx context.Context, jobID string) ([]models.ProgressStep, models.Progress, error) {
	if s.backend == nil {
		return nil, models.Progress{}, apperrors.NewNotConfiguredError("hosted backend")
	}

	var row struct {
		Status   string                 `json:"status"`
		Timeline []models.TimelineEntry `json:"timeline"`
	}
	err := s.backend.Database().
		From("jobs").
		Select("status, timeline").
		Eq("id", jobID).
		Single().
		ExecuteInto(ctx, &row)
	if err != nil {
		return nil, models.Progress{}, err
	}

	return stepsFromTimeline(row.Timeline, row.Status), ProgressFromTimeline(row.Timeline, row.Status), nil
}
