package jobs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elite-customer/internal/api"
	"elite-customer/internal/common/logger"
	"elite-customer/internal/models"
)

func newTestService(t *testing.T, handler http.HandlerFunc) (*Service, func()) {
	server := httptest.NewServer(handler)
	client := api.NewClient(server.URL, 5*time.Second, nil, logger.NewTestLogger(t))
	return NewService(client), server.Close
}

func TestGetJobSummary(t *testing.T) {
	svc, teardown := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jobs/JOB-2024-001", r.URL.Path)
		w.Write([]byte(`{"data":{"id":"JOB-2024-001","status":"In Production","estimatedDelivery":"2024-03-15"}}`))
	})
	defer teardown()

	summary, err := svc.GetJobSummary(context.Background(), "JOB-2024-001")
	require.NoError(t, err)
	assert.Equal(t, models.JobSummary{
		Status:            "In Production",
		EstimatedDelivery: "2024-03-15",
	}, summary)
}

func TestGetProgressSteps_StatusMapping(t *testing.T) {
	svc, teardown := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jobs/job-1/progress", r.URL.Path)
		w.Write([]byte(`{"data":[
			{"label":"Order Received","date":"2024-02-20","status":"done"},
			{"label":"Design Phase","date":"2024-02-24","status":"inprogress","description":"Second revision"},
			{"label":"Production","status":"pending"},
			{"label":"Delivery","status":"scheduled"}
		]}`))
	})
	defer teardown()

	steps, err := svc.GetProgressSteps(context.Background(), "job-1")
	require.NoError(t, err)
	require.Len(t, steps, 4)

	assert.Equal(t, models.StatusDone, steps[0].Status)
	assert.Equal(t, models.StatusInProgress, steps[1].Status)
	assert.Equal(t, "Second revision", steps[1].Description)
	assert.Equal(t, models.StatusPending, steps[2].Status)
	// Unknown wire statuses degrade to pending.
	assert.Equal(t, models.StatusPending, steps[3].Status)
}

func TestGetJobDetails(t *testing.T) {
	svc, teardown := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jobs/job-1/details", r.URL.Path)
		w.Write([]byte(`{"data":{
			"job":{"id":"job-1","status":"Printing","estimatedDelivery":"2024-03-20"},
			"progressSteps":[{"label":"Order Received","status":"done"}]
		}}`))
	})
	defer teardown()

	details, err := svc.GetJobDetails(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, "Printing", details.Summary.Status)
	require.Len(t, details.Steps, 1)
	assert.Equal(t, models.StatusDone, details.Steps[0].Status)
}

func TestGetJobSummary_Failure(t *testing.T) {
	svc, teardown := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer teardown()

	_, err := svc.GetJobSummary(context.Background(), "job-1")
	require.Error(t, err)
}
