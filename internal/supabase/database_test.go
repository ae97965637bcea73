package supabase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	client, err := New(Config{
		ProjectURL: server.URL,
		AnonKey:    "anon-key",
		Timeout:    5 * time.Second,
	})
	require.NoError(t, err)
	return client
}

// ==========================
// Client Construction Tests
// ==========================

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(Config{AnonKey: "k"})
	assert.Error(t, err)

	_, err = New(Config{ProjectURL: "https://x.supabase.co"})
	assert.Error(t, err)
}

func TestConfig_Configured(t *testing.T) {
	assert.False(t, Config{}.Configured())
	assert.False(t, Config{ProjectURL: "https://x.supabase.co"}.Configured())
	assert.True(t, Config{ProjectURL: "https://x.supabase.co", AnonKey: "k"}.Configured())
}

// ==========================
// Query Builder Tests
// ==========================

func TestQueryBuilder_BuildsSelectURL(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.Database().
		From("chat_messages").
		Select("*").
		Eq("job_id", "JOB-1").
		Order("created_at", OrderAsc).
		Limit(50).
		Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/rest/v1/chat_messages", gotPath)
	assert.Contains(t, gotQuery, "select=%2A")
	assert.Contains(t, gotQuery, "job_id=eq.JOB-1")
	assert.Contains(t, gotQuery, "order=created_at.asc")
	assert.Contains(t, gotQuery, "limit=50")
}

func TestQueryBuilder_SendsAuthHeaders(t *testing.T) {
	var gotAPIKey, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.Database().From("jobs").Select("*").Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "anon-key", gotAPIKey)
	assert.Equal(t, "Bearer anon-key", gotAuth)

	_, err = client.Database().From("jobs").Select("*").WithToken("user-token").Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "anon-key", gotAPIKey)
	assert.Equal(t, "Bearer user-token", gotAuth)
}

func TestQueryBuilder_Insert(t *testing.T) {
	var gotMethod, gotPrefer string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPrefer = r.Header.Get("Prefer")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`[{"id":"row-1"}]`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	var rows []map[string]interface{}
	err := client.Database().
		From("chat_messages").
		Insert(map[string]string{"message": "hello"}).
		ExecuteInto(context.Background(), &rows)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "return=representation", gotPrefer)
	require.Len(t, rows, 1)
	assert.Equal(t, "row-1", rows[0]["id"])
}

func TestQueryBuilder_Count(t *testing.T) {
	var gotMethod, gotPrefer, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPrefer = r.Header.Get("Prefer")
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Range", "0-24/3573")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	total, err := client.Database().
		From("chat_messages").
		Eq("job_id", "JOB-1").
		Count(context.Background())
	require.NoError(t, err)

	assert.Equal(t, http.MethodHead, gotMethod)
	assert.Equal(t, "count=exact", gotPrefer)
	assert.Contains(t, gotQuery, "job_id=eq.JOB-1")
	assert.Equal(t, 3573, total)
}

func TestParseContentRange(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected int
		wantErr  bool
	}{
		{name: "range with total", value: "0-24/3573", expected: 3573},
		{name: "empty table", value: "*/0", expected: 0},
		{name: "unplanned count", value: "0-24/*", wantErr: true},
		{name: "missing header", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, err := parseContentRange(tt.value)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, total)
		})
	}
}

func TestQueryBuilder_ErrorParsing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":"PGRST116","message":"no rows found","details":"0 rows"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.Database().From("jobs").Select("*").Single().Execute(context.Background())
	require.Error(t, err)

	apiErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, "PGRST116", apiErr.Code)
	assert.Equal(t, "no rows found", apiErr.Message)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}
