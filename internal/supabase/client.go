// internal/supabase/client.go
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is the main hosted-backend client.
type Client struct {
	config Config

	baseURL     string
	restURL     string
	authURL     string
	realtimeURL string

	httpClient *http.Client

	auth     *AuthClient
	database *DatabaseClient
	realtime *RealtimeClient
}

// New creates a client from config. Returns an error when the project URL
// or anon key is missing; callers should check Config.Configured first and
// treat an unconfigured backend as absent rather than broken.
func New(cfg Config) (*Client, error) {
	if cfg.ProjectURL == "" {
		return nil, fmt.Errorf("project URL is required")
	}
	if cfg.AnonKey == "" {
		return nil, fmt.Errorf("anon key is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	baseURL := strings.TrimRight(cfg.ProjectURL, "/")
	wsURL := strings.Replace(baseURL, "https://", "wss://", 1)
	wsURL = strings.Replace(wsURL, "http://", "ws://", 1)

	c := &Client{
		config:      cfg,
		baseURL:     baseURL,
		restURL:     baseURL + "/rest/v1",
		authURL:     baseURL + "/auth/v1",
		realtimeURL: wsURL + "/realtime/v1/websocket",
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}

	c.auth = &AuthClient{client: c}
	c.database = &DatabaseClient{client: c}
	c.realtime = &RealtimeClient{client: c}

	return c, nil
}

// Auth returns the auth client.
func (c *Client) Auth() *AuthClient {
	return c.auth
}

// Database returns the database client.
func (c *Client) Database() *DatabaseClient {
	return c.database
}

// Realtime returns the realtime client.
func (c *Client) Realtime() *RealtimeClient {
	return c.realtime
}

// request performs an HTTP request with the anon key as bearer.
func (c *Client) request(ctx context.Context, method, urlStr string, body []byte, headers map[string]string) ([]byte, int, error) {
	return c.doRequest(ctx, method, urlStr, body, headers, c.config.AnonKey)
}

// requestWithToken performs an HTTP request with a user access token.
func (c *Client) requestWithToken(ctx context.Context, method, urlStr string, body []byte, headers map[string]string, accessToken string) ([]byte, int, error) {
	return c.doRequest(ctx, method, urlStr, body, headers, accessToken)
}

func (c *Client) doRequest(ctx context.Context, method, urlStr string, body []byte, headers map[string]string, bearer string) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, urlStr, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	// The anon key always travels as apikey; the bearer may be the anon
	// key or a signed-in user's access token.
	req.Header.Set("apikey", c.config.AnonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	return respBody, resp.StatusCode, nil
}

// headRequest performs a HEAD request and returns the response headers,
// for queries that only need PostgREST's Content-Range metadata.
func (c *Client) headRequest(ctx context.Context, urlStr string, headers map[string]string, bearer string) (http.Header, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, urlStr, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("apikey", c.config.AnonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.Header, resp.StatusCode, nil
}

// parseError parses an error response body.
func parseError(body []byte, statusCode int) error {
	var errResp struct {
		Code             string `json:"code"`
		Message          string `json:"message"`
		Details          string `json:"details"`
		Hint             string `json:"hint"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}

	if err := json.Unmarshal(body, &errResp); err != nil {
		return &Error{
			Code:       "unknown",
			Message:    string(body),
			StatusCode: statusCode,
		}
	}

	msg := errResp.Message
	if msg == "" {
		msg = errResp.Error
	}
	if msg == "" {
		msg = errResp.ErrorDescription
	}

	return &Error{
		Code:       errResp.Code,
		Message:    msg,
		Details:    errResp.Details,
		Hint:       errResp.Hint,
		StatusCode: statusCode,
	}
}
