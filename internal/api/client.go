// internal/api/client.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "elite-customer/internal/common/errors"
	"elite-customer/internal/common/logger"
)

// TokenSource supplies the bearer token for authenticated requests. The
// session service implements it; a nil token source means anonymous calls.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed-string TokenSource, mostly useful in tests.
type StaticToken string

func (s StaticToken) Token() string { return string(s) }

// Response is the uniform envelope every gateway call resolves to. Exactly
// one of Error or a usable Data is set; Success mirrors Error == nil.
type Response struct {
	Data    json.RawMessage
	Error   *apperrors.APIError
	Success bool
}

// Decode unmarshals the envelope's data into v. A failed response or a
// decode failure is reported through the returned error.
func (r Response) Decode(v interface{}) error {
	if !r.Success {
		if r.Error != nil {
			return r.Error
		}
		return &apperrors.APIError{Message: "request failed"}
	}
	if len(r.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return apperrors.NewDecodeError(err)
	}
	return nil
}

// wireEnvelope is the REST backend's success wrapper.
type wireEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// wireError is the REST backend's error body for non-2xx responses.
type wireError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Client is the REST API gateway. It never returns a transport error to
// callers; every failure is folded into the Response envelope. No retries
// and no backoff, callers own their retry policy.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	log        logger.Logger
}

func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, log logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		tokens: tokens,
		log:    log,
	}
}

// BaseURL exposes the configured endpoint root, "" when unconfigured.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Get(ctx context.Context, endpoint string) Response {
	return c.do(ctx, http.MethodGet, endpoint, nil)
}

func (c *Client) Post(ctx context.Context, endpoint string, body interface{}) Response {
	return c.do(ctx, http.MethodPost, endpoint, body)
}

func (c *Client) Put(ctx context.Context, endpoint string, body interface{}) Response {
	return c.do(ctx, http.MethodPut, endpoint, body)
}

func (c *Client) Delete(ctx context.Context, endpoint string) Response {
	return c.do(ctx, http.MethodDelete, endpoint, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body interface{}) Response {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return networkFailure(err)
		}
		reader = bytes.NewReader(payload)
	}

	url := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return networkFailure(err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("api request failed", map[string]interface{}{
			"method":   method,
			"endpoint": endpoint,
			"error":    err.Error(),
		})
		return networkFailure(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return networkFailure(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var we wireError
		message := fmt.Sprintf("HTTP %d", resp.StatusCode)
		if json.Unmarshal(raw, &we) == nil && we.Message != "" {
			message = we.Message
		}
		c.log.Warn("api request rejected", map[string]interface{}{
			"method":   method,
			"endpoint": endpoint,
			"status":   resp.StatusCode,
		})
		return Response{
			Error: &apperrors.APIError{
				Message: message,
				Code:    apperrors.ErrorCode(we.Code),
				Status:  resp.StatusCode,
			},
		}
	}

	var env wireEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Data == nil {
		// Some endpoints answer with the bare object instead of the
		// {data} wrapper. Pass the body through as-is.
		return Response{Data: raw, Success: true}
	}
	return Response{Data: env.Data, Success: true}
}

func networkFailure(err error) Response {
	return Response{
		Error: &apperrors.APIError{
			Message: err.Error(),
			Code:    apperrors.ErrCodeNetwork,
		},
	}
}
