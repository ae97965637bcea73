// internal/common/errors/errors_test.go
package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorCode
	}{
		{
			name:     "standard error",
			err:      NewNetworkError(errors.New("dial tcp: refused")),
			expected: ErrCodeNetwork,
		},
		{
			name:     "api error",
			err:      &APIError{Message: "nope", Code: ErrCodeHTTP, Status: 502},
			expected: ErrCodeHTTP,
		},
		{
			name:     "wrapped standard error",
			err:      fmt.Errorf("fetch summary: %w", NewNotConfiguredError("hosted backend")),
			expected: ErrCodeNotConfigured,
		},
		{
			name:     "doubly wrapped api error",
			err:      fmt.Errorf("lane: %w", fmt.Errorf("gateway: %w", &APIError{Code: ErrCodeAuthFailed})),
			expected: ErrCodeAuthFailed,
		},
		{
			name:     "plain error",
			err:      errors.New("something else"),
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CodeOf(tt.err))
		})
	}
}

func TestIsRetryable_SeesWrappedErrors(t *testing.T) {
	retryable := NewNetworkError(errors.New("timeout"))
	assert.True(t, IsRetryable(retryable))
	assert.True(t, IsRetryable(fmt.Errorf("send message: %w", retryable)))
	assert.False(t, IsRetryable(errors.New("bare")))
}
