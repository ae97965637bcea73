// internal/services/user/service.go
package user

import (
	"context"

	"elite-customer/internal/api"
	"elite-customer/internal/models"
)

// Service exposes user profile operations against the REST gateway.
type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// UpdateProfileRequest carries the editable profile fields. Empty fields
// are omitted so the server keeps their current values.
type UpdateProfileRequest struct {
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// GetProfile fetches the current user.
func (s *Service) GetProfile(ctx context.Context) (models.User, error) {
	var u models.User
	resp := s.client.Get(ctx, "/user/profile")
	if err := resp.Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// UpdateProfile applies profile changes and returns the updated user.
func (s *Service) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (models.User, error) {
	var u models.User
	resp := s.client.Put(ctx, "/user/profile", req)
	if err := resp.Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// GetActiveJobID fetches the id of the user's current job, "" when none.
func (s *Service) GetActiveJobID(ctx context.Context) (string, error) {
	var out struct {
		JobID string `json:"jobId"`
	}
	resp := s.client.Get(ctx, "/user/active-job")
	if err := resp.Decode(&out); err != nil {
		return "", err
	}
	return out.JobID, nil
}
