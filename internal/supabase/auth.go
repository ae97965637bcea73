// internal/supabase/auth.go
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
)

// AuthClient handles GoTrue auth operations.
type AuthClient struct {
	client *Client
}

// SignUp creates a new user.
func (a *AuthClient) SignUp(ctx context.Context, req SignUpRequest) (*Session, error) {
	return a.sessionRequest(ctx, a.client.authURL+"/signup", req)
}

// SignInWithPassword authenticates a user with email/password.
func (a *AuthClient) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	req := map[string]string{
		"email":    email,
		"password": password,
	}
	return a.sessionRequest(ctx, a.client.authURL+"/token?grant_type=password", req)
}

// SignInWithPhone authenticates a user with phone/password.
func (a *AuthClient) SignInWithPhone(ctx context.Context, phone, password string) (*Session, error) {
	req := map[string]string{
		"phone":    phone,
		"password": password,
	}
	return a.sessionRequest(ctx, a.client.authURL+"/token?grant_type=password", req)
}

// SendPhoneOTP requests a one-time password to be sent to a phone number.
func (a *AuthClient) SendPhoneOTP(ctx context.Context, phone string) error {
	req := map[string]string{"phone": phone}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	respBody, statusCode, err := a.client.request(ctx, "POST", a.client.authURL+"/otp", body, nil)
	if err != nil {
		return err
	}
	if statusCode >= 400 {
		return parseError(respBody, statusCode)
	}
	return nil
}

// VerifyPhoneOTP exchanges a received OTP for a session.
func (a *AuthClient) VerifyPhoneOTP(ctx context.Context, phone, token string) (*Session, error) {
	req := map[string]string{
		"phone": phone,
		"token": token,
		"type":  "sms",
	}
	return a.sessionRequest(ctx, a.client.authURL+"/verify", req)
}

// RefreshToken exchanges a refresh token for a new session.
func (a *AuthClient) RefreshToken(ctx context.Context, refreshToken string) (*Session, error) {
	req := map[string]string{"refresh_token": refreshToken}
	return a.sessionRequest(ctx, a.client.authURL+"/token?grant_type=refresh_token", req)
}

// GetUser retrieves the user behind an access token.
func (a *AuthClient) GetUser(ctx context.Context, accessToken string) (*User, error) {
	respBody, statusCode, err := a.client.requestWithToken(ctx, "GET", a.client.authURL+"/user", nil, nil, accessToken)
	if err != nil {
		return nil, err
	}
	if statusCode >= 400 {
		return nil, parseError(respBody, statusCode)
	}

	var user User
	if err := json.Unmarshal(respBody, &user); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &user, nil
}

// SignOut revokes a user's session.
func (a *AuthClient) SignOut(ctx context.Context, accessToken string) error {
	respBody, statusCode, err := a.client.requestWithToken(ctx, "POST", a.client.authURL+"/logout", nil, nil, accessToken)
	if err != nil {
		return err
	}
	if statusCode >= 400 {
		return parseError(respBody, statusCode)
	}
	return nil
}

func (a *AuthClient) sessionRequest(ctx context.Context, urlStr string, req interface{}) (*Session, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	respBody, statusCode, err := a.client.request(ctx, "POST", urlStr, body, nil)
	if err != nil {
		return nil, err
	}
	if statusCode >= 400 {
		return nil, parseError(respBody, statusCode)
	}

	var session Session
	if err := json.Unmarshal(respBody, &session); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &session, nil
}
