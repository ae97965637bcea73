// internal/models/user.go
package models

// User is the identity record created on sign-in and persisted with the
// session. Destroyed on logout.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// UserProfile is the editable profile projection served by the REST API.
type UserProfile struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Avatar  string `json:"avatar,omitempty"`
	Address string `json:"address,omitempty"`
}
