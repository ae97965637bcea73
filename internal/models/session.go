// internal/models/session.go
package models

// Session is the persisted login state: the signed-in user plus the bearer
// token applied to authenticated calls. Written on login, cleared on logout.
type Session struct {
	User         User   `json:"user"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Authenticated reports whether the session carries a usable token.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}
