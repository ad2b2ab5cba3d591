package console

import (
	"context"
	"errors"
	"strings"

	"parking-console/parking"
)

// Auth modes. Switching modes clears prior error/success state.
const (
	ModeLogin    = "login"
	ModeRegister = "register"
)

// AuthScreen is the login/register pane. Error and Success are what the
// pane shows inline; a successful login is reported to the caller so the
// shell can reload the session.
type AuthScreen struct {
	api    *parking.API
	notify Notify

	Mode    string
	Busy    bool
	Error   string
	Success string
}

func NewAuthScreen(api *parking.API, notify Notify) *AuthScreen {
	return &AuthScreen{api: api, notify: notify, Mode: ModeLogin}
}

// SwitchMode flips between login and register. Ignored while busy.
func (s *AuthScreen) SwitchMode(mode string) {
	if s.Busy {
		return
	}
	s.Mode = mode
	s.Error = ""
	s.Success = ""
}

// Login validates locally, then authenticates. Returns true on success so
// the shell can reload the profile.
func (s *AuthScreen) Login(ctx context.Context, username, password string) bool {
	s.Busy = true
	defer func() { s.Busy = false }()
	s.Error = ""
	s.Success = ""

	if strings.TrimSpace(username) == "" || password == "" {
		s.Error = "Username and password are required"
		return false
	}

	if err := s.api.Login(ctx, username, password); err != nil {
		s.Error = actionError(err, "Login failed")
		return false
	}
	return true
}

// Register validates locally, then creates the account. On success the
// pane flips back to login mode and emits a notification.
func (s *AuthScreen) Register(ctx context.Context, username, password, email string) bool {
	s.Busy = true
	defer func() { s.Busy = false }()
	s.Error = ""
	s.Success = ""

	if strings.TrimSpace(username) == "" || password == "" {
		s.Error = "Username and password are required"
		return false
	}
	if strings.TrimSpace(email) == "" {
		s.Error = "Email is required for registration"
		return false
	}
	if !parking.ValidEmail(email) {
		s.Error = "Email must be a valid Gmail address"
		return false
	}

	if err := s.api.Register(ctx, username, password, email); err != nil {
		s.Error = actionError(err, "Registration failed")
		return false
	}

	s.Success = "Account created successfully! Please login."
	s.Mode = ModeLogin
	s.notify("Registration complete", VariantInfo)
	return true
}

// actionError picks the user-visible message for a failed call: the
// server's error string verbatim when present, the per-action fallback
// otherwise, and a generic network message for transport failures.
func actionError(err error, fallback string) string {
	var apiErr *parking.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallback
	}
	return "Network error occurred"
}
