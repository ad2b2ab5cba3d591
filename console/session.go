package console

import (
	"context"

	"parking-console/parking"
)

// Role is the closed set of panels the shell can branch into.
type Role int

const (
	RoleNone Role = iota // unauthenticated
	RoleAdmin
	RoleUser
	RoleUnknown // authenticated but with an unrecognized role string
)

// Shell owns the two pieces of state shared across every screen: the
// session and the toast list. Screens receive the session read-only and
// signal upward through the Notify hook; only the shell mutates either.
type Shell struct {
	api    *parking.API
	Toasts *ToastCenter
	User   *parking.User
}

// NewShell builds the root shell around an API facade.
func NewShell(api *parking.API) *Shell {
	return &Shell{api: api, Toasts: NewToastCenter()}
}

// Notify returns the upward-dispatch hook handed to child screens.
func (s *Shell) Notify() Notify {
	return func(text, variant string) { s.Toasts.Push(text, variant) }
}

// LoadProfile refreshes the session from the server. An unauthenticated
// or rejected response clears the session without being an error; only a
// transport failure is reported, and it also clears the session.
func (s *Shell) LoadProfile(ctx context.Context) error {
	user, err := s.api.Profile(ctx)
	if err != nil {
		s.User = nil
		return err
	}
	s.User = user
	return nil
}

// Logout ends the session server-side, clears it locally, and reloads the
// profile so the shell converges on whatever the server now says.
func (s *Shell) Logout(ctx context.Context) {
	_ = s.api.Logout(ctx)
	s.User = nil
	s.Toasts.Push("Logged out successfully", VariantInfo)
	_ = s.LoadProfile(ctx)
}

// Role maps the session onto the closed panel variant.
func (s *Shell) Role() Role {
	switch {
	case s.User == nil:
		return RoleNone
	case s.User.Role == parking.RoleAdmin:
		return RoleAdmin
	case s.User.Role == parking.RoleUser:
		return RoleUser
	default:
		return RoleUnknown
	}
}
