package console

import (
	"context"

	"parking-console/parking"
)

// AdminOverview backs the admin users, reservations, and dashboard
// screens. The three fetches are independent: each renders on its own
// completion and a failure leaves that section's prior data in place.
type AdminOverview struct {
	api *parking.API

	Users        []parking.Account
	Reservations []parking.Reservation
	Stats        *parking.DashboardStats
	Busy         bool
}

func NewAdminOverview(api *parking.API) *AdminOverview {
	return &AdminOverview{api: api}
}

func (s *AdminOverview) LoadUsers(ctx context.Context) error {
	s.Busy = true
	defer func() { s.Busy = false }()

	users, err := s.api.AdminListUsers(ctx)
	if err != nil {
		return err
	}
	s.Users = users
	return nil
}

func (s *AdminOverview) LoadReservations(ctx context.Context) error {
	s.Busy = true
	defer func() { s.Busy = false }()

	reservations, err := s.api.AdminListReservations(ctx)
	if err != nil {
		return err
	}
	s.Reservations = reservations
	return nil
}

func (s *AdminOverview) LoadStats(ctx context.Context) error {
	s.Busy = true
	defer func() { s.Busy = false }()

	stats, err := s.api.AdminDashboard(ctx)
	if err != nil {
		return err
	}
	s.Stats = stats
	return nil
}

// Trend is the reservation-count series for the dashboard chart,
// recomputed from the current list on every render.
func (s *AdminOverview) Trend() []parking.DayPoint {
	return parking.DailyTrend(s.Reservations, 7)
}
