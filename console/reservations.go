package console

import (
	"context"
	"sync"

	"parking-console/parking"
)

// ReservationList backs the user's active-reservations, history, and
// statistics screens: one list, with the active/completed split and the
// spending aggregates derived freshly from it on every render. Releases
// for different reservations may be in flight at the same time, tracked
// per reservation id; a second release of the same id is refused while
// the first is pending.
type ReservationList struct {
	api    *parking.API
	notify Notify

	Reservations []parking.Reservation
	Loading      bool

	mu          sync.Mutex
	releaseBusy map[int64]struct{}
}

func NewReservationList(api *parking.API, notify Notify) *ReservationList {
	return &ReservationList{api: api, notify: notify, releaseBusy: make(map[int64]struct{})}
}

// Load fetches the user's reservations. Prior data survives a failure.
func (s *ReservationList) Load(ctx context.Context) error {
	s.Loading = true
	defer func() { s.Loading = false }()

	reservations, err := s.api.UserListReservations(ctx)
	if err != nil {
		return err
	}
	s.Reservations = reservations
	return nil
}

// Active returns the open reservations.
func (s *ReservationList) Active() []parking.Reservation {
	var out []parking.Reservation
	for _, r := range s.Reservations {
		if r.Active() {
			out = append(out, r)
		}
	}
	return out
}

// Completed returns the closed reservations.
func (s *ReservationList) Completed() []parking.Reservation {
	var out []parking.Reservation
	for _, r := range s.Reservations {
		if !r.Active() {
			out = append(out, r)
		}
	}
	return out
}

// TotalSpent sums the cost across the loaded list.
func (s *ReservationList) TotalSpent() float64 {
	return parking.TotalSpent(s.Reservations)
}

// AverageCost averages completed-reservation costs.
func (s *ReservationList) AverageCost() float64 {
	return parking.AverageCost(s.Reservations)
}

// Trend is the per-day booking/spending series for the stats chart.
func (s *ReservationList) Trend() []parking.DayPoint {
	return parking.DailyTrend(s.Reservations, 7)
}

// ReleaseBusy reports whether a release for this reservation is in flight.
func (s *ReservationList) ReleaseBusy(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.releaseBusy[id]
	return busy
}

// Release frees one reservation's spot and reloads the list on success.
func (s *ReservationList) Release(ctx context.Context, id int64) bool {
	s.mu.Lock()
	if _, busy := s.releaseBusy[id]; busy {
		s.mu.Unlock()
		return false
	}
	s.releaseBusy[id] = struct{}{}
	s.mu.Unlock()

	err := s.api.UserReleaseReservation(ctx, id)

	s.mu.Lock()
	delete(s.releaseBusy, id)
	s.mu.Unlock()

	if err != nil {
		s.notify(actionError(err, "Failed to release spot"), VariantDanger)
		return false
	}
	s.notify("Spot released successfully!", VariantSuccess)
	_ = s.Load(ctx)
	return true
}
