package console

import (
	"context"
	"fmt"

	"parking-console/parking"
)

// BookingScreen is the user's booking form plus the available-lot list it
// books against. Validation happens entirely locally; an invalid form
// never produces a network call.
type BookingScreen struct {
	api    *parking.API
	notify Notify

	Lots        []parking.Lot
	Loading     bool
	BookingBusy bool
}

func NewBookingScreen(api *parking.API, notify Notify) *BookingScreen {
	return &BookingScreen{api: api, notify: notify}
}

// Load fetches the available lots. Prior data survives a failed load.
func (s *BookingScreen) Load(ctx context.Context) error {
	s.Loading = true
	defer func() { s.Loading = false }()

	lots, err := s.api.UserListLots(ctx)
	if err != nil {
		return err
	}
	s.Lots = lots
	return nil
}

// Find returns the loaded lot with the given id, if present.
func (s *BookingScreen) Find(lotID int64) *parking.Lot {
	for i := range s.Lots {
		if s.Lots[i].ID == lotID {
			return &s.Lots[i]
		}
	}
	return nil
}

// Book validates against the selected lot, submits the reservation, and
// reloads the lot list on success. Partial fulfillment gets a warning
// toast, full success a success toast — the two are never conflated.
func (s *BookingScreen) Book(ctx context.Context, lotID int64, quantity int, vehicleNumber string) bool {
	if err := parking.ValidateBooking(s.Find(lotID), quantity, vehicleNumber); err != nil {
		s.notify(err.Error(), VariantWarning)
		return false
	}

	s.BookingBusy = true
	result, err := s.api.UserCreateReservation(ctx, lotID, quantity, parking.NormalizeVehicleNumber(vehicleNumber))
	s.BookingBusy = false

	if err != nil {
		s.notify(actionError(err, "Booking failed"), VariantDanger)
		return false
	}

	if result.Partial() {
		s.notify(fmt.Sprintf("Booked %d out of %d spots (limited availability)", result.Booked, result.Requested), VariantWarning)
	} else {
		s.notify(fmt.Sprintf("Successfully booked %d spot(s)!", result.Booked), VariantSuccess)
	}
	_ = s.Load(ctx)
	return true
}
