package parking

import (
	"fmt"
	"regexp"
	"strings"
)

// Client-side validation mirrors what the entry forms enforce before any
// request goes out. The server re-validates everything independently;
// nothing here is authoritative.

var (
	vehicleNumberRE = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z]{2}[0-9]{4}$`)
	gmailRE         = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@gmail\.com$`)
)

// Booking quantity bounds enforced by the booking form.
const (
	MinBookingQuantity = 1
	MaxBookingQuantity = 10
)

// NormalizeVehicleNumber trims and uppercases the entered plate.
func NormalizeVehicleNumber(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ValidVehicleNumber reports whether the normalized plate matches the
// XXNNXXNNNN format (2 letters, 2 digits, 2 letters, 4 digits).
func ValidVehicleNumber(s string) bool {
	return vehicleNumberRE.MatchString(NormalizeVehicleNumber(s))
}

// ValidEmail reports whether the address passes the Gmail-only entry check.
func ValidEmail(s string) bool {
	return gmailRE.MatchString(strings.TrimSpace(s))
}

// ValidateLotForm checks the required lot fields before create/update.
func ValidateLotForm(form LotForm) error {
	if strings.TrimSpace(form.Name) == "" || form.PricePerHour <= 0 || form.TotalSpots <= 0 {
		return fmt.Errorf("all fields are required")
	}
	return nil
}

// ValidateBooking checks the booking form against the selected lot.
// lot may be nil when nothing is selected yet.
func ValidateBooking(lot *Lot, quantity int, vehicleNumber string) error {
	if lot == nil {
		return fmt.Errorf("please select a parking lot")
	}
	if !ValidVehicleNumber(vehicleNumber) {
		return fmt.Errorf("vehicle number must be in format XXNNXXNNNN (e.g., AB12CD3456)")
	}
	if quantity < MinBookingQuantity || quantity > MaxBookingQuantity {
		return fmt.Errorf("quantity must be between %d and %d", MinBookingQuantity, MaxBookingQuantity)
	}
	if lot.AvailableSpots < quantity {
		return fmt.Errorf("only %d spot(s) available", lot.AvailableSpots)
	}
	return nil
}
