package parking

import "testing"

func TestValidVehicleNumber(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"AB12CD3456", true},
		{"ab12cd3456", true}, // normalized to uppercase on entry
		{" ka05mh1234 ", true},
		{"A112CD3456", false},  // digit where letter expected
		{"AB12CD345", false},   // too short
		{"AB12CD34567", false}, // too long
		{"", false},
		{"AB12CD34X6", false},
	}
	for _, tt := range tests {
		if got := ValidVehicleNumber(tt.input); got != tt.want {
			t.Errorf("ValidVehicleNumber(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeVehicleNumber(t *testing.T) {
	if got := NormalizeVehicleNumber(" ab12cd3456 "); got != "AB12CD3456" {
		t.Fatalf("got %q", got)
	}
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"alice@gmail.com", true},
		{"a.b+c@gmail.com", true},
		{"alice@example.com", false},
		{"alice@gmail.com.evil.com", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidEmail(tt.input); got != tt.want {
			t.Errorf("ValidEmail(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestValidateLotForm(t *testing.T) {
	good := LotForm{Name: "Central", PricePerHour: 40, TotalSpots: 10}
	if err := ValidateLotForm(good); err != nil {
		t.Fatalf("valid form rejected: %v", err)
	}

	bad := []LotForm{
		{Name: "", PricePerHour: 40, TotalSpots: 10},
		{Name: "  ", PricePerHour: 40, TotalSpots: 10},
		{Name: "Central", PricePerHour: 0, TotalSpots: 10},
		{Name: "Central", PricePerHour: 40, TotalSpots: 0},
	}
	for i, form := range bad {
		if err := ValidateLotForm(form); err == nil {
			t.Errorf("case %d: invalid form accepted: %+v", i, form)
		}
	}
}

func TestValidateBooking(t *testing.T) {
	lot := &Lot{ID: 1, Name: "Central", AvailableSpots: 3}

	if err := ValidateBooking(nil, 1, "AB12CD3456"); err == nil {
		t.Fatalf("missing lot accepted")
	}
	if err := ValidateBooking(lot, 1, "nope"); err == nil {
		t.Fatalf("bad vehicle number accepted")
	}
	if err := ValidateBooking(lot, 0, "AB12CD3456"); err == nil {
		t.Fatalf("zero quantity accepted")
	}
	if err := ValidateBooking(lot, 11, "AB12CD3456"); err == nil {
		t.Fatalf("excess quantity accepted")
	}
	if err := ValidateBooking(lot, 4, "AB12CD3456"); err == nil {
		t.Fatalf("over-capacity quantity accepted")
	}
	if err := ValidateBooking(lot, 3, "ab12cd3456"); err != nil {
		t.Fatalf("valid booking rejected: %v", err)
	}
}
