package parking

import (
	"sort"
	"strings"
)

// Chart adapters. All pure: for a given reservation list they produce the
// same output regardless of input ordering, so every render recomputes
// from the last successful load and stays consistent with it.

// DayPoint is one calendar day's booking count and cost sum.
type DayPoint struct {
	Day   string
	Count int
	Cost  float64
}

// reservationDay extracts the date portion of parked_at. The server
// formats timestamps as "YYYY-MM-DD HH:MM:SS".
func reservationDay(r Reservation) string {
	if r.ParkedAt == "" {
		return "Unknown"
	}
	day, _, _ := strings.Cut(r.ParkedAt, " ")
	return day
}

// DailyTrend groups reservations by the parked_at date portion, summing
// counts and costs per day. Days sort lexicographically (ISO dates order
// correctly that way) and only the latest lastN distinct days are kept;
// lastN <= 0 keeps all days.
func DailyTrend(reservations []Reservation, lastN int) []DayPoint {
	counts := make(map[string]int)
	costs := make(map[string]float64)
	for _, r := range reservations {
		day := reservationDay(r)
		counts[day]++
		if r.Cost != nil {
			costs[day] += *r.Cost
		}
	}

	days := make([]string, 0, len(counts))
	for day := range counts {
		days = append(days, day)
	}
	sort.Strings(days)
	if lastN > 0 && len(days) > lastN {
		days = days[len(days)-lastN:]
	}

	points := make([]DayPoint, 0, len(days))
	for _, day := range days {
		points = append(points, DayPoint{Day: day, Count: counts[day], Cost: costs[day]})
	}
	return points
}

// StatusBreakdown splits the list into active and completed counts,
// inferred solely from left_at presence.
func StatusBreakdown(reservations []Reservation) (active, completed int) {
	for _, r := range reservations {
		if r.Active() {
			active++
		} else {
			completed++
		}
	}
	return active, completed
}

// TotalSpent sums the cost of every reservation that carries one.
func TotalSpent(reservations []Reservation) float64 {
	var total float64
	for _, r := range reservations {
		if r.Cost != nil {
			total += *r.Cost
		}
	}
	return total
}

// AverageCost averages the cost of completed reservations that carry one;
// zero when there are none.
func AverageCost(reservations []Reservation) float64 {
	var total float64
	var n int
	for _, r := range reservations {
		if !r.Active() && r.Cost != nil {
			total += *r.Cost
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}
