package booking

import (
	"testing"
	"wowzie/models"
)

func TestNextBookingStatus(t *testing.T) {
	cases := []struct {
		name     string
		taken    int
		capacity int
		want     string
	}{
		{"room left", 3, 10, models.BookingPending},
		{"exactly full", 10, 10, models.BookingWaitlisted},
		{"over full", 12, 10, models.BookingWaitlisted},
		{"unlimited capacity", 500, 0, models.BookingPending},
		{"first booking", 0, 1, models.BookingPending},
	}
	for _, tc := range cases {
		if got := nextBookingStatus(tc.taken, tc.capacity); got != tc.want {
			t.Errorf("%s: nextBookingStatus(%d, %d) = %q, want %q",
				tc.name, tc.taken, tc.capacity, got, tc.want)
		}
	}
}

func TestValidDecision(t *testing.T) {
	cases := []struct {
		current  string
		decision string
		want     bool
	}{
		{models.BookingPending, models.BookingConfirmed, true},
		{models.BookingPending, models.BookingDeclined, true},
		{models.BookingWaitlisted, models.BookingConfirmed, true},
		{models.BookingConfirmed, models.BookingConfirmed, false},
		{models.BookingDeclined, models.BookingConfirmed, false},
		{models.BookingCancelled, models.BookingDeclined, false},
		{models.BookingPending, models.BookingCancelled, false},
		{models.BookingPending, "bogus", false},
	}
	for _, tc := range cases {
		if got := validDecision(tc.current, tc.decision); got != tc.want {
			t.Errorf("validDecision(%q, %q) = %v, want %v", tc.current, tc.decision, got, tc.want)
		}
	}
}
