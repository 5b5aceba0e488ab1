package calendar

import (
	"strings"
	"testing"
	"time"
	"wowzie/models"

	"go.mongodb.org/mongo-driver/bson"
)

func TestDeriveFromExplicitStartTime(t *testing.T) {
	start := time.Date(2025, 7, 14, 10, 0, 0, 0, time.Local)
	camp := models.Camp{StartTime: &start}

	gotStart, gotEnd, ok := deriveEventTimes(camp)
	if !ok {
		t.Fatal("expected derivable times")
	}
	if !gotStart.Equal(start) {
		t.Errorf("start = %v, want %v", gotStart, start)
	}
	if want := start.Add(2 * time.Hour); !gotEnd.Equal(want) {
		t.Errorf("end = %v, want %v (2h default)", gotEnd, want)
	}
}

func TestDeriveFromFixedSchedule(t *testing.T) {
	camp := models.Camp{
		Meta: bson.M{
			"fixedSchedule": bson.M{
				"startDate": "2025-06-01",
				"startTime": "09:00",
			},
		},
	}

	start, end, ok := deriveEventTimes(camp)
	if !ok {
		t.Fatal("expected derivable times")
	}
	wantStart := time.Date(2025, 6, 1, 9, 0, 0, 0, time.Local)
	if !start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", start, wantStart)
	}
	wantEnd := time.Date(2025, 6, 1, 11, 0, 0, 0, time.Local)
	if !end.Equal(wantEnd) {
		t.Errorf("end = %v, want %v", end, wantEnd)
	}
}

func TestDeriveExplicitStartWinsOverFixedSchedule(t *testing.T) {
	start := time.Date(2025, 8, 2, 14, 30, 0, 0, time.Local)
	camp := models.Camp{
		StartTime: &start,
		Meta: bson.M{
			"fixedSchedule": bson.M{"startDate": "2025-06-01", "startTime": "09:00"},
		},
	}
	got, _, ok := deriveEventTimes(camp)
	if !ok || !got.Equal(start) {
		t.Errorf("start = %v (ok=%v), want explicit %v", got, ok, start)
	}
}

func TestDeriveFixedScheduleEndTime(t *testing.T) {
	camp := models.Camp{
		Meta: bson.M{
			"fixedSchedule": bson.M{
				"startDate": "2025-06-01",
				"startTime": "09:00",
				"endTime":   "12:30",
			},
		},
	}
	_, end, ok := deriveEventTimes(camp)
	if !ok {
		t.Fatal("expected derivable times")
	}
	want := time.Date(2025, 6, 1, 12, 30, 0, 0, time.Local)
	if !end.Equal(want) {
		t.Errorf("end = %v, want %v", end, want)
	}
}

func TestDeriveUnscheduled(t *testing.T) {
	cases := []struct {
		name string
		camp models.Camp
	}{
		{"no times at all", models.Camp{}},
		{"empty meta", models.Camp{Meta: bson.M{}}},
		{"fixedSchedule wrong shape", models.Camp{Meta: bson.M{"fixedSchedule": "tuesdays"}}},
		{"missing startDate", models.Camp{Meta: bson.M{"fixedSchedule": bson.M{"startTime": "09:00"}}}},
		{"garbage startDate", models.Camp{Meta: bson.M{"fixedSchedule": bson.M{"startDate": "soonish", "startTime": "09:00"}}}},
		{"garbage startTime", models.Camp{Meta: bson.M{"fixedSchedule": bson.M{"startDate": "2025-06-01", "startTime": "morning"}}}},
	}
	for _, tc := range cases {
		if _, _, ok := deriveEventTimes(tc.camp); ok {
			t.Errorf("%s: expected not derivable", tc.name)
		}
	}
}

func TestDeriveMissingStartTimeDefaultsMidnight(t *testing.T) {
	camp := models.Camp{
		Meta: bson.M{"fixedSchedule": bson.M{"startDate": "2025-06-01"}},
	}
	start, _, ok := deriveEventTimes(camp)
	if !ok {
		t.Fatal("expected derivable times")
	}
	want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)
	if !start.Equal(want) {
		t.Errorf("start = %v, want %v", start, want)
	}
}

func TestGroupByDateKeepsMonthBoundaries(t *testing.T) {
	from, to, err := monthWindow("2025-06")
	if err != nil {
		t.Fatal(err)
	}

	mk := func(day, hour int) Event {
		return Event{
			BookingID: "b",
			Start:     time.Date(2025, 6, day, hour, 0, 0, 0, time.Local),
		}
	}
	lastMay := Event{BookingID: "may", Start: time.Date(2025, 5, 31, 23, 59, 0, 0, time.Local)}
	firstJuly := Event{BookingID: "jul", Start: time.Date(2025, 7, 1, 0, 0, 0, 0, time.Local)}

	grouped := groupByDate([]Event{mk(1, 9), mk(1, 14), mk(30, 8), lastMay, firstJuly}, from, to)

	if len(grouped) != 2 {
		t.Fatalf("expected 2 date buckets, got %d: %v", len(grouped), grouped)
	}
	if len(grouped["2025-06-01"]) != 2 {
		t.Errorf("expected 2 events on 2025-06-01, got %d", len(grouped["2025-06-01"]))
	}
	if len(grouped["2025-06-30"]) != 1 {
		t.Errorf("expected 1 event on 2025-06-30, got %d", len(grouped["2025-06-30"]))
	}
	for key := range grouped {
		if key[:7] != "2025-06" {
			t.Errorf("event grouped under adjacent month: %s", key)
		}
	}
}

func TestMonthWindowRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"junk", "2025-13", "2025-6", ""} {
		if _, _, err := monthWindow(bad); err == nil {
			t.Errorf("monthWindow(%q) should fail", bad)
		}
	}
}

func TestNextUpcoming(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)
	past := Event{BookingID: "past", Start: now.Add(-24 * time.Hour)}
	soon := Event{BookingID: "soon", Start: now.Add(2 * time.Hour)}
	later := Event{BookingID: "later", Start: now.Add(48 * time.Hour)}

	next, found := nextUpcoming([]Event{later, past, soon}, now)
	if !found || next.BookingID != "soon" {
		t.Errorf("nextUpcoming = %v (found=%v), want soon", next.BookingID, found)
	}

	if _, found := nextUpcoming([]Event{past}, now); found {
		t.Error("expected no upcoming event when all are past")
	}
}

func TestRenderICSContainsEvents(t *testing.T) {
	events := []Event{{
		BookingID: "bk1",
		Name:      "Forest Camp",
		Location:  "Oak Park",
		Start:     time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		End:       time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC),
	}}
	out := renderICS(events)
	for _, want := range []string{"BEGIN:VCALENDAR", "BEGIN:VEVENT", "Forest Camp", "Oak Park", "bk1@wowzie"} {
		if !strings.Contains(out, want) {
			t.Errorf("ICS output missing %q", want)
		}
	}
}
