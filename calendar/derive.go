package calendar

import (
	"time"
	"wowzie/models"

	"go.mongodb.org/mongo-driver/bson"
)

const defaultEventDuration = 2 * time.Hour

// Event is one confirmed booking placed on the calendar.
type Event struct {
	BookingID   string    `json:"bookingid"`
	CampID      string    `json:"campid"`
	Name        string    `json:"name"`
	Location    string    `json:"location,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	GuestsCount int       `json:"guests_count"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
}

// UnscheduledEvent is a confirmed booking whose camp carries no
// derivable start time.
type UnscheduledEvent struct {
	BookingID string `json:"bookingid"`
	CampID    string `json:"campid"`
	Name      string `json:"name"`
	Location  string `json:"location,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
}

// deriveEventTimes resolves a camp's event window. Order: explicit
// start_time, else meta.fixedSchedule {startDate, startTime}. Anything
// unparseable yields ok=false (the booking lands in unscheduled; a bad
// meta blob must never error the whole calendar).
func deriveEventTimes(camp models.Camp) (start, end time.Time, ok bool) {
	if camp.StartTime != nil {
		start = *camp.StartTime
	} else {
		start, ok = fixedScheduleStart(camp.Meta)
		if !ok {
			return time.Time{}, time.Time{}, false
		}
	}

	if camp.EndTime != nil && camp.EndTime.After(start) {
		return start, *camp.EndTime, true
	}
	if t, found := fixedScheduleEnd(camp.Meta, start); found {
		return start, t, true
	}
	return start, start.Add(defaultEventDuration), true
}

func fixedScheduleStart(meta map[string]interface{}) (time.Time, bool) {
	fs, ok := scheduleMap(meta)
	if !ok {
		return time.Time{}, false
	}
	date, _ := fs["startDate"].(string)
	if date == "" {
		return time.Time{}, false
	}
	clock, _ := fs["startTime"].(string)
	if clock == "" {
		clock = "00:00"
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func fixedScheduleEnd(meta map[string]interface{}, start time.Time) (time.Time, bool) {
	fs, ok := scheduleMap(meta)
	if !ok {
		return time.Time{}, false
	}
	clock, _ := fs["endTime"].(string)
	if clock == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation("2006-01-02 15:04",
		start.Format("2006-01-02")+" "+clock, time.Local)
	if err != nil || !t.After(start) {
		return time.Time{}, false
	}
	return t, true
}

// scheduleMap tolerates both bson.M and plain map decodes of the meta
// blob.
func scheduleMap(meta map[string]interface{}) (map[string]interface{}, bool) {
	if meta == nil {
		return nil, false
	}
	switch fs := meta["fixedSchedule"].(type) {
	case bson.M:
		return fs, true
	case map[string]interface{}:
		return fs, true
	}
	return nil, false
}

// monthWindow resolves "YYYY-MM" to its [first, next-first) bounds.
func monthWindow(month string) (from, to time.Time, err error) {
	from, err = time.ParseInLocation("2006-01", month, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, from.AddDate(0, 1, 0), nil
}

// groupByDate buckets events whose start falls inside [from, to) under
// their YYYY-MM-DD key. Events outside the window are dropped, never
// shifted into an adjacent bucket.
func groupByDate(events []Event, from, to time.Time) map[string][]Event {
	grouped := make(map[string][]Event)
	for _, ev := range events {
		if ev.Start.Before(from) || !ev.Start.Before(to) {
			continue
		}
		key := ev.Start.Format("2006-01-02")
		grouped[key] = append(grouped[key], ev)
	}
	return grouped
}

// nextUpcoming picks the earliest event starting at or after now.
func nextUpcoming(events []Event, now time.Time) (Event, bool) {
	var next Event
	found := false
	for _, ev := range events {
		if ev.Start.Before(now) {
			continue
		}
		if !found || ev.Start.Before(next.Start) {
			next = ev
			found = true
		}
	}
	return next, found
}
