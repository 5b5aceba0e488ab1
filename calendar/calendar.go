package calendar

import (
	"context"
	"net/http"
	"time"
	"wowzie/db"
	"wowzie/models"
	"wowzie/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// loadUserEvents joins a user's confirmed bookings with their camps and
// derives event times. Bookings without a derivable start come back in
// the second slice.
func loadUserEvents(ctx context.Context, userID string) ([]Event, []UnscheduledEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cur, err := db.BookingsCollection.Find(ctx, bson.M{
		"userid": userID,
		"status": models.BookingConfirmed,
	})
	if err != nil {
		return nil, nil, err
	}
	defer cur.Close(ctx)

	var bookings []models.Booking
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, nil, err
	}
	if len(bookings) == 0 {
		return nil, nil, nil
	}

	campIDs := make([]string, 0, len(bookings))
	for _, bk := range bookings {
		campIDs = append(campIDs, bk.CampID)
	}

	campCur, err := db.CampsCollection.Find(ctx, bson.M{"campid": bson.M{"$in": campIDs}})
	if err != nil {
		return nil, nil, err
	}
	defer campCur.Close(ctx)

	var camps []models.Camp
	if err := campCur.All(ctx, &camps); err != nil {
		return nil, nil, err
	}
	campsByID := make(map[string]models.Camp, len(camps))
	for _, c := range camps {
		campsByID[c.CampID] = c
	}

	var events []Event
	var unscheduled []UnscheduledEvent
	for _, bk := range bookings {
		camp, found := campsByID[bk.CampID]
		if !found {
			// camp deleted underneath the booking; still surface it
			unscheduled = append(unscheduled, UnscheduledEvent{
				BookingID: bk.BookingID,
				CampID:    bk.CampID,
				Name:      "(removed listing)",
			})
			continue
		}

		start, end, ok := deriveEventTimes(camp)
		if !ok {
			unscheduled = append(unscheduled, UnscheduledEvent{
				BookingID: bk.BookingID,
				CampID:    camp.CampID,
				Name:      camp.Name,
				Location:  camp.Location,
				ImageURL:  camp.ImageURL,
			})
			continue
		}

		events = append(events, Event{
			BookingID:   bk.BookingID,
			CampID:      camp.CampID,
			Name:        camp.Name,
			Location:    camp.Location,
			ImageURL:    camp.ImageURL,
			GuestsCount: bk.GuestsCount,
			Start:       start,
			End:         end,
		})
	}
	return events, unscheduled, nil
}

// GetCalendar returns the caller's confirmed bookings for one month,
// grouped by date, plus the unscheduled bucket and the globally next
// upcoming event (the client uses nextUp to jump the visible month on
// first load).
func GetCalendar(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not signed in")
		return
	}

	month := r.URL.Query().Get("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	}
	from, to, err := monthWindow(month)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "month must be YYYY-MM")
		return
	}

	events, unscheduled, err := loadUserEvents(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}

	grouped := groupByDate(events, from, to)
	if unscheduled == nil {
		unscheduled = []UnscheduledEvent{}
	}

	resp := utils.M{
		"ok":           true,
		"month":        month,
		"eventsByDate": grouped,
		"unscheduled":  unscheduled,
	}
	if next, found := nextUpcoming(events, time.Now()); found {
		resp["nextUp"] = next
	}

	utils.RespondWithJSON(w, http.StatusOK, resp)
}
