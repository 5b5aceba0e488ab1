package calendar

import (
	"context"
	"net/http"
	"time"
	"wowzie/db"
	"wowzie/models"
	"wowzie/utils"

	ical "github.com/arran4/golang-ical"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

func renderICS(events []Event) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//Wowzie//Calendar//EN")

	for _, ev := range events {
		vevent := cal.AddEvent(ev.BookingID + "@wowzie")
		vevent.SetStartAt(ev.Start)
		vevent.SetEndAt(ev.End)
		vevent.SetSummary(ev.Name)
		if ev.Location != "" {
			vevent.SetLocation(ev.Location)
		}
		vevent.SetDtStampTime(time.Now())
	}
	return cal.Serialize()
}

// MyCalendarICS serves the caller's confirmed events as an ICS feed.
func MyCalendarICS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not signed in")
		return
	}

	events, _, err := loadUserEvents(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=wowzie.ics")
	w.Write([]byte(renderICS(events)))
}

// SharedCalendarICS serves the sharing sender's events to the accepted
// recipient, addressed by share token.
func SharedCalendarICS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not signed in")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var share models.CalendarShare
	if err := db.SharesCollection.FindOne(ctx, bson.M{"token": ps.ByName("token")}).Decode(&share); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Share not found")
		return
	}
	if share.Status != models.ShareAccepted || share.RecipientUserID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Share not accepted by you")
		return
	}

	events, _, err := loadUserEvents(r.Context(), share.SenderID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=shared.ics")
	w.Write([]byte(renderICS(events)))
}
