package convo

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"
	"wowzie/db"
	"wowzie/live"
	"wowzie/models"
	"wowzie/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

type BlastFailure struct {
	UserID string `json:"userid"`
	Error  string `json:"error"`
}

type BlastSummary struct {
	Sent     int            `json:"sent"`
	Failed   int            `json:"failed"`
	Failures []BlastFailure `json:"failures"`
}

// blastBookingFilter builds the booking query for a blast. An explicit
// status narrows to that status; otherwise every open booking with a
// registered child is included (declined and cancelled parents are
// skipped).
func blastBookingFilter(campID, statusFilter string) bson.M {
	filter := bson.M{
		"campid":  campID,
		"childid": bson.M{"$nin": []interface{}{nil, ""}},
	}
	if statusFilter != "" {
		filter["status"] = statusFilter
	} else {
		filter["status"] = bson.M{"$nin": []string{models.BookingDeclined, models.BookingCancelled}}
	}
	return filter
}

// blastFanOut sends to every recipient, continuing past individual
// failures, and tallies the outcome.
func blastFanOut(recipients []string, send func(to string) error) BlastSummary {
	summary := BlastSummary{Failures: []BlastFailure{}}
	for _, to := range recipients {
		if err := send(to); err != nil {
			summary.Failed++
			summary.Failures = append(summary.Failures, BlastFailure{UserID: to, Error: err.Error()})
			continue
		}
		summary.Sent++
	}
	return summary
}

// dedupeRecipients drops repeats and the sender themselves, keeping
// first-seen order.
func dedupeRecipients(userIDs []string, sender string) []string {
	seen := make(map[string]bool, len(userIDs))
	out := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if id == "" || id == sender || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// SendBlastMessage fans one message from a host out to every parent
// with a matching booking on the camp.
func SendBlastMessage(hub *live.Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		userID := utils.GetUserIDFromRequest(r)
		if userID == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var input struct {
			CampID       string `json:"camp_id"`
			StatusFilter string `json:"status_filter"`
			Body         string `json:"body"`
			ImageURL     string `json:"image_url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if input.CampID == "" || (input.Body == "" && input.ImageURL == "") {
			utils.RespondWithError(w, http.StatusBadRequest, "camp_id and body are required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		var camp models.Camp
		if err := db.CampsCollection.FindOne(ctx, bson.M{"campid": input.CampID}).Decode(&camp); err != nil {
			utils.RespondWithError(w, http.StatusNotFound, "Camp not found")
			return
		}
		if camp.HostID != userID {
			utils.RespondWithError(w, http.StatusForbidden, "Only the host can blast this camp")
			return
		}

		cur, err := db.BookingsCollection.Find(ctx, blastBookingFilter(input.CampID, input.StatusFilter))
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Unexpected error")
			return
		}
		defer cur.Close(ctx)

		var bookings []models.Booking
		if err := cur.All(ctx, &bookings); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Unexpected error")
			return
		}

		ids := make([]string, 0, len(bookings))
		for _, bk := range bookings {
			ids = append(ids, bk.UserID)
		}
		recipients := dedupeRecipients(ids, userID)

		summary := blastFanOut(recipients, func(to string) error {
			_, err := deliver(ctx, hub, userID, to, input.Body, input.ImageURL)
			if err != nil {
				log.Printf("blast: send to %s failed: %v", to, err)
			}
			return err
		})

		utils.RespondWithJSON(w, http.StatusOK, utils.M{
			"ok":       true,
			"sent":     summary.Sent,
			"failed":   summary.Failed,
			"failures": summary.Failures,
		})
	}
}
