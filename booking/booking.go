package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
	"wowzie/db"
	"wowzie/models"
	"wowzie/notify"
	"wowzie/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// nextBookingStatus picks the initial status for a new booking given
// how many seats are already taken (confirmed + pending) against the
// camp's capacity. Zero capacity means unlimited.
func nextBookingStatus(taken, capacity int) string {
	if capacity > 0 && taken >= capacity {
		return models.BookingWaitlisted
	}
	return models.BookingPending
}

// validDecision reports whether a host decision is allowed for the
// booking's current status.
func validDecision(current, decision string) bool {
	if decision != models.BookingConfirmed && decision != models.BookingDeclined {
		return false
	}
	switch current {
	case models.BookingPending, models.BookingWaitlisted:
		return true
	}
	return false
}

// CreateBooking reserves a spot at a camp for the authenticated parent.
func CreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input struct {
		CampID      string `json:"camp_id"`
		ChildID     string `json:"child_id"`
		GuestsCount int    `json:"guests_count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.CampID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "camp_id is required")
		return
	}
	if input.GuestsCount <= 0 {
		input.GuestsCount = 1
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var camp models.Camp
	if err := db.CampsCollection.FindOne(ctx, bson.M{"campid": input.CampID}).Decode(&camp); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Camp not found")
		return
	}

	taken, err := db.BookingsCollection.CountDocuments(ctx, bson.M{
		"campid": input.CampID,
		"status": bson.M{"$in": []string{models.BookingConfirmed, models.BookingPending}},
	})
	if err != nil {
		log.Printf("booking count failed for camp %s: %v", input.CampID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}

	bk := models.Booking{
		BookingID:   utils.GetUUID(),
		UserID:      userID,
		CampID:      input.CampID,
		ChildID:     input.ChildID,
		Status:      nextBookingStatus(int(taken), camp.Capacity),
		GuestsCount: input.GuestsCount,
		TotalCents:  camp.PriceCents * int64(input.GuestsCount),
		Currency:    camp.Currency,
		Reference:   utils.GenerateReference(),
		CreatedAt:   time.Now(),
	}

	if _, err := db.BookingsCollection.InsertOne(ctx, bk); err != nil {
		log.Printf("booking insert failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}

	notify.Emit(r.Context(), models.NotifEvent{
		UserID: camp.HostID,
		Kind:   models.NotifBookingCreated,
		RefID:  bk.BookingID,
		Body:   fmt.Sprintf("New booking request for %s", camp.Name),
	})

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"ok": true, "booking": bk})
}

// GetMyBookings lists the caller's bookings, newest first.
func GetMyBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	filter := bson.M{"userid": userID}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.BookingsCollection.Find(ctx, filter, options.Find().SetSort(bson.M{"created_at": -1}))
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
	if bookings == nil {
		bookings = []models.Booking{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "bookings": bookings})
}

// GetCampBookings lists all bookings on one of the caller's camps.
func GetCampBookings(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	hostID := utils.GetUserIDFromRequest(r)
	campID := ps.ByName("campid")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var camp models.Camp
	if err := db.CampsCollection.FindOne(ctx, bson.M{"campid": campID}).Decode(&camp); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Camp not found")
		return
	}
	if camp.HostID != hostID {
		utils.RespondWithError(w, http.StatusForbidden, "Not your listing")
		return
	}

	cur, err := db.BookingsCollection.Find(ctx, bson.M{"campid": campID},
		options.Find().SetSort(bson.M{"created_at": -1}))
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
	if bookings == nil {
		bookings = []models.Booking{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "bookings": bookings})
}

// DecideBooking lets the camp host confirm or decline a request.
func DecideBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	hostID := utils.GetUserIDFromRequest(r)
	bookingID := ps.ByName("bookingid")

	var input struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var bk models.Booking
	if err := db.BookingsCollection.FindOne(ctx, bson.M{"bookingid": bookingID}).Decode(&bk); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
		return
	}

	var camp models.Camp
	if err := db.CampsCollection.FindOne(ctx, bson.M{"campid": bk.CampID}).Decode(&camp); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Camp not found")
		return
	}
	if camp.HostID != hostID {
		utils.RespondWithError(w, http.StatusForbidden, "Not your listing")
		return
	}

	if !validDecision(bk.Status, input.Status) {
		utils.RespondWithError(w, http.StatusConflict, "Booking already decided")
		return
	}

	now := time.Now()
	_, err := db.BookingsCollection.UpdateOne(ctx,
		bson.M{"bookingid": bookingID},
		bson.M{"$set": bson.M{"status": input.Status, "decided_at": now}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}

	notify.Emit(r.Context(), models.NotifEvent{
		UserID: bk.UserID,
		Kind:   models.NotifBookingDecided,
		RefID:  bk.BookingID,
		Body:   fmt.Sprintf("Your booking for %s was %s", camp.Name, input.Status),
	})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "status": input.Status})
}

// CancelBooking lets the booking owner withdraw a request.
func CancelBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	bookingID := ps.ByName("bookingid")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var bk models.Booking
	if err := db.BookingsCollection.FindOne(ctx, bson.M{"bookingid": bookingID}).Decode(&bk); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
		return
	}
	if bk.UserID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Not your booking")
		return
	}
	if bk.Status == models.BookingDeclined || bk.Status == models.BookingCancelled {
		utils.RespondWithError(w, http.StatusConflict, "Booking already closed")
		return
	}

	_, err := db.BookingsCollection.UpdateOne(ctx,
		bson.M{"bookingid": bookingID},
		bson.M{"$set": bson.M{"status": models.BookingCancelled}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

// loadBookingForTicket fetches a booking and enforces that the caller
// is either the booking owner or the camp host.
func loadBookingForTicket(ctx context.Context, bookingID, callerID string) (models.Booking, models.Camp, int, error) {
	var bk models.Booking
	if err := db.BookingsCollection.FindOne(ctx, bson.M{"bookingid": bookingID}).Decode(&bk); err != nil {
		return bk, models.Camp{}, http.StatusNotFound, fmt.Errorf("booking not found")
	}

	var camp models.Camp
	if err := db.CampsCollection.FindOne(ctx, bson.M{"campid": bk.CampID}).Decode(&camp); err != nil {
		return bk, camp, http.StatusNotFound, fmt.Errorf("camp not found")
	}

	if bk.UserID != callerID && camp.HostID != callerID {
		return bk, camp, http.StatusForbidden, fmt.Errorf("forbidden")
	}
	return bk, camp, http.StatusOK, nil
}
