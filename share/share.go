package share

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"
	"wowzie/db"
	"wowzie/models"
	"wowzie/notify"
	"wowzie/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func appBaseURL() string {
	if u := os.Getenv("APP_BASE_URL"); u != "" {
		return u
	}
	return "http://localhost:5173"
}

// CreateShare makes a calendar share invite. Mode "link" just returns
// the URL; mode "send" also emails it. Validation failures happen
// before any row is written.
func CreateShare(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	senderID := utils.GetUserIDFromRequest(r)
	if senderID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input struct {
		Email   string `json:"email"`
		Message string `json:"message"`
		Mode    string `json:"mode"` // link | send
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if input.Mode == "" {
		input.Mode = "send"
	}
	if input.Mode != "link" && input.Mode != "send" {
		utils.RespondWithError(w, http.StatusBadRequest, "mode must be link or send")
		return
	}
	if !utils.IsValidEmail(input.Email) {
		utils.RespondWithError(w, http.StatusBadRequest, "A valid email is required")
		return
	}

	token := utils.GenerateShareToken()
	sh := models.CalendarShare{
		ShareID:        utils.GetUUID(),
		Token:          token,
		SenderID:       senderID,
		RecipientEmail: input.Email,
		Status:         models.ShareCreated,
		ShareURL:       appBaseURL() + "/calendar/shared/" + token,
		Message:        input.Message,
		CreatedAt:      time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := db.SharesCollection.InsertOne(ctx, sh); err != nil {
		log.Printf("share insert failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}

	if input.Mode == "link" {
		utils.RespondWithJSON(w, http.StatusCreated, utils.M{"ok": true, "share": sh})
		return
	}

	if err := sendShareEmail(r.Context(), sh); err != nil {
		log.Printf("share email failed for %s: %v", sh.ShareID, err)
		sh.Status = models.ShareEmailFailed
		db.SharesCollection.UpdateOne(ctx, bson.M{"shareid": sh.ShareID},
			bson.M{"$set": bson.M{"status": models.ShareEmailFailed}})
		utils.RespondWithJSON(w, http.StatusBadGateway, utils.M{
			"ok":    false,
			"error": "Invite created but email failed",
			"share": sh,
		})
		return
	}

	sh.Status = models.ShareSent
	db.SharesCollection.UpdateOne(ctx, bson.M{"shareid": sh.ShareID},
		bson.M{"$set": bson.M{"status": models.ShareSent}})
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"ok": true, "share": sh})
}

// ResendShare retries the email for an invite stuck in email_failed (or
// still only created).
func ResendShare(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	senderID := utils.GetUserIDFromRequest(r)
	shareID := ps.ByName("shareid")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var sh models.CalendarShare
	if err := db.SharesCollection.FindOne(ctx, bson.M{"shareid": shareID}).Decode(&sh); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Share not found")
		return
	}
	if sh.SenderID != senderID {
		utils.RespondWithError(w, http.StatusForbidden, "Not your invite")
		return
	}
	if sh.Status == models.ShareAccepted {
		utils.RespondWithError(w, http.StatusConflict, "Share already accepted")
		return
	}

	if err := sendShareEmail(r.Context(), sh); err != nil {
		log.Printf("share email retry failed for %s: %v", sh.ShareID, err)
		db.SharesCollection.UpdateOne(ctx, bson.M{"shareid": sh.ShareID},
			bson.M{"$set": bson.M{"status": models.ShareEmailFailed}})
		utils.RespondWithJSON(w, http.StatusBadGateway, utils.M{"ok": false, "error": "Email failed"})
		return
	}

	db.SharesCollection.UpdateOne(ctx, bson.M{"shareid": sh.ShareID},
		bson.M{"$set": bson.M{"status": models.ShareSent}})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

type acceptOutcome int

const (
	acceptProceed acceptOutcome = iota
	acceptOwnShare
	acceptIdempotent
	acceptConflict
)

// evaluateAccept classifies an accept attempt against the share's
// current state.
func evaluateAccept(sh models.CalendarShare, userID string) acceptOutcome {
	if sh.SenderID == userID {
		return acceptOwnShare
	}
	if sh.Status == models.ShareAccepted {
		if sh.RecipientUserID == userID {
			return acceptIdempotent
		}
		return acceptConflict
	}
	return acceptProceed
}

// AcceptShare redeems a share token for the authenticated caller. The
// flip to accepted is a single conditional update: idempotent for the
// same recipient, conflict for anyone else once accepted.
func AcceptShare(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Token == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "token is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var sh models.CalendarShare
	if err := db.SharesCollection.FindOne(ctx, bson.M{"token": input.Token}).Decode(&sh); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Share not found")
		return
	}

	switch evaluateAccept(sh, userID) {
	case acceptOwnShare:
		utils.RespondWithError(w, http.StatusBadRequest, "Cannot accept your own share")
		return
	case acceptIdempotent:
		// repeat accept by the same recipient, nothing to mutate
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "share": sh})
		return
	case acceptConflict:
		utils.RespondWithError(w, http.StatusConflict, "Share already accepted by another user")
		return
	}

	now := time.Now()
	err := db.SharesCollection.FindOneAndUpdate(ctx,
		bson.M{"token": input.Token, "status": bson.M{"$ne": models.ShareAccepted}},
		bson.M{"$set": bson.M{
			"status":           models.ShareAccepted,
			"recipient_userid": userID,
			"accepted_at":      now,
		}},
	).Decode(&sh)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			// lost the race to another accept between read and write
			db.SharesCollection.FindOne(ctx, bson.M{"token": input.Token}).Decode(&sh)
			if sh.RecipientUserID == userID {
				utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "share": sh})
				return
			}
			utils.RespondWithError(w, http.StatusConflict, "Share already accepted by another user")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}

	sh.Status = models.ShareAccepted
	sh.RecipientUserID = userID
	sh.AcceptedAt = &now

	notify.Emit(r.Context(), models.NotifEvent{
		UserID: sh.SenderID,
		Kind:   models.NotifShareAccepted,
		RefID:  sh.ShareID,
		Body:   "Your calendar share was accepted",
	})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "share": sh})
}

// ListShares returns invites the caller sent and ones they accepted.
func ListShares(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.SharesCollection.Find(ctx, bson.M{
		"$or": []bson.M{
			{"senderid": userID},
			{"recipient_userid": userID},
		},
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}
	defer cur.Close(ctx)

	var shares []models.CalendarShare
	if err := cur.All(ctx, &shares); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}
	if shares == nil {
		shares = []models.CalendarShare{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "shares": shares})
}
