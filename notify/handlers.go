package notify

import (
	"context"
	"net/http"
	"strconv"
	"time"
	"wowzie/db"
	"wowzie/models"
	"wowzie/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListNotifications returns the caller's notifications, newest first.
func ListNotifications(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 30
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.NotificationsCollection.Find(ctx, bson.M{"userid": userID},
		options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(int64(limit)))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}
	defer cur.Close(ctx)

	var notifs []models.Notification
	if err := cur.All(ctx, &notifs); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}
	if notifs == nil {
		notifs = []models.Notification{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "notifications": notifs})
}

// MarkRead flags all of the caller's notifications as read.
func MarkRead(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	_, err := db.NotificationsCollection.UpdateMany(ctx,
		bson.M{"userid": userID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}
