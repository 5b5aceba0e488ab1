package camps

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"
	"wowzie/db"
	"wowzie/models"
	"wowzie/rdx"
	"wowzie/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const campCacheTTL = 2 * time.Minute

// CreateCamp registers a new listing for the authenticated host.
func CreateCamp(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	hostID := utils.GetUserIDFromRequest(r)
	if hostID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var camp models.Camp
	if err := json.NewDecoder(r.Body).Decode(&camp); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if camp.Name == "" || camp.PriceCents < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if camp.Currency == "" {
		camp.Currency = "usd"
	}

	camp.CampID = utils.GetUUID()
	camp.HostID = hostID
	camp.CreatedAt = time.Now()
	camp.UpdatedAt = camp.CreatedAt

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := db.CampsCollection.InsertOne(ctx, camp); err != nil {
		log.Printf("camp insert failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"ok": true, "camp": camp})
}

// GetCamps lists published camps with optional location/text filters.
func GetCamps(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := bson.M{}
	if loc := r.URL.Query().Get("location"); loc != "" {
		filter["location"] = bson.M{"$regex": loc, "$options": "i"}
	}
	if q := r.URL.Query().Get("q"); q != "" {
		filter["name"] = bson.M{"$regex": q, "$options": "i"}
	}
	if host := r.URL.Query().Get("hostid"); host != "" {
		filter["hostid"] = host
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	if skip < 0 {
		skip = 0
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetLimit(int64(limit)).
		SetSkip(int64(skip))

	cur, err := db.CampsCollection.Find(ctx, filter, findOptions)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}
	defer cur.Close(ctx)

	var camps []models.Camp
	if err := cur.All(ctx, &camps); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}
	if camps == nil {
		camps = []models.Camp{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "camps": camps})
}

// GetCamp returns a single listing, read-through cached.
func GetCamp(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	campID := ps.ByName("campid")

	cacheKey := "camp:" + campID
	if cached, err := rdx.RdxGet(r.Context(), cacheKey); err == nil && cached != "" {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(cached))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var camp models.Camp
	if err := db.CampsCollection.FindOne(ctx, bson.M{"campid": campID}).Decode(&camp); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Camp not found")
		return
	}

	payload, _ := json.Marshal(utils.M{"ok": true, "camp": camp})
	if err := rdx.RdxSet(r.Context(), cacheKey, string(payload), campCacheTTL); err != nil {
		log.Printf("camp cache set failed for %s: %v", campID, err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

// EditCamp updates a listing owned by the caller.
func EditCamp(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	hostID := utils.GetUserIDFromRequest(r)
	campID := ps.ByName("campid")

	var input models.Camp
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

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

	updates := bson.M{"updated_at": time.Now()}
	if input.Name != "" {
		updates["name"] = input.Name
	}
	if input.Description != "" {
		updates["description"] = input.Description
	}
	if input.Location != "" {
		updates["location"] = input.Location
	}
	if input.PriceCents > 0 {
		updates["price_cents"] = input.PriceCents
	}
	if input.Capacity > 0 {
		updates["capacity"] = input.Capacity
	}
	if input.StartTime != nil {
		updates["start_time"] = input.StartTime
	}
	if input.EndTime != nil {
		updates["end_time"] = input.EndTime
	}
	if input.Meta != nil {
		updates["meta"] = input.Meta
	}

	if _, err := db.CampsCollection.UpdateOne(ctx, bson.M{"campid": campID}, bson.M{"$set": updates}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}

	invalidateCampCache(r.Context(), campID)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

// DeleteCamp removes a listing owned by the caller.
func DeleteCamp(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	hostID := utils.GetUserIDFromRequest(r)
	campID := ps.ByName("campid")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.CampsCollection.DeleteOne(ctx, bson.M{"campid": campID, "hostid": hostID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Camp not found")
		return
	}

	invalidateCampCache(r.Context(), campID)
	w.WriteHeader(http.StatusNoContent)
}

func invalidateCampCache(ctx context.Context, campID string) {
	if err := rdx.RdxDel(ctx, "camp:"+campID); err != nil {
		log.Printf("camp cache invalidate failed for %s: %v", campID, err)
	}
}
