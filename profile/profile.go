package profile

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"
	"wowzie/db"
	"wowzie/models"
	"wowzie/rdx"
	"wowzie/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

const profileCacheTTL = 5 * time.Minute

// GetProfile returns the public card for a user, read-through cached in
// redis. Used by conversation headers and camp pages.
func GetProfile(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := ps.ByName("userid")
	if userID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing user id")
		return
	}

	cacheKey := "profile:" + userID
	if cached, err := rdx.RdxGet(r.Context(), cacheKey); err == nil && cached != "" {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(cached))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var card models.UserCard
	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&card); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	payload, _ := json.Marshal(utils.M{"ok": true, "profile": card})
	if err := rdx.RdxSet(r.Context(), cacheKey, string(payload), profileCacheTTL); err != nil {
		log.Printf("profile cache set failed for %s: %v", userID, err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

func EditProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input struct {
		Name string `json:"name"`
		Bio  string `json:"bio"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	updates := bson.M{}
	if input.Name != "" {
		updates["name"] = input.Name
	}
	if input.Bio != "" {
		updates["bio"] = input.Bio
	}
	if len(updates) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := db.UserCollection.UpdateOne(ctx, bson.M{"userid": userID}, bson.M{"$set": updates}); err != nil {
		log.Printf("profile update failed for %s: %v", userID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}

	invalidateCachedProfile(r.Context(), userID)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

// EditProfilePic stores a new avatar image with a thumbnail.
func EditProfilePic(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Unable to parse form")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing avatar file")
		return
	}
	defer file.Close()

	if !utils.ValidateImageFileType(header) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid file type. Supported formats: JPEG, PNG, WebP, GIF.")
		return
	}

	filename, err := utils.SaveImage(file, header, "static/userpic", 512)
	if err != nil {
		log.Printf("avatar save failed for %s: %v", userID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save avatar")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	avatar := "/static/userpic/" + filename
	if _, err := db.UserCollection.UpdateOne(ctx, bson.M{"userid": userID}, bson.M{"$set": bson.M{"avatar": avatar}}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}

	invalidateCachedProfile(r.Context(), userID)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "avatar": avatar})
}

func invalidateCachedProfile(ctx context.Context, userID string) {
	if err := rdx.RdxDel(ctx, "profile:"+userID); err != nil {
		log.Printf("profile cache invalidate failed for %s: %v", userID, err)
	}
}
