package camps

import (
	"context"
	"log"
	"net/http"
	"time"
	"wowzie/db"
	"wowzie/models"
	"wowzie/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// UploadCampPhoto replaces the listing image. Host only.
func UploadCampPhoto(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Unable to parse form")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing photo file")
		return
	}
	defer file.Close()

	if !utils.ValidateImageFileType(header) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid file type. Supported formats: JPEG, PNG, WebP, GIF.")
		return
	}

	filename, err := utils.SaveImage(file, header, "static/camppic", 1280)
	if err != nil {
		log.Printf("camp photo save failed for %s: %v", campID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save photo")
		return
	}

	imageURL := "/static/camppic/" + filename
	_, err = db.CampsCollection.UpdateOne(ctx, bson.M{"campid": campID}, bson.M{
		"$set": bson.M{"image_url": imageURL, "updated_at": time.Now()},
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}

	invalidateCampCache(r.Context(), campID)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "image_url": imageURL})
}
