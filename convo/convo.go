package convo

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
	"wowzie/db"
	"wowzie/models"
	"wowzie/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ensureConversationRow returns the (owner, participant) conversation
// row, creating it when absent. A single upsert against the unique
// (userid, participantid) index, so two concurrent callers converge on
// the same row with no retry loop.
func ensureConversationRow(ctx context.Context, owner, participant string) (models.Conversation, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var convo models.Conversation
	err := db.ConversationsCollection.FindOneAndUpdate(ctx,
		bson.M{"userid": owner, "participantid": participant},
		bson.M{"$setOnInsert": bson.M{
			"convoid":      utils.GetUUID(),
			"unread_count": 0,
			"created_at":   time.Now(),
		}},
		opts,
	).Decode(&convo)
	return convo, err
}

// GetOrCreateConversation resolves the caller's conversation row with a
// participant, creating both sides lazily.
func GetOrCreateConversation(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input struct {
		ParticipantID  string   `json:"participant_id"`
		ParticipantIDs []string `json:"participant_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	participant := input.ParticipantID
	if participant == "" {
		// legacy body shape: a pair of ids, one of which is the caller
		for _, id := range input.ParticipantIDs {
			if id != userID {
				participant = id
				break
			}
		}
	}
	if participant == "" || participant == userID {
		utils.RespondWithError(w, http.StatusBadRequest, "participant_id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": participant}).Err(); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Participant not found")
		return
	}

	mine, err := ensureConversationRow(ctx, userID, participant)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}
	if _, err := ensureConversationRow(ctx, participant, userID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "conversation": mine})
}

// ListConversations returns the caller's mailbox, most recent first.
func ListConversations(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.ConversationsCollection.Find(ctx, bson.M{"userid": userID},
		options.Find().SetSort(bson.M{"last_message_at": -1}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}
	defer cur.Close(ctx)

	var convos []models.Conversation
	if err := cur.All(ctx, &convos); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}
	if convos == nil {
		convos = []models.Conversation{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "conversations": convos})
}

// GetMessages returns one conversation's thread, oldest first. The
// caller must own the conversation row.
func GetMessages(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	convoID := ps.ByName("convoid")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var convo models.Conversation
	err := db.ConversationsCollection.FindOne(ctx, bson.M{"convoid": convoID}).Decode(&convo)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Conversation not found")
		return
	}
	if convo.UserID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Not your conversation")
		return
	}

	cur, err := db.MessagesCollection.Find(ctx, bson.M{"convoid": convoID},
		options.Find().SetSort(bson.M{"created_at": 1}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}
	defer cur.Close(ctx)

	var messages []models.Message
	if err := cur.All(ctx, &messages); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"ok":       true,
		"convoid":  convoID,
		"messages": messages,
	})
}

// MarkConversationRead zeroes the caller's unread counter.
func MarkConversationRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	convoID := ps.ByName("convoid")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.ConversationsCollection.UpdateOne(ctx,
		bson.M{"convoid": convoID, "userid": userID},
		bson.M{"$set": bson.M{"unread_count": 0}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Conversation not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}
