package convo

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
	"wowzie/db"
	"wowzie/live"
	"wowzie/models"
	"wowzie/notify"
	"wowzie/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

const previewLen = 80

// buildMessagePair creates the two mirrored rows for one logical
// message. Both share PairID and CreatedAt; the sender's copy says
// "user", the recipient's says "them".
func buildMessagePair(mineConvoID, theirConvoID, body, imageURL string, now time.Time) (mine, theirs models.Message) {
	pairID := utils.GetUUID()
	mine = models.Message{
		MessageID: utils.GetUUID(),
		ConvoID:   mineConvoID,
		PairID:    pairID,
		Sender:    models.MessageFromUser,
		Body:      body,
		ImageURL:  imageURL,
		CreatedAt: now,
	}
	theirs = models.Message{
		MessageID: utils.GetUUID(),
		ConvoID:   theirConvoID,
		PairID:    pairID,
		Sender:    models.MessageFromThem,
		Body:      body,
		ImageURL:  imageURL,
		CreatedAt: now,
	}
	return mine, theirs
}

func preview(body string) string {
	if len(body) > previewLen {
		return body[:previewLen]
	}
	return body
}

// deliver writes one logical message to both sides: ensure both
// conversation rows, insert the mirrored pair, reset the sender's
// unread counter and atomically bump the recipient's, then push a live
// event. Returns the sender-side message.
func deliver(ctx context.Context, hub *live.Hub, from, to, body, imageURL string) (models.Message, error) {
	mineRow, err := ensureConversationRow(ctx, from, to)
	if err != nil {
		return models.Message{}, err
	}
	theirRow, err := ensureConversationRow(ctx, to, from)
	if err != nil {
		return models.Message{}, err
	}

	now := time.Now()
	mine, theirs := buildMessagePair(mineRow.ConvoID, theirRow.ConvoID, body, imageURL, now)

	if _, err := db.MessagesCollection.InsertMany(ctx, []interface{}{mine, theirs}); err != nil {
		return models.Message{}, err
	}

	p := preview(body)
	_, err = db.ConversationsCollection.UpdateOne(ctx,
		bson.M{"convoid": mineRow.ConvoID},
		bson.M{"$set": bson.M{"preview": p, "last_message_at": now, "unread_count": 0}},
	)
	if err != nil {
		return models.Message{}, err
	}

	_, err = db.ConversationsCollection.UpdateOne(ctx,
		bson.M{"convoid": theirRow.ConvoID},
		bson.M{
			"$set": bson.M{"preview": p, "last_message_at": now},
			"$inc": bson.M{"unread_count": 1},
		},
	)
	if err != nil {
		return models.Message{}, err
	}

	if hub != nil {
		payload, _ := json.Marshal(utils.M{"type": "message", "message": theirs})
		hub.PushToUser(to, payload)
	}

	notify.Emit(ctx, models.NotifEvent{
		UserID: to,
		Kind:   models.NotifMessage,
		RefID:  theirRow.ConvoID,
		Body:   p,
	})

	return mine, nil
}

// SendMessage posts one message from the caller to a recipient.
func SendMessage(hub *live.Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		userID := utils.GetUserIDFromRequest(r)
		if userID == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var input struct {
			To       string `json:"to"`
			Body     string `json:"body"`
			ImageURL string `json:"image_url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if input.To == "" || (input.Body == "" && input.ImageURL == "") {
			utils.RespondWithError(w, http.StatusBadRequest, "to and body are required")
			return
		}
		if input.To == userID {
			utils.RespondWithError(w, http.StatusBadRequest, "Cannot message yourself")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := db.UserCollection.FindOne(ctx, bson.M{"userid": input.To}).Err(); err != nil {
			utils.RespondWithError(w, http.StatusNotFound, "Recipient not found")
			return
		}

		msg, err := deliver(ctx, hub, userID, input.To, input.Body, input.ImageURL)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Unexpected error")
			return
		}

		utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "message": msg})
	}
}
