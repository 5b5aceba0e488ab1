package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"
	"wowzie/db"
	"wowzie/models"
	"wowzie/rdx"
	"wowzie/utils"
)

const channel = "notify-events"

// dedupeTTL collapses repeat triggers for the same (user, kind, ref)
// within the window into a single notification row.
const dedupeTTL = 2 * time.Minute

// Pusher delivers a persisted notification to a connected client.
// Satisfied by the live hub.
type Pusher interface {
	PushToUser(userID string, payload []byte)
}

// Emit publishes a notification event to the redis channel. Fire and
// forget: emission failures are logged, never surfaced to the caller.
func Emit(ctx context.Context, ev models.NotifEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("notify: marshal failed: %v", err)
		return
	}
	if err := rdx.Conn.Publish(ctx, channel, data).Err(); err != nil {
		log.Printf("notify: publish failed: %v", err)
	}
}

// StartWorker subscribes to the notification channel, persists rows
// (deduped), and pushes them to the live hub. Runs until ctx is done.
func StartWorker(ctx context.Context, pusher Pusher) {
	sub := rdx.Conn.Subscribe(ctx, channel)
	ch := sub.Channel()

	log.Println("notify worker listening")

	for {
		select {
		case <-ctx.Done():
			sub.Close()
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev models.NotifEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("notify: bad event payload: %v", err)
				continue
			}
			handleEvent(ctx, ev, pusher)
		}
	}
}

func handleEvent(ctx context.Context, ev models.NotifEvent, pusher Pusher) {
	if ev.UserID == "" || ev.Kind == "" {
		return
	}

	key := "notif:" + ev.UserID + ":" + ev.Kind + ":" + ev.RefID
	fresh, err := rdx.RdxSetNX(ctx, key, dedupeTTL)
	if err != nil {
		log.Printf("notify: dedupe check failed: %v", err)
		// fall through and persist rather than drop
	} else if !fresh {
		return
	}

	notif := models.Notification{
		NotifID:   utils.GetUUID(),
		UserID:    ev.UserID,
		Kind:      ev.Kind,
		RefID:     ev.RefID,
		Body:      ev.Body,
		CreatedAt: time.Now(),
	}

	insertCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := db.NotificationsCollection.InsertOne(insertCtx, notif); err != nil {
		log.Printf("notify: insert failed: %v", err)
		return
	}

	if pusher != nil {
		payload, _ := json.Marshal(utils.M{"type": "notification", "notification": notif})
		pusher.PushToUser(ev.UserID, payload)
	}
}
