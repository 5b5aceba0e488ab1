package models

import "time"

// Notification kinds
const (
	NotifBookingCreated = "booking_created"
	NotifBookingDecided = "booking_decided"
	NotifMessage        = "message"
	NotifShareAccepted  = "share_accepted"
)

type Notification struct {
	NotifID   string    `bson:"notifid" json:"notifid"`
	UserID    string    `bson:"userid" json:"userid"`
	Kind      string    `bson:"kind" json:"kind"`
	RefID     string    `bson:"refid,omitempty" json:"refid,omitempty"`
	Body      string    `bson:"body" json:"body"`
	Read      bool      `bson:"read" json:"read"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// NotifEvent is the payload published on the notification channel and
// consumed by the persistence worker.
type NotifEvent struct {
	UserID string `json:"userid"`
	Kind   string `json:"kind"`
	RefID  string `json:"refid,omitempty"`
	Body   string `json:"body"`
}
