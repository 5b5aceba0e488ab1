package models

import "time"

// Calendar share statuses
const (
	ShareCreated     = "created"
	ShareSent        = "sent"
	ShareEmailFailed = "email_failed"
	ShareAccepted    = "accepted"
)

type CalendarShare struct {
	ShareID         string     `bson:"shareid" json:"shareid"`
	Token           string     `bson:"token" json:"token"`
	SenderID        string     `bson:"senderid" json:"senderid"`
	RecipientEmail  string     `bson:"recipient_email" json:"recipient_email"`
	RecipientUserID string     `bson:"recipient_userid,omitempty" json:"recipient_userid,omitempty"`
	Status          string     `bson:"status" json:"status"`
	ShareURL        string     `bson:"share_url" json:"share_url"`
	Message         string     `bson:"message,omitempty" json:"message,omitempty"`
	CreatedAt       time.Time  `bson:"created_at" json:"created_at"`
	AcceptedAt      *time.Time `bson:"accepted_at,omitempty" json:"accepted_at,omitempty"`
}
