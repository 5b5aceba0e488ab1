package models

import "time"

// Booking statuses
const (
	BookingPending    = "pending"
	BookingConfirmed  = "confirmed"
	BookingDeclined   = "declined"
	BookingWaitlisted = "waitlisted"
	BookingCancelled  = "cancelled"
)

type Booking struct {
	BookingID   string     `bson:"bookingid" json:"bookingid"`
	UserID      string     `bson:"userid" json:"userid"`
	CampID      string     `bson:"campid" json:"campid"`
	ChildID     string     `bson:"childid,omitempty" json:"childid,omitempty"`
	Status      string     `bson:"status" json:"status"`
	GuestsCount int        `bson:"guests_count" json:"guests_count"`
	TotalCents  int64      `bson:"total_cents" json:"total_cents"`
	Currency    string     `bson:"currency" json:"currency"`
	Reference   string     `bson:"reference" json:"reference"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	DecidedAt   *time.Time `bson:"decided_at,omitempty" json:"decided_at,omitempty"`
}
