package models

import "time"

type PaymentIntentRecord struct {
	IntentID  string    `bson:"intentid" json:"intentid"`
	UserID    string    `bson:"userid" json:"userid"`
	CampID    string    `bson:"campid" json:"campid"`
	Amount    int64     `bson:"amount" json:"amount"`
	Currency  string    `bson:"currency" json:"currency"`
	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
