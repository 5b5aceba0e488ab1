package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

type Camp struct {
	CampID      string     `bson:"campid" json:"campid"`
	HostID      string     `bson:"hostid" json:"hostid"`
	Name        string     `bson:"name" json:"name"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
	Location    string     `bson:"location,omitempty" json:"location,omitempty"`
	ImageURL    string     `bson:"image_url,omitempty" json:"image_url,omitempty"`
	StartTime   *time.Time `bson:"start_time,omitempty" json:"start_time,omitempty"`
	EndTime     *time.Time `bson:"end_time,omitempty" json:"end_time,omitempty"`
	PriceCents  int64      `bson:"price_cents" json:"price_cents"`
	Currency    string     `bson:"currency" json:"currency"`
	Capacity    int        `bson:"capacity,omitempty" json:"capacity,omitempty"`
	// Meta carries loosely structured listing extras. A "fixedSchedule"
	// entry ({startDate, startTime, endTime?}) supplies event times for
	// camps without explicit start_time.
	Meta      bson.M    `bson:"meta,omitempty" json:"meta,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
