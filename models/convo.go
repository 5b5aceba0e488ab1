package models

import "time"

// Conversation is a per-user mailbox pointer to a counterpart. Each
// user pair has exactly two rows, one owned by each side, so every
// thread is self-contained for its owner.
type Conversation struct {
	ConvoID       string    `bson:"convoid" json:"convoid"`
	UserID        string    `bson:"userid" json:"userid"`
	ParticipantID string    `bson:"participantid" json:"participantid"`
	Preview       string    `bson:"preview,omitempty" json:"preview,omitempty"`
	LastMessageAt time.Time `bson:"last_message_at,omitempty" json:"last_message_at,omitempty"`
	UnreadCount   int64     `bson:"unread_count" json:"unread_count"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}

// Message senders, relative to the conversation owner.
const (
	MessageFromUser = "user"
	MessageFromThem = "them"
)

// Message is one side's copy of a logical message. Two rows are written
// per logical send, linked by PairID and sharing CreatedAt.
type Message struct {
	MessageID string    `bson:"messageid" json:"messageid"`
	ConvoID   string    `bson:"convoid" json:"convoid"`
	PairID    string    `bson:"pairid" json:"pairid"`
	Sender    string    `bson:"sender" json:"sender"` // user | them
	Body      string    `bson:"body" json:"body"`
	ImageURL  string    `bson:"image_url,omitempty" json:"image_url,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
