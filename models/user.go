package models

import "time"

type User struct {
	UserID        string    `bson:"userid" json:"userid"`
	Username      string    `bson:"username" json:"username"`
	Email         string    `bson:"email" json:"email"`
	Password      string    `bson:"password" json:"-"`
	Name          string    `bson:"name,omitempty" json:"name,omitempty"`
	Role          []string  `bson:"role" json:"role"` // parent, host
	Avatar        string    `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Bio           string    `bson:"bio,omitempty" json:"bio,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	LastLogin     time.Time `bson:"last_login,omitempty" json:"-"`
	RefreshToken  string    `bson:"refresh_token,omitempty" json:"-"`
	RefreshExpiry time.Time `bson:"refresh_expiry,omitempty" json:"-"`
}

// UserCard is the public slice of a profile shown in conversation
// headers and camp pages.
type UserCard struct {
	UserID   string `bson:"userid" json:"userid"`
	Username string `bson:"username" json:"username"`
	Name     string `bson:"name,omitempty" json:"name,omitempty"`
	Avatar   string `bson:"avatar,omitempty" json:"avatar,omitempty"`
}
