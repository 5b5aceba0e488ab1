package db

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection          *mongo.Collection
	CampsCollection         *mongo.Collection
	BookingsCollection      *mongo.Collection
	SharesCollection        *mongo.Collection
	ConversationsCollection *mongo.Collection
	MessagesCollection      *mongo.Collection
	NotificationsCollection *mongo.Collection
	PaymentsCollection      *mongo.Collection
	Client                  *mongo.Client
)

// Initialize MongoDB connection
func init() {
	_ = godotenv.Load()

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	var err error
	Client, err = mongo.Connect(context.TODO(), options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database("wowzie")
	UserCollection = database.Collection("users")
	CampsCollection = database.Collection("camps")
	BookingsCollection = database.Collection("bookings")
	SharesCollection = database.Collection("calendar_shares")
	ConversationsCollection = database.Collection("conversations")
	MessagesCollection = database.Collection("messages")
	NotificationsCollection = database.Collection("notifications")
	PaymentsCollection = database.Collection("payments")
}

// EnsureIndexes creates the unique and query indexes the handlers rely
// on. The unique (userid, participantid) index is what makes the
// conversation upsert race-free.
func EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	_, err := UserCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.M{"userid": 1}, Options: options.Index().SetUnique(true)},
		{Keys: bson.M{"username": 1}, Options: options.Index().SetUnique(true)},
		{Keys: bson.M{"email": 1}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return err
	}

	_, err = ConversationsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userid", Value: 1}, {Key: "participantid", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_owner_participant"),
	})
	if err != nil {
		return err
	}

	_, err = SharesCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"token": 1},
		Options: options.Index().SetUnique(true).SetName("unique_token"),
	})
	if err != nil {
		return err
	}

	_, err = BookingsCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.M{"reference": 1}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userid", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "campid", Value: 1}, {Key: "status", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = MessagesCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "convoid", Value: 1}, {Key: "created_at", Value: 1}},
	})
	if err != nil {
		return err
	}

	_, err = NotificationsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userid", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}
