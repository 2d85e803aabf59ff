package models

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultMongoDB     = "bashbay"
	SavedEventsColName = "saved_events"
)

type SavedEventItem struct {
	EventID string    `bson:"event_id" json:"event_id"`
	SavedAt time.Time `bson:"saved_at" json:"saved_at"`
}

// SavedEvents holds one user's bookmarked events keyed by event id.
type SavedEvents struct {
	ID        primitive.ObjectID        `bson:"_id,omitempty" json:"id"`
	UserID    string                    `bson:"user_id" json:"user_id" validate:"required"`
	Items     map[string]SavedEventItem `bson:"items" json:"items"`
	CreatedAt time.Time                 `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt time.Time                 `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

type SavedEventsRepo interface {
	SaveEvent(ctx context.Context, userID, eventID uuid.UUID) (*SavedEvents, error)
	UnsaveEvent(ctx context.Context, userID, eventID uuid.UUID) error
	GetSavedEvents(ctx context.Context, userID uuid.UUID) (*SavedEvents, error)
}

func (mdb *MongodbRepo) GetCollection(colName string) (*mongo.Collection, error) {
	if mdb.mongodbClient == nil {
		return nil, fmt.Errorf("mongodb client is not initialized")
	}
	return mdb.mongodbClient.Database(mdb.dbName).Collection(colName), nil
}

func (mdb *MongodbRepo) SaveEvent(ctx context.Context, userID, eventID uuid.UUID) (*SavedEvents, error) {
	col, err := mdb.GetCollection(SavedEventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}
	now := time.Now()
	key := eventID.String()
	itemPath := fmt.Sprintf("items.%s", key)

	update := bson.M{
		"$set": bson.M{
			"updated_at": now,
			itemPath:     SavedEventItem{EventID: key, SavedAt: now},
		},
		"$setOnInsert": bson.M{
			"user_id":    userID.String(),
			"created_at": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var result SavedEvents
	err = col.FindOneAndUpdate(ctx, bson.M{"user_id": userID.String()}, update, opts).Decode(&result)
	if err != nil {
		return nil, fmt.Errorf("error saving event: %w", err)
	}
	return &result, nil
}

func (mdb *MongodbRepo) UnsaveEvent(ctx context.Context, userID, eventID uuid.UUID) error {
	col, err := mdb.GetCollection(SavedEventsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %w", err)
	}

	update := bson.M{
		"$unset": bson.M{fmt.Sprintf("items.%s", eventID.String()): ""},
		"$set":   bson.M{"updated_at": time.Now()},
	}
	if _, err := col.UpdateOne(ctx, bson.M{"user_id": userID.String()}, update); err != nil {
		return fmt.Errorf("error removing saved event: %w", err)
	}
	return nil
}

func (mdb *MongodbRepo) GetSavedEvents(ctx context.Context, userID uuid.UUID) (*SavedEvents, error) {
	col, err := mdb.GetCollection(SavedEventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	var saved SavedEvents
	err = col.FindOne(ctx, bson.M{"user_id": userID.String()}).Decode(&saved)
	if err == mongo.ErrNoDocuments {
		return &SavedEvents{UserID: userID.String(), Items: map[string]SavedEventItem{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding saved events: %w", err)
	}
	if saved.Items == nil {
		saved.Items = map[string]SavedEventItem{}
	}
	return &saved, nil
}
