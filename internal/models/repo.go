package models

import (
	"github.com/go-playground/validator/v10"
	"github.com/joshua-takyi/bashbay-events/internal/store"
	"go.mongodb.org/mongo-driver/mongo"
)

var Validate = validator.New()

const (
	EventsTable   = "events"
	BookingsTable = "event_service_bookings"
	ProfileTable  = "profiles"

	BookingTotalProc = "calculate_event_booking_total_cost"
)

// SupabaseRepo implements the relational repositories on top of the remote store.
type SupabaseRepo struct {
	db store.Store
}

func SupabaseNewRepo(db store.Store) *SupabaseRepo {
	return &SupabaseRepo{
		db: db,
	}
}

type MongodbRepo struct {
	mongodbClient *mongo.Client
	dbName        string
}

func MongodbNewRepo(mongodbClient *mongo.Client, dbName string) *MongodbRepo {
	if dbName == "" {
		dbName = DefaultMongoDB
	}
	return &MongodbRepo{
		mongodbClient: mongodbClient,
		dbName:        dbName,
	}
}
