package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/learncraft/learncraft-api/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

const (
	collectionUsers       = "users"
	collectionClasses     = "classes"
	collectionTeachers    = "teachers"
	collectionAssignments = "assignments"
	collectionSubmissions = "submissions"
	collectionCarts       = "carts"
	collectionEnrollments = "enrollments"
	collectionPayments    = "payments"
	collectionFeedbacks   = "feedbacks"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// EnsureIndexes creates the unique indexes the services rely on for
// idempotency plus the lookup indexes of the hot queries. It also creates
// every collection up front, which multi-document transactions require.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)
	indexes := map[string][]mongo.IndexModel{
		collectionUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		collectionClasses: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "price", Value: 1}}},
			{Keys: bson.D{{Key: "instructor_email", Value: 1}}},
			{Keys: bson.D{{Key: "enrollment_count", Value: -1}}},
		},
		collectionTeachers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		collectionAssignments: {
			{Keys: bson.D{{Key: "class_id", Value: 1}}},
		},
		collectionSubmissions: {
			{Keys: bson.D{{Key: "assignment_id", Value: 1}, {Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "email", Value: 1}}},
		},
		collectionCarts: {
			{Keys: bson.D{{Key: "email", Value: 1}}},
		},
		collectionEnrollments: {
			{Keys: bson.D{{Key: "class_id", Value: 1}, {Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "email", Value: 1}}},
		},
		collectionPayments: {
			{Keys: bson.D{{Key: "email", Value: 1}}},
		},
		collectionFeedbacks: {
			{Keys: bson.D{{Key: "class_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// objectID parses a hex id. Malformed ids never reach the store.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrInvalidID
	}
	return oid, nil
}

// insertedHex returns the hex form of the _id generated by InsertOne.
func insertedHex(res *mongo.InsertOneResult) string {
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprint(res.InsertedID)
}

// notFound maps mongo.ErrNoDocuments to the entity-specific domain error.
func notFound(err, target error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return target
	}
	return err
}
