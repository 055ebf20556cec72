package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/learncraft/learncraft-api/internal/core/domain"
)

type FeedbackRepository struct {
	coll *mongo.Collection
}

func NewFeedbackRepository(db *mongo.Database) *FeedbackRepository {
	return &FeedbackRepository{coll: db.Collection(collectionFeedbacks)}
}

type mongoFeedback struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	ClassID     string             `bson:"class_id"`
	Email       string             `bson:"email"`
	Name        string             `bson:"name"`
	Rating      int                `bson:"rating"`
	Description string             `bson:"description"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (r *FeedbackRepository) Create(ctx context.Context, f *domain.Feedback) (*domain.Feedback, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, mongoFeedback{
		ClassID:     f.ClassID,
		Email:       f.Email,
		Name:        f.Name,
		Rating:      f.Rating,
		Description: f.Description,
		CreatedAt:   f.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("insert feedback: %w", err)
	}

	created := *f
	created.ID = insertedHex(res)
	return &created, nil
}

// List returns feedback newest first, optionally for one class.
func (r *FeedbackRepository) List(ctx context.Context, classID string) ([]*domain.Feedback, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if classID != "" {
		filter["class_id"] = classID
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	var docs []mongoFeedback
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode feedback: %w", err)
	}

	out := make([]*domain.Feedback, 0, len(docs))
	for _, d := range docs {
		out = append(out, &domain.Feedback{
			ID:          d.ID.Hex(),
			ClassID:     d.ClassID,
			Email:       d.Email,
			Name:        d.Name,
			Rating:      d.Rating,
			Description: d.Description,
			CreatedAt:   d.CreatedAt,
		})
	}
	return out, nil
}
