package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/learncraft/learncraft-api/internal/core/domain"
)

type CartRepository struct {
	coll *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{coll: db.Collection(collectionCarts)}
}

type mongoCartEntry struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Email          string             `bson:"email"`
	ClassID        string             `bson:"class_id"`
	Title          string             `bson:"title"`
	Price          float64            `bson:"price"`
	Image          string             `bson:"image"`
	InstructorName string             `bson:"instructor_name"`
	CreatedAt      time.Time          `bson:"created_at"`
}

func (r *CartRepository) Create(ctx context.Context, e *domain.CartEntry) (*domain.CartEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, mongoCartEntry{
		Email:          e.Email,
		ClassID:        e.ClassID,
		Title:          e.Title,
		Price:          e.Price,
		Image:          e.Image,
		InstructorName: e.InstructorName,
		CreatedAt:      e.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("insert cart entry: %w", err)
	}

	created := *e
	created.ID = insertedHex(res)
	return &created, nil
}

func (r *CartRepository) ListByEmail(ctx context.Context, email string) ([]*domain.CartEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	var docs []mongoCartEntry
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}

	out := make([]*domain.CartEntry, 0, len(docs))
	for _, d := range docs {
		out = append(out, &domain.CartEntry{
			ID:             d.ID.Hex(),
			Email:          d.Email,
			ClassID:        d.ClassID,
			Title:          d.Title,
			Price:          d.Price,
			Image:          d.Image,
			InstructorName: d.InstructorName,
			CreatedAt:      d.CreatedAt,
		})
	}
	return out, nil
}

// Delete matches on id and email so one user cannot remove another's entry.
func (r *CartRepository) Delete(ctx context.Context, id, email string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid, "email": email})
	if err != nil {
		return fmt.Errorf("delete cart entry: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCartEntryNotFound
	}
	return nil
}

// DeleteMany removes every entry of email whose id is listed. Malformed ids
// cannot match a document and are skipped.
func (r *CartRepository) DeleteMany(ctx context.Context, email string, ids []string) (int64, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": oids}, "email": email})
	if err != nil {
		return 0, fmt.Errorf("delete cart entries: %w", err)
	}
	return res.DeletedCount, nil
}
