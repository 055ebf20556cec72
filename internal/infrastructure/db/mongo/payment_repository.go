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

// PaymentRepository is append-only.
type PaymentRepository struct {
	coll *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{coll: db.Collection(collectionPayments)}
}

type mongoPayment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Email         string             `bson:"email"`
	Amount        float64            `bson:"amount"`
	TransactionID string             `bson:"transaction_id,omitempty"`
	ClassIDs      []string           `bson:"class_ids"`
	CartIDs       []string           `bson:"cart_ids"`
	Method        bson.M             `bson:"method,omitempty"`
	Status        string             `bson:"status"`
	CreatedAt     time.Time          `bson:"created_at"`
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, mongoPayment{
		Email:         p.Email,
		Amount:        p.Amount,
		TransactionID: p.TransactionID,
		ClassIDs:      p.ClassIDs,
		CartIDs:       p.CartIDs,
		Method:        bson.M(p.Method),
		Status:        p.Status,
		CreatedAt:     p.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}

	created := *p
	created.ID = insertedHex(res)
	return &created, nil
}

func (r *PaymentRepository) ListByEmail(ctx context.Context, email string) ([]*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"email": email}, opts)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	var docs []mongoPayment
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode payments: %w", err)
	}

	out := make([]*domain.Payment, 0, len(docs))
	for _, d := range docs {
		out = append(out, &domain.Payment{
			ID:            d.ID.Hex(),
			Email:         d.Email,
			Amount:        d.Amount,
			TransactionID: d.TransactionID,
			ClassIDs:      d.ClassIDs,
			CartIDs:       d.CartIDs,
			Method:        map[string]any(d.Method),
			Status:        d.Status,
			CreatedAt:     d.CreatedAt,
		})
	}
	return out, nil
}
