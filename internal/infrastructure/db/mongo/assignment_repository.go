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

type AssignmentRepository struct {
	coll *mongo.Collection
}

func NewAssignmentRepository(db *mongo.Database) *AssignmentRepository {
	return &AssignmentRepository{coll: db.Collection(collectionAssignments)}
}

type mongoAssignment struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	ClassID         string             `bson:"class_id"`
	Title           string             `bson:"title"`
	Description     string             `bson:"description"`
	Deadline        time.Time          `bson:"deadline"`
	SubmissionCount int                `bson:"submission_count"`
	CreatedAt       time.Time          `bson:"created_at"`
}

func (m *mongoAssignment) toDomain() *domain.Assignment {
	return &domain.Assignment{
		ID:              m.ID.Hex(),
		ClassID:         m.ClassID,
		Title:           m.Title,
		Description:     m.Description,
		Deadline:        m.Deadline,
		SubmissionCount: m.SubmissionCount,
		CreatedAt:       m.CreatedAt,
	}
}

func (r *AssignmentRepository) Create(ctx context.Context, a *domain.Assignment) (*domain.Assignment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, mongoAssignment{
		ClassID:         a.ClassID,
		Title:           a.Title,
		Description:     a.Description,
		Deadline:        a.Deadline,
		SubmissionCount: a.SubmissionCount,
		CreatedAt:       a.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("insert assignment: %w", err)
	}

	created := *a
	created.ID = insertedHex(res)
	return &created, nil
}

func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*domain.Assignment, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ma mongoAssignment
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&ma); err != nil {
		return nil, notFound(err, domain.ErrAssignmentNotFound)
	}
	return ma.toDomain(), nil
}

// List returns every assignment, or only those of classID when it is set.
func (r *AssignmentRepository) List(ctx context.Context, classID string) ([]*domain.Assignment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if classID != "" {
		filter["class_id"] = classID
	}

	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	var docs []mongoAssignment
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode assignments: %w", err)
	}

	out := make([]*domain.Assignment, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *AssignmentRepository) IncrementSubmission(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"submission_count": 1}})
	if err != nil {
		return fmt.Errorf("increment submission count: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAssignmentNotFound
	}
	return nil
}
