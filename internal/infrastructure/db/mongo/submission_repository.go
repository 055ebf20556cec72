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

// SubmissionRepository relies on the unique (assignment_id, email) index
// created by EnsureIndexes to reject repeated submissions.
type SubmissionRepository struct {
	coll *mongo.Collection
}

func NewSubmissionRepository(db *mongo.Database) *SubmissionRepository {
	return &SubmissionRepository{coll: db.Collection(collectionSubmissions)}
}

type mongoSubmission struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	AssignmentID string             `bson:"assignment_id"`
	ClassID      string             `bson:"class_id"`
	Email        string             `bson:"email"`
	Content      string             `bson:"content"`
	CreatedAt    time.Time          `bson:"created_at"`
}

func (r *SubmissionRepository) Create(ctx context.Context, s *domain.Submission) (*domain.Submission, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, mongoSubmission{
		AssignmentID: s.AssignmentID,
		ClassID:      s.ClassID,
		Email:        s.Email,
		Content:      s.Content,
		CreatedAt:    s.CreatedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateSubmission
		}
		return nil, fmt.Errorf("insert submission: %w", err)
	}

	created := *s
	created.ID = insertedHex(res)
	return &created, nil
}

func (r *SubmissionRepository) FindByAssignmentAndEmail(ctx context.Context, assignmentID, email string) (*domain.Submission, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ms mongoSubmission
	err := r.coll.FindOne(ctx, bson.M{"assignment_id": assignmentID, "email": email}).Decode(&ms)
	if err != nil {
		return nil, notFound(err, domain.ErrSubmissionNotFound)
	}
	return &domain.Submission{
		ID:           ms.ID.Hex(),
		AssignmentID: ms.AssignmentID,
		ClassID:      ms.ClassID,
		Email:        ms.Email,
		Content:      ms.Content,
		CreatedAt:    ms.CreatedAt,
	}, nil
}

func (r *SubmissionRepository) CountByEmail(ctx context.Context, email string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return n, nil
}
