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

// EnrollmentRepository is backed by a unique (class_id, email) index. That
// index, not the lookup, is what guarantees one enrollment per pair.
type EnrollmentRepository struct {
	coll *mongo.Collection
}

func NewEnrollmentRepository(db *mongo.Database) *EnrollmentRepository {
	return &EnrollmentRepository{coll: db.Collection(collectionEnrollments)}
}

type mongoEnrollment struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Email           string             `bson:"email"`
	ClassID         string             `bson:"class_id"`
	Title           string             `bson:"title"`
	Price           float64            `bson:"price"`
	InstructorName  string             `bson:"instructor_name"`
	Image           string             `bson:"image"`
	AssignmentCount int                `bson:"assignment_count"`
	EnrolledAt      time.Time          `bson:"enrolled_at"`
}

func (m *mongoEnrollment) toDomain() *domain.Enrollment {
	return &domain.Enrollment{
		ID:              m.ID.Hex(),
		Email:           m.Email,
		ClassID:         m.ClassID,
		Title:           m.Title,
		Price:           m.Price,
		InstructorName:  m.InstructorName,
		Image:           m.Image,
		AssignmentCount: m.AssignmentCount,
		EnrolledAt:      m.EnrolledAt,
	}
}

func (r *EnrollmentRepository) Create(ctx context.Context, e *domain.Enrollment) (*domain.Enrollment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, mongoEnrollment{
		Email:           e.Email,
		ClassID:         e.ClassID,
		Title:           e.Title,
		Price:           e.Price,
		InstructorName:  e.InstructorName,
		Image:           e.Image,
		AssignmentCount: e.AssignmentCount,
		EnrolledAt:      e.EnrolledAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("insert enrollment: %w", err)
	}

	created := *e
	created.ID = insertedHex(res)
	return &created, nil
}

func (r *EnrollmentRepository) FindByClassAndEmail(ctx context.Context, classID, email string) (*domain.Enrollment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var me mongoEnrollment
	if err := r.coll.FindOne(ctx, bson.M{"class_id": classID, "email": email}).Decode(&me); err != nil {
		return nil, notFound(err, domain.ErrEnrollmentNotFound)
	}
	return me.toDomain(), nil
}

func (r *EnrollmentRepository) ListByEmail(ctx context.Context, email string) ([]*domain.Enrollment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "enrolled_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"email": email}, opts)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	var docs []mongoEnrollment
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode enrollments: %w", err)
	}

	out := make([]*domain.Enrollment, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}
