package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/learncraft/learncraft-api/internal/core/domain"
	"github.com/learncraft/learncraft-api/internal/core/ports"
)

type ClassRepository struct {
	coll *mongo.Collection
}

func NewClassRepository(db *mongo.Database) *ClassRepository {
	return &ClassRepository{coll: db.Collection(collectionClasses)}
}

type mongoClass struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Title           string             `bson:"title"`
	Price           float64            `bson:"price"`
	Description     string             `bson:"description"`
	Image           string             `bson:"image"`
	InstructorName  string             `bson:"instructor_name"`
	InstructorEmail string             `bson:"instructor_email"`
	Status          string             `bson:"status"`
	EnrollmentCount int                `bson:"enrollment_count"`
	AssignmentCount int                `bson:"assignment_count"`
	CreatedAt       time.Time          `bson:"created_at"`
}

func (m *mongoClass) toDomain() *domain.Class {
	return &domain.Class{
		ID:              m.ID.Hex(),
		Title:           m.Title,
		Price:           m.Price,
		Description:     m.Description,
		Image:           m.Image,
		InstructorName:  m.InstructorName,
		InstructorEmail: m.InstructorEmail,
		Status:          domain.ModerationStatus(m.Status),
		EnrollmentCount: m.EnrollmentCount,
		AssignmentCount: m.AssignmentCount,
		CreatedAt:       m.CreatedAt,
	}
}

func (r *ClassRepository) Create(ctx context.Context, c *domain.Class) (*domain.Class, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, mongoClass{
		Title:           c.Title,
		Price:           c.Price,
		Description:     c.Description,
		Image:           c.Image,
		InstructorName:  c.InstructorName,
		InstructorEmail: c.InstructorEmail,
		Status:          string(c.Status),
		EnrollmentCount: c.EnrollmentCount,
		AssignmentCount: c.AssignmentCount,
		CreatedAt:       c.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("insert class: %w", err)
	}

	created := *c
	created.ID = insertedHex(res)
	return &created, nil
}

func (r *ClassRepository) FindByID(ctx context.Context, id string) (*domain.Class, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mc mongoClass
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mc); err != nil {
		return nil, notFound(err, domain.ErrClassNotFound)
	}
	return mc.toDomain(), nil
}

func (r *ClassRepository) List(ctx context.Context, f ports.ClassFilter) ([]*domain.Class, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, opts := classQuery(f)
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	var docs []mongoClass
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode classes: %w", err)
	}

	classes := make([]*domain.Class, 0, len(docs))
	for i := range docs {
		classes = append(classes, docs[i].toDomain())
	}
	return classes, nil
}

// classQuery translates a filter into a find filter and options. The title
// term is regex-escaped so user input always matches literally.
func classQuery(f ports.ClassFilter) (bson.M, *options.FindOptions) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.InstructorEmail != "" {
		filter["instructor_email"] = f.InstructorEmail
	}
	if f.TitleSearch != "" {
		filter["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.TitleSearch), Options: "i"}
	}
	if f.MinEnrollment > 0 {
		filter["enrollment_count"] = bson.M{"$gte": f.MinEnrollment}
	}

	opts := options.Find()
	if f.SortBy != "" {
		dir := 1
		if f.SortDesc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: f.SortBy, Value: dir}})
	}
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}
	return filter, opts
}

func (r *ClassRepository) Update(ctx context.Context, id string, p domain.ClassPatch) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{
		"title":       p.Title,
		"price":       p.Price,
		"description": p.Description,
		"image":       p.Image,
	}})
}

func (r *ClassRepository) SetStatus(ctx context.Context, id string, status domain.ModerationStatus) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"status": string(status)}})
}

func (r *ClassRepository) IncrementEnrollment(ctx context.Context, id string) error {
	return r.updateOne(ctx, id, bson.M{"$inc": bson.M{"enrollment_count": 1}})
}

func (r *ClassRepository) IncrementAssignment(ctx context.Context, id string) error {
	return r.updateOne(ctx, id, bson.M{"$inc": bson.M{"assignment_count": 1}})
}

// updateOne reports NotFound by matched count, so re-applying an identical
// update still succeeds.
func (r *ClassRepository) updateOne(ctx context.Context, id string, update bson.M) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrClassNotFound
	}
	return nil
}

func (r *ClassRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrClassNotFound
	}
	return nil
}
