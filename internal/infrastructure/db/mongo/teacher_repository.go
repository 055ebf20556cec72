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

type TeacherRepository struct {
	coll *mongo.Collection
}

func NewTeacherRepository(db *mongo.Database) *TeacherRepository {
	return &TeacherRepository{coll: db.Collection(collectionTeachers)}
}

type mongoTeacher struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       string             `bson:"name"`
	Email      string             `bson:"email"`
	Image      string             `bson:"image,omitempty"`
	Title      string             `bson:"title"`
	Experience string             `bson:"experience"`
	Category   string             `bson:"category"`
	Status     string             `bson:"status"`
	CreatedAt  time.Time          `bson:"created_at"`
}

func (m *mongoTeacher) toDomain() *domain.TeacherApplication {
	return &domain.TeacherApplication{
		ID:         m.ID.Hex(),
		Name:       m.Name,
		Email:      m.Email,
		Image:      m.Image,
		Title:      m.Title,
		Experience: m.Experience,
		Category:   m.Category,
		Status:     domain.ModerationStatus(m.Status),
		CreatedAt:  m.CreatedAt,
	}
}

func (r *TeacherRepository) Create(ctx context.Context, app *domain.TeacherApplication) (*domain.TeacherApplication, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, mongoTeacher{
		Name:       app.Name,
		Email:      app.Email,
		Image:      app.Image,
		Title:      app.Title,
		Experience: app.Experience,
		Category:   app.Category,
		Status:     string(app.Status),
		CreatedAt:  app.CreatedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrApplicationExists
		}
		return nil, fmt.Errorf("insert teacher application: %w", err)
	}

	created := *app
	created.ID = insertedHex(res)
	return &created, nil
}

func (r *TeacherRepository) FindByEmail(ctx context.Context, email string) (*domain.TeacherApplication, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mt mongoTeacher
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&mt); err != nil {
		return nil, notFound(err, domain.ErrTeacherNotFound)
	}
	return mt.toDomain(), nil
}

func (r *TeacherRepository) List(ctx context.Context) ([]*domain.TeacherApplication, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list teacher applications: %w", err)
	}
	var docs []mongoTeacher
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode teacher applications: %w", err)
	}

	apps := make([]*domain.TeacherApplication, 0, len(docs))
	for i := range docs {
		apps = append(apps, docs[i].toDomain())
	}
	return apps, nil
}

func (r *TeacherRepository) SetStatus(ctx context.Context, id string, status domain.ModerationStatus) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"status": string(status)}})
	if err != nil {
		return fmt.Errorf("set teacher status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTeacherNotFound
	}
	return nil
}
