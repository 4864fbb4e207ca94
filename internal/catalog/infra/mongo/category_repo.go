package mongo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storelab/storefront/internal/catalog/domain"
	"github.com/storelab/storefront/pkg/apierr"
)

type categoryDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	CreatedAt time.Time          `bson:"created_at"`
}

type CategoryRepo struct {
	col *mongo.Collection
}

func NewCategoryRepo(db *mongo.Database) *CategoryRepo {
	return &CategoryRepo{col: db.Collection("categories")}
}

func (r *CategoryRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return errors.Wrap(err, "categories index")
}

func (r *CategoryRepo) Create(ctx context.Context, c domain.Category) (domain.Category, error) {
	doc := categoryDoc{Name: c.Name, CreatedAt: time.Now().UTC()}

	res, err := r.col.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return domain.Category{}, apierr.Conflict("Category name already exists", apierr.CodeDuplicateCategoryName)
	}
	if err != nil {
		return domain.Category{}, errors.Wrap(err, "insert category")
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return domain.Category{ID: doc.ID.Hex(), Name: doc.Name, CreatedAt: doc.CreatedAt}, nil
}

func (r *CategoryRepo) Get(ctx context.Context, id string) (domain.Category, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Category{}, apierr.NotFound("Category not found", apierr.CodeCategoryNotFound)
	}

	var doc categoryDoc
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Category{}, apierr.NotFound("Category not found", apierr.CodeCategoryNotFound)
	}
	if err != nil {
		return domain.Category{}, errors.Wrap(err, "find category")
	}
	return domain.Category{ID: doc.ID.Hex(), Name: doc.Name, CreatedAt: doc.CreatedAt}, nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "list categories")
	}

	var docs []categoryDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decode categories")
	}

	out := make([]domain.Category, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.Category{ID: d.ID.Hex(), Name: d.Name, CreatedAt: d.CreatedAt})
	}
	return out, nil
}
