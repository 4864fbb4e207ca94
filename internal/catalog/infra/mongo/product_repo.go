package mongo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storelab/storefront/internal/catalog/app"
	"github.com/storelab/storefront/internal/catalog/domain"
	"github.com/storelab/storefront/pkg/apierr"
)

type productDoc struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty"`
	Title       string              `bson:"title"`
	Description string              `bson:"description"`
	Code        string              `bson:"code"`
	Price       float64             `bson:"price"`
	Stock       int                 `bson:"stock"`
	CategoryID  *primitive.ObjectID `bson:"category,omitempty"`
	Status      bool                `bson:"status"`
	Owner       string              `bson:"owner"`
	CreatedAt   time.Time           `bson:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at"`
}

func (d productDoc) toDomain() domain.Product {
	p := domain.Product{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Code:        d.Code,
		Price:       d.Price,
		Stock:       d.Stock,
		Status:      d.Status,
		Owner:       d.Owner,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.CategoryID != nil {
		p.CategoryID = d.CategoryID.Hex()
	}
	return p
}

type ProductRepo struct {
	col *mongo.Collection
}

func NewProductRepo(db *mongo.Database) *ProductRepo {
	return &ProductRepo{col: db.Collection("products")}
}

// EnsureIndexes creates the unique product code index. Called once at
// startup.
func (r *ProductRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return errors.Wrap(err, "products index")
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	now := time.Now().UTC()
	doc := productDoc{
		Title:       p.Title,
		Description: p.Description,
		Code:        p.Code,
		Price:       p.Price,
		Stock:       p.Stock,
		Status:      p.Status,
		Owner:       p.Owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.CategoryID != "" {
		catID, err := primitive.ObjectIDFromHex(p.CategoryID)
		if err != nil {
			return domain.Product{}, apierr.BadRequest("Invalid category id", apierr.CodeInvalidInput)
		}
		doc.CategoryID = &catID
	}

	res, err := r.col.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return domain.Product{}, apierr.Conflict("Product code already exists", apierr.CodeDuplicateProductCode)
	}
	if err != nil {
		return domain.Product{}, errors.Wrap(err, "insert product")
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Product{}, apierr.NotFound("Product not found", apierr.CodeProductNotFound)
	}

	var doc productDoc
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Product{}, apierr.NotFound("Product not found", apierr.CodeProductNotFound)
	}
	if err != nil {
		return domain.Product{}, errors.Wrap(err, "find product")
	}
	return doc.toDomain(), nil
}

func (r *ProductRepo) List(ctx context.Context, filter app.ProductFilter) ([]domain.Product, error) {
	query := bson.M{}
	if filter.CategoryID != "" {
		catID, err := primitive.ObjectIDFromHex(filter.CategoryID)
		if err != nil {
			return nil, apierr.BadRequest("Invalid category id", apierr.CodeInvalidInput)
		}
		query["category"] = catID
	}
	if filter.Owner != "" {
		query["owner"] = filter.Owner
	}
	if filter.PriceMin > 0 || filter.PriceMax > 0 {
		price := bson.M{}
		if filter.PriceMin > 0 {
			price["$gte"] = filter.PriceMin
		}
		if filter.PriceMax > 0 {
			price["$lte"] = filter.PriceMax
		}
		query["price"] = price
	}

	opts := options.Find().SetLimit(int64(filter.Limit)).SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}

	var docs []productDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}

	out := make([]domain.Product, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *ProductRepo) Update(ctx context.Context, id string, upd app.ProductUpdate) (domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Product{}, apierr.NotFound("Product not found", apierr.CodeProductNotFound)
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Price != nil {
		set["price"] = *upd.Price
	}
	if upd.Stock != nil {
		set["stock"] = *upd.Stock
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}

	var doc productDoc
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Product{}, apierr.NotFound("Product not found", apierr.CodeProductNotFound)
	}
	if err != nil {
		return domain.Product{}, errors.Wrap(err, "update product")
	}
	return doc.toDomain(), nil
}

// DecrementStock applies the stock settle as a conditional update:
// only matches while stock >= qty, so two racing purchases cannot drive
// the count negative.
func (r *ProductRepo) DecrementStock(ctx context.Context, id string, qty int) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apierr.NotFound("Product not found", apierr.CodeProductNotFound)
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "stock": bson.M{"$gte": qty}},
		bson.M{
			"$inc": bson.M{"stock": -qty},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return errors.Wrap(err, "decrement stock")
	}
	if res.MatchedCount == 0 {
		// Distinguish a vanished product from a stock shortfall.
		if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Err(); errors.Is(err, mongo.ErrNoDocuments) {
			return apierr.NotFound("Product not found", apierr.CodeProductNotFound)
		}
		return apierr.BadRequest("Not enough stock", apierr.CodeInsufficientStock)
	}
	return nil
}
