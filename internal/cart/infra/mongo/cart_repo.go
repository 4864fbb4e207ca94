package mongo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storelab/storefront/internal/cart/domain"
	"github.com/storelab/storefront/pkg/apierr"
)

type lineItemDoc struct {
	ProductID primitive.ObjectID `bson:"product"`
	Quantity  int                `bson:"quantity"`
}

type cartDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Items     []lineItemDoc      `bson:"items"`
	IsActive  bool               `bson:"is_active"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d cartDoc) toDomain() domain.Cart {
	cart := domain.Cart{
		ID:        d.ID.Hex(),
		IsActive:  d.IsActive,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		Items:     make([]domain.LineItem, 0, len(d.Items)),
	}
	for _, item := range d.Items {
		cart.Items = append(cart.Items, domain.LineItem{
			ProductID: item.ProductID.Hex(),
			Quantity:  item.Quantity,
		})
	}
	return cart
}

type CartRepo struct {
	col *mongo.Collection
}

func NewCartRepo(db *mongo.Database) *CartRepo {
	return &CartRepo{col: db.Collection("carts")}
}

func (r *CartRepo) Create(ctx context.Context) (domain.Cart, error) {
	now := time.Now().UTC()
	doc := cartDoc{
		Items:     []lineItemDoc{},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return domain.Cart{}, errors.Wrap(err, "insert cart")
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *CartRepo) Get(ctx context.Context, cartID string) (domain.Cart, error) {
	oid, err := primitive.ObjectIDFromHex(cartID)
	if err != nil {
		return domain.Cart{}, apierr.NotFound("Cart not found", apierr.CodeCartNotFound)
	}

	var doc cartDoc
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Cart{}, apierr.NotFound("Cart not found", apierr.CodeCartNotFound)
	}
	if err != nil {
		return domain.Cart{}, errors.Wrap(err, "find cart")
	}
	return doc.toDomain(), nil
}

// AddItem increments the line quantity when the product is already in
// the cart, appends a quantity-1 line otherwise. Both paths are single
// conditional updates, so two concurrent adds of the same product end
// up as one line with the summed quantity.
func (r *CartRepo) AddItem(ctx context.Context, cartID, productID string) (domain.Cart, error) {
	oid, err := primitive.ObjectIDFromHex(cartID)
	if err != nil {
		return domain.Cart{}, apierr.NotFound("Cart not found", apierr.CodeCartNotFound)
	}
	pid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return domain.Cart{}, apierr.NotFound("Product not found", apierr.CodeProductNotFound)
	}

	now := time.Now().UTC()
	for attempt := 0; attempt < 3; attempt++ {
		res, err := r.col.UpdateOne(ctx,
			bson.M{"_id": oid, "is_active": true, "items.product": pid},
			bson.M{
				"$inc": bson.M{"items.$.quantity": 1},
				"$set": bson.M{"updated_at": now},
			},
		)
		if err != nil {
			return domain.Cart{}, errors.Wrap(err, "increment cart item")
		}
		if res.MatchedCount == 1 {
			return r.Get(ctx, cartID)
		}

		res, err = r.col.UpdateOne(ctx,
			bson.M{"_id": oid, "is_active": true, "items.product": bson.M{"$ne": pid}},
			bson.M{
				"$push": bson.M{"items": lineItemDoc{ProductID: pid, Quantity: 1}},
				"$set":  bson.M{"updated_at": now},
			},
		)
		if err != nil {
			return domain.Cart{}, errors.Wrap(err, "push cart item")
		}
		if res.MatchedCount == 1 {
			return r.Get(ctx, cartID)
		}

		// Neither update matched: the cart is gone, closed, or a
		// concurrent add raced us between the two updates. Re-check
		// and retry in the latter case.
		var doc cartDoc
		err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Cart{}, apierr.NotFound("Cart not found", apierr.CodeCartNotFound)
		}
		if err != nil {
			return domain.Cart{}, errors.Wrap(err, "find cart")
		}
		if !doc.IsActive {
			return domain.Cart{}, apierr.BadRequest("Cart is no longer active", apierr.CodeCartInactive)
		}
	}
	return domain.Cart{}, errors.New("add cart item: retries exhausted")
}

func (r *CartRepo) Deactivate(ctx context.Context, cartID string) (domain.Cart, error) {
	oid, err := primitive.ObjectIDFromHex(cartID)
	if err != nil {
		return domain.Cart{}, apierr.NotFound("Cart not found", apierr.CodeCartNotFound)
	}

	var doc cartDoc
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now().UTC()}},
		opts,
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Cart{}, apierr.NotFound("Cart not found", apierr.CodeCartNotFound)
	}
	if err != nil {
		return domain.Cart{}, errors.Wrap(err, "deactivate cart")
	}
	return doc.toDomain(), nil
}
