package mongo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storelab/storefront/internal/user/domain"
	"github.com/storelab/storefront/pkg/apierr"
)

type userDoc struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty"`
	FirstName    string              `bson:"first_name"`
	LastName     string              `bson:"last_name"`
	Email        string              `bson:"email"`
	PasswordHash string              `bson:"password"`
	Role         string              `bson:"role"`
	CartID       *primitive.ObjectID `bson:"cart,omitempty"`
	CreatedAt    time.Time           `bson:"created_at"`
	UpdatedAt    time.Time           `bson:"updated_at"`
}

func (d userDoc) toDomain() domain.User {
	u := domain.User{
		ID:           d.ID.Hex(),
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         d.Role,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if d.CartID != nil {
		u.CartID = d.CartID.Hex()
	}
	return u
}

type UserRepo struct {
	col *mongo.Collection
}

func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{col: db.Collection("users")}
}

func (r *UserRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return errors.Wrap(err, "users index")
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	now := time.Now().UTC()
	doc := userDoc{
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if u.CartID != "" {
		cartID, err := primitive.ObjectIDFromHex(u.CartID)
		if err != nil {
			return domain.User{}, apierr.NotFound("Cart not found", apierr.CodeCartNotFound)
		}
		doc.CartID = &cartID
	}

	res, err := r.col.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return domain.User{}, apierr.Conflict("Email already registered", apierr.CodeDuplicateEmail)
	}
	if err != nil {
		return domain.User{}, errors.Wrap(err, "insert user")
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *UserRepo) Get(ctx context.Context, id string) (domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.User{}, apierr.NotFound("User not found", apierr.CodeUserNotFound)
	}

	var doc userDoc
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.User{}, apierr.NotFound("User not found", apierr.CodeUserNotFound)
	}
	if err != nil {
		return domain.User{}, errors.Wrap(err, "find user")
	}
	return doc.toDomain(), nil
}

func (r *UserRepo) SetActiveCart(ctx context.Context, userID, cartID string) (domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.User{}, apierr.NotFound("User not found", apierr.CodeUserNotFound)
	}
	cid, err := primitive.ObjectIDFromHex(cartID)
	if err != nil {
		return domain.User{}, apierr.NotFound("Cart not found", apierr.CodeCartNotFound)
	}

	var doc userDoc
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"cart": cid, "updated_at": time.Now().UTC()}},
		opts,
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.User{}, apierr.NotFound("User not found", apierr.CodeUserNotFound)
	}
	if err != nil {
		return domain.User{}, errors.Wrap(err, "repoint user cart")
	}
	return doc.toDomain(), nil
}
