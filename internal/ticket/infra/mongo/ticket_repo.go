package mongo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storelab/storefront/internal/ticket/domain"
	"github.com/storelab/storefront/pkg/apierr"
)

type lineDoc struct {
	ProductID primitive.ObjectID `bson:"product_id"`
	Title     string             `bson:"title"`
	Price     float64            `bson:"price"`
	Quantity  int                `bson:"quantity"`
}

type ticketDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	BuyerID   primitive.ObjectID `bson:"buyer_id"`
	CartID    primitive.ObjectID `bson:"cart_id"`
	Lines     []lineDoc          `bson:"lines"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d ticketDoc) toDomain() domain.Ticket {
	t := domain.Ticket{
		ID:        d.ID.Hex(),
		BuyerID:   d.BuyerID.Hex(),
		CartID:    d.CartID.Hex(),
		CreatedAt: d.CreatedAt,
		Lines:     make([]domain.Line, 0, len(d.Lines)),
	}
	for _, l := range d.Lines {
		t.Lines = append(t.Lines, domain.Line{
			ProductID: l.ProductID.Hex(),
			Title:     l.Title,
			Price:     l.Price,
			Quantity:  l.Quantity,
		})
	}
	return t
}

type TicketRepo struct {
	col *mongo.Collection
}

func NewTicketRepo(db *mongo.Database) *TicketRepo {
	return &TicketRepo{col: db.Collection("tickets")}
}

func (r *TicketRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "buyer_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return errors.Wrap(err, "tickets index")
}

func (r *TicketRepo) Append(ctx context.Context, t domain.Ticket) (domain.Ticket, error) {
	buyerID, err := primitive.ObjectIDFromHex(t.BuyerID)
	if err != nil {
		return domain.Ticket{}, apierr.NotFound("User not found", apierr.CodeUserNotFound)
	}
	cartID, err := primitive.ObjectIDFromHex(t.CartID)
	if err != nil {
		return domain.Ticket{}, apierr.NotFound("Cart not found", apierr.CodeCartNotFound)
	}

	doc := ticketDoc{
		BuyerID:   buyerID,
		CartID:    cartID,
		CreatedAt: time.Now().UTC(),
		Lines:     make([]lineDoc, 0, len(t.Lines)),
	}
	for _, l := range t.Lines {
		pid, err := primitive.ObjectIDFromHex(l.ProductID)
		if err != nil {
			return domain.Ticket{}, apierr.NotFound("Product not found", apierr.CodeProductNotFound)
		}
		doc.Lines = append(doc.Lines, lineDoc{
			ProductID: pid,
			Title:     l.Title,
			Price:     l.Price,
			Quantity:  l.Quantity,
		})
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return domain.Ticket{}, errors.Wrap(err, "insert ticket")
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *TicketRepo) FindByBuyer(ctx context.Context, buyerID string) ([]domain.Ticket, error) {
	oid, err := primitive.ObjectIDFromHex(buyerID)
	if err != nil {
		return nil, apierr.NotFound("User not found", apierr.CodeUserNotFound)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"buyer_id": oid}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find tickets")
	}

	var docs []ticketDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decode tickets")
	}

	out := make([]domain.Ticket, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// SalesBySeller joins ticket lines against the products collection and
// sums the lines owned by the seller.
func (r *TicketRepo) SalesBySeller(ctx context.Context, sellerID string) (domain.SalesSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$lines"}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "products",
			"localField":   "lines.product_id",
			"foreignField": "_id",
			"as":           "product",
		}}},
		{{Key: "$unwind", Value: "$product"}},
		{{Key: "$match", Value: bson.M{"product.owner": sellerID}}},
		{{Key: "$group", Value: bson.M{
			"_id": "$_id",
			"amount": bson.M{"$sum": bson.M{
				"$multiply": bson.A{"$lines.price", "$lines.quantity"},
			}},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":           nil,
			"total_tickets": bson.M{"$sum": 1},
			"total_amount":  bson.M{"$sum": "$amount"},
		}}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return domain.SalesSummary{}, errors.Wrap(err, "aggregate sales")
	}

	var rows []struct {
		TotalTickets int64   `bson:"total_tickets"`
		TotalAmount  float64 `bson:"total_amount"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return domain.SalesSummary{}, errors.Wrap(err, "decode sales")
	}
	if len(rows) == 0 {
		return domain.SalesSummary{}, nil
	}
	return domain.SalesSummary{
		TotalTickets: rows[0].TotalTickets,
		TotalAmount:  rows[0].TotalAmount,
	}, nil
}
