package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// cartDocument is the stored shape of a cart. Money is kept as decimal
// strings since the driver has no codec for decimal.Decimal.
type cartDocument struct {
	UserID    string         `bson:"user_id"`
	Items     []itemDocument `bson:"items"`
	Wishlist  []string       `bson:"wishlist"`
	PromoCode string         `bson:"promo_code,omitempty"`
	CreatedAt time.Time      `bson:"created_at"`
	UpdatedAt time.Time      `bson:"updated_at"`
}

type itemDocument struct {
	ProductID     string    `bson:"product_id"`
	Name          string    `bson:"name"`
	Description   string    `bson:"description"`
	Price         string    `bson:"price"`
	OriginalPrice string    `bson:"original_price,omitempty"`
	ImageURL      string    `bson:"image_url"`
	Rating        float64   `bson:"rating"`
	Reviews       int       `bson:"reviews"`
	Category      string    `bson:"category"`
	Subcategory   string    `bson:"subcategory"`
	IsNew         bool      `bson:"is_new"`
	IsSale        bool      `bson:"is_sale"`
	Discount      int       `bson:"discount,omitempty"`
	Features      []string  `bson:"features"`
	InStock       bool      `bson:"in_stock"`
	StockCount    int       `bson:"stock_count"`
	Quantity      int       `bson:"quantity"`
	AddedAt       time.Time `bson:"added_at"`
}

type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		collection: db.Collection("carts"),
	}
}

func (m *MongoRepository) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	var doc cartDocument

	err := m.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return fromDocument(doc)
}

func (m *MongoRepository) UpsertCart(ctx context.Context, c *domain.Cart) error {
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}

	filter := bson.M{"user_id": c.UserID}
	update := bson.M{"$set": toDocument(c)}
	opts := options.Update().SetUpsert(true)

	if _, err := m.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert cart: %w", err)
	}
	return nil
}

func (m *MongoRepository) DeleteCart(ctx context.Context, userID string) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrCartNotFound
	}
	return nil
}

func (m *MongoRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(90 * 24 * 60 * 60), // 90 days TTL
		},
	}

	if _, err := m.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func toDocument(c *domain.Cart) cartDocument {
	doc := cartDocument{
		UserID:    c.UserID,
		Items:     make([]itemDocument, 0, len(c.Items)),
		Wishlist:  c.Wishlist,
		PromoCode: c.PromoCode,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if doc.Wishlist == nil {
		doc.Wishlist = []string{}
	}
	for _, i := range c.Items {
		d := itemDocument{
			ProductID:   i.Product.ID,
			Name:        i.Product.Name,
			Description: i.Product.Description,
			Price:       i.Product.Price.String(),
			ImageURL:    i.Product.ImageURL,
			Rating:      i.Product.Rating,
			Reviews:     i.Product.Reviews,
			Category:    i.Product.Category,
			Subcategory: i.Product.Subcategory,
			IsNew:       i.Product.IsNew,
			IsSale:      i.Product.IsSale,
			Discount:    i.Product.Discount,
			Features:    i.Product.Features,
			InStock:     i.Product.InStock,
			StockCount:  i.Product.StockCount,
			Quantity:    i.Quantity,
			AddedAt:     i.AddedAt,
		}
		if i.Product.OriginalPrice != nil {
			d.OriginalPrice = i.Product.OriginalPrice.String()
		}
		doc.Items = append(doc.Items, d)
	}
	return doc
}

func fromDocument(doc cartDocument) (*domain.Cart, error) {
	c := &domain.Cart{
		UserID:    doc.UserID,
		Items:     make([]domain.CartItem, 0, len(doc.Items)),
		Wishlist:  doc.Wishlist,
		PromoCode: doc.PromoCode,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
	if c.Wishlist == nil {
		c.Wishlist = []string{}
	}
	for _, d := range doc.Items {
		price, err := decimal.NewFromString(d.Price)
		if err != nil {
			return nil, fmt.Errorf("bad price for product %s: %w", d.ProductID, err)
		}
		p := domain.Product{
			ID:          d.ProductID,
			Name:        d.Name,
			Description: d.Description,
			Price:       price,
			ImageURL:    d.ImageURL,
			Rating:      d.Rating,
			Reviews:     d.Reviews,
			Category:    d.Category,
			Subcategory: d.Subcategory,
			IsNew:       d.IsNew,
			IsSale:      d.IsSale,
			Discount:    d.Discount,
			Features:    d.Features,
			InStock:     d.InStock,
			StockCount:  d.StockCount,
		}
		if d.OriginalPrice != "" {
			orig, err := decimal.NewFromString(d.OriginalPrice)
			if err != nil {
				return nil, fmt.Errorf("bad original price for product %s: %w", d.ProductID, err)
			}
			p.OriginalPrice = &orig
		}
		c.Items = append(c.Items, domain.CartItem{Product: p, Quantity: d.Quantity, AddedAt: d.AddedAt})
	}
	return c, nil
}
