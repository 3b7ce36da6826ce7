package persistence

import (
	"context"
	"fmt"
	"time"

	"go-checkout-flow/src/config"
	"go-checkout-flow/src/services/errs"
	"go-checkout-flow/src/services/order/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type OrderRepository struct {
	collection *mongo.Collection
}

// OrderDocument is the storage model for MongoDB
type OrderDocument struct {
	ID              string         `bson:"id"`
	Status          string         `bson:"status"`
	TotalAmount     float64        `bson:"total_amount"`
	ShippingAddress string         `bson:"shipping_address"`
	PhoneNumber     string         `bson:"phone_number"`
	Items           []ItemDocument `bson:"items"`
	CreatedAt       time.Time      `bson:"created_at"`
	UpdatedAt       time.Time      `bson:"updated_at"`
}

type ItemDocument struct {
	ProductID string  `bson:"product_id"`
	Name      string  `bson:"name"`
	Quantity  int     `bson:"quantity"`
	UnitPrice float64 `bson:"unit_price"`
}

func NewOrderRepository(cfg *config.Config, client *mongo.Client) *OrderRepository {
	return &OrderRepository{
		collection: client.Database(cfg.MongoDBDatabaseName).Collection("orders"),
	}
}

func (r *OrderRepository) InsertOrder(ctx context.Context, order *domain.Order) error {
	_, err := r.collection.InsertOne(ctx, toDocument(order))
	return err
}

func (r *OrderRepository) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	var doc OrderDocument
	err := r.collection.FindOne(ctx, bson.M{"id": orderID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("order %s: %w", orderID, errs.ErrNotFound)
		}
		return nil, err
	}
	return toDomain(&doc), nil
}

// SetStatus applies a status transition as a single atomic update
// conditioned on the current status being non-terminal. Re-asserting the
// status an order already has is a no-op; any other transition out of a
// terminal status is ErrConflict. Writes per order are therefore totally
// ordered by the single-document update.
func (r *OrderRepository) SetStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	filter := bson.M{
		"id": orderID,
		"status": bson.M{
			"$nin": domain.TerminalStatuses(),
			"$ne":  string(status),
		},
	}
	update := bson.M{"$set": bson.M{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	}}

	res := r.collection.FindOneAndUpdate(ctx, filter, update)
	if res.Err() == nil {
		return nil
	}
	if res.Err() != mongo.ErrNoDocuments {
		return res.Err()
	}

	// No non-terminal document matched: the order is unknown, already in
	// the requested status, or terminally settled with a different one.
	current, err := r.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if current.Status == status {
		return nil // idempotent re-assertion
	}
	return fmt.Errorf("order %s is already %s, cannot become %s: %w",
		orderID, current.Status, status, errs.ErrConflict)
}

func toDocument(order *domain.Order) *OrderDocument {
	items := make([]ItemDocument, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, ItemDocument{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return &OrderDocument{
		ID:              order.ID,
		Status:          string(order.Status),
		TotalAmount:     order.TotalAmount,
		ShippingAddress: order.ShippingAddress,
		PhoneNumber:     order.PhoneNumber,
		Items:           items,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

func toDomain(doc *OrderDocument) *domain.Order {
	items := make([]domain.OrderItem, 0, len(doc.Items))
	for _, item := range doc.Items {
		items = append(items, domain.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return &domain.Order{
		ID:              doc.ID,
		Status:          domain.OrderStatus(doc.Status),
		TotalAmount:     doc.TotalAmount,
		ShippingAddress: doc.ShippingAddress,
		PhoneNumber:     doc.PhoneNumber,
		Items:           items,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	}
}
