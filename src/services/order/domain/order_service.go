package domain

import (
	"context"
	"fmt"
	"time"

	"go-checkout-flow/src/infrastructure/log"
	"go-checkout-flow/src/services/catalog"
	"go-checkout-flow/src/services/errs"

	"github.com/google/uuid"
)

// ProductCatalog is the slice of the catalog the order service needs for
// validation and pricing.
type ProductCatalog interface {
	GetProduct(ctx context.Context, productID string) (*catalog.Product, error)
}

// OrderStore persists orders. Implemented by persistence.OrderRepository.
type OrderStore interface {
	InsertOrder(ctx context.Context, order *Order) error
	GetOrder(ctx context.Context, orderID string) (*Order, error)
}

type OrderService interface {
	CreateOrder(ctx context.Context, draft OrderDraft) (string, error)
	GetOrder(ctx context.Context, orderID string) (*Order, error)
}

type orderService struct {
	logger  log.Logger
	catalog ProductCatalog
	orders  OrderStore
}

func NewOrderService(logger log.Logger, productCatalog ProductCatalog, orders OrderStore) OrderService {
	return &orderService{
		logger:  logger,
		catalog: productCatalog,
		orders:  orders,
	}
}

// CreateOrder validates the draft against the catalog, prices every line
// from current catalog prices, and persists the order in pending status.
// Stock is checked but never decremented here; stock adjustment belongs to
// fulfilment, not checkout.
func (s *orderService) CreateOrder(ctx context.Context, draft OrderDraft) (string, error) {
	if err := validateDraft(draft); err != nil {
		return "", err
	}

	items := make([]OrderItem, 0, len(draft.Items))
	for _, line := range draft.Items {
		product, err := s.catalog.GetProduct(ctx, line.ProductID)
		if err != nil {
			s.logger.Exception(ctx, "Failed to look up product "+line.ProductID, err)
			return "", fmt.Errorf("failed to look up product %s: %w", line.ProductID, err)
		}
		if product == nil {
			return "", fmt.Errorf("product %s: %w", line.ProductID, errs.ErrNotFound)
		}
		if product.Quantity < line.Quantity {
			return "", fmt.Errorf("product %s has %d in stock, %d requested: %w",
				line.ProductID, product.Quantity, line.Quantity, errs.ErrInsufficientStock)
		}
		items = append(items, OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  line.Quantity,
			UnitPrice: product.UnitPrice,
		})
	}

	now := time.Now().UTC()
	order := &Order{
		ID:              uuid.NewString(),
		Status:          StatusPending,
		TotalAmount:     TotalAmount(items).InexactFloat64(),
		ShippingAddress: draft.ShippingAddress,
		PhoneNumber:     draft.PhoneNumber,
		Items:           items,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.orders.InsertOrder(ctx, order); err != nil {
		s.logger.Exception(ctx, "Failed to persist order "+order.ID, err)
		return "", fmt.Errorf("failed to persist order: %w", err)
	}

	s.logger.InfoWithExtra(ctx, "Order created", map[string]any{
		"OrderID":     order.ID,
		"TotalAmount": order.TotalAmount,
		"Items":       len(order.Items),
	})
	return order.ID, nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	if orderID == "" {
		return nil, fmt.Errorf("order id is required: %w", errs.ErrValidation)
	}
	return s.orders.GetOrder(ctx, orderID)
}

func validateDraft(draft OrderDraft) error {
	if draft.ShippingAddress == "" {
		return fmt.Errorf("shipping address is required: %w", errs.ErrValidation)
	}
	if draft.PhoneNumber == "" {
		return fmt.Errorf("phone number is required: %w", errs.ErrValidation)
	}
	if len(draft.Items) == 0 {
		return fmt.Errorf("order must contain at least one item: %w", errs.ErrValidation)
	}
	for _, line := range draft.Items {
		if line.ProductID == "" {
			return fmt.Errorf("item product id is required: %w", errs.ErrValidation)
		}
		if line.Quantity <= 0 {
			return fmt.Errorf("item quantity must be positive: %w", errs.ErrValidation)
		}
	}
	return nil
}
