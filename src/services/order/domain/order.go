package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPaid      OrderStatus = "paid"
	StatusFailed    OrderStatus = "failed"
	StatusCancelled OrderStatus = "cancelled"
)

// Terminal reports whether no further automatic transition occurs from s.
func (s OrderStatus) Terminal() bool {
	return s == StatusPaid || s == StatusFailed || s == StatusCancelled
}

// TerminalStatuses lists the absorbing statuses, in the form the
// persistence layer needs for its compare-and-set filter.
func TerminalStatuses() []string {
	return []string{string(StatusPaid), string(StatusFailed), string(StatusCancelled)}
}

type OrderItem struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice float64
}

type Order struct {
	ID              string
	Status          OrderStatus
	TotalAmount     float64
	ShippingAddress string
	PhoneNumber     string
	Items           []OrderItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TotalAmount sums unit_price x quantity over the items with exact decimal
// arithmetic. The result is fixed on the order at creation and never
// recomputed afterwards.
func TotalAmount(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		price := decimal.NewFromFloat(item.UnitPrice)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// DraftItem is a pre-checkout selection; prices come from the catalog at
// order creation, never from the client.
type DraftItem struct {
	ProductID string
	Quantity  int
}

type OrderDraft struct {
	ShippingAddress string
	PhoneNumber     string
	Items           []DraftItem
}
