package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go-checkout-flow/src/infrastructure/log"
	"go-checkout-flow/src/services/catalog"
	"go-checkout-flow/src/services/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	products map[string]*catalog.Product
}

func (c *fakeCatalog) GetProduct(_ context.Context, productID string) (*catalog.Product, error) {
	return c.products[productID], nil
}

type fakeOrderStore struct {
	inserted []*Order
	failWith error
}

func (s *fakeOrderStore) InsertOrder(_ context.Context, order *Order) error {
	if s.failWith != nil {
		return s.failWith
	}
	s.inserted = append(s.inserted, order)
	return nil
}

func (s *fakeOrderStore) GetOrder(_ context.Context, orderID string) (*Order, error) {
	for _, order := range s.inserted {
		if order.ID == orderID {
			return order, nil
		}
	}
	return nil, fmt.Errorf("order %s: %w", orderID, errs.ErrNotFound)
}

func newTestService(store *fakeOrderStore) OrderService {
	products := map[string]*catalog.Product{
		"cpu-7800x3d": {ID: "cpu-7800x3d", Name: "Ryzen 7 7800X3D", UnitPrice: 449.00, Quantity: 10},
		"gpu-rtx4070": {ID: "gpu-rtx4070", Name: "GeForce RTX 4070 Super", UnitPrice: 599.00, Quantity: 2},
		"widget":      {ID: "widget", Name: "Widget", UnitPrice: 1000, Quantity: 5},
	}
	return NewOrderService(log.NewLogger(), &fakeCatalog{products: products}, store)
}

func validDraft() OrderDraft {
	return OrderDraft{
		ShippingAddress: "12 Nguyen Hue, District 1",
		PhoneNumber:     "0901234567",
		Items:           []DraftItem{{ProductID: "widget", Quantity: 2}},
	}
}

func TestCreateOrder(t *testing.T) {
	t.Run("persists a pending order with catalog-priced total", func(t *testing.T) {
		store := &fakeOrderStore{}
		service := newTestService(store)

		orderID, err := service.CreateOrder(context.Background(), validDraft())
		require.NoError(t, err)
		require.NotEmpty(t, orderID)
		require.Len(t, store.inserted, 1)

		order := store.inserted[0]
		assert.Equal(t, orderID, order.ID)
		assert.Equal(t, StatusPending, order.Status)
		assert.Equal(t, 2000.0, order.TotalAmount)
		assert.Equal(t, order.CreatedAt, order.UpdatedAt)
		require.Len(t, order.Items, 1)
		assert.Equal(t, "Widget", order.Items[0].Name)
		assert.Equal(t, 1000.0, order.Items[0].UnitPrice)
	})

	t.Run("prices multiple lines from the catalog", func(t *testing.T) {
		store := &fakeOrderStore{}
		service := newTestService(store)

		draft := validDraft()
		draft.Items = []DraftItem{
			{ProductID: "cpu-7800x3d", Quantity: 1},
			{ProductID: "gpu-rtx4070", Quantity: 2},
		}

		_, err := service.CreateOrder(context.Background(), draft)
		require.NoError(t, err)
		assert.Equal(t, 449.00+2*599.00, store.inserted[0].TotalAmount)
	})

	t.Run("rejects missing shipping address", func(t *testing.T) {
		service := newTestService(&fakeOrderStore{})
		draft := validDraft()
		draft.ShippingAddress = ""

		_, err := service.CreateOrder(context.Background(), draft)
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("rejects missing phone number", func(t *testing.T) {
		service := newTestService(&fakeOrderStore{})
		draft := validDraft()
		draft.PhoneNumber = ""

		_, err := service.CreateOrder(context.Background(), draft)
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("rejects empty item list", func(t *testing.T) {
		service := newTestService(&fakeOrderStore{})
		draft := validDraft()
		draft.Items = nil

		_, err := service.CreateOrder(context.Background(), draft)
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		service := newTestService(&fakeOrderStore{})
		draft := validDraft()
		draft.Items = []DraftItem{{ProductID: "widget", Quantity: 0}}

		_, err := service.CreateOrder(context.Background(), draft)
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("reports unknown product as not found", func(t *testing.T) {
		service := newTestService(&fakeOrderStore{})
		draft := validDraft()
		draft.Items = []DraftItem{{ProductID: "no-such-sku", Quantity: 1}}

		_, err := service.CreateOrder(context.Background(), draft)
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("reports quantity above stock as insufficient stock", func(t *testing.T) {
		store := &fakeOrderStore{}
		service := newTestService(store)
		draft := validDraft()
		draft.Items = []DraftItem{{ProductID: "gpu-rtx4070", Quantity: 3}}

		_, err := service.CreateOrder(context.Background(), draft)
		assert.ErrorIs(t, err, errs.ErrInsufficientStock)
		assert.Empty(t, store.inserted, "no order must be persisted on stock failure")
	})

	t.Run("propagates store failures", func(t *testing.T) {
		store := &fakeOrderStore{failWith: errors.New("mongo down")}
		service := newTestService(store)

		_, err := service.CreateOrder(context.Background(), validDraft())
		require.Error(t, err)
		assert.NotErrorIs(t, err, errs.ErrValidation)
	})
}

func TestGetOrder(t *testing.T) {
	store := &fakeOrderStore{}
	service := newTestService(store)

	orderID, err := service.CreateOrder(context.Background(), validDraft())
	require.NoError(t, err)

	t.Run("returns an existing order", func(t *testing.T) {
		order, err := service.GetOrder(context.Background(), orderID)
		require.NoError(t, err)
		assert.Equal(t, orderID, order.ID)
	})

	t.Run("rejects empty id", func(t *testing.T) {
		_, err := service.GetOrder(context.Background(), "")
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := service.GetOrder(context.Background(), "missing")
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}
