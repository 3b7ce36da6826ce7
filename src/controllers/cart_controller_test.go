package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"

	"go-checkout-flow/src/services/cart"
	"go-checkout-flow/src/services/errs"
	"go-checkout-flow/src/services/order/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSelectionStore struct {
	mu    sync.Mutex
	carts map[string][]cart.Selection
}

func newFakeSelectionStore() *fakeSelectionStore {
	return &fakeSelectionStore{carts: make(map[string][]cart.Selection)}
}

func (s *fakeSelectionStore) Save(_ context.Context, sessionID string, selections []cart.Selection) error {
	if err := cart.ValidateSelections(selections); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sessionID] = selections
	return nil
}

func (s *fakeSelectionStore) Take(_ context.Context, sessionID string) ([]cart.Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	selections, ok := s.carts[sessionID]
	if !ok {
		return nil, fmt.Errorf("cart for session %s: %w", sessionID, errs.ErrNotFound)
	}
	delete(s.carts, sessionID)
	return selections, nil
}

type fakeOrderCreator struct {
	failWith error
	created  []domain.OrderDraft
}

func (s *fakeOrderCreator) CreateOrder(_ context.Context, draft domain.OrderDraft) (string, error) {
	if s.failWith != nil {
		return "", s.failWith
	}
	s.created = append(s.created, draft)
	return fmt.Sprintf("order-%d", len(s.created)), nil
}

func (s *fakeOrderCreator) GetOrder(_ context.Context, orderID string) (*domain.Order, error) {
	return nil, fmt.Errorf("order %s: %w", orderID, errs.ErrNotFound)
}

func newCartApp(store cart.SelectionStore, orders domain.OrderService) *fiber.App {
	app := fiber.New()
	NewCartController(store, orders).Route(app)
	return app
}

func postCheckout(t *testing.T, app *fiber.App, session, address, phone string) int {
	t.Helper()
	body, err := json.Marshal(map[string]string{
		"shipping_address": address,
		"phone_number":     phone,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/carts/"+session+"/checkout", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestCheckoutCart(t *testing.T) {
	selections := []cart.Selection{{ProductID: "cpu-7800x3d", Quantity: 1}}

	t.Run("validation failure leaves the cart intact for a retry", func(t *testing.T) {
		store := newFakeSelectionStore()
		require.NoError(t, store.Save(context.Background(), "session-1", selections))
		app := newCartApp(store, &fakeOrderCreator{})

		assert.Equal(t, fiber.StatusBadRequest, postCheckout(t, app, "session-1", "", "0901234567"))
		assert.Equal(t, fiber.StatusBadRequest, postCheckout(t, app, "session-1", "12 Nguyen Hue", ""))

		// The corrected retry must still find the selections.
		assert.Equal(t, fiber.StatusCreated, postCheckout(t, app, "session-1", "12 Nguyen Hue", "0901234567"))
	})

	t.Run("order creation failure restores the cart", func(t *testing.T) {
		store := newFakeSelectionStore()
		require.NoError(t, store.Save(context.Background(), "session-1", selections))
		orders := &fakeOrderCreator{failWith: fmt.Errorf("product cpu-7800x3d: %w", errs.ErrInsufficientStock)}
		app := newCartApp(store, orders)

		assert.Equal(t, fiber.StatusUnprocessableEntity, postCheckout(t, app, "session-1", "12 Nguyen Hue", "0901234567"))

		// Stock freed up; the same cart must still be checkoutable.
		orders.failWith = nil
		assert.Equal(t, fiber.StatusCreated, postCheckout(t, app, "session-1", "12 Nguyen Hue", "0901234567"))
		require.Len(t, orders.created, 1)
		assert.Equal(t, "cpu-7800x3d", orders.created[0].Items[0].ProductID)
	})

	t.Run("successful checkout consumes the cart", func(t *testing.T) {
		store := newFakeSelectionStore()
		require.NoError(t, store.Save(context.Background(), "session-1", selections))
		app := newCartApp(store, &fakeOrderCreator{})

		assert.Equal(t, fiber.StatusCreated, postCheckout(t, app, "session-1", "12 Nguyen Hue", "0901234567"))
		assert.Equal(t, fiber.StatusNotFound, postCheckout(t, app, "session-1", "12 Nguyen Hue", "0901234567"))
	})

	t.Run("missing cart is not found", func(t *testing.T) {
		app := newCartApp(newFakeSelectionStore(), &fakeOrderCreator{})
		assert.Equal(t, fiber.StatusNotFound, postCheckout(t, app, "session-1", "12 Nguyen Hue", "0901234567"))
	})
}
