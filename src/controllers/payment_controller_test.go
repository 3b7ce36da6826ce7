package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"go-checkout-flow/src/infrastructure/log"
	"go-checkout-flow/src/services/payment"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGateway struct {
	session *payment.Session
}

func (g *stubGateway) StartSession(context.Context, string) (*payment.Session, error) {
	return g.session, nil
}
func (g *stubGateway) SubmitInstrument(context.Context, string, string) error   { return nil }
func (g *stubGateway) ProcessSubmission(context.Context, string, float64) error { return nil }
func (g *stubGateway) ConfirmPayment(context.Context, string, payment.Outcome) error {
	return nil
}
func (g *stubGateway) ReplayFailedEvents(context.Context) error { return nil }

func (g *stubGateway) GetSession(orderID string) (*payment.Session, bool) {
	if g.session != nil && g.session.OrderID == orderID {
		return g.session, true
	}
	return nil, false
}

func newPaymentApp(gw payment.Gateway) *fiber.App {
	app := fiber.New()
	poller := payment.NewPoller(nil, log.NewLogger())
	NewPaymentController(gw, poller, time.Second, 3).Route(app)
	return app
}

func TestGetPaymentSession(t *testing.T) {
	t.Run("returns the session state for an order", func(t *testing.T) {
		gw := &stubGateway{session: &payment.Session{
			OrderID:   "order-1",
			State:     payment.SessionSubmitted,
			UpdatedAt: time.Now().UTC(),
		}}
		app := newPaymentApp(gw)

		req := httptest.NewRequest(fiber.MethodGet, "/api/v1/payments/session/order-1", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		var body map[string]any
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, "order-1", body["order_id"])
		assert.Equal(t, string(payment.SessionSubmitted), body["state"])
	})

	t.Run("unknown order has no session", func(t *testing.T) {
		app := newPaymentApp(&stubGateway{})

		req := httptest.NewRequest(fiber.MethodGet, "/api/v1/payments/session/order-1", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}
