package controllers

import (
	"time"

	"go-checkout-flow/src/controllers/models"
	"go-checkout-flow/src/services/payment"

	"github.com/gofiber/fiber/v2"
)

type PaymentController struct {
	gateway         payment.Gateway
	poller          *payment.Poller
	defaultInterval time.Duration
	defaultAttempts int
}

func NewPaymentController(gateway payment.Gateway, poller *payment.Poller, defaultInterval time.Duration, defaultAttempts int) *PaymentController {
	return &PaymentController{
		gateway:         gateway,
		poller:          poller,
		defaultInterval: defaultInterval,
		defaultAttempts: defaultAttempts,
	}
}

func (c *PaymentController) Route(app *fiber.App) {
	api := app.Group("/api/v1/payments")
	api.Post("/checkout", c.StartCheckout)
	api.Post("/submit", c.SubmitInstrument)
	api.Post("/confirm", c.ConfirmPayment)
	api.Get("/session/:id", c.GetSession)
	api.Get("/poll/:id", c.PollStatus)
	api.Post("/replay-failed-events", c.ReplayFailedEvents)
}

// StartCheckout godoc
// @Summary      Start a payment session
// @Description  Opens the mock gateway session for a pending order (awaiting instrument selection)
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        session  body  models.CheckoutSessionRequest  true  "Checkout payload"
// @Success      201  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /api/v1/payments/checkout [post]
func (c *PaymentController) StartCheckout(ctx *fiber.Ctx) error {
	var request models.CheckoutSessionRequest
	if err := ctx.BodyParser(&request); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}

	session, err := c.gateway.StartSession(ctx.Context(), request.OrderID)
	if err != nil {
		return errorJSON(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"order_id": session.OrderID,
		"state":    string(session.State),
	})
}

// SubmitInstrument godoc
// @Summary      Submit a payment instrument
// @Description  Confirms the chosen instrument and starts asynchronous gateway processing
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        submission  body  models.SubmitInstrumentRequest  true  "Instrument payload"
// @Success      202  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /api/v1/payments/submit [post]
func (c *PaymentController) SubmitInstrument(ctx *fiber.Ctx) error {
	var request models.SubmitInstrumentRequest
	if err := ctx.BodyParser(&request); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}

	if err := c.gateway.SubmitInstrument(ctx.Context(), request.OrderID, request.Instrument); err != nil {
		return errorJSON(ctx, err)
	}
	return ctx.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "Payment processing started"})
}

// ConfirmPayment godoc
// @Summary      Confirm a payment outcome
// @Description  Gateway callback applying the resolved outcome; idempotent per outcome, 409 on a conflicting terminal transition
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        confirmation  body  models.ConfirmPaymentRequest  true  "Confirmation payload"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /api/v1/payments/confirm [post]
func (c *PaymentController) ConfirmPayment(ctx *fiber.Ctx) error {
	var request models.ConfirmPaymentRequest
	if err := ctx.BodyParser(&request); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}

	err := c.gateway.ConfirmPayment(ctx.Context(), request.OrderID, payment.Outcome(request.Outcome))
	if err != nil {
		return errorJSON(ctx, err)
	}
	return ctx.JSON(fiber.Map{"status": "Confirmation accepted"})
}

// GetSession godoc
// @Summary      Get payment session state
// @Description  Returns the gateway session for an order (awaiting_instrument, submitted, paid or failed)
// @Tags         payments
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /api/v1/payments/session/{id} [get]
func (c *PaymentController) GetSession(ctx *fiber.Ctx) error {
	session, ok := c.gateway.GetSession(ctx.Params("id"))
	if !ok {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No payment session for order"})
	}
	return ctx.JSON(fiber.Map{
		"order_id":   session.OrderID,
		"state":      string(session.State),
		"updated_at": session.UpdatedAt,
	})
}

// PollStatus godoc
// @Summary      Poll order payment status
// @Description  Blocks until a terminal status, the attempt budget runs out (408) or the client disconnects
// @Tags         payments
// @Produce      json
// @Param        id        path   string  true   "Order ID"
// @Param        interval  query  string  false  "Interval between reads, e.g. 3s"
// @Param        attempts  query  int     false  "Maximum number of reads"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Failure      408  {object}  map[string]interface{}
// @Router       /api/v1/payments/poll/{id} [get]
func (c *PaymentController) PollStatus(ctx *fiber.Ctx) error {
	interval := c.defaultInterval
	if raw := ctx.Query("interval"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid interval"})
		}
		interval = parsed
	}
	attempts := ctx.QueryInt("attempts", c.defaultAttempts)

	order, err := c.poller.Poll(ctx.Context(), ctx.Params("id"), interval, attempts)
	if err != nil {
		return errorJSON(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"id":           order.ID,
		"status":       string(order.Status),
		"total_amount": order.TotalAmount,
		"updated_at":   order.UpdatedAt,
	})
}

// ReplayFailedEvents godoc
// @Summary      Replay failed payment events
// @Description  Republishes parked payment events that could not be delivered
// @Tags         payments
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]interface{}
// @Router       /api/v1/payments/replay-failed-events [post]
func (c *PaymentController) ReplayFailedEvents(ctx *fiber.Ctx) error {
	if err := c.gateway.ReplayFailedEvents(ctx.Context()); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "Replay complete"})
}
