package handlers

import (
	"context"
	"encoding/json"

	"go-checkout-flow/src/infrastructure/log"
	"go-checkout-flow/src/services/events"
	"go-checkout-flow/src/services/payment"
)

type PaymentSubmittedEventHandler struct {
	gateway   payment.Gateway
	publisher payment.Publisher
	logger    log.Logger
}

func NewPaymentSubmittedEventHandler(
	gateway payment.Gateway,
	publisher payment.Publisher,
	logger log.Logger,
) *PaymentSubmittedEventHandler {
	return &PaymentSubmittedEventHandler{
		gateway:   gateway,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle runs the mock provider's side of a submitted payment: simulated
// latency, outcome resolution, payment.confirmed publication.
func (h *PaymentSubmittedEventHandler) Handle(ctx context.Context, msgBody []byte) {
	var event events.PaymentSubmittedEvent
	if err := json.Unmarshal(msgBody, &event); err != nil {
		h.logger.Exception(ctx, "Failed to unmarshal PaymentSubmittedEvent", err)
		h.sendToDLQ(ctx, msgBody)
		return
	}

	if err := event.Validate(); err != nil {
		h.logger.Exception(ctx, "Invalid PaymentSubmittedEvent", err)
		h.sendToDLQ(ctx, msgBody)
		return
	}

	h.logger.Info(ctx, "Processing payment submission for order: "+event.OrderID)

	if err := h.gateway.ProcessSubmission(ctx, event.OrderID, event.Amount); err != nil {
		h.logger.Exception(ctx, "Failed to process payment submission for order: "+event.OrderID, err)
		h.sendToDLQ(ctx, msgBody)
	}
}

func (h *PaymentSubmittedEventHandler) sendToDLQ(ctx context.Context, body []byte) {
	if err := h.publisher.Publish(events.PaymentSubmitted+".dlq", body); err != nil {
		h.logger.Exception(ctx, "Failed to send PaymentSubmitted event to DLQ", err)
	}
}
