package handlers

import (
	"context"
	"encoding/json"
	"errors"

	"go-checkout-flow/src/infrastructure/log"
	"go-checkout-flow/src/services/errs"
	"go-checkout-flow/src/services/events"
	"go-checkout-flow/src/services/notification"
	"go-checkout-flow/src/services/payment"
)

type PaymentConfirmedEventHandler struct {
	gateway      payment.Gateway
	publisher    payment.Publisher
	notification notification.NotificationService
	logger       log.Logger
}

func NewPaymentConfirmedEventHandler(
	gateway payment.Gateway,
	publisher payment.Publisher,
	notificationService notification.NotificationService,
	logger log.Logger,
) *PaymentConfirmedEventHandler {
	return &PaymentConfirmedEventHandler{
		gateway:      gateway,
		publisher:    publisher,
		notification: notificationService,
		logger:       logger,
	}
}

// Handle applies a resolved payment outcome to the order status store. A
// conflicting confirmation (duplicated callback with a different outcome)
// is logged and dropped; it must never overwrite a terminal status.
func (h *PaymentConfirmedEventHandler) Handle(ctx context.Context, msgBody []byte) {
	var event events.PaymentConfirmedEvent
	if err := json.Unmarshal(msgBody, &event); err != nil {
		h.logger.Exception(ctx, "Failed to unmarshal PaymentConfirmedEvent", err)
		h.sendToDLQ(ctx, msgBody)
		return
	}

	if err := event.Validate(); err != nil {
		h.logger.Exception(ctx, "Invalid PaymentConfirmedEvent", err)
		h.sendToDLQ(ctx, msgBody)
		return
	}

	err := h.gateway.ConfirmPayment(ctx, event.OrderID, payment.Outcome(event.Outcome))
	if err != nil {
		if errors.Is(err, errs.ErrConflict) {
			// Terminal status already settled differently; keep it.
			h.logger.Warn(ctx, "Dropping conflicting confirmation for order: "+event.OrderID)
			return
		}
		h.logger.Exception(ctx, "Failed to confirm payment for order: "+event.OrderID, err)
		h.sendToDLQ(ctx, msgBody)
		return
	}

	h.logger.Info(ctx, "Payment confirmation applied for order: "+event.OrderID)

	if err := h.notification.SendPaymentReceipt(ctx, event.OrderID, event.Outcome); err != nil {
		h.logger.Exception(ctx, "Failed to send payment receipt for order: "+event.OrderID, err)
	}
}

func (h *PaymentConfirmedEventHandler) sendToDLQ(ctx context.Context, body []byte) {
	if err := h.publisher.Publish(events.PaymentConfirmed+".dlq", body); err != nil {
		h.logger.Exception(ctx, "Failed to send PaymentConfirmed event to DLQ", err)
	}
}
