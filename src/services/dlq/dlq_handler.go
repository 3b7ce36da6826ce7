package dlq

import (
	"context"
	"encoding/json"
	"go-checkout-flow/src/infrastructure/log"
	"go-checkout-flow/src/services/events"
)

// EventJournal is the replay store the DLQ handlers park events into.
type EventJournal interface {
	StoreEventForReplay(ctx context.Context, orderID, topic string, eventData []byte) error
}

type DLQHandler struct {
	journal EventJournal
	logger  log.Logger
}

// DLQ wrapper structs to implement the EventHandler interface per queue
type PaymentSubmittedDLQHandler struct {
	*DLQHandler
}

type PaymentConfirmedDLQHandler struct {
	*DLQHandler
}

func NewDLQHandler(journal EventJournal, logger log.Logger) *DLQHandler {
	return &DLQHandler{
		journal: journal,
		logger:  logger,
	}
}

func (d *DLQHandler) NewPaymentSubmittedDLQHandler() *PaymentSubmittedDLQHandler {
	return &PaymentSubmittedDLQHandler{DLQHandler: d}
}

func (d *DLQHandler) NewPaymentConfirmedDLQHandler() *PaymentConfirmedDLQHandler {
	return &PaymentConfirmedDLQHandler{DLQHandler: d}
}

func (h *PaymentSubmittedDLQHandler) Handle(ctx context.Context, msgBody []byte) {
	h.storeForReplay(ctx, events.PaymentSubmitted, msgBody)
}

func (h *PaymentConfirmedDLQHandler) Handle(ctx context.Context, msgBody []byte) {
	h.storeForReplay(ctx, events.PaymentConfirmed, msgBody)
}

// storeForReplay parks a failed payment event so it can be republished to
// its original topic later.
func (h *DLQHandler) storeForReplay(ctx context.Context, topic string, msgBody []byte) {
	h.logger.Info(ctx, "Processing DLQ event from topic: "+topic)

	// Try to extract the order id from the payload; both payment events
	// carry it under the same key.
	var envelope struct {
		OrderID string `json:"orderId"`
	}
	orderID := "unknown"
	if err := json.Unmarshal(msgBody, &envelope); err == nil && envelope.OrderID != "" {
		orderID = envelope.OrderID
	}

	if err := h.journal.StoreEventForReplay(ctx, orderID, topic, msgBody); err != nil {
		h.logger.Exception(ctx, "Failed to store DLQ event for replay, topic: "+topic, err)
		return
	}
	h.logger.Info(ctx, "DLQ event stored for replay, orderID: "+orderID)
}
