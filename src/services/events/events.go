package events

import (
	"errors"
	"time"
)

const (
	// Event types
	PaymentSubmitted = "payment.submitted" // Instrument submitted, processing starts
	PaymentConfirmed = "payment.confirmed" // Gateway resolved the payment outcome

	// Event status enums for the payment_events collection
	EventStatusPending   = "pending"   // Event is waiting to be processed
	EventStatusFailed    = "failed"    // Event processing failed, needs replay
	EventStatusCompleted = "completed" // Event was successfully processed
	EventStatusReplaying = "replaying" // Event is currently being replayed

	// Payment outcomes carried by PaymentConfirmedEvent
	OutcomePaid   = "paid"
	OutcomeFailed = "failed"
)

type PaymentSubmittedEvent struct {
	OrderID    string    `json:"orderId"`
	Instrument string    `json:"instrument"`
	Amount     float64   `json:"amount"`
	Version    int       `json:"version"`
	TimeStamp  time.Time `json:"timestamp"`
}

func (e *PaymentSubmittedEvent) Validate() error {
	if e.OrderID == "" || e.Instrument == "" || e.Amount <= 0 {
		return errors.New("missing required fields in PaymentSubmittedEvent")
	}
	return nil
}

type PaymentConfirmedEvent struct {
	OrderID   string    `json:"orderId"`
	Outcome   string    `json:"outcome"`
	Version   int       `json:"version"`
	TimeStamp time.Time `json:"timestamp"`
}

func (e *PaymentConfirmedEvent) Validate() error {
	if e.OrderID == "" {
		return errors.New("missing required fields in PaymentConfirmedEvent")
	}
	if e.Outcome != OutcomePaid && e.Outcome != OutcomeFailed {
		return errors.New("invalid outcome in PaymentConfirmedEvent")
	}
	return nil
}
