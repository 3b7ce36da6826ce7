package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-checkout-flow/src/infrastructure/log"
	"go-checkout-flow/src/services/errs"
	"go-checkout-flow/src/services/events"
	"go-checkout-flow/src/services/order/domain"
	"go-checkout-flow/src/services/order/domain/persistence"
)

// SessionState is the per-order state of the mock gateway.
type SessionState string

const (
	SessionAwaitingInstrument SessionState = "awaiting_instrument"
	SessionSubmitted          SessionState = "submitted"
	SessionPaid               SessionState = "paid"
	SessionFailed             SessionState = "failed"
)

func (s SessionState) terminal() bool {
	return s == SessionPaid || s == SessionFailed
}

// Session tracks one order's progress through the gateway.
type Session struct {
	OrderID   string
	State     SessionState
	UpdatedAt time.Time
}

// StatusStore is the order status store, the single source of truth for
// order status read by both the gateway and the poller.
type StatusStore interface {
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	SetStatus(ctx context.Context, orderID string, status domain.OrderStatus) error
}

// Publisher sends payment events to the message bus.
type Publisher interface {
	Publish(topic string, body []byte) error
}

// EventJournal parks undeliverable payment events and serves them back for
// replay. Implemented by persistence.OrderRepository.
type EventJournal interface {
	StoreEventForReplay(ctx context.Context, orderID, topic string, eventData []byte) error
	GetUnreplayedEvents(ctx context.Context, limit int64) ([]persistence.PaymentEvent, error)
	MarkEventAsReplaying(ctx context.Context, eventID string) error
	MarkEventAsCompleted(ctx context.Context, eventID string) error
	MarkEventAsFailed(ctx context.Context, eventID string) error
}

type Gateway interface {
	StartSession(ctx context.Context, orderID string) (*Session, error)
	SubmitInstrument(ctx context.Context, orderID, instrument string) error
	ProcessSubmission(ctx context.Context, orderID string, amount float64) error
	ConfirmPayment(ctx context.Context, orderID string, outcome Outcome) error
	GetSession(orderID string) (*Session, bool)
	ReplayFailedEvents(ctx context.Context) error
}

type gateway struct {
	logger         log.Logger
	store          StatusStore
	publisher      Publisher
	journal        EventJournal
	outcomes       OutcomeProvider
	processingTime time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewGateway(
	logger log.Logger,
	store StatusStore,
	publisher Publisher,
	journal EventJournal,
	outcomes OutcomeProvider,
	processingTime time.Duration,
) Gateway {
	return &gateway{
		logger:         logger,
		store:          store,
		publisher:      publisher,
		journal:        journal,
		outcomes:       outcomes,
		processingTime: processingTime,
		sessions:       make(map[string]*Session),
	}
}

// StartSession opens (or re-enters) the awaiting_instrument state for a
// pending order. Re-entering an existing awaiting session is a no-op so a
// repeated redirect does not error; a session already past instrument
// selection conflicts.
func (g *gateway) StartSession(ctx context.Context, orderID string) (*Session, error) {
	if orderID == "" {
		return nil, fmt.Errorf("order id is required: %w", errs.ErrValidation)
	}

	order, err := g.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.Terminal() {
		return nil, fmt.Errorf("order %s is already %s: %w", orderID, order.Status, errs.ErrConflict)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if session, ok := g.sessions[orderID]; ok {
		if session.State != SessionAwaitingInstrument {
			return nil, fmt.Errorf("payment session for order %s is %s: %w", orderID, session.State, errs.ErrConflict)
		}
		return session, nil
	}

	session := &Session{
		OrderID:   orderID,
		State:     SessionAwaitingInstrument,
		UpdatedAt: time.Now().UTC(),
	}
	g.sessions[orderID] = session
	g.logger.Info(ctx, "Payment session started for order: "+orderID)
	return session, nil
}

// SubmitInstrument moves the session to submitted and publishes the
// payment.submitted event that drives asynchronous processing.
func (g *gateway) SubmitInstrument(ctx context.Context, orderID, instrument string) error {
	if instrument == "" {
		return fmt.Errorf("payment instrument is required: %w", errs.ErrValidation)
	}

	order, err := g.store.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}

	g.mu.Lock()
	session, ok := g.sessions[orderID]
	if !ok {
		g.mu.Unlock()
		return fmt.Errorf("no payment session for order %s: %w", orderID, errs.ErrNotFound)
	}
	if session.State != SessionAwaitingInstrument {
		state := session.State
		g.mu.Unlock()
		return fmt.Errorf("payment session for order %s is %s: %w", orderID, state, errs.ErrConflict)
	}
	session.State = SessionSubmitted
	session.UpdatedAt = time.Now().UTC()
	g.mu.Unlock()

	event := events.PaymentSubmittedEvent{
		OrderID:    orderID,
		Instrument: instrument,
		Amount:     order.TotalAmount,
		Version:    1,
		TimeStamp:  time.Now().UTC(),
	}
	if err := event.Validate(); err != nil {
		return fmt.Errorf("invalid payment submission: %w", err)
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal payment submitted event: %w", err)
	}

	if err := g.publisher.Publish(events.PaymentSubmitted, eventJSON); err != nil {
		g.logger.Exception(ctx, "Failed to publish PaymentSubmitted for order: "+orderID, err)
		if journalErr := g.journal.StoreEventForReplay(ctx, orderID, events.PaymentSubmitted, eventJSON); journalErr != nil {
			g.logger.Exception(ctx, "Failed to park PaymentSubmitted for replay, order: "+orderID, journalErr)
		}
		return fmt.Errorf("failed to publish payment submission: %w", err)
	}

	g.logger.Info(ctx, "PaymentSubmitted event published for order: "+orderID)
	return nil
}

// ProcessSubmission simulates the provider's processing latency, resolves
// the outcome through the injected provider and publishes
// payment.confirmed. Cancellation interrupts the simulated delay.
func (g *gateway) ProcessSubmission(ctx context.Context, orderID string, amount float64) error {
	if g.processingTime > 0 {
		timer := time.NewTimer(g.processingTime)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	outcome := g.outcomes.Resolve(orderID, amount)

	event := events.PaymentConfirmedEvent{
		OrderID:   orderID,
		Outcome:   string(outcome),
		Version:   1,
		TimeStamp: time.Now().UTC(),
	}
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal payment confirmed event: %w", err)
	}

	if err := g.publisher.Publish(events.PaymentConfirmed, eventJSON); err != nil {
		g.logger.Exception(ctx, "Failed to publish PaymentConfirmed for order: "+orderID, err)
		if journalErr := g.journal.StoreEventForReplay(ctx, orderID, events.PaymentConfirmed, eventJSON); journalErr != nil {
			g.logger.Exception(ctx, "Failed to park PaymentConfirmed for replay, order: "+orderID, journalErr)
		}
		return fmt.Errorf("failed to publish payment confirmation: %w", err)
	}

	g.logger.InfoWithExtra(ctx, "Payment resolved", map[string]any{
		"OrderID": orderID,
		"Outcome": string(outcome),
	})
	return nil
}

// ConfirmPayment applies the outcome to the order status store exactly
// once. Repeating the same outcome for an already-terminal order is a
// no-op; a different outcome is ErrConflict and the stored status is left
// untouched, so terminal transitions stay monotonic for the poller.
func (g *gateway) ConfirmPayment(ctx context.Context, orderID string, outcome Outcome) error {
	if orderID == "" {
		return fmt.Errorf("order id is required: %w", errs.ErrValidation)
	}
	if !outcome.Valid() {
		return fmt.Errorf("outcome must be paid or failed: %w", errs.ErrValidation)
	}

	status := domain.StatusPaid
	sessionState := SessionPaid
	if outcome == OutcomeFailed {
		status = domain.StatusFailed
		sessionState = SessionFailed
	}

	if err := g.store.SetStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			g.logger.Exception(ctx, "Conflicting payment confirmation for order: "+orderID, err)
		}
		return err
	}

	g.mu.Lock()
	if session, ok := g.sessions[orderID]; ok && !session.State.terminal() {
		session.State = sessionState
		session.UpdatedAt = time.Now().UTC()
	}
	g.mu.Unlock()

	g.logger.Info(ctx, "Order "+orderID+" confirmed as "+string(outcome))
	return nil
}

// GetSession returns the in-memory session for an order, if any.
func (g *gateway) GetSession(orderID string) (*Session, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	session, ok := g.sessions[orderID]
	if !ok {
		return nil, false
	}
	copied := *session
	return &copied, true
}

// ReplayFailedEvents republishes parked payment events to the topic each
// one originally targeted, with retry and status tracking.
func (g *gateway) ReplayFailedEvents(ctx context.Context) error {
	const batchSize = 100
	const maxRetries = 3

	parked, err := g.journal.GetUnreplayedEvents(ctx, batchSize)
	if err != nil {
		g.logger.Exception(ctx, "failed to fetch unreplayed payment events", err)
		return fmt.Errorf("failed to fetch unreplayed payment events: %w", err)
	}

	if len(parked) == 0 {
		g.logger.Info(ctx, "No payment events to replay")
		return nil
	}

	g.logger.Info(ctx, fmt.Sprintf("Starting replay of %d failed payment events", len(parked)))

	successCount := 0
	failureCount := 0

	for _, evt := range parked {
		if err := g.journal.MarkEventAsReplaying(ctx, evt.ID); err != nil {
			g.logger.Warn(ctx, fmt.Sprintf("Failed to mark event %s as replaying: %v", evt.ID, err))
		}

		var pubErr error
		for attempt := 1; attempt <= maxRetries; attempt++ {
			pubErr = g.publisher.Publish(evt.Topic, evt.EventData)
			if pubErr == nil {
				break
			}
			g.logger.Warn(ctx, fmt.Sprintf("Replay publish failed for event %s, attempt %d/%d: %v",
				evt.ID, attempt, maxRetries, pubErr))

			time.Sleep(time.Duration(attempt) * time.Second)
		}
		if pubErr == nil {
			if err := g.journal.MarkEventAsCompleted(ctx, evt.ID); err != nil {
				g.logger.Warn(ctx, fmt.Sprintf("Failed to mark event %s as completed: %v", evt.ID, err))
			} else {
				successCount++
			}
		} else {
			g.logger.Exception(ctx, fmt.Sprintf("Replay failed for event %s after %d retries", evt.ID, maxRetries), pubErr)
			if err := g.journal.MarkEventAsFailed(ctx, evt.ID); err != nil {
				g.logger.Warn(ctx, fmt.Sprintf("Failed to mark event %s as failed: %v", evt.ID, err))
			}
			failureCount++
		}
	}

	g.logger.Info(ctx, fmt.Sprintf("Replay completed: %d successful, %d failed", successCount, failureCount))

	if failureCount > 0 {
		return fmt.Errorf("replay completed with %d failures out of %d events", failureCount, len(parked))
	}

	return nil
}
