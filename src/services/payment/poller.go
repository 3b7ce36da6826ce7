package payment

import (
	"context"
	"fmt"
	"time"

	"go-checkout-flow/src/infrastructure/log"
	"go-checkout-flow/src/services/errs"
	"go-checkout-flow/src/services/order/domain"
)

// StatusReader is the read side of the order status store.
type StatusReader interface {
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
}

// Poller repeatedly reads an order's status until it observes a terminal
// state, the attempt budget runs out, or the caller cancels. The store is
// the single source of truth, so duplicate pollers for the same order
// simply converge on the same terminal observation.
type Poller struct {
	reader StatusReader
	logger log.Logger
}

func NewPoller(reader StatusReader, logger log.Logger) *Poller {
	return &Poller{
		reader: reader,
		logger: logger,
	}
}

// Poll reads immediately, then every interval, up to maxAttempts reads.
// It returns the order once a terminal status is observed (the caller
// inspects whether it is paid or failed), ErrTimeout when the budget is
// exhausted with the order still pending, and ctx.Err() on cancellation.
// No read is issued after a terminal observation or after cancellation.
func (p *Poller) Poll(ctx context.Context, orderID string, interval time.Duration, maxAttempts int) (*domain.Order, error) {
	if orderID == "" {
		return nil, fmt.Errorf("order id is required: %w", errs.ErrValidation)
	}
	if interval <= 0 || maxAttempts <= 0 {
		return nil, fmt.Errorf("poll interval and attempts must be positive: %w", errs.ErrValidation)
	}

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		order, err := p.reader.GetOrder(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if order.Status.Terminal() {
			p.logger.InfoWithExtra(ctx, "Poller observed terminal status", map[string]any{
				"OrderID":  orderID,
				"Status":   string(order.Status),
				"Attempts": attempt,
			})
			return order, nil
		}

		if attempt >= maxAttempts {
			p.logger.Warn(ctx, fmt.Sprintf("Poller budget exhausted for order %s after %d attempts", orderID, attempt))
			return nil, fmt.Errorf("order %s still %s after %d attempts: %w",
				orderID, order.Status, attempt, errs.ErrTimeout)
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
