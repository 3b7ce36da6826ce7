package payment

import (
	"context"
	"sync"
	"testing"
	"time"

	"go-checkout-flow/src/infrastructure/log"
	"go-checkout-flow/src/services/errs"
	"go-checkout-flow/src/services/order/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedReader serves a fixed sequence of statuses and counts reads. The
// final status is repeated once the script runs out.
type scriptedReader struct {
	mu       sync.Mutex
	statuses []domain.OrderStatus
	reads    int
}

func (r *scriptedReader) GetOrder(_ context.Context, orderID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	index := r.reads
	if index >= len(r.statuses) {
		index = len(r.statuses) - 1
	}
	r.reads++
	return &domain.Order{ID: orderID, Status: r.statuses[index]}, nil
}

func (r *scriptedReader) readCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reads
}

func TestPoll(t *testing.T) {
	ctx := context.Background()
	interval := 5 * time.Millisecond

	t.Run("returns as soon as paid is observed", func(t *testing.T) {
		reader := &scriptedReader{statuses: []domain.OrderStatus{
			domain.StatusPending, domain.StatusPending, domain.StatusPaid,
		}}
		poller := NewPoller(reader, log.NewLogger())

		order, err := poller.Poll(ctx, "order-1", interval, 10)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPaid, order.Status)
		assert.Equal(t, 3, reader.readCount(), "no read may follow a terminal observation")
	})

	t.Run("returns the order on terminal failure, not an error", func(t *testing.T) {
		reader := &scriptedReader{statuses: []domain.OrderStatus{
			domain.StatusPending, domain.StatusFailed,
		}}
		poller := NewPoller(reader, log.NewLogger())

		order, err := poller.Poll(ctx, "order-1", interval, 10)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusFailed, order.Status)
	})

	t.Run("exhausted budget reports timeout, distinct from failure", func(t *testing.T) {
		reader := &scriptedReader{statuses: []domain.OrderStatus{domain.StatusPending}}
		poller := NewPoller(reader, log.NewLogger())

		_, err := poller.Poll(ctx, "order-1", interval, 2)
		assert.ErrorIs(t, err, errs.ErrTimeout)
		assert.Equal(t, 2, reader.readCount())
	})

	t.Run("cancellation stops the poller between reads", func(t *testing.T) {
		reader := &scriptedReader{statuses: []domain.OrderStatus{domain.StatusPending}}
		poller := NewPoller(reader, log.NewLogger())

		cancelCtx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)
		go func() {
			_, err := poller.Poll(cancelCtx, "order-1", time.Hour, 5)
			done <- err
		}()

		// Let the first read happen, then cancel during the wait.
		time.Sleep(20 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("poller did not stop after cancellation")
		}

		reads := reader.readCount()
		time.Sleep(20 * time.Millisecond)
		assert.Equal(t, reads, reader.readCount(), "no read may be issued after cancellation")
	})

	t.Run("already-cancelled context polls nothing", func(t *testing.T) {
		reader := &scriptedReader{statuses: []domain.OrderStatus{domain.StatusPending}}
		poller := NewPoller(reader, log.NewLogger())

		cancelCtx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := poller.Poll(cancelCtx, "order-1", interval, 5)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, reader.readCount())
	})

	t.Run("rejects a non-positive budget", func(t *testing.T) {
		poller := NewPoller(&scriptedReader{statuses: []domain.OrderStatus{domain.StatusPending}}, log.NewLogger())

		_, err := poller.Poll(ctx, "order-1", 0, 5)
		assert.ErrorIs(t, err, errs.ErrValidation)

		_, err = poller.Poll(ctx, "order-1", interval, 0)
		assert.ErrorIs(t, err, errs.ErrValidation)

		_, err = poller.Poll(ctx, "", interval, 5)
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("duplicate pollers converge on the same observation", func(t *testing.T) {
		reader := &scriptedReader{statuses: []domain.OrderStatus{domain.StatusPaid}}
		poller := NewPoller(reader, log.NewLogger())

		var wg sync.WaitGroup
		results := make([]domain.OrderStatus, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(slot int) {
				defer wg.Done()
				order, err := poller.Poll(ctx, "order-1", interval, 3)
				if err == nil {
					results[slot] = order.Status
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, domain.StatusPaid, results[0])
		assert.Equal(t, domain.StatusPaid, results[1])
	})
}
