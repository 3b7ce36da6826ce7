package infrastructure

import (
	"context"
	"sync"
	"testing"
	"time"

	"go-checkout-flow/src/infrastructure/log"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
)

type fakeConsumer struct {
	deliveries <-chan amqp.Delivery
}

func (c *fakeConsumer) Consume(string) (<-chan amqp.Delivery, error) {
	return c.deliveries, nil
}

type recordingHandler struct {
	mu     sync.Mutex
	bodies [][]byte
}

func (h *recordingHandler) Handle(_ context.Context, msgBody []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.bodies = append(h.bodies, msgBody)
}

func (h *recordingHandler) handled() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.bodies)
}

func TestStartListeningStopsOnClosedChannel(t *testing.T) {
	closed := make(chan amqp.Delivery)
	close(closed)

	listener := NewEventListener(&fakeConsumer{deliveries: closed}, log.NewLogger())
	listener.RegisterHandler("payment.submitted", &recordingHandler{})

	done := make(chan struct{})
	go func() {
		assert.NoError(t, listener.StartListening(context.Background()))
		close(done)
	}()

	// A persistently closed delivery channel must exhaust the reconnect
	// budget and give up, not spin on the closed channel forever.
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("listener kept spinning on a closed delivery channel")
	}
}

func TestStartListeningDispatchesDeliveries(t *testing.T) {
	deliveries := make(chan amqp.Delivery, 1)
	deliveries <- amqp.Delivery{Body: []byte(`{"orderId":"order-1"}`)}

	handler := &recordingHandler{}
	listener := NewEventListener(&fakeConsumer{deliveries: deliveries}, log.NewLogger())
	listener.RegisterHandler("payment.submitted", handler)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		assert.NoError(t, listener.StartListening(ctx))
		close(done)
	}()

	assert.Eventually(t, func() bool { return handler.handled() == 1 },
		2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop after cancellation")
	}
}
