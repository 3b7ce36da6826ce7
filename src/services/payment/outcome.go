package payment

import (
	"math/rand"
	"sync"
	"time"
)

// Outcome is the resolution of a submitted payment.
type Outcome string

const (
	OutcomePaid   Outcome = "paid"
	OutcomeFailed Outcome = "failed"
)

func (o Outcome) Valid() bool {
	return o == OutcomePaid || o == OutcomeFailed
}

// OutcomeProvider yields the outcome of a submitted payment given its order
// context. The mock gateway uses a biased random provider; tests inject a
// fixed one to force either branch.
type OutcomeProvider interface {
	Resolve(orderID string, amount float64) Outcome
}

// BiasedRandomProvider resolves to paid with the configured probability.
type BiasedRandomProvider struct {
	mu   sync.Mutex
	bias float64
	rng  *rand.Rand
}

func NewBiasedRandomProvider(successBias float64) *BiasedRandomProvider {
	if successBias < 0 {
		successBias = 0
	}
	if successBias > 1 {
		successBias = 1
	}
	return &BiasedRandomProvider{
		bias: successBias,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (p *BiasedRandomProvider) Resolve(_ string, _ float64) Outcome {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.rng.Float64() < p.bias {
		return OutcomePaid
	}
	return OutcomeFailed
}

// FixedOutcomeProvider always resolves to the same outcome.
type FixedOutcomeProvider struct {
	Outcome Outcome
}

func (p FixedOutcomeProvider) Resolve(_ string, _ float64) Outcome {
	return p.Outcome
}
