package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-checkout-flow/src/services/errs"

	"github.com/redis/go-redis/v9"
)

// Selection is a single pre-checkout line held for a browser session.
type Selection struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// SelectionStore holds cart selections per session with a
// write-once-read-once contract: Take atomically reads and clears, so a
// consumed cart can never be re-submitted as a second order.
type SelectionStore interface {
	Save(ctx context.Context, sessionID string, selections []Selection) error
	Take(ctx context.Context, sessionID string) ([]Selection, error)
}

type redisSelectionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSelectionStore(client *redis.Client, ttl time.Duration) SelectionStore {
	return &redisSelectionStore{
		client: client,
		ttl:    ttl,
	}
}

func SelectionKey(sessionID string) string {
	return "cart:selections:" + sessionID
}

// ValidateSelections rejects empty carts and non-positive quantities.
func ValidateSelections(selections []Selection) error {
	if len(selections) == 0 {
		return fmt.Errorf("cart must contain at least one selection: %w", errs.ErrValidation)
	}
	for _, selection := range selections {
		if selection.ProductID == "" {
			return fmt.Errorf("selection product id is required: %w", errs.ErrValidation)
		}
		if selection.Quantity <= 0 {
			return fmt.Errorf("selection quantity must be positive: %w", errs.ErrValidation)
		}
	}
	return nil
}

// Save overwrites the session's selections. The TTL bounds how long an
// abandoned cart lingers.
func (s *redisSelectionStore) Save(ctx context.Context, sessionID string, selections []Selection) error {
	if sessionID == "" {
		return fmt.Errorf("session id is required: %w", errs.ErrValidation)
	}
	if err := ValidateSelections(selections); err != nil {
		return err
	}

	data, err := json.Marshal(selections)
	if err != nil {
		return fmt.Errorf("failed to marshal cart selections: %w", err)
	}
	if err := s.client.Set(ctx, SelectionKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart selections: %w", err)
	}
	return nil
}

// Take reads and clears the session's selections in one round trip
// (GETDEL). A second Take for the same session returns ErrNotFound.
func (s *redisSelectionStore) Take(ctx context.Context, sessionID string) ([]Selection, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required: %w", errs.ErrValidation)
	}

	data, err := s.client.GetDel(ctx, SelectionKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("cart for session %s: %w", sessionID, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to take cart selections: %w", err)
	}

	var selections []Selection
	if err := json.Unmarshal(data, &selections); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart selections: %w", err)
	}
	return selections, nil
}
