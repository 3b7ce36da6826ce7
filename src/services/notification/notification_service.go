package notification

import (
	"context"
	"fmt"
	"go-checkout-flow/src/infrastructure/log"
)

// NotificationService delivers payment receipts to the customer. This
// implementation only logs; a real sender would go out via email or SMS.
type NotificationService interface {
	SendPaymentReceipt(ctx context.Context, orderID, outcome string) error
}

type notificationService struct {
	logger log.Logger
}

func NewNotificationService(logger log.Logger) NotificationService {
	return &notificationService{
		logger: logger,
	}
}

func (s *notificationService) SendPaymentReceipt(ctx context.Context, orderID, outcome string) error {
	if orderID == "" {
		return fmt.Errorf("order id is required for receipt")
	}

	s.logger.InfoWithExtra(ctx, "Payment receipt sent", map[string]any{
		"OrderID": orderID,
		"Outcome": outcome,
	})
	return nil
}
