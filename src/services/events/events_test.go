package events

import "testing"

func TestPaymentSubmittedEventValidate(t *testing.T) {
	tests := []struct {
		name    string
		event   PaymentSubmittedEvent
		wantErr bool
	}{
		{
			name:    "valid event",
			event:   PaymentSubmittedEvent{OrderID: "order-1", Instrument: "visa", Amount: 2000, Version: 1},
			wantErr: false,
		},
		{
			name:    "missing order id",
			event:   PaymentSubmittedEvent{Instrument: "visa", Amount: 2000},
			wantErr: true,
		},
		{
			name:    "missing instrument",
			event:   PaymentSubmittedEvent{OrderID: "order-1", Amount: 2000},
			wantErr: true,
		},
		{
			name:    "non-positive amount",
			event:   PaymentSubmittedEvent{OrderID: "order-1", Instrument: "visa", Amount: 0},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestPaymentConfirmedEventValidate(t *testing.T) {
	tests := []struct {
		name    string
		event   PaymentConfirmedEvent
		wantErr bool
	}{
		{
			name:    "paid outcome",
			event:   PaymentConfirmedEvent{OrderID: "order-1", Outcome: OutcomePaid, Version: 1},
			wantErr: false,
		},
		{
			name:    "failed outcome",
			event:   PaymentConfirmedEvent{OrderID: "order-1", Outcome: OutcomeFailed, Version: 1},
			wantErr: false,
		},
		{
			name:    "missing order id",
			event:   PaymentConfirmedEvent{Outcome: OutcomePaid},
			wantErr: true,
		},
		{
			name:    "unknown outcome",
			event:   PaymentConfirmedEvent{OrderID: "order-1", Outcome: "maybe"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
