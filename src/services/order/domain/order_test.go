package domain

import (
	"testing"
)

func TestTotalAmount(t *testing.T) {
	tests := []struct {
		name     string
		items    []OrderItem
		expected float64
	}{
		{
			name: "single item times quantity",
			items: []OrderItem{
				{ProductID: "1", Quantity: 2, UnitPrice: 1000},
			},
			expected: 2000,
		},
		{
			name: "multiple items summed",
			items: []OrderItem{
				{ProductID: "cpu-7800x3d", Quantity: 1, UnitPrice: 449.00},
				{ProductID: "ram-ddr5-32", Quantity: 2, UnitPrice: 129.00},
			},
			expected: 707.00,
		},
		{
			name: "decimal prices do not accumulate float drift",
			items: []OrderItem{
				{ProductID: "a", Quantity: 3, UnitPrice: 0.10},
				{ProductID: "b", Quantity: 3, UnitPrice: 0.20},
			},
			expected: 0.90,
		},
		{
			name:     "no items",
			items:    nil,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TotalAmount(tt.items).InexactFloat64()
			if got != tt.expected {
				t.Errorf("TotalAmount = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	terminal := []OrderStatus{StatusPaid, StatusFailed, StatusCancelled}
	for _, status := range terminal {
		if !status.Terminal() {
			t.Errorf("expected %s to be terminal", status)
		}
	}
	if StatusPending.Terminal() {
		t.Error("pending must not be terminal")
	}
}

func TestTerminalStatusesMatchTerminalPredicate(t *testing.T) {
	for _, raw := range TerminalStatuses() {
		if !OrderStatus(raw).Terminal() {
			t.Errorf("TerminalStatuses lists %s but Terminal() disagrees", raw)
		}
	}
	if len(TerminalStatuses()) != 3 {
		t.Errorf("expected 3 terminal statuses, got %d", len(TerminalStatuses()))
	}
}
