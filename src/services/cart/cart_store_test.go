package cart

import (
	"errors"
	"testing"

	"go-checkout-flow/src/services/errs"
)

func TestValidateSelections(t *testing.T) {
	tests := []struct {
		name       string
		selections []Selection
		wantErr    bool
	}{
		{
			name:       "valid single selection",
			selections: []Selection{{ProductID: "cpu-7800x3d", Quantity: 1}},
			wantErr:    false,
		},
		{
			name: "valid multiple selections",
			selections: []Selection{
				{ProductID: "cpu-7800x3d", Quantity: 1},
				{ProductID: "ram-ddr5-32", Quantity: 2},
			},
			wantErr: false,
		},
		{
			name:       "empty cart",
			selections: nil,
			wantErr:    true,
		},
		{
			name:       "missing product id",
			selections: []Selection{{ProductID: "", Quantity: 1}},
			wantErr:    true,
		},
		{
			name:       "zero quantity",
			selections: []Selection{{ProductID: "cpu-7800x3d", Quantity: 0}},
			wantErr:    true,
		},
		{
			name:       "negative quantity",
			selections: []Selection{{ProductID: "cpu-7800x3d", Quantity: -1}},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSelections(tt.selections)
			if tt.wantErr {
				if !errors.Is(err, errs.ErrValidation) {
					t.Errorf("expected validation error, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSelectionKey(t *testing.T) {
	if got := SelectionKey("session-42"); got != "cart:selections:session-42" {
		t.Errorf("unexpected key: %s", got)
	}
}
