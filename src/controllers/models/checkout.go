package models

// OrderItemRequest is one line of a checkout request. Prices are assigned
// server-side from the catalog.
type OrderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type OrderRequest struct {
	ShippingAddress string             `json:"shipping_address"`
	PhoneNumber     string             `json:"phone_number"`
	Items           []OrderItemRequest `json:"items"`
}

type CheckoutSessionRequest struct {
	OrderID string `json:"order_id"`
}

type SubmitInstrumentRequest struct {
	OrderID    string `json:"order_id"`
	Instrument string `json:"instrument"`
}

type ConfirmPaymentRequest struct {
	OrderID string `json:"order_id"`
	Outcome string `json:"outcome"`
}

type CartRequest struct {
	Selections []CartSelectionRequest `json:"selections"`
}

type CartSelectionRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CartCheckoutRequest converts a saved cart into an order.
type CartCheckoutRequest struct {
	ShippingAddress string `json:"shipping_address"`
	PhoneNumber     string `json:"phone_number"`
}
