package model

// PaymentLink is the checkout handoff returned when a payment is created.
type PaymentLink struct {
	OrderCode   string `json:"orderCode"`
	CheckoutURL string `json:"checkoutUrl"`
}

// PaymentStatus is the polled state of a payment order.
type PaymentStatus struct {
	OrderCode string `json:"orderCode"`
	Status    string `json:"status"` // PENDING, PAID, CANCELLED
}
