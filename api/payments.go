package api

import (
	"context"
	"net/url"

	"echofm/model"
)

// CreatePaymentRequest describes a checkout to create. OrderCode is assigned
// by the client and used afterwards to poll the status.
type CreatePaymentRequest struct {
	OrderCode   string `json:"orderCode"`
	Amount      int    `json:"amount"`
	Description string `json:"description"`
	ReturnURL   string `json:"returnUrl"`
	CancelURL   string `json:"cancelUrl"`
}

// CreatePayment creates a checkout with the payment provider.
func (c *Client) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*model.PaymentLink, error) {
	var link model.PaymentLink
	if err := c.post(ctx, "/payments", req, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// PaymentStatus polls the state of a payment order.
func (c *Client) PaymentStatus(ctx context.Context, orderCode string) (*model.PaymentStatus, error) {
	var status model.PaymentStatus
	if err := c.get(ctx, "/payments/"+url.PathEscape(orderCode), &status); err != nil {
		return nil, err
	}
	return &status, nil
}
