package screen

import (
	"context"
	"fmt"
	"time"

	"echofm/api"
	"echofm/logger"
	"echofm/model"

	"github.com/google/uuid"
)

// Subscription is the subscription/payment screen: create a checkout with a
// client-assigned order code, then poll the status endpoint.
type Subscription struct {
	api          *api.Client
	pollInterval time.Duration
}

func NewSubscription(apiClient *api.Client) *Subscription {
	return &Subscription{api: apiClient, pollInterval: 3 * time.Second}
}

// Subscribe creates a checkout and returns the handoff link.
func (s *Subscription) Subscribe(ctx context.Context, amount int, description, returnURL, cancelURL string) (*model.PaymentLink, error) {
	req := api.CreatePaymentRequest{
		OrderCode:   uuid.NewString(),
		Amount:      amount,
		Description: description,
		ReturnURL:   returnURL,
		CancelURL:   cancelURL,
	}
	return s.api.CreatePayment(ctx, req)
}

// Status polls the payment state once.
func (s *Subscription) Status(ctx context.Context, orderCode string) (*model.PaymentStatus, error) {
	return s.api.PaymentStatus(ctx, orderCode)
}

// maxPollFailures is the number of consecutive failed status requests after
// which polling gives up.
const maxPollFailures = 5

// WaitForPayment polls until the order leaves PENDING or ctx is done. There
// is no payment reconciliation beyond this polling; the backend owns it.
// Transient poll failures are logged and retried; persistent failures abort
// with the last error.
func (s *Subscription) WaitForPayment(ctx context.Context, orderCode string) (*model.PaymentStatus, error) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	failures := 0
	for {
		status, err := s.api.PaymentStatus(ctx, orderCode)
		switch {
		case err != nil:
			failures++
			logger.Warn("payment status poll failed",
				logger.ErrorField(err),
				logger.String("order", orderCode),
				logger.Int("attempt", failures))
			if failures >= maxPollFailures {
				return nil, fmt.Errorf("payment polling gave up after %d failures: %w", failures, err)
			}
		case status.Status != "PENDING":
			return status, nil
		default:
			failures = 0
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("payment polling stopped: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}
