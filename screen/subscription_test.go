package screen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"echofm/api"
	"echofm/model"

	"github.com/stretchr/testify/require"
)

// paymentBackend serves a payment status whose behavior is driven by a
// per-request script: each poll pops the next step.
type paymentBackend struct {
	server *httptest.Server
	polls  atomic.Int32
	script func(poll int32, w http.ResponseWriter)
}

func newPaymentBackend(t *testing.T, script func(poll int32, w http.ResponseWriter)) *paymentBackend {
	b := &paymentBackend{script: script}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /payments/ord-1", func(w http.ResponseWriter, r *http.Request) {
		b.script(b.polls.Add(1), w)
	})
	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)
	return b
}

func writeStatus(w http.ResponseWriter, status string) {
	json.NewEncoder(w).Encode(model.PaymentStatus{OrderCode: "ord-1", Status: status})
}

func newTestSubscription(serverURL string) *Subscription {
	s := NewSubscription(api.NewClient(serverURL))
	s.pollInterval = time.Millisecond
	return s
}

func TestWaitForPaymentReturnsOnSettled(t *testing.T) {
	backend := newPaymentBackend(t, func(poll int32, w http.ResponseWriter) {
		if poll < 3 {
			writeStatus(w, "PENDING")
			return
		}
		writeStatus(w, "PAID")
	})
	s := newTestSubscription(backend.server.URL)

	status, err := s.WaitForPayment(context.Background(), "ord-1")
	require.NoError(t, err)
	require.Equal(t, "PAID", status.Status)
	require.Equal(t, int32(3), backend.polls.Load())
}

func TestWaitForPaymentRetriesTransientFailures(t *testing.T) {
	backend := newPaymentBackend(t, func(poll int32, w http.ResponseWriter) {
		if poll <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeStatus(w, "CANCELLED")
	})
	s := newTestSubscription(backend.server.URL)

	status, err := s.WaitForPayment(context.Background(), "ord-1")
	require.NoError(t, err)
	require.Equal(t, "CANCELLED", status.Status)
}

func TestWaitForPaymentGivesUpAfterPersistentFailures(t *testing.T) {
	backend := newPaymentBackend(t, func(poll int32, w http.ResponseWriter) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"message": "provider down"})
	})
	s := newTestSubscription(backend.server.URL)

	_, err := s.WaitForPayment(context.Background(), "ord-1")
	require.Error(t, err)
	require.ErrorContains(t, err, "provider down")
	require.Equal(t, int32(maxPollFailures), backend.polls.Load())
}

func TestWaitForPaymentStopsOnContextCancel(t *testing.T) {
	backend := newPaymentBackend(t, func(poll int32, w http.ResponseWriter) {
		writeStatus(w, "PENDING")
	})
	s := newTestSubscription(backend.server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.WaitForPayment(ctx, "ord-1")
	require.ErrorIs(t, err, context.Canceled)
}
