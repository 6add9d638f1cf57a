package stripe

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	stripe "github.com/stripe/stripe-go/v74"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatgate/chatgate/internal/domain/model"
)

// newTestClient builds a Client whose Stripe backend points at the given
// httptest server.
func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:           stripe.String(server.URL),
		LeveledLogger: &stripe.LeveledLogger{Level: stripe.LevelError},
	})
	backends := &stripe.Backends{API: backend, Connect: backend, Uploads: backend}

	return NewClientWithBackends("sk_test_123", "price_123", "http://127.0.0.1:8080", backends, slog.Default())
}

func TestCreateCheckout(t *testing.T) {
	tests := []struct {
		name         string
		mode         model.CheckoutMode
		wantMode     string
		wantRedirect string
	}{
		{
			name:         "one-time payment",
			mode:         model.CheckoutModePayment,
			wantMode:     "payment",
			wantRedirect: "/success",
		},
		{
			name:         "subscription",
			mode:         model.CheckoutModeSubscription,
			wantMode:     "subscription",
			wantRedirect: "/subscription_success",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPost, r.Method)
				require.Equal(t, "/v1/checkout/sessions", r.URL.Path)
				require.NoError(t, r.ParseForm())
				assert.Equal(t, tt.wantMode, r.PostForm.Get("mode"))
				assert.Equal(t, "price_123", r.PostForm.Get("line_items[0][price]"))
				assert.Contains(t, r.PostForm.Get("success_url"), tt.wantRedirect+"?session_id={CHECKOUT_SESSION_ID}")

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"id": "cs_test_1", "url": "https://checkout.stripe.com/pay/cs_test_1"}`))
			}))
			defer server.Close()

			c := newTestClient(t, server)

			url, err := c.CreateCheckout(context.Background(), tt.mode)

			require.NoError(t, err)
			assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_1", url)
		})
	}
}

func TestResolvePayment(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		status     int
		wantStatus model.PaymentStatus
		wantEmail  string
	}{
		{
			name:       "paid session",
			body:       `{"id": "cs_1", "payment_status": "paid", "customer_details": {"email": "user@example.com"}}`,
			status:     http.StatusOK,
			wantStatus: model.PaymentStatusPaid,
			wantEmail:  "user@example.com",
		},
		{
			name:       "unpaid session",
			body:       `{"id": "cs_1", "payment_status": "unpaid", "customer_details": {"email": "user@example.com"}}`,
			status:     http.StatusOK,
			wantStatus: model.PaymentStatusInactive,
			wantEmail:  "user@example.com",
		},
		{
			name:       "unknown reference",
			body:       `{"error": {"type": "invalid_request_error", "message": "No such checkout session"}}`,
			status:     http.StatusNotFound,
			wantStatus: model.PaymentStatusInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/v1/checkout/sessions/cs_1", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := newTestClient(t, server)

			conf := c.ResolvePayment(context.Background(), "cs_1")

			assert.Equal(t, tt.wantStatus, conf.Status)
			assert.Equal(t, tt.wantEmail, conf.Email)
		})
	}
}

func TestResolveSubscription_TwoHop(t *testing.T) {
	tests := []struct {
		name       string
		subStatus  string
		wantStatus model.PaymentStatus
	}{
		{name: "active subscription", subStatus: "active", wantStatus: model.PaymentStatusActive},
		{name: "canceled subscription", subStatus: "canceled", wantStatus: model.PaymentStatusInactive},
		{name: "past due subscription", subStatus: "past_due", wantStatus: model.PaymentStatusInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				switch r.URL.Path {
				case "/v1/checkout/sessions/cs_2":
					_, _ = w.Write([]byte(`{"id": "cs_2", "subscription": "sub_1", "customer_details": {"email": "user@example.com"}}`))
				case "/v1/subscriptions/sub_1":
					_, _ = w.Write([]byte(`{"id": "sub_1", "status": "` + tt.subStatus + `"}`))
				default:
					t.Errorf("unexpected request path %s", r.URL.Path)
					w.WriteHeader(http.StatusNotFound)
				}
			}))
			defer server.Close()

			c := newTestClient(t, server)

			conf := c.ResolveSubscription(context.Background(), "cs_2")

			assert.Equal(t, tt.wantStatus, conf.Status)
			assert.Equal(t, "user@example.com", conf.Email)
		})
	}
}

func TestResolveSubscription_NoSubscriptionOnSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "cs_3", "customer_details": {"email": "user@example.com"}}`))
	}))
	defer server.Close()

	c := newTestClient(t, server)

	conf := c.ResolveSubscription(context.Background(), "cs_3")

	assert.Equal(t, model.PaymentStatusInvalid, conf.Status)
}

func TestResolveSubscription_SecondHopFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/checkout/sessions/cs_4":
			_, _ = w.Write([]byte(`{"id": "cs_4", "subscription": "sub_gone"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error": {"type": "invalid_request_error", "message": "No such subscription"}}`))
		}
	}))
	defer server.Close()

	c := newTestClient(t, server)

	conf := c.ResolveSubscription(context.Background(), "cs_4")

	assert.Equal(t, model.PaymentStatusInvalid, conf.Status)
}
