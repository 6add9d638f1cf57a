package driven

import (
	"context"

	"github.com/chatgate/chatgate/internal/domain/model"
)

// BillingClient defines the driven port for the external billing provider.
//
// The Resolve methods return a confirmation value instead of an error:
// any provider failure, including a malformed or nonexistent reference,
// maps to model.PaymentStatusInvalid so handlers branch on data rather
// than on raised faults. Results are never cached; every gated request
// costs a fresh provider round trip.
type BillingClient interface {
	// CreateCheckout creates a provider-hosted checkout session and returns
	// its URL. The session's success redirect carries the checkout reference
	// as a session_id query parameter.
	CreateCheckout(ctx context.Context, mode model.CheckoutMode) (string, error)

	// ResolvePayment resolves a one-time checkout reference.
	// Paid is the only status that grants access.
	ResolvePayment(ctx context.Context, sessionID string) model.PaymentConfirmation

	// ResolveSubscription resolves a subscription checkout reference in two
	// hops: checkout reference to subscription, subscription to status.
	// Active is the only status that grants access.
	ResolveSubscription(ctx context.Context, sessionID string) model.PaymentConfirmation
}
