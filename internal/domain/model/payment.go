package model

// CheckoutMode selects the kind of checkout session created with the billing
// provider.
type CheckoutMode string

const (
	// CheckoutModePayment is a one-time charge.
	CheckoutModePayment CheckoutMode = "payment"
	// CheckoutModeSubscription is a recurring charge.
	CheckoutModeSubscription CheckoutMode = "subscription"
)

// PaymentStatus is the outcome of resolving a checkout reference against the
// billing provider.
type PaymentStatus string

const (
	// PaymentStatusPaid means a one-time charge completed.
	PaymentStatusPaid PaymentStatus = "paid"
	// PaymentStatusActive means the resolved subscription is active.
	PaymentStatusActive PaymentStatus = "active"
	// PaymentStatusInactive means the reference exists but access is not
	// granted (unpaid session, lapsed subscription).
	PaymentStatusInactive PaymentStatus = "inactive"
	// PaymentStatusInvalid means the reference could not be resolved at all,
	// including malformed references and provider errors.
	PaymentStatusInvalid PaymentStatus = "invalid"
)

// PaymentConfirmation is the transient result of one billing lookup. It is
// never persisted; every gated request resolves its reference afresh.
type PaymentConfirmation struct {
	Status PaymentStatus
	// Email is the account's billing-registered address, when the provider
	// reported one. Empty for invalid references.
	Email string
}

// Granted reports whether the confirmation unlocks the gated endpoint.
// Paid is the sole success value for one-time flows, active for
// subscription flows; both are accepted here since each adapter method only
// ever produces the status values of its own flow.
func (c PaymentConfirmation) Granted() bool {
	return c.Status == PaymentStatusPaid || c.Status == PaymentStatusActive
}
