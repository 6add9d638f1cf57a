// Package stripe implements the BillingClient port using the stripe-go library.
package stripe

import (
	"context"
	"fmt"
	"log/slog"

	stripe "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"

	"github.com/chatgate/chatgate/internal/domain/model"
	"github.com/chatgate/chatgate/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.BillingClient = (*Client)(nil)

// Client implements the driven.BillingClient port using the stripe-go library.
type Client struct {
	api     *client.API
	priceID string
	// baseURL is this service's externally reachable URL; checkout success
	// and cancel redirects point back at it.
	baseURL string
	logger  *slog.Logger
}

// NewClient creates a new Stripe billing client authenticated with the given
// secret key. priceID identifies the product price used for both one-time and
// subscription checkouts.
func NewClient(secretKey, priceID, baseURL string, logger *slog.Logger) *Client {
	api := &client.API{}
	api.Init(secretKey, nil)

	return &Client{
		api:     api,
		priceID: priceID,
		baseURL: baseURL,
		logger:  logger,
	}
}

// NewClientWithBackends creates a Client whose API calls go through the given
// backends. This constructor is intended for testing, allowing injection of
// an httptest server as the Stripe API endpoint.
func NewClientWithBackends(secretKey, priceID, baseURL string, backends *stripe.Backends, logger *slog.Logger) *Client {
	api := &client.API{}
	api.Init(secretKey, backends)

	return &Client{
		api:     api,
		priceID: priceID,
		baseURL: baseURL,
		logger:  logger,
	}
}

// CreateCheckout creates a provider-hosted checkout session and returns its
// URL. The success redirect carries the session reference as
// ?session_id={CHECKOUT_SESSION_ID}, which the success handlers resolve.
func (c *Client) CreateCheckout(ctx context.Context, mode model.CheckoutMode) (string, error) {
	successPath := "/success"
	sessionMode := stripe.CheckoutSessionModePayment
	if mode == model.CheckoutModeSubscription {
		successPath = "/subscription_success"
		sessionMode = stripe.CheckoutSessionModeSubscription
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(c.priceID),
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(sessionMode)),
		SuccessURL: stripe.String(c.baseURL + successPath + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(c.baseURL + "/"),
	}
	params.Context = ctx

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create %s checkout session: %w", mode, err)
	}

	return sess.URL, nil
}

// ResolvePayment resolves a one-time checkout reference to its payment
// status. Any provider error maps to StatusInvalid rather than propagating.
func (c *Client) ResolvePayment(ctx context.Context, sessionID string) model.PaymentConfirmation {
	sess, err := c.getSession(ctx, sessionID)
	if err != nil {
		c.logger.Warn("checkout session lookup failed", "session_id", sessionID, "error", err)
		return model.PaymentConfirmation{Status: model.PaymentStatusInvalid}
	}

	conf := model.PaymentConfirmation{
		Status: model.PaymentStatusInactive,
		Email:  sessionEmail(sess),
	}
	if sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid {
		conf.Status = model.PaymentStatusPaid
	}
	return conf
}

// ResolveSubscription resolves a subscription checkout reference in two hops:
// the checkout session names the subscription, and the subscription carries
// the status. Any provider error on either hop maps to StatusInvalid.
func (c *Client) ResolveSubscription(ctx context.Context, sessionID string) model.PaymentConfirmation {
	sess, err := c.getSession(ctx, sessionID)
	if err != nil {
		c.logger.Warn("checkout session lookup failed", "session_id", sessionID, "error", err)
		return model.PaymentConfirmation{Status: model.PaymentStatusInvalid}
	}

	if sess.Subscription == nil || sess.Subscription.ID == "" {
		return model.PaymentConfirmation{Status: model.PaymentStatusInvalid, Email: sessionEmail(sess)}
	}

	subParams := &stripe.SubscriptionParams{}
	subParams.Context = ctx
	sub, err := c.api.Subscriptions.Get(sess.Subscription.ID, subParams)
	if err != nil {
		c.logger.Warn("subscription lookup failed", "subscription_id", sess.Subscription.ID, "error", err)
		return model.PaymentConfirmation{Status: model.PaymentStatusInvalid, Email: sessionEmail(sess)}
	}

	conf := model.PaymentConfirmation{
		Status: model.PaymentStatusInactive,
		Email:  sessionEmail(sess),
	}
	if sub.Status == stripe.SubscriptionStatusActive {
		conf.Status = model.PaymentStatusActive
	}
	return conf
}

func (c *Client) getSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	return c.api.CheckoutSessions.Get(sessionID, params)
}

// sessionEmail extracts the billing-registered email from a checkout session.
// CustomerDetails is populated after checkout completes; CustomerEmail covers
// sessions created with a known customer.
func sessionEmail(sess *stripe.CheckoutSession) string {
	if sess.CustomerDetails != nil && sess.CustomerDetails.Email != "" {
		return sess.CustomerDetails.Email
	}
	return sess.CustomerEmail
}
