package billing

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/checkout/session"
)

// Client talks to Stripe's hosted checkout API.
type Client struct {
	successURL string
	cancelURL  string
}

func NewClient(secretKey, successURL, cancelURL string) *Client {
	stripe.Key = secretKey
	return &Client{
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}

// NewCheckoutSession creates a hosted checkout session for one credit pack.
// The profile and price ids ride along as session metadata and come back
// during verification.
func (c *Client) NewCheckoutSession(ctx context.Context, userID, priceID string) (*stripe.CheckoutSession, error) {
	if _, ok := CreditsForPrice(priceID); !ok {
		return nil, ErrUnknownPrice
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(c.successURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(c.cancelURL),
	}
	params.Context = ctx
	params.AddMetadata("user_id", userID)
	params.AddMetadata("price_id", priceID)

	s, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return s, nil
}

// GetCheckoutSession re-queries the provider for a session's current state.
func (c *Client) GetCheckoutSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := session.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("retrieve checkout session: %w", err)
	}
	return s, nil
}
