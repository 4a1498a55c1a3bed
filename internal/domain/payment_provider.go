package domain

import (
	"context"

	"github.com/stripe/stripe-go/v82"
)

type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, booking *Booking, movieTitle, origin string) (*stripe.CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, checkoutSessionID string) (*stripe.CheckoutSession, error)
	ExpireCheckoutSession(ctx context.Context, checkoutSessionID string) error
}
