package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ozanyurtsever/quickshow/internal/domain"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

type StripePaymentProvider struct {
	failureUrl    string
	successUrl    string
	sessionExpiry time.Duration
}

func NewStripePaymentProvider(failureUrl, successUrl string, sessionExpiry time.Duration) *StripePaymentProvider {
	return &StripePaymentProvider{
		failureUrl:    failureUrl,
		successUrl:    successUrl,
		sessionExpiry: sessionExpiry,
	}
}

// CreateCheckoutSession issues a time-limited Stripe checkout session for the
// booking. The redirect targets are derived from the caller's origin when one
// is present, falling back to the configured pages. The booking id travels as
// session metadata so the reconciliation handler can tie the outcome back.
func (s *StripePaymentProvider) CreateCheckoutSession(
	ctx context.Context,
	booking *domain.Booking,
	movieTitle, origin string) (*stripe.CheckoutSession, error) {

	successUrl := s.successUrl
	cancelUrl := s.failureUrl

	if origin != "" {
		successUrl = origin + "/loading/my-bookings"
		cancelUrl = origin + "/my-bookings"
	}

	lineItem := &stripe.CheckoutSessionLineItemParams{
		PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String(string(stripe.CurrencyUSD)),
			UnitAmount: stripe.Int64(booking.AmountCents()),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name:        stripe.String(fmt.Sprintf("🎬 %s", movieTitle)),
				Description: stripe.String(fmt.Sprintf("Seats: %s", strings.Join(booking.Seats, ", "))),
			},
		},
		Quantity: stripe.Int64(1),
	}

	params := &stripe.CheckoutSessionParams{
		LineItems:  []*stripe.CheckoutSessionLineItemParams{lineItem},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(successUrl),
		CancelURL:  stripe.String(cancelUrl),
		Metadata: map[string]string{
			"booking_id": booking.ID.String(),
		},
		ExpiresAt: stripe.Int64(time.Now().Add(s.sessionExpiry).Unix()),
	}
	params.Context = ctx

	checkoutSession, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}

	return checkoutSession, nil
}

func (s *StripePaymentProvider) GetCheckoutSession(
	ctx context.Context,
	checkoutSessionID string) (*stripe.CheckoutSession, error) {

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	return session.Get(checkoutSessionID, params)
}

func (s *StripePaymentProvider) ExpireCheckoutSession(ctx context.Context, checkoutSessionID string) error {
	params := &stripe.CheckoutSessionExpireParams{}
	params.Context = ctx

	_, err := session.Expire(checkoutSessionID, params)

	return err
}
