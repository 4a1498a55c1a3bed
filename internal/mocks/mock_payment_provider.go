package mocks

import (
	"context"

	"github.com/ozanyurtsever/quickshow/internal/domain"
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v82"
)

type MockPaymentProvider struct {
	mock.Mock
	domain.PaymentProvider
}

func (m *MockPaymentProvider) CreateCheckoutSession(
	ctx context.Context,
	booking *domain.Booking,
	movieTitle, origin string) (*stripe.CheckoutSession, error) {

	args := m.Called(ctx, booking, movieTitle, origin)

	session, _ := args.Get(0).(*stripe.CheckoutSession)
	return session, args.Error(1)
}

func (m *MockPaymentProvider) GetCheckoutSession(ctx context.Context, checkoutSessionID string) (*stripe.CheckoutSession, error) {
	args := m.Called(ctx, checkoutSessionID)

	session, _ := args.Get(0).(*stripe.CheckoutSession)
	return session, args.Error(1)
}

func (m *MockPaymentProvider) ExpireCheckoutSession(ctx context.Context, checkoutSessionID string) error {
	args := m.Called(ctx, checkoutSessionID)
	return args.Error(0)
}
