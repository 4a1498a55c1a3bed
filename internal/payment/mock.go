package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/ozanyurtsever/quickshow/internal/domain"
	"github.com/stripe/stripe-go/v82"
)

// MockPaymentProvider keeps checkout sessions in memory. Tests flip a session
// to paid or expired to drive the reconciliation path without talking to
// Stripe.
type MockPaymentProvider struct {
	mu       sync.Mutex
	sessions map[string]*stripe.CheckoutSession
	seq      int

	// FailCreate makes CreateCheckoutSession return an error, simulating a
	// gateway outage.
	FailCreate bool
}

func NewMockPaymentProvider() *MockPaymentProvider {
	return &MockPaymentProvider{
		sessions: make(map[string]*stripe.CheckoutSession),
	}
}

func (p *MockPaymentProvider) CreateCheckoutSession(
	ctx context.Context,
	booking *domain.Booking,
	movieTitle, origin string,
) (*stripe.CheckoutSession, error) {

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.FailCreate {
		return nil, domain.ErrGatewayUnavailable
	}

	p.seq++
	id := fmt.Sprintf("cs_mock_%d", p.seq)

	session := &stripe.CheckoutSession{
		ID:            id,
		URL:           "https://checkout.example.com/" + id,
		Status:        stripe.CheckoutSessionStatusOpen,
		PaymentStatus: stripe.CheckoutSessionPaymentStatusUnpaid,
		Metadata:      map[string]string{"booking_id": booking.ID.String()},
	}
	p.sessions[id] = session

	return session, nil
}

func (p *MockPaymentProvider) GetCheckoutSession(ctx context.Context, checkoutSessionID string) (*stripe.CheckoutSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	session, ok := p.sessions[checkoutSessionID]
	if !ok {
		return nil, fmt.Errorf("no such checkout session: %s", checkoutSessionID)
	}

	copied := *session

	return &copied, nil
}

func (p *MockPaymentProvider) ExpireCheckoutSession(ctx context.Context, checkoutSessionID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	session, ok := p.sessions[checkoutSessionID]
	if !ok {
		return fmt.Errorf("no such checkout session: %s", checkoutSessionID)
	}

	session.Status = stripe.CheckoutSessionStatusExpired

	return nil
}

// CompletePayment marks the session as paid on behalf of the given customer.
func (p *MockPaymentProvider) CompletePayment(checkoutSessionID, customerEmail string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	session, ok := p.sessions[checkoutSessionID]
	if !ok {
		return fmt.Errorf("no such checkout session: %s", checkoutSessionID)
	}

	session.Status = stripe.CheckoutSessionStatusComplete
	session.PaymentStatus = stripe.CheckoutSessionPaymentStatusPaid
	session.CustomerDetails = &stripe.CheckoutSessionCustomerDetails{Email: customerEmail}

	return nil
}
