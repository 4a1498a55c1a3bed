package integration_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ReconciliationTestSuite struct {
	BaseSuite
}

func TestReconciliationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}
	suite.Run(t, new(ReconciliationTestSuite))
}

const (
	settleTimeout = 20 * time.Second
	settleTick    = 500 * time.Millisecond
)

func (s *ReconciliationTestSuite) TestPaidBookingIsConfirmed() {
	resetState(s.T(), s.app)

	booking := createBooking(s.T(), s.app, 1, 1, []string{"A1", "A2"})

	sessionId := bookingSessionId(s.T(), s.app.DB, booking.BookingId)
	s.Require().NoError(s.app.PaymentProvider.CompletePayment(sessionId, "moviegoer@example.com"))

	s.Require().Eventually(func() bool {
		status, found := bookingStatus(s.T(), s.app.DB, booking.BookingId)
		return found && status == "confirmed"
	}, settleTimeout, settleTick, "booking must be confirmed after the payment check fires")

	// Seats stay held by the confirmed booking.
	s.Equal(map[string]int{"A1": 1, "A2": 1}, occupiedSeats(s.T(), s.app.DB, 1))

	s.Eventually(func() bool {
		emails := s.app.Mailer.SentEmails()
		return len(emails) == 1 && emails[0].Recipient == "moviegoer@example.com"
	}, settleTimeout, settleTick, "confirmation email must be sent")
}

func (s *ReconciliationTestSuite) TestUnpaidBookingIsAbandonedAndSeatsFreed() {
	resetState(s.T(), s.app)

	booking := createBooking(s.T(), s.app, 1, 1, []string{"B5"})

	s.Require().Eventually(func() bool {
		status, found := bookingStatus(s.T(), s.app.DB, booking.BookingId)
		return found && status == "abandoned"
	}, settleTimeout, settleTick, "unpaid booking must be abandoned after the payment check fires")

	s.Empty(occupiedSeats(s.T(), s.app.DB, 1), "abandoned booking must release its seats")

	// The freed seat can be booked again.
	rebooked := createBooking(s.T(), s.app, 2, 1, []string{"B5"})
	s.NotEqual(booking.BookingId, rebooked.BookingId)
	s.Equal(map[string]int{"B5": 2}, occupiedSeats(s.T(), s.app.DB, 1))
}
