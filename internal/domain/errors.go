package domain

import "errors"

var (
	ErrRecordNotFound           = errors.New("record not found")
	ErrSeatsUnavailable         = errors.New("selected seats are not available")
	ErrCancellationWindowClosed = errors.New("cancellation window has closed")
	ErrGatewayUnavailable       = errors.New("payment gateway is unavailable")
)
