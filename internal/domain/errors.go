package domain

import "errors"

// Expected business outcomes. These are returned, never panicked, and the
// handlers map them onto HTTP statuses. Anything not in this list is an
// infrastructure fault.
var (
	// ErrSoldOut - fewer tickets were available than requested at the
	// moment of the attempt. Never retried by the engine.
	ErrSoldOut = errors.New("not enough tickets available")

	// ErrHoldExpired - the hold lapsed (or was reclaimed) before finalize.
	ErrHoldExpired = errors.New("hold has expired")

	// ErrUnauthorized - the hold belongs to a different buyer session.
	ErrUnauthorized = errors.New("hold belongs to a different session")

	// ErrAlreadyFinalized - the hold was already converted into a sale.
	// Callers treat this as success for delivery purposes.
	ErrAlreadyFinalized = errors.New("hold already finalized")

	// ErrAlreadyRedeemed - the ticket was already used. The expected
	// outcome of a duplicate scan, not a system error.
	ErrAlreadyRedeemed = errors.New("ticket already redeemed")

	// ErrNotSold - redemption attempted on a ticket that was never sold.
	ErrNotSold = errors.New("ticket is not sold")

	// ErrInvalidCount - a batch or reservation asked for a non-positive
	// number of tickets.
	ErrInvalidCount = errors.New("count must be positive")

	ErrEventNotFound  = errors.New("event not found")
	ErrHoldNotFound   = errors.New("hold not found")
	ErrTicketNotFound = errors.New("ticket not found")
)
