// Package domain holds the error kinds shared by every MiniBank domain
// package. Callers match them with errors.Is; producers wrap them with
// fmt.Errorf("%w: ...") to add context.
package domain

import "errors"

var (
	// ErrInvalidAmount is returned when an amount is negative or, for a
	// transfer, not strictly positive.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidTransfer is returned when source and destination accounts are the same.
	ErrInvalidTransfer = errors.New("transfer must be between different accounts")

	// ErrInvalidCurrency is returned for currency codes outside the supported set.
	ErrInvalidCurrency = errors.New("invalid currency code")

	// ErrAccountNotFound is returned when an account cannot be found.
	ErrAccountNotFound = errors.New("account not found")

	// ErrUserNotFound is returned when a user cannot be found.
	ErrUserNotFound = errors.New("user not found")

	// ErrNonZeroBalance is returned when closing an account that still holds money.
	ErrNonZeroBalance = errors.New("account balance must be zero to close")

	// ErrAccountClosed is returned when mutating an account that has been closed.
	ErrAccountClosed = errors.New("account is closed")

	// ErrInsufficientFunds is returned when a debit would take the balance
	// below zero and overdraft is disabled.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrExchangeRateUnavailable is returned when a rate lookup fails.
	ErrExchangeRateUnavailable = errors.New("exchange rate unavailable")

	// ErrUserHasAccounts is returned when deleting a user that still owns accounts.
	ErrUserHasAccounts = errors.New("user has connected accounts")

	// ErrValidation is returned when input validation fails.
	ErrValidation = errors.New("validation error")
)
