package domain

import "errors"

var (
	// Ledger errors
	ErrInvalidCurrency     = errors.New("invalid currency code")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidMovementKind = errors.New("invalid movement kind")
	ErrInvalidSource       = errors.New("invalid movement source reference")
	ErrBalanceMismatch     = errors.New("new balance does not match prior balance and amount")
	ErrMissingUser         = errors.New("user is required")
	ErrMovementNotFound    = errors.New("movement not found")
	ErrLedgerInconsistent  = errors.New("ledger balance chain is inconsistent")

	// Withdrawal errors
	ErrWithdrawalNotFound = errors.New("withdrawal not found")

	// Count errors
	ErrCountNotFound      = errors.New("count not found")
	ErrEmptyCount         = errors.New("count must include at least one currency")
	ErrDuplicateCurrency  = errors.New("count lists the same currency twice")
	ErrNegativeCountTotal = errors.New("counted total cannot be negative")

	// Deposit errors
	ErrDepositNotFound    = errors.New("deposit not found")
	ErrInvalidBankAccount = errors.New("bank account is required")

	// Shared errors
	ErrInvalidTransition = errors.New("operation not allowed in current status")
	ErrReferencedRecord  = errors.New("referenced record does not exist")
)
