package dto

import (
	"github.com/shopspring/decimal"

	"github.com/farmasys/cajacentral/internal/domain"
	"github.com/farmasys/cajacentral/internal/usecase"
)

// CountLineRequest is one currency's counted total inside a count request.
type CountLineRequest struct {
	Currency     string          `json:"currency"`
	CountedTotal decimal.Decimal `json:"counted_total"`
	Concept      string          `json:"concept,omitempty"`
}

// CreateCountRequest represents a request to register a cash count.
type CreateCountRequest struct {
	Lines []CountLineRequest `json:"lines"`
	Notes string             `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCountRequest) ToUseCaseInput(userID string) usecase.CreateCountInput {
	lines := make([]usecase.CountLineInput, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = usecase.CountLineInput{
			Currency:     domain.NormalizeCurrency(l.Currency),
			CountedTotal: l.CountedTotal,
			Concept:      l.Concept,
		}
	}

	return usecase.CreateCountInput{
		UserID: userID,
		Notes:  r.Notes,
		Lines:  lines,
	}
}

// CreateWithdrawalRequest represents a request to register a branch
// withdrawal headed for the central desk.
type CreateWithdrawalRequest struct {
	BranchID string          `json:"branch_id"`
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
	Notes    string          `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateWithdrawalRequest) ToUseCaseInput(userID string) usecase.CreateWithdrawalInput {
	return usecase.CreateWithdrawalInput{
		BranchID:    r.BranchID,
		Currency:    domain.NormalizeCurrency(r.Currency),
		Amount:      r.Amount,
		RequestedBy: userID,
		Notes:       r.Notes,
	}
}

// TransitionRequest carries the optional notes of a status transition
// (receive, reverse, reject, confirm, cancel).
type TransitionRequest struct {
	Notes string `json:"notes,omitempty"`
}

// CreateDepositRequest represents a request to register a bank deposit.
type CreateDepositRequest struct {
	BankAccount string          `json:"bank_account"`
	Reference   string          `json:"reference,omitempty"`
	Currency    string          `json:"currency"`
	Amount      decimal.Decimal `json:"amount"`
	Notes       string          `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateDepositRequest) ToUseCaseInput(userID string) usecase.CreateDepositInput {
	return usecase.CreateDepositInput{
		BankAccount: r.BankAccount,
		Reference:   r.Reference,
		Currency:    domain.NormalizeCurrency(r.Currency),
		Amount:      r.Amount,
		UserID:      userID,
		Notes:       r.Notes,
	}
}
