package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmasys/cajacentral/internal/domain"
	"github.com/farmasys/cajacentral/internal/usecase"
)

// BalanceResponse represents one currency's running balance.
type BalanceResponse struct {
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	UpdatedAt time.Time       `json:"updated_at,omitempty"`
}

// BalanceFromDomain converts a domain balance to a response.
func BalanceFromDomain(cb *domain.CurrencyBalance) *BalanceResponse {
	return &BalanceResponse{
		Currency:  string(cb.Currency),
		Balance:   cb.Balance,
		UpdatedAt: cb.UpdatedAt,
	}
}

// BalancesFromDomain converts domain balances to responses.
func BalancesFromDomain(balances []*domain.CurrencyBalance) []*BalanceResponse {
	result := make([]*BalanceResponse, len(balances))
	for i, cb := range balances {
		result[i] = BalanceFromDomain(cb)
	}
	return result
}

// MovementResponse represents a ledger movement in API responses.
type MovementResponse struct {
	ID           string          `json:"id"`
	Currency     string          `json:"currency"`
	Kind         string          `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	IsCredit     bool            `json:"is_credit"`
	PriorBalance decimal.Decimal `json:"prior_balance"`
	NewBalance   decimal.Decimal `json:"new_balance"`
	SourceKind   string          `json:"source_kind"`
	SourceID     string          `json:"source_id"`
	Concept      string          `json:"concept"`
	Notes        string          `json:"notes,omitempty"`
	UserID       string          `json:"user_id"`
	CreatedAt    time.Time       `json:"created_at"`
}

// MovementFromDomain converts a domain movement to a response.
func MovementFromDomain(m *domain.Movement) *MovementResponse {
	return &MovementResponse{
		ID:           m.ID,
		Currency:     string(m.Currency),
		Kind:         string(m.Kind),
		Amount:       m.Amount,
		IsCredit:     m.IsCredit,
		PriorBalance: m.PriorBalance,
		NewBalance:   m.NewBalance,
		SourceKind:   string(m.Source.Kind),
		SourceID:     m.Source.ID,
		Concept:      m.Concept,
		Notes:        m.Notes,
		UserID:       m.UserID,
		CreatedAt:    m.CreatedAt,
	}
}

// MovementsFromDomain converts domain movements to responses.
func MovementsFromDomain(movements []*domain.Movement) []*MovementResponse {
	result := make([]*MovementResponse, len(movements))
	for i, m := range movements {
		result[i] = MovementFromDomain(m)
	}
	return result
}

// CountLineResponse represents one currency's result inside a count.
type CountLineResponse struct {
	ID            string          `json:"id"`
	Currency      string          `json:"currency"`
	CountedTotal  decimal.Decimal `json:"counted_total"`
	SystemBalance decimal.Decimal `json:"system_balance"`
	Difference    decimal.Decimal `json:"difference"`
	Concept       string          `json:"concept,omitempty"`
}

// CountResponse represents a cash count in API responses.
type CountResponse struct {
	ID        string              `json:"id"`
	UserID    string              `json:"user_id"`
	Notes     string              `json:"notes,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	Lines     []CountLineResponse `json:"lines"`
}

// CountFromDomain converts a domain count to a response.
func CountFromDomain(c *domain.CashCount) *CountResponse {
	lines := make([]CountLineResponse, len(c.Lines))
	for i, l := range c.Lines {
		lines[i] = CountLineResponse{
			ID:            l.ID,
			Currency:      string(l.Currency),
			CountedTotal:  l.CountedTotal,
			SystemBalance: l.SystemBalance,
			Difference:    l.Difference,
			Concept:       l.Concept,
		}
	}

	return &CountResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		Lines:     lines,
	}
}

// CountsFromDomain converts domain counts to responses.
func CountsFromDomain(counts []*domain.CashCount) []*CountResponse {
	result := make([]*CountResponse, len(counts))
	for i, c := range counts {
		result[i] = CountFromDomain(c)
	}
	return result
}

// WithdrawalResponse represents a withdrawal in API responses.
type WithdrawalResponse struct {
	ID          string          `json:"id"`
	BranchID    string          `json:"branch_id"`
	Currency    string          `json:"currency"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	RequestedBy string          `json:"requested_by"`
	ReceivedBy  string          `json:"received_by,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// WithdrawalFromDomain converts a domain withdrawal to a response.
func WithdrawalFromDomain(w *domain.Withdrawal) *WithdrawalResponse {
	return &WithdrawalResponse{
		ID:          w.ID,
		BranchID:    w.BranchID,
		Currency:    string(w.Currency),
		Amount:      w.Amount,
		Status:      string(w.Status),
		RequestedBy: w.RequestedBy,
		ReceivedBy:  w.ReceivedBy,
		Notes:       w.Notes,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

// WithdrawalsFromDomain converts domain withdrawals to responses.
func WithdrawalsFromDomain(withdrawals []*domain.Withdrawal) []*WithdrawalResponse {
	result := make([]*WithdrawalResponse, len(withdrawals))
	for i, w := range withdrawals {
		result[i] = WithdrawalFromDomain(w)
	}
	return result
}

// DepositResponse represents a deposit in API responses.
type DepositResponse struct {
	ID          string          `json:"id"`
	BankAccount string          `json:"bank_account"`
	Reference   string          `json:"reference,omitempty"`
	Currency    string          `json:"currency"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	UserID      string          `json:"user_id"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// DepositFromDomain converts a domain deposit to a response.
func DepositFromDomain(d *domain.Deposit) *DepositResponse {
	return &DepositResponse{
		ID:          d.ID,
		BankAccount: d.BankAccount,
		Reference:   d.Reference,
		Currency:    string(d.Currency),
		Amount:      d.Amount,
		Status:      string(d.Status),
		UserID:      d.UserID,
		Notes:       d.Notes,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// DepositsFromDomain converts domain deposits to responses.
func DepositsFromDomain(deposits []*domain.Deposit) []*DepositResponse {
	result := make([]*DepositResponse, len(deposits))
	for i, d := range deposits {
		result[i] = DepositFromDomain(d)
	}
	return result
}

// AuditLogResponse represents an audit log entry in API responses.
type AuditLogResponse struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	RequestID    string         `json:"request_id,omitempty"`
	AfterState   map[string]any `json:"after_state,omitempty"`
	Status       string         `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
}

// AuditLogFromDomain converts a domain audit log to a response.
func AuditLogFromDomain(l *domain.AuditLog) *AuditLogResponse {
	return &AuditLogResponse{
		ID:           l.ID,
		UserID:       l.UserID,
		Action:       l.Action,
		ResourceType: l.ResourceType,
		ResourceID:   l.ResourceID,
		RequestID:    l.RequestID,
		AfterState:   l.AfterState,
		Status:       l.Status,
		CreatedAt:    l.CreatedAt,
	}
}

// AuditLogsFromDomain converts domain audit logs to responses.
func AuditLogsFromDomain(logs []*domain.AuditLog) []*AuditLogResponse {
	result := make([]*AuditLogResponse, len(logs))
	for i, l := range logs {
		result[i] = AuditLogFromDomain(l)
	}
	return result
}

// ConsistencyResultResponse reports one currency's check outcome.
type ConsistencyResultResponse struct {
	Currency      string          `json:"currency"`
	StoredBalance decimal.Decimal `json:"stored_balance"`
	LatestEntry   decimal.Decimal `json:"latest_entry"`
	ChainDepth    int             `json:"chain_depth"`
	Consistent    bool            `json:"consistent"`
}

// ConsistencyResponse represents a consistency report.
type ConsistencyResponse struct {
	Results    []ConsistencyResultResponse `json:"results"`
	Consistent bool                        `json:"consistent"`
	CheckedAt  time.Time                   `json:"checked_at"`
}

// ConsistencyFromReport converts a usecase report to a response.
func ConsistencyFromReport(report *usecase.ConsistencyReport) *ConsistencyResponse {
	results := make([]ConsistencyResultResponse, len(report.Results))
	for i, r := range report.Results {
		results[i] = ConsistencyResultResponse{
			Currency:      string(r.Currency),
			StoredBalance: r.StoredBalance,
			LatestEntry:   r.LatestEntry,
			ChainDepth:    r.ChainDepth,
			Consistent:    r.Consistent,
		}
	}

	return &ConsistencyResponse{
		Results:    results,
		Consistent: report.Consistent,
		CheckedAt:  report.CheckedAt,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
