package domain

import "time"

// AuditLog records who did what to which resource. Written best-effort after
// each mutating operation; never part of the ledger transaction.
type AuditLog struct {
	ID           string
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	RequestID    string
	BeforeState  map[string]any
	AfterState   map[string]any
	Status       string
	ErrorMessage string
	CreatedAt    time.Time
}

// Audit statuses.
const (
	AuditStatusSuccess = "success"
	AuditStatusFailure = "failure"
)

// AuditFilter narrows audit log listings.
type AuditFilter struct {
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	Limit        int
	Offset       int
}
