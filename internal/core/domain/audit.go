package domain

import "time"

// AuditAction identifies the kind of authentication event being recorded.
type AuditAction string

const (
	AuditActionRegister AuditAction = "register"
	AuditActionLogin    AuditAction = "login"
)

const (
	AuditOutcomeSuccess  = "success"
	AuditOutcomeDenied   = "denied"
	AuditOutcomeThrottle = "throttled"
)

// AuditEntry records one authentication event for the async audit trail.
type AuditEntry struct {
	Username string      `json:"username"`
	Action   AuditAction `json:"action"`
	Outcome  string      `json:"outcome"`
	At       time.Time   `json:"at"`
}
