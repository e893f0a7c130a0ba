package domain

import "time"

// AuditAction names an identity lifecycle event.
type AuditAction string

const (
	AuditLogin      AuditAction = "login"
	AuditRegister   AuditAction = "register"
	AuditRoleChange AuditAction = "role_change"
	AuditDeactivate AuditAction = "deactivate"
	AuditBootstrap  AuditAction = "bootstrap_admin"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// AuditEvent is an append-only record of an identity lifecycle event.
type AuditEvent struct {
	ID      string      `json:"id"`
	Action  AuditAction `json:"action"`
	Actor   string      `json:"actor"`
	UserID  string      `json:"user_id,omitempty"`
	Outcome string      `json:"outcome"`
	Detail  string      `json:"detail,omitempty"`
	At      time.Time   `json:"at"`
}
