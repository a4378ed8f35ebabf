// Package models - audit_event.go defines the AuditEvent model, the immutable trail
// record written for every security-relevant action in the portal: logins, CRUD on
// listings, publishes, answers, and account changes.
package models

import "time"

// Audit actions.
const (
	AuditActionCreate          = "CREATE"
	AuditActionUpdate          = "UPDATE"
	AuditActionDelete          = "DELETE"
	AuditActionLogin           = "LOGIN"
	AuditActionLoginFailed     = "LOGIN_FAILED"
	AuditActionLoginBlocked    = "LOGIN_BLOCKED"
	AuditActionLogout          = "LOGOUT"
	AuditActionRegister        = "REGISTER"
	AuditActionRegisterSuccess = "REGISTER_SUCCESS"
	AuditActionRegisterFailed  = "REGISTER_FAILED"
	AuditActionPublish         = "PUBLISH"
	AuditActionSave            = "SAVE"
	AuditActionUnsave          = "UNSAVE"
	AuditActionRead            = "READ"
)

// Audit entity types.
const (
	AuditEntityUser             = "USER"
	AuditEntityCategory         = "CATEGORY"
	AuditEntityOpportunity      = "OPPORTUNITY"
	AuditEntityTraining         = "TRAINING"
	AuditEntityProfile          = "PROFILE"
	AuditEntityQuestion         = "QUESTION"
	AuditEntityAuth             = "AUTH"
	AuditEntityYouth            = "YOUTH"
	AuditEntitySavedOpportunity = "SAVED_OPPORTUNITY"
)

// AuditEvent represents one entry in the audit trail. Events are append-only;
// the only mutation the system performs on this table is the administrator purge.
// The db tags support sqlx struct scanning in the audit repository.
type AuditEvent struct {
	ID          string    `json:"id" db:"id"`
	Action      string    `json:"action" db:"action"`
	Entity      string    `json:"entity" db:"entity"`
	EntityID    *string   `json:"entityId,omitempty" db:"entity_id"`
	ActorID     *string   `json:"actorId,omitempty" db:"actor_id"`
	Role        *string   `json:"role,omitempty" db:"role"`
	Description string    `json:"description" db:"description"`
	IPAddress   *string   `json:"ipAddress,omitempty" db:"ip_address"`
	UserAgent   *string   `json:"userAgent,omitempty" db:"user_agent"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// AuditFilter narrows audit trail queries
type AuditFilter struct {
	Action  string
	Entity  string
	ActorID string
	From    *time.Time
	To      *time.Time
	Limit   int
	Offset  int
}
