// event.go builds audit events from request context so every handler records
// the same actor, client IP, and user agent fields without repeating the
// extraction logic.
package respond

import (
	"github.com/gin-gonic/gin"
	"github.com/vijana-portal/vijana-portal/internal/db/models"
)

// Context keys set by the auth middleware. Declared here, next to the code
// that reads them, so respond does not depend on the middleware package.
const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
	ContextUserRole  = "user_role"
)

func contextString(c *gin.Context, key string) *string {
	if v, exists := c.Get(key); exists {
		if s, ok := v.(string); ok && s != "" {
			return &s
		}
	}
	return nil
}

// Event builds an audit event for the current request. entityID may be empty
// for events that concern no single record (failed logins, list reads).
func Event(c *gin.Context, action, entity, entityID, description string) *models.AuditEvent {
	event := &models.AuditEvent{
		Action:      action,
		Entity:      entity,
		Description: description,
	}

	if entityID != "" {
		event.EntityID = &entityID
	}

	event.ActorID = contextString(c, ContextUserID)
	event.Role = contextString(c, ContextUserRole)

	if ip := c.ClientIP(); ip != "" {
		event.IPAddress = &ip
	}
	if ua := c.Request.UserAgent(); ua != "" {
		event.UserAgent = &ua
	}

	return event
}
