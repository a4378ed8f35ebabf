// audit.go implements the audit trail endpoints: filtered listing and the purge
// of old entries. The purge itself is recorded synchronously before any rows are
// removed so the trail always explains who removed what, even if the process
// dies mid-deletion.
package admin

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vijana-portal/vijana-portal/internal/api/respond"
	"github.com/vijana-portal/vijana-portal/internal/audit"
	"github.com/vijana-portal/vijana-portal/internal/db/models"
)

// AuditHandlers handles audit trail endpoints
type AuditHandlers struct {
	recorder *audit.Recorder
}

// NewAuditHandlers creates a new AuditHandlers instance
func NewAuditHandlers(recorder *audit.Recorder) *AuditHandlers {
	return &AuditHandlers{recorder: recorder}
}

// parseTimeParam parses an optional RFC 3339 query parameter
func parseTimeParam(c *gin.Context, name string) (*time.Time, bool) {
	value := c.Query(name)
	if value == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, false
	}
	return &t, true
}

// @Summary      List audit events
// @Description  Lists the audit trail newest first, with optional action, entity, actor, and time range filters.
// @Tags         Audit
// @Security     Bearer
// @Produce      json
// @Param        action    query  string  false  "Action filter (CREATE, LOGIN_FAILED, ...)"
// @Param        entity    query  string  false  "Entity filter (OPPORTUNITY, AUTH, ...)"
// @Param        actor     query  string  false  "Actor user ID"
// @Param        from      query  string  false  "RFC 3339 lower bound"
// @Param        to        query  string  false  "RFC 3339 upper bound"
// @Param        page      query  int     false  "Page number (default 1)"
// @Param        per_page  query  int     false  "Items per page, max 100 (default 20)"
// @Success      200  {object}  map[string]interface{}  "items: []models.AuditEvent, pagination: map"
// @Router       /api/admin/audit [get]
// ListAuditEventsHandler lists the audit trail
// GET /api/admin/audit?action=&entity=&actor=&from=&to=&page=1&per_page=20
func (h *AuditHandlers) ListAuditEventsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, perPage, offset := respond.PageParams(c)

		from, ok := parseTimeParam(c, "from")
		if !ok {
			respond.Error(c, http.StatusBadRequest, "VALIDATION_FAILED")
			return
		}
		to, ok := parseTimeParam(c, "to")
		if !ok {
			respond.Error(c, http.StatusBadRequest, "VALIDATION_FAILED")
			return
		}

		filter := models.AuditFilter{
			Action:  c.Query("action"),
			Entity:  c.Query("entity"),
			ActorID: c.Query("actor"),
			From:    from,
			To:      to,
			Limit:   perPage,
			Offset:  offset,
		}

		events, total, err := h.recorder.Repository().ListAuditEvents(c.Request.Context(), filter)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		respond.OK(c, respond.Paginated(events, page, perPage, total))
	}
}

type purgeRequest struct {
	// Before is the RFC 3339 cutoff; events older than this are removed
	Before time.Time `json:"before" binding:"required"`
}

// @Summary      Purge old audit events
// @Description  Removes audit events older than the cutoff. The purge is itself written to the trail first, synchronously.
// @Tags         Audit
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "data: removed count"
// @Failure      400  {object}  map[string]interface{}  "Validation failed"
// @Router       /api/admin/audit/purge [post]
// PurgeAuditEventsHandler removes audit events older than a cutoff
// POST /api/admin/audit/purge
func (h *AuditHandlers) PurgeAuditEventsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req purgeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "VALIDATION_FAILED")
			return
		}

		if req.Before.After(time.Now()) {
			respond.Error(c, http.StatusBadRequest, "VALIDATION_FAILED")
			return
		}

		// The purge record must be durable before rows disappear, so this one
		// write bypasses the async path.
		event := respond.Event(c, models.AuditActionDelete, models.AuditEntityAuth, "",
			fmt.Sprintf("audit trail purged of events before %s", req.Before.Format(time.RFC3339)))
		if err := h.recorder.RecordSync(c.Request.Context(), event); err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		removed, err := h.recorder.Repository().PurgeAuditEvents(c.Request.Context(), req.Before)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		respond.Success(c, http.StatusOK, "AUDIT_PURGE_SUCCESS", gin.H{"removed": removed})
	}
}
