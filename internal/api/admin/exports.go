// exports.go implements the report download endpoints. Reports are generated
// in memory and streamed with a Content-Disposition attachment header; each
// download is audited as a READ of the exported entity.
package admin

import (
	"bytes"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/vijana-portal/vijana-portal/internal/api/respond"
	"github.com/vijana-portal/vijana-portal/internal/audit"
	"github.com/vijana-portal/vijana-portal/internal/db/models"
	"github.com/vijana-portal/vijana-portal/internal/db/repositories"
	"github.com/vijana-portal/vijana-portal/internal/export"
	"github.com/vijana-portal/vijana-portal/internal/telemetry"
)

// exportLimit caps how many rows a single report may contain
const exportLimit = 10000

// ExportHandlers handles report download endpoints
type ExportHandlers struct {
	oppRepo   *repositories.OpportunityRepository
	userRepo  *repositories.UserRepository
	auditRepo *repositories.AuditRepository
	recorder  *audit.Recorder
}

// NewExportHandlers creates a new ExportHandlers instance
func NewExportHandlers(db *sql.DB, sqlxDB *sqlx.DB, recorder *audit.Recorder) *ExportHandlers {
	return &ExportHandlers{
		oppRepo:   repositories.NewOpportunityRepository(db),
		userRepo:  repositories.NewUserRepository(db),
		auditRepo: repositories.NewAuditRepository(sqlxDB),
		recorder:  recorder,
	}
}

// serve renders the table and streams it as an attachment
func (h *ExportHandlers) serve(c *gin.Context, format, name string, table *export.Table) {
	var buf bytes.Buffer
	if err := export.Write(&buf, format, table); err != nil {
		respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
		return
	}

	telemetry.ExportsTotal.WithLabelValues(format).Inc()

	filename := fmt.Sprintf("%s-%s.%s", name, time.Now().Format("2006-01-02"), format)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, export.ContentType(format), buf.Bytes())
}

// format validates the format query parameter, defaulting to CSV
func exportFormat(c *gin.Context) (string, bool) {
	format := c.DefaultQuery("format", export.FormatCSV)
	if !export.ValidFormat(format) {
		respond.Error(c, http.StatusBadRequest, "VALIDATION_FAILED")
		return "", false
	}
	return format, true
}

// @Summary      Export opportunities
// @Tags         Exports
// @Security     Bearer
// @Produce      text/csv
// @Param        format  query  string  false  "csv (default), xlsx, or pdf"
// @Success      200  {file}  file
// @Router       /api/admin/exports/opportunities [get]
// ExportOpportunitiesHandler downloads the opportunity report
// GET /api/admin/exports/opportunities?format=csv
func (h *ExportHandlers) ExportOpportunitiesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		format, ok := exportFormat(c)
		if !ok {
			return
		}

		opps, _, err := h.oppRepo.ListOpportunities(c.Request.Context(), models.OpportunityFilter{Limit: exportLimit})
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		h.recorder.Record(respond.Event(c, models.AuditActionRead, models.AuditEntityOpportunity, "",
			fmt.Sprintf("opportunity report exported as %s", format)))

		h.serve(c, format, "opportunities", export.OpportunitiesTable(opps))
	}
}

// @Summary      Export youth accounts
// @Tags         Exports
// @Security     Bearer
// @Produce      text/csv
// @Param        format  query  string  false  "csv (default), xlsx, or pdf"
// @Success      200  {file}  file
// @Router       /api/admin/exports/youth [get]
// ExportYouthHandler downloads the youth account report
// GET /api/admin/exports/youth?format=xlsx
func (h *ExportHandlers) ExportYouthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		format, ok := exportFormat(c)
		if !ok {
			return
		}

		users, _, err := h.userRepo.ListUsersByRole(c.Request.Context(), models.RoleYouth, "", exportLimit, 0)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		h.recorder.Record(respond.Event(c, models.AuditActionRead, models.AuditEntityYouth, "",
			fmt.Sprintf("youth report exported as %s", format)))

		h.serve(c, format, "youth-accounts", export.YouthTable(users))
	}
}

// @Summary      Export the audit trail
// @Tags         Exports
// @Security     Bearer
// @Produce      text/csv
// @Param        format  query  string  false  "csv (default), xlsx, or pdf"
// @Success      200  {file}  file
// @Router       /api/admin/exports/audit [get]
// ExportAuditHandler downloads the audit trail report
// GET /api/admin/exports/audit?format=pdf
func (h *ExportHandlers) ExportAuditHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		format, ok := exportFormat(c)
		if !ok {
			return
		}

		events, _, err := h.auditRepo.ListAuditEvents(c.Request.Context(), models.AuditFilter{Limit: exportLimit})
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		h.recorder.Record(respond.Event(c, models.AuditActionRead, models.AuditEntityAuth, "",
			fmt.Sprintf("audit trail exported as %s", format)))

		h.serve(c, format, "audit-trail", export.AuditTable(events))
	}
}
