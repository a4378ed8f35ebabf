// opportunities.go implements handlers for opportunity listing CRUD and the
// publish toggle. Listings start as drafts; only published listings appear on
// the youth portal.
package admin

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vijana-portal/vijana-portal/internal/api/respond"
	"github.com/vijana-portal/vijana-portal/internal/audit"
	"github.com/vijana-portal/vijana-portal/internal/db/models"
	"github.com/vijana-portal/vijana-portal/internal/db/repositories"
)

// OpportunityHandlers handles opportunity management endpoints
type OpportunityHandlers struct {
	oppRepo      *repositories.OpportunityRepository
	categoryRepo *repositories.CategoryRepository
	recorder     *audit.Recorder
}

// NewOpportunityHandlers creates a new OpportunityHandlers instance
func NewOpportunityHandlers(db *sql.DB, recorder *audit.Recorder) *OpportunityHandlers {
	return &OpportunityHandlers{
		oppRepo:      repositories.NewOpportunityRepository(db),
		categoryRepo: repositories.NewCategoryRepository(db),
		recorder:     recorder,
	}
}

type opportunityRequest struct {
	Title        string     `json:"title" binding:"required,min=3,max=255"`
	Description  string     `json:"description" binding:"required"`
	CategoryID   *string    `json:"categoryId"`
	Organization *string    `json:"organization"`
	Location     *string    `json:"location"`
	Deadline     *time.Time `json:"deadline"`
}

// resolveCategory validates that a referenced category exists. Returns false
// after writing the error response when it does not.
func (h *OpportunityHandlers) resolveCategory(c *gin.Context, categoryID *string) bool {
	if categoryID == nil {
		return true
	}
	category, err := h.categoryRepo.GetCategoryByID(c.Request.Context(), *categoryID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
		return false
	}
	if category == nil {
		respond.Error(c, http.StatusBadRequest, "CATEGORY_NOT_FOUND")
		return false
	}
	return true
}

// @Summary      Create an opportunity
// @Description  Creates a draft listing. It is not visible on the portal until published.
// @Tags         Opportunities
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      201  {object}  map[string]interface{}  "data: models.Opportunity"
// @Failure      400  {object}  map[string]interface{}  "Validation failed"
// @Router       /api/admin/opportunities [post]
// CreateOpportunityHandler creates a draft listing
// POST /api/admin/opportunities
func (h *OpportunityHandlers) CreateOpportunityHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req opportunityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "VALIDATION_FAILED")
			return
		}

		if !h.resolveCategory(c, req.CategoryID) {
			return
		}

		adminID := c.GetString(respond.ContextUserID)
		opp := &models.Opportunity{
			Title:        strings.TrimSpace(req.Title),
			Description:  req.Description,
			CategoryID:   req.CategoryID,
			Organization: req.Organization,
			Location:     req.Location,
			Deadline:     req.Deadline,
			Published:    false,
			CreatedBy:    &adminID,
		}

		if err := h.oppRepo.CreateOpportunity(c.Request.Context(), opp); err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		h.recorder.Record(respond.Event(c, models.AuditActionCreate, models.AuditEntityOpportunity, opp.ID,
			fmt.Sprintf("opportunity created: %s", opp.Title)))

		respond.Success(c, http.StatusCreated, "OPPORTUNITY_CREATE_SUCCESS", gin.H{"opportunity": opp})
	}
}

// @Summary      List opportunities
// @Description  Lists all listings including drafts, with optional category, search, and pagination parameters.
// @Tags         Opportunities
// @Security     Bearer
// @Produce      json
// @Param        category  query  string  false  "Category ID"
// @Param        q         query  string  false  "Search in title and description"
// @Param        page      query  int     false  "Page number (default 1)"
// @Param        per_page  query  int     false  "Items per page, max 100 (default 20)"
// @Success      200  {object}  map[string]interface{}  "items: []models.Opportunity, pagination: map"
// @Router       /api/admin/opportunities [get]
// ListOpportunitiesHandler lists all listings including drafts
// GET /api/admin/opportunities?category=&q=&page=1&per_page=20
func (h *OpportunityHandlers) ListOpportunitiesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, perPage, offset := respond.PageParams(c)

		filter := models.OpportunityFilter{
			CategoryID: c.Query("category"),
			Search:     c.Query("q"),
			Limit:      perPage,
			Offset:     offset,
		}

		opps, total, err := h.oppRepo.ListOpportunities(c.Request.Context(), filter)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		respond.OK(c, respond.Paginated(opps, page, perPage, total))
	}
}

// @Summary      Get an opportunity
// @Tags         Opportunities
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "data: models.Opportunity"
// @Failure      404  {object}  map[string]interface{}  "Opportunity not found"
// @Router       /api/admin/opportunities/{id} [get]
// GetOpportunityHandler returns one listing, draft or published
// GET /api/admin/opportunities/:id
func (h *OpportunityHandlers) GetOpportunityHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		opp, err := h.oppRepo.GetOpportunityByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}
		if opp == nil {
			respond.Error(c, http.StatusNotFound, "OPPORTUNITY_NOT_FOUND")
			return
		}

		respond.OK(c, gin.H{"opportunity": opp})
	}
}

// @Summary      Update an opportunity
// @Tags         Opportunities
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "data: models.Opportunity"
// @Failure      404  {object}  map[string]interface{}  "Opportunity not found"
// @Router       /api/admin/opportunities/{id} [patch]
// UpdateOpportunityHandler updates a listing's content fields
// PATCH /api/admin/opportunities/:id
func (h *OpportunityHandlers) UpdateOpportunityHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req opportunityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "VALIDATION_FAILED")
			return
		}

		opp, err := h.oppRepo.GetOpportunityByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}
		if opp == nil {
			respond.Error(c, http.StatusNotFound, "OPPORTUNITY_NOT_FOUND")
			return
		}

		if !h.resolveCategory(c, req.CategoryID) {
			return
		}

		opp.Title = strings.TrimSpace(req.Title)
		opp.Description = req.Description
		opp.CategoryID = req.CategoryID
		opp.Organization = req.Organization
		opp.Location = req.Location
		opp.Deadline = req.Deadline

		if err := h.oppRepo.UpdateOpportunity(c.Request.Context(), opp); err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		h.recorder.Record(respond.Event(c, models.AuditActionUpdate, models.AuditEntityOpportunity, opp.ID,
			fmt.Sprintf("opportunity updated: %s", opp.Title)))

		respond.Success(c, http.StatusOK, "OPPORTUNITY_UPDATE_SUCCESS", gin.H{"opportunity": opp})
	}
}

type publishRequest struct {
	Published *bool `json:"published" binding:"required"`
}

// @Summary      Publish or unpublish an opportunity
// @Tags         Opportunities
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}  "Opportunity not found"
// @Router       /api/admin/opportunities/{id}/publish [patch]
// PublishOpportunityHandler flips the publish state of a listing
// PATCH /api/admin/opportunities/:id/publish
func (h *OpportunityHandlers) PublishOpportunityHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req publishRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "VALIDATION_FAILED")
			return
		}

		oppID := c.Param("id")

		opp, err := h.oppRepo.GetOpportunityByID(c.Request.Context(), oppID)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}
		if opp == nil {
			respond.Error(c, http.StatusNotFound, "OPPORTUNITY_NOT_FOUND")
			return
		}

		published := *req.Published
		if err := h.oppRepo.SetOpportunityPublished(c.Request.Context(), oppID, published); err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		key := "OPPORTUNITY_UNPUBLISH_SUCCESS"
		description := fmt.Sprintf("opportunity unpublished: %s", opp.Title)
		if published {
			key = "OPPORTUNITY_PUBLISH_SUCCESS"
			description = fmt.Sprintf("opportunity published: %s", opp.Title)
		}

		h.recorder.Record(respond.Event(c, models.AuditActionPublish, models.AuditEntityOpportunity, oppID, description))

		respond.Success(c, http.StatusOK, key, nil)
	}
}

// @Summary      Delete an opportunity
// @Description  Removes the listing and every bookmark pointing at it.
// @Tags         Opportunities
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}  "Opportunity not found"
// @Router       /api/admin/opportunities/{id} [delete]
// DeleteOpportunityHandler removes a listing
// DELETE /api/admin/opportunities/:id
func (h *OpportunityHandlers) DeleteOpportunityHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		oppID := c.Param("id")

		opp, err := h.oppRepo.GetOpportunityByID(c.Request.Context(), oppID)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}
		if opp == nil {
			respond.Error(c, http.StatusNotFound, "OPPORTUNITY_NOT_FOUND")
			return
		}

		if err := h.oppRepo.DeleteOpportunity(c.Request.Context(), oppID); err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		h.recorder.Record(respond.Event(c, models.AuditActionDelete, models.AuditEntityOpportunity, oppID,
			fmt.Sprintf("opportunity deleted: %s", opp.Title)))

		respond.Success(c, http.StatusOK, "OPPORTUNITY_DELETE_SUCCESS", nil)
	}
}
