// Package portal implements the youth-facing endpoints: public browsing of
// published opportunities, trainings, and categories, plus the authenticated
// bookmark, Q&A, and profile features.
package portal

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vijana-portal/vijana-portal/internal/api/respond"
	"github.com/vijana-portal/vijana-portal/internal/db/models"
	"github.com/vijana-portal/vijana-portal/internal/db/repositories"
)

// BrowseHandlers handles the public browsing endpoints
type BrowseHandlers struct {
	oppRepo      *repositories.OpportunityRepository
	trainingRepo *repositories.TrainingRepository
	categoryRepo *repositories.CategoryRepository
}

// NewBrowseHandlers creates a new BrowseHandlers instance
func NewBrowseHandlers(db *sql.DB) *BrowseHandlers {
	return &BrowseHandlers{
		oppRepo:      repositories.NewOpportunityRepository(db),
		trainingRepo: repositories.NewTrainingRepository(db),
		categoryRepo: repositories.NewCategoryRepository(db),
	}
}

// @Summary      Browse opportunities
// @Description  Lists published opportunities. Pass open=true to hide listings whose deadline has passed.
// @Tags         Portal
// @Produce      json
// @Param        category  query  string  false  "Category ID"
// @Param        q         query  string  false  "Search in title and description"
// @Param        open      query  bool    false  "Only listings still open"
// @Param        page      query  int     false  "Page number (default 1)"
// @Param        per_page  query  int     false  "Items per page, max 100 (default 20)"
// @Success      200  {object}  map[string]interface{}  "items: []models.Opportunity, pagination: map"
// @Router       /api/opportunities [get]
// ListOpportunitiesHandler lists published listings
// GET /api/opportunities?category=&q=&open=true&page=1&per_page=20
func (h *BrowseHandlers) ListOpportunitiesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, perPage, offset := respond.PageParams(c)

		filter := models.OpportunityFilter{
			CategoryID:    c.Query("category"),
			Search:        c.Query("q"),
			PublishedOnly: true,
			OpenOnly:      c.Query("open") == "true",
			Limit:         perPage,
			Offset:        offset,
		}

		opps, total, err := h.oppRepo.ListOpportunities(c.Request.Context(), filter)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		respond.OK(c, respond.Paginated(opps, page, perPage, total))
	}
}

// @Summary      View an opportunity
// @Description  Returns one published listing. Drafts are not visible here regardless of ID.
// @Tags         Portal
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "data: models.Opportunity"
// @Failure      404  {object}  map[string]interface{}  "Opportunity not found"
// @Router       /api/opportunities/{id} [get]
// GetOpportunityHandler returns one published listing
// GET /api/opportunities/:id
func (h *BrowseHandlers) GetOpportunityHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		opp, err := h.oppRepo.GetOpportunityByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}
		// Drafts look exactly like missing records from the portal side
		if opp == nil || !opp.Published {
			respond.Error(c, http.StatusNotFound, "OPPORTUNITY_NOT_FOUND")
			return
		}

		respond.OK(c, gin.H{"opportunity": opp})
	}
}

// @Summary      Browse trainings
// @Tags         Portal
// @Produce      json
// @Param        mode      query  string  false  "Delivery mode (ONLINE, IN_PERSON)"
// @Param        page      query  int     false  "Page number (default 1)"
// @Param        per_page  query  int     false  "Items per page, max 100 (default 20)"
// @Success      200  {object}  map[string]interface{}  "items: []models.Training, pagination: map"
// @Router       /api/trainings [get]
// ListTrainingsHandler lists training announcements
// GET /api/trainings?mode=&page=1&per_page=20
func (h *BrowseHandlers) ListTrainingsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, perPage, offset := respond.PageParams(c)

		mode := c.Query("mode")
		if mode != "" && !models.ValidTrainingMode(mode) {
			respond.Error(c, http.StatusBadRequest, "VALIDATION_FAILED")
			return
		}

		trainings, total, err := h.trainingRepo.ListTrainings(c.Request.Context(), mode, perPage, offset)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		respond.OK(c, respond.Paginated(trainings, page, perPage, total))
	}
}

// @Summary      View a training
// @Tags         Portal
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "data: models.Training"
// @Failure      404  {object}  map[string]interface{}  "Training not found"
// @Router       /api/trainings/{id} [get]
// GetTrainingHandler returns one training announcement
// GET /api/trainings/:id
func (h *BrowseHandlers) GetTrainingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		training, err := h.trainingRepo.GetTrainingByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}
		if training == nil {
			respond.Error(c, http.StatusNotFound, "TRAINING_NOT_FOUND")
			return
		}

		respond.OK(c, gin.H{"training": training})
	}
}

// @Summary      Browse categories
// @Tags         Portal
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "data: []models.CategoryWithCount"
// @Router       /api/categories [get]
// ListCategoriesHandler lists categories for the portal filter bar
// GET /api/categories
func (h *BrowseHandlers) ListCategoriesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := h.categoryRepo.ListCategories(c.Request.Context())
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		respond.OK(c, gin.H{"categories": categories})
	}
}
