// Package admin implements the administrator console endpoints: category,
// opportunity, and training management, the question answer queue, youth
// account administration, audit trail access, dashboard statistics, and report
// exports. Every route in this package sits behind AuthRequired plus
// RequireRole(admin), and every mutation is recorded in the audit trail.
package admin

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vijana-portal/vijana-portal/internal/api/respond"
	"github.com/vijana-portal/vijana-portal/internal/audit"
	"github.com/vijana-portal/vijana-portal/internal/db/models"
	"github.com/vijana-portal/vijana-portal/internal/db/repositories"
)

// CategoryHandlers handles category management endpoints
type CategoryHandlers struct {
	categoryRepo *repositories.CategoryRepository
	recorder     *audit.Recorder
}

// NewCategoryHandlers creates a new CategoryHandlers instance
func NewCategoryHandlers(db *sql.DB, recorder *audit.Recorder) *CategoryHandlers {
	return &CategoryHandlers{
		categoryRepo: repositories.NewCategoryRepository(db),
		recorder:     recorder,
	}
}

type categoryRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=128"`
	Description *string `json:"description"`
}

// @Summary      Create a category
// @Tags         Categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      201  {object}  map[string]interface{}  "data: models.Category"
// @Failure      409  {object}  map[string]interface{}  "Name already in use"
// @Router       /api/admin/categories [post]
// CreateCategoryHandler creates a category
// POST /api/admin/categories
func (h *CategoryHandlers) CreateCategoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "VALIDATION_FAILED")
			return
		}

		name := strings.TrimSpace(req.Name)

		existing, err := h.categoryRepo.GetCategoryByName(c.Request.Context(), name)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}
		if existing != nil {
			respond.Error(c, http.StatusConflict, "CATEGORY_DUPLICATE")
			return
		}

		category := &models.Category{
			Name:        name,
			Description: req.Description,
		}

		if err := h.categoryRepo.CreateCategory(c.Request.Context(), category); err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		h.recorder.Record(respond.Event(c, models.AuditActionCreate, models.AuditEntityCategory, category.ID,
			fmt.Sprintf("category created: %s", category.Name)))

		respond.Success(c, http.StatusCreated, "CATEGORY_CREATE_SUCCESS", gin.H{"category": category})
	}
}

// @Summary      List categories
// @Tags         Categories
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "data: []models.CategoryWithCount"
// @Router       /api/admin/categories [get]
// ListCategoriesHandler lists all categories with opportunity counts
// GET /api/admin/categories
func (h *CategoryHandlers) ListCategoriesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := h.categoryRepo.ListCategories(c.Request.Context())
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		respond.OK(c, gin.H{"categories": categories})
	}
}

// @Summary      Update a category
// @Tags         Categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "data: models.Category"
// @Failure      404  {object}  map[string]interface{}  "Category not found"
// @Router       /api/admin/categories/{id} [patch]
// UpdateCategoryHandler renames a category or changes its description
// PATCH /api/admin/categories/:id
func (h *CategoryHandlers) UpdateCategoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "VALIDATION_FAILED")
			return
		}

		category, err := h.categoryRepo.GetCategoryByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}
		if category == nil {
			respond.Error(c, http.StatusNotFound, "CATEGORY_NOT_FOUND")
			return
		}

		name := strings.TrimSpace(req.Name)

		// Renaming onto another category's name is a conflict
		existing, err := h.categoryRepo.GetCategoryByName(c.Request.Context(), name)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}
		if existing != nil && existing.ID != category.ID {
			respond.Error(c, http.StatusConflict, "CATEGORY_DUPLICATE")
			return
		}

		category.Name = name
		category.Description = req.Description

		if err := h.categoryRepo.UpdateCategory(c.Request.Context(), category); err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		h.recorder.Record(respond.Event(c, models.AuditActionUpdate, models.AuditEntityCategory, category.ID,
			fmt.Sprintf("category updated: %s", category.Name)))

		respond.Success(c, http.StatusOK, "CATEGORY_UPDATE_SUCCESS", gin.H{"category": category})
	}
}

// @Summary      Delete a category
// @Description  Opportunities in the category are kept and left uncategorized.
// @Tags         Categories
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}  "Category not found"
// @Router       /api/admin/categories/{id} [delete]
// DeleteCategoryHandler removes a category
// DELETE /api/admin/categories/:id
func (h *CategoryHandlers) DeleteCategoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		categoryID := c.Param("id")

		category, err := h.categoryRepo.GetCategoryByID(c.Request.Context(), categoryID)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}
		if category == nil {
			respond.Error(c, http.StatusNotFound, "CATEGORY_NOT_FOUND")
			return
		}

		if err := h.categoryRepo.DeleteCategory(c.Request.Context(), categoryID); err != nil {
			respond.Error(c, http.StatusInternalServerError, "SERVER_ERROR")
			return
		}

		h.recorder.Record(respond.Event(c, models.AuditActionDelete, models.AuditEntityCategory, categoryID,
			fmt.Sprintf("category deleted: %s", category.Name)))

		respond.Success(c, http.StatusOK, "CATEGORY_DELETE_SUCCESS", nil)
	}
}
