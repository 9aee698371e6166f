package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"renovo/internal/models"
)

// CatalogHandler serves the fixed expense taxonomy and phase templates.
type CatalogHandler struct{}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// CategoryResponse is one expense category.
type CategoryResponse struct {
	Key       models.ExpenseCategory `json:"key"`
	Name      string                 `json:"name"`
	Icon      string                 `json:"icon"`
	SortOrder int                    `json:"sort_order"`
}

// ParentCategoryResponse is a parent category with its children in order.
type ParentCategoryResponse struct {
	Key        models.ParentCategory `json:"key"`
	Name       string                `json:"name"`
	Icon       string                `json:"icon"`
	SortOrder  int                   `json:"sort_order"`
	Categories []CategoryResponse    `json:"categories"`
}

// PhaseTypeResponse is one phase template.
type PhaseTypeResponse struct {
	Key                 models.PhaseType `json:"key"`
	Name                string           `json:"name"`
	DefaultDurationDays int              `json:"default_duration_days"`
	DefaultSortOrder    int              `json:"default_sort_order"`
}

// GetCategories lists the expense taxonomy grouped by parent.
// @Summary     List expense categories
// @Description Get every expense category grouped under its parent category
// @Tags        catalog
// @Produce     json
// @Success     200 {array} ParentCategoryResponse "Category taxonomy"
// @Router      /catalog/categories [get]
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	parents := make([]ParentCategoryResponse, 0, len(models.AllParentCategories()))
	for _, p := range models.AllParentCategories() {
		children := p.Categories()
		entry := ParentCategoryResponse{
			Key:        p,
			Name:       p.DisplayName(),
			Icon:       p.Icon(),
			SortOrder:  p.SortOrder(),
			Categories: make([]CategoryResponse, 0, len(children)),
		}
		for _, cat := range children {
			entry.Categories = append(entry.Categories, CategoryResponse{
				Key:       cat,
				Name:      cat.DisplayName(),
				Icon:      cat.Icon(),
				SortOrder: cat.SortOrder(),
			})
		}
		parents = append(parents, entry)
	}

	c.JSON(http.StatusOK, gin.H{"categories": parents})
}

// GetPhaseTypes lists the phase templates.
// @Summary     List phase types
// @Description Get every phase type with its default duration and order
// @Tags        catalog
// @Produce     json
// @Success     200 {array} PhaseTypeResponse "Phase types"
// @Router      /catalog/phase-types [get]
func (h *CatalogHandler) GetPhaseTypes(c *gin.Context) {
	types := make([]PhaseTypeResponse, 0, len(models.AllPhaseTypes()))
	for _, t := range models.AllPhaseTypes() {
		types = append(types, PhaseTypeResponse{
			Key:                 t,
			Name:                t.DisplayName(),
			DefaultDurationDays: t.DefaultDurationDays(),
			DefaultSortOrder:    t.DefaultSortOrder(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"phase_types": types})
}
