package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "renovo/internal/errors"
	"renovo/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	auditService  services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, auditService: auditService}
}

// SetBudgetRequest represents the request payload for creating or replacing a budget.
type SetBudgetRequest struct {
	TotalAmount      *decimal.Decimal `json:"total_amount" binding:"required,gte=0"`
	WarningThreshold *float64         `json:"warning_threshold"`
}

// UpdateBudgetAmountRequest represents the request payload for changing the total.
type UpdateBudgetAmountRequest struct {
	TotalAmount *decimal.Decimal `json:"total_amount" binding:"required,gte=0"`
}

// UpdateBudgetThresholdRequest represents the request payload for changing
// the warning threshold. Values outside [0,1] are clamped.
type UpdateBudgetThresholdRequest struct {
	WarningThreshold *float64 `json:"warning_threshold" binding:"required"`
}

// GetBudget handles retrieving a project's budget.
// @Summary     Get budget
// @Description Get the project's budget with its expenses
// @Tags        budgets
// @Produce     json
// @Param       id path string true "Project ID"
// @Success     200 {object} models.Budget "Budget details"
// @Failure     400 {object} ErrorResponse "Invalid project ID"
// @Failure     404 {object} ErrorResponse "Project or budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{id}/budget [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudget(projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// SetBudget handles creating the project's budget or replacing its figures.
// @Summary     Set budget
// @Description Create the project's budget, or update the total (and threshold when given) of the existing one
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Param       id      path string           true "Project ID"
// @Param       request body SetBudgetRequest true "Budget figures"
// @Success     200 {object} models.Budget "Budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{id}/budget [put]
func (h *BudgetHandler) SetBudget(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.SetBudget(projectID, *req.TotalAmount, req.WarningThreshold)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("SET_BUDGET", "budget", budget.ID, projectID, c.ClientIP(),
		map[string]interface{}{"total_amount": budget.TotalAmount.String(), "warning_threshold": budget.WarningThreshold})

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// UpdateBudgetAmount handles changing the budget total.
// @Summary     Update budget total
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Param       id      path string                    true "Project ID"
// @Param       request body UpdateBudgetAmountRequest true "New total"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Project or budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{id}/budget/amount [put]
func (h *BudgetHandler) UpdateBudgetAmount(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.UpdateTotalAmount(projectID, *req.TotalAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("UPDATE_BUDGET_AMOUNT", "budget", budget.ID, projectID, c.ClientIP(),
		map[string]interface{}{"total_amount": budget.TotalAmount.String()})

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// UpdateBudgetThreshold handles changing the warning threshold.
// @Summary     Update budget warning threshold
// @Description Values outside [0,1] are clamped
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Param       id      path string                       true "Project ID"
// @Param       request body UpdateBudgetThresholdRequest true "New threshold"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Project or budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{id}/budget/threshold [put]
func (h *BudgetHandler) UpdateBudgetThreshold(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.UpdateWarningThreshold(projectID, *req.WarningThreshold)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("UPDATE_BUDGET_THRESHOLD", "budget", budget.ID, projectID, c.ClientIP(),
		map[string]interface{}{"warning_threshold": budget.WarningThreshold})

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// GetBudgetSummary handles the budget rollup.
// @Summary     Get budget summary
// @Description Totals, usage, warning flags, and breakdowns by category, parent category and month
// @Tags        budgets
// @Produce     json
// @Param       id path string true "Project ID"
// @Success     200 {object} services.BudgetSummary "Budget summary"
// @Failure     400 {object} ErrorResponse "Invalid project ID"
// @Failure     404 {object} ErrorResponse "Project or budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{id}/budget/summary [get]
func (h *BudgetHandler) GetBudgetSummary(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.budgetService.GetBudgetSummary(projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
