package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "renovo/internal/errors"
	"renovo/internal/models"
	"renovo/internal/pagination"
	"renovo/internal/services"
)

// ExpenseHandler handles expense-related requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	auditService   services.AuditServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer, auditService services.AuditServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, auditService: auditService}
}

// CreateExpenseRequest represents the request payload for recording an expense.
type CreateExpenseRequest struct {
	Amount      decimal.Decimal        `json:"amount" binding:"required,gt=0"`
	Category    models.ExpenseCategory `json:"category" binding:"required,expense_category"`
	Date        *time.Time             `json:"date"`
	Notes       string                 `json:"notes" binding:"max=2000"`
	VendorName  string                 `json:"vendor_name" binding:"max=200"`
	PaymentType models.PaymentType     `json:"payment_type" binding:"omitempty,payment_type"`
	Photos      []string               `json:"photos" binding:"omitempty,dive,min=1,max=500"`
}

// UpdateExpenseRequest represents the request payload for updating an expense.
type UpdateExpenseRequest struct {
	Amount      *decimal.Decimal        `json:"amount" binding:"omitempty,gt=0"`
	Category    *models.ExpenseCategory `json:"category" binding:"omitempty,expense_category"`
	Date        *time.Time              `json:"date"`
	Notes       *string                 `json:"notes" binding:"omitempty,max=2000"`
	VendorName  *string                 `json:"vendor_name" binding:"omitempty,max=200"`
	PaymentType *models.PaymentType     `json:"payment_type" binding:"omitempty,payment_type"`
	Photos      []string                `json:"photos" binding:"omitempty,dive,min=1,max=500"`
}

// CreateExpense handles recording an expense against the project's budget.
// @Summary     Create an expense
// @Description Record an expense. The project must have a budget.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Param       id      path string               true "Project ID"
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Project or budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{id}/expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	in := services.ExpenseInput{
		Amount:      req.Amount,
		Category:    req.Category,
		Notes:       req.Notes,
		VendorName:  req.VendorName,
		PaymentType: req.PaymentType,
		Photos:      req.Photos,
	}
	if req.Date != nil {
		in.Date = *req.Date
	}

	expense, err := h.expenseService.CreateExpense(projectID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("CREATE_EXPENSE", "expense", expense.ID, projectID, c.ClientIP(),
		map[string]interface{}{"amount": expense.Amount.String(), "category": expense.Category})

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// ExpenseListQuery holds the query parameters accepted when listing expenses.
type ExpenseListQuery struct {
	pagination.PageRequest
	Category models.ExpenseCategory `form:"category" binding:"omitempty,expense_category"`
	Parent   models.ParentCategory  `form:"parent" binding:"omitempty,parent_category"`
	Month    string                 `form:"month" binding:"omitempty,datetime=2006-01"`
}

// Filter converts the bound parameters into a service filter.
func (q ExpenseListQuery) Filter() services.ExpenseFilter {
	var filter services.ExpenseFilter
	if q.Category != "" {
		filter.Category = &q.Category
	}
	if q.Parent != "" {
		filter.Parent = &q.Parent
	}
	if month, err := time.Parse("2006-01", q.Month); err == nil {
		// Mid-month so the month survives conversion to the configured zone.
		month = month.AddDate(0, 0, 14)
		filter.Month = &month
	}
	return filter
}

// GetProjectExpenses handles listing a project's expenses.
// @Summary     Get expenses
// @Description Get a paginated list of the project's expenses, newest first
// @Tags        expenses
// @Produce     json
// @Param       id        path  string true  "Project ID"
// @Param       category  query string false "Filter by category"
// @Param       parent    query string false "Filter by parent category"
// @Param       month     query string false "Filter by calendar month (YYYY-MM)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Paginated expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Project or budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{id}/expenses [get]
func (h *ExpenseHandler) GetProjectExpenses(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query ExpenseListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.expenseService.GetProjectExpenses(projectID, query.PageRequest, query.Filter())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetExpense handles retrieving an expense.
// @Summary     Get expense by ID
// @Tags        expenses
// @Produce     json
// @Param       id path string true "Expense ID"
// @Success     200 {object} models.Expense "Expense details"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// UpdateExpense handles updating an expense.
// @Summary     Update expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Param       id      path string               true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Updated expense details"
// @Success     200 {object} models.Expense "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid input or expense ID"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.expenseService.UpdateExpense(expenseID, services.ExpenseUpdate{
		Amount:      req.Amount,
		Category:    req.Category,
		Date:        req.Date,
		Notes:       req.Notes,
		VendorName:  req.VendorName,
		PaymentType: req.PaymentType,
		Photos:      req.Photos,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("UPDATE_EXPENSE", "expense", expense.ID, "", c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense handles deleting an expense.
// @Summary     Delete expense
// @Tags        expenses
// @Produce     json
// @Param       id path string true "Expense ID"
// @Success     200 {object} MessageResponse "Expense deleted"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("DELETE_EXPENSE", "expense", expenseID, "", c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}
