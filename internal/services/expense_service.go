package services

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "renovo/internal/errors"
	"renovo/internal/models"
	"renovo/internal/pagination"
)

// expenseService handles expense-related business logic.
type expenseService struct {
	db  *gorm.DB
	now Clock
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB, now Clock) ExpenseServicer {
	return &expenseService{db: db, now: now.orDefault()}
}

// CreateExpense records an expense against the project's budget. A project
// without a budget cannot take expenses.
func (s *expenseService) CreateExpense(projectID string, in ExpenseInput) (*models.Expense, error) {
	if !in.Amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}
	if !in.Category.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown expense category")
	}
	paymentType := in.PaymentType
	if paymentType == "" {
		paymentType = models.PaymentTypeFull
	}
	if !paymentType.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown payment type")
	}

	budget, err := loadBudget(s.db, projectID, false)
	if err != nil {
		return nil, err
	}

	date := in.Date
	if date.IsZero() {
		date = s.now()
	}
	// Stored in UTC so SQL range filters compare like with like.
	date = date.UTC()

	expense := models.NewExpense(in.Amount, in.Category, date)
	expense.Notes = in.Notes
	expense.VendorName = in.VendorName
	expense.PaymentType = paymentType
	if in.Photos != nil {
		expense.Photos = models.PhotoList(in.Photos)
	}
	expense = budget.AddExpense(expense)

	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// GetProjectExpenses returns a paginated list of the project's expenses,
// newest first.
func (s *expenseService) GetProjectExpenses(projectID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	budget, err := loadBudget(s.db, projectID, false)
	if err != nil {
		return nil, err
	}

	base := s.db.Model(&models.Expense{}).Where("budget_id = ?", budget.ID)
	if filter.Category != nil {
		base = base.Where("category = ?", *filter.Category)
	}
	if filter.Parent != nil {
		base = base.Where("category IN ?", filter.Parent.Categories())
	}
	if filter.Month != nil {
		start := models.StartOfMonth(filter.Month.In(s.now().Location()))
		base = base.Where("date >= ? AND date < ?", start.UTC(), start.AddDate(0, 1, 0).UTC())
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Order("date DESC, created_at DESC").Scopes(pagination.Paginate(page)).Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetExpenseByID returns an expense by ID.
func (s *expenseService) GetExpenseByID(expenseID string) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Where("id = ?", expenseID).First(&expense).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrExpenseNotFound)
	}
	return &expense, nil
}

// UpdateExpense updates an existing expense's fields.
func (s *expenseService) UpdateExpense(expenseID string, in ExpenseUpdate) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(expenseID)
	if err != nil {
		return nil, err
	}

	if in.Amount != nil {
		if !in.Amount.IsPositive() {
			return nil, apperrors.ErrInvalidAmount
		}
		expense.Amount = *in.Amount
	}
	if in.Category != nil {
		if !in.Category.Valid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown expense category")
		}
		expense.Category = *in.Category
	}
	if in.Date != nil {
		expense.Date = in.Date.UTC()
	}
	if in.Notes != nil {
		expense.Notes = *in.Notes
	}
	if in.VendorName != nil {
		expense.VendorName = *in.VendorName
	}
	if in.PaymentType != nil {
		if !in.PaymentType.Valid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown payment type")
		}
		expense.PaymentType = *in.PaymentType
	}
	if in.Photos != nil {
		expense.Photos = models.PhotoList(in.Photos)
	}

	expense.UpdatedAt = s.now()
	if err := s.db.Omit(clause.Associations).Save(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// DeleteExpense soft-deletes an expense.
func (s *expenseService) DeleteExpense(expenseID string) error {
	expense, err := s.GetExpenseByID(expenseID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
