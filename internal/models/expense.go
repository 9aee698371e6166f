package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType describes which part of a payment an expense represents.
type PaymentType string

const (
	PaymentTypeFull    PaymentType = "full"
	PaymentTypeDeposit PaymentType = "deposit"
	PaymentTypeFinal   PaymentType = "final"
)

// Valid reports whether p is a known payment type.
func (p PaymentType) Valid() bool {
	switch p {
	case PaymentTypeFull, PaymentTypeDeposit, PaymentTypeFinal:
		return true
	}
	return false
}

// Expense is a single payment recorded against a budget.
type Expense struct {
	Base
	BudgetID    string          `gorm:"type:uuid;not null;index" json:"budget_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Category    ExpenseCategory `gorm:"not null;index" json:"category"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Notes       string          `json:"notes"`
	VendorName  string          `json:"vendor_name"`
	PaymentType PaymentType     `gorm:"not null;default:full" json:"payment_type"`
	Photos      PhotoList       `gorm:"type:text" json:"photos"`
}

// NewExpense returns a full-payment expense. Amount must be positive; the
// caller validates before attaching it to a budget.
func NewExpense(amount decimal.Decimal, category ExpenseCategory, date time.Time) *Expense {
	return &Expense{
		Amount:      amount,
		Category:    category,
		Date:        date,
		PaymentType: PaymentTypeFull,
		Photos:      PhotoList{},
	}
}

// ParentCategory returns the parent of the expense's category.
func (e *Expense) ParentCategory() ParentCategory {
	return e.Category.Parent()
}
