package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultWarningThreshold is used when a budget is created without one.
const DefaultWarningThreshold = 0.8

// Budget is a project's spending limit. It owns the project's expenses.
// Every figure below is recomputed from the expenses on each call.
type Budget struct {
	Base
	ProjectID        string          `gorm:"type:uuid;not null;uniqueIndex" json:"project_id"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_amount"`
	WarningThreshold float64         `gorm:"not null" json:"warning_threshold"`

	// Relationships
	Expenses []Expense `gorm:"foreignKey:BudgetID" json:"expenses,omitempty"`
}

// NewBudget returns a budget with the threshold clamped to [0,1].
func NewBudget(total decimal.Decimal, warningThreshold float64) *Budget {
	return &Budget{
		TotalAmount:      total,
		WarningThreshold: clampFraction(warningThreshold),
		Expenses:         []Expense{},
	}
}

// AddExpense appends e and points its back-reference at b in one step.
func (b *Budget) AddExpense(e *Expense) *Expense {
	b.ensureID()
	e.BudgetID = b.ID
	b.Expenses = append(b.Expenses, *e)
	return &b.Expenses[len(b.Expenses)-1]
}

// RemoveExpense detaches the expense with the given id.
func (b *Budget) RemoveExpense(id string) bool {
	for i := range b.Expenses {
		if b.Expenses[i].ID == id {
			b.Expenses = append(b.Expenses[:i], b.Expenses[i+1:]...)
			return true
		}
	}
	return false
}

// UpdateTotalAmount replaces the budget total.
func (b *Budget) UpdateTotalAmount(amount decimal.Decimal, now time.Time) {
	b.TotalAmount = amount
	b.touch(now)
}

// UpdateWarningThreshold stores v clamped to [0,1]. Out of range input is
// corrected, not rejected.
func (b *Budget) UpdateWarningThreshold(v float64, now time.Time) {
	b.WarningThreshold = clampFraction(v)
	b.touch(now)
}

// TotalExpenses is the sum of all expense amounts.
func (b *Budget) TotalExpenses() decimal.Decimal {
	return sumExpenses(b.Expenses)
}

// RemainingBudget is the total minus expenses. Negative when over budget.
func (b *Budget) RemainingBudget() decimal.Decimal {
	return b.TotalAmount.Sub(b.TotalExpenses())
}

// UsagePercentage is expenses / total as a fraction. Zero when the total is zero.
func (b *Budget) UsagePercentage() float64 {
	if b.TotalAmount.IsZero() {
		return 0
	}
	return b.TotalExpenses().Div(b.TotalAmount).InexactFloat64()
}

// IsOverBudget reports whether expenses exceed the total.
func (b *Budget) IsOverBudget() bool {
	return b.TotalExpenses().GreaterThan(b.TotalAmount)
}

// HasReachedWarningThreshold reports whether usage is at or above the threshold.
func (b *Budget) HasReachedWarningThreshold() bool {
	return b.UsagePercentage() >= b.WarningThreshold
}

// EstimatedOverage is how far expenses exceed the total, never negative.
func (b *Budget) EstimatedOverage() decimal.Decimal {
	over := b.TotalExpenses().Sub(b.TotalAmount)
	if over.IsNegative() {
		return decimal.Zero
	}
	return over
}

// ExpensesByCategory sums amounts per category. Categories without expenses
// are absent from the map.
func (b *Budget) ExpensesByCategory() map[ExpenseCategory]decimal.Decimal {
	out := make(map[ExpenseCategory]decimal.Decimal)
	for i := range b.Expenses {
		e := &b.Expenses[i]
		out[e.Category] = out[e.Category].Add(e.Amount)
	}
	return out
}

// ExpensesByParentCategory sums amounts per parent category. Parents without
// expenses are absent from the map.
func (b *Budget) ExpensesByParentCategory() map[ParentCategory]decimal.Decimal {
	out := make(map[ParentCategory]decimal.Decimal)
	for i := range b.Expenses {
		e := &b.Expenses[i]
		parent := e.Category.Parent()
		out[parent] = out[parent].Add(e.Amount)
	}
	return out
}

// ExpensesByMonth sums amounts per calendar month. Keys are the first instant
// of each month in loc, so bucket edges follow loc's calendar and DST rules.
func (b *Budget) ExpensesByMonth(loc *time.Location) map[time.Time]decimal.Decimal {
	if loc == nil {
		loc = time.Local
	}
	out := make(map[time.Time]decimal.Decimal)
	for i := range b.Expenses {
		e := &b.Expenses[i]
		key := startOfMonth(e.Date.In(loc))
		out[key] = out[key].Add(e.Amount)
	}
	return out
}

// ExpensesFor returns the expenses in the same calendar month as date, read
// in date's location.
func (b *Budget) ExpensesFor(date time.Time) []Expense {
	var out []Expense
	for i := range b.Expenses {
		if sameMonth(b.Expenses[i].Date, date) {
			out = append(out, b.Expenses[i])
		}
	}
	return out
}

// CurrentMonthExpenses returns the expenses in now's calendar month.
func (b *Budget) CurrentMonthExpenses(now time.Time) []Expense {
	return b.ExpensesFor(now)
}

// CategoryAmount is one row of a category breakdown.
type CategoryAmount struct {
	Category ExpenseCategory `json:"category"`
	Parent   ParentCategory  `json:"parent"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
}

// CategoryTable returns one row per category in display order, with zero for
// categories that have no expenses.
func (b *Budget) CategoryTable() []CategoryAmount {
	sums := b.ExpensesByCategory()
	rows := make([]CategoryAmount, 0, len(expenseCategories))
	for _, c := range AllExpenseCategories() {
		rows = append(rows, CategoryAmount{
			Category: c,
			Parent:   c.Parent(),
			Name:     c.DisplayName(),
			Amount:   sums[c],
		})
	}
	return rows
}

// MonthAmount is one row of a monthly breakdown.
type MonthAmount struct {
	Month  time.Time       `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

// MonthTable returns ExpensesByMonth as rows sorted oldest first.
func (b *Budget) MonthTable(loc *time.Location) []MonthAmount {
	byMonth := b.ExpensesByMonth(loc)
	rows := make([]MonthAmount, 0, len(byMonth))
	for month, amount := range byMonth {
		rows = append(rows, MonthAmount{Month: month, Amount: amount})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Month.Before(rows[j].Month) })
	return rows
}

// SumExpenses adds up the amounts of the given expenses.
func SumExpenses(expenses []Expense) decimal.Decimal {
	return sumExpenses(expenses)
}

func sumExpenses(expenses []Expense) decimal.Decimal {
	total := decimal.Zero
	for i := range expenses {
		total = total.Add(expenses[i].Amount)
	}
	return total
}

func clampFraction(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
