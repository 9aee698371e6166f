package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "renovo/internal/errors"
	"renovo/internal/models"
	"renovo/internal/pagination"
	"renovo/internal/services"
)

// --- mock expense service ---

type mockExpenseService struct {
	createExpenseFn      func(projectID string, in services.ExpenseInput) (*models.Expense, error)
	getProjectExpensesFn func(projectID string, page pagination.PageRequest, filter services.ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	getExpenseByIDFn     func(expenseID string) (*models.Expense, error)
	updateExpenseFn      func(expenseID string, in services.ExpenseUpdate) (*models.Expense, error)
	deleteExpenseFn      func(expenseID string) error
}

func (m *mockExpenseService) CreateExpense(projectID string, in services.ExpenseInput) (*models.Expense, error) {
	if m.createExpenseFn != nil {
		return m.createExpenseFn(projectID, in)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) GetProjectExpenses(projectID string, page pagination.PageRequest, filter services.ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	if m.getProjectExpensesFn != nil {
		return m.getProjectExpensesFn(projectID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Expense{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockExpenseService) GetExpenseByID(expenseID string) (*models.Expense, error) {
	if m.getExpenseByIDFn != nil {
		return m.getExpenseByIDFn(expenseID)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) UpdateExpense(expenseID string, in services.ExpenseUpdate) (*models.Expense, error) {
	if m.updateExpenseFn != nil {
		return m.updateExpenseFn(expenseID, in)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) DeleteExpense(expenseID string) error {
	if m.deleteExpenseFn != nil {
		return m.deleteExpenseFn(expenseID)
	}
	return nil
}

var _ services.ExpenseServicer = (*mockExpenseService)(nil)

func setupExpenseRouter(handler *ExpenseHandler) *gin.Engine {
	r := newTestRouter()
	r.POST("/projects/:id/expenses", handler.CreateExpense)
	r.GET("/projects/:id/expenses", handler.GetProjectExpenses)
	r.GET("/expenses/:id", handler.GetExpense)
	r.PUT("/expenses/:id", handler.UpdateExpense)
	r.DELETE("/expenses/:id", handler.DeleteExpense)
	return r
}

func TestExpenseHandler_CreateExpense(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var got services.ExpenseInput
		svc := &mockExpenseService{
			createExpenseFn: func(_ string, in services.ExpenseInput) (*models.Expense, error) {
				got = in
				return &models.Expense{
					Base:        models.Base{ID: expenseID},
					BudgetID:    budgetID,
					Amount:      in.Amount,
					Category:    in.Category,
					Date:        in.Date,
					PaymentType: in.PaymentType,
				}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupExpenseRouter(NewExpenseHandler(svc, audit))

		rec := doRequest(r, "POST", "/projects/"+projectID+"/expenses",
			`{"amount":"3200.50","category":"tiles","date":"2026-03-10T00:00:00Z","payment_type":"deposit","vendor_name":"Tile Co"}`)

		assertStatus(t, rec, http.StatusCreated)
		if !got.Amount.Equal(decimal.RequireFromString("3200.50")) {
			t.Errorf("expected 3200.50, got %s", got.Amount)
		}
		if got.Category != models.CategoryTiles || got.PaymentType != models.PaymentTypeDeposit {
			t.Errorf("unexpected input: %+v", got)
		}
		if got.Date.Day() != 10 {
			t.Errorf("expected date to be passed, got %v", got.Date)
		}
		expense := parseJSON(t, rec)["expense"].(map[string]interface{})
		if expense["amount"] != "3200.5" {
			t.Errorf("expected amount string, got %v", expense["amount"])
		}
		if len(audit.entries) != 1 || audit.entries[0].projectID != projectID {
			t.Errorf("expected CREATE_EXPENSE audit, got %v", audit.entries)
		}
	})

	t.Run("missing date is left zero", func(t *testing.T) {
		var got services.ExpenseInput
		svc := &mockExpenseService{
			createExpenseFn: func(_ string, in services.ExpenseInput) (*models.Expense, error) {
				got = in
				return &models.Expense{}, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/projects/"+projectID+"/expenses", `{"amount":10,"category":"decor"}`)

		assertStatus(t, rec, http.StatusCreated)
		if !got.Date.IsZero() {
			t.Error("expected zero date so the service defaults it")
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{"zero amount", `{"amount":0,"category":"tiles"}`},
		{"negative amount", `{"amount":"-5","category":"tiles"}`},
		{"unknown category", `{"amount":5,"category":"roof"}`},
		{"parent as category", `{"amount":5,"category":"main_materials"}`},
		{"unknown payment type", `{"amount":5,"category":"tiles","payment_type":"credit"}`},
	}
	for _, tt := range tests {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}, &mockAuditService{}))

			rec := doRequest(r, "POST", "/projects/"+projectID+"/expenses", tt.body)

			assertStatus(t, rec, http.StatusBadRequest)
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}

	t.Run("returns 404 when project has no budget", func(t *testing.T) {
		svc := &mockExpenseService{
			createExpenseFn: func(string, services.ExpenseInput) (*models.Expense, error) {
				return nil, apperrors.ErrBudgetNotFound
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/projects/"+projectID+"/expenses", `{"amount":5,"category":"tiles"}`)

		assertStatus(t, rec, http.StatusNotFound)
		assertErrorCode(t, parseJSON(t, rec), "BUDGET_NOT_FOUND")
	})
}

func TestExpenseHandler_GetProjectExpenses(t *testing.T) {
	t.Run("parses filters", func(t *testing.T) {
		var got services.ExpenseFilter
		var gotPage pagination.PageRequest
		svc := &mockExpenseService{
			getProjectExpensesFn: func(_ string, page pagination.PageRequest, filter services.ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
				got, gotPage = filter, page
				resp := pagination.NewPageResponse([]models.Expense{}, 2, 5, 0)
				return &resp, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/projects/"+projectID+"/expenses?parent=main_materials&month=2026-02&page=2&page_size=5", "")

		assertStatus(t, rec, http.StatusOK)
		if got.Parent == nil || *got.Parent != models.ParentCategoryMainMaterials {
			t.Errorf("expected parent filter, got %v", got.Parent)
		}
		if got.Category != nil {
			t.Error("expected no category filter")
		}
		if got.Month == nil || got.Month.Year() != 2026 || got.Month.Month() != time.February {
			t.Errorf("expected February 2026, got %v", got.Month)
		}
		if gotPage.Page != 2 || gotPage.PageSize != 5 {
			t.Errorf("unexpected page %+v", gotPage)
		}
	})

	t.Run("binds category alone", func(t *testing.T) {
		var got services.ExpenseFilter
		svc := &mockExpenseService{
			getProjectExpensesFn: func(_ string, _ pagination.PageRequest, filter services.ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
				got = filter
				resp := pagination.NewPageResponse([]models.Expense{}, 1, 20, 0)
				return &resp, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/projects/"+projectID+"/expenses?category=painting", "")

		assertStatus(t, rec, http.StatusOK)
		if got.Category == nil || *got.Category != models.CategoryPainting {
			t.Errorf("expected painting filter, got %v", got.Category)
		}
		if got.Parent != nil || got.Month != nil {
			t.Errorf("expected only a category filter, got %+v", got)
		}
	})

	tests := []struct {
		name  string
		query string
	}{
		{"unknown category", "?category=roof"},
		{"unknown parent", "?parent=tiles"},
		{"bad month", "?month=2026-13"},
		{"day instead of month", "?month=2026-02-01"},
		{"category as parent", "?parent=painting"},
		{"page size over limit", "?page_size=500"},
	}
	for _, tt := range tests {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}, &mockAuditService{}))

			rec := doRequest(r, "GET", "/projects/"+projectID+"/expenses"+tt.query, "")

			assertStatus(t, rec, http.StatusBadRequest)
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}
}

func TestExpenseHandler_GetExpense(t *testing.T) {
	svc := &mockExpenseService{
		getExpenseByIDFn: func(string) (*models.Expense, error) {
			return nil, apperrors.ErrExpenseNotFound
		},
	}
	r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "GET", "/expenses/"+expenseID, "")

	assertStatus(t, rec, http.StatusNotFound)
	assertErrorCode(t, parseJSON(t, rec), "EXPENSE_NOT_FOUND")
}

func TestExpenseHandler_UpdateExpense(t *testing.T) {
	t.Run("passes only provided fields", func(t *testing.T) {
		var got services.ExpenseUpdate
		svc := &mockExpenseService{
			updateExpenseFn: func(id string, in services.ExpenseUpdate) (*models.Expense, error) {
				got = in
				return &models.Expense{Base: models.Base{ID: id}}, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/expenses/"+expenseID, `{"category":"flooring"}`)

		assertStatus(t, rec, http.StatusOK)
		if got.Category == nil || *got.Category != models.CategoryFlooring {
			t.Error("expected category to be passed")
		}
		if got.Amount != nil || got.Date != nil {
			t.Error("absent fields must stay nil")
		}
	})

	t.Run("returns 400 on zero amount", func(t *testing.T) {
		r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/expenses/"+expenseID, `{"amount":0}`)

		assertStatus(t, rec, http.StatusBadRequest)
	})
}

func TestExpenseHandler_DeleteExpense(t *testing.T) {
	var deleted string
	svc := &mockExpenseService{
		deleteExpenseFn: func(id string) error {
			deleted = id
			return nil
		},
	}
	audit := &mockAuditService{}
	r := setupExpenseRouter(NewExpenseHandler(svc, audit))

	rec := doRequest(r, "DELETE", "/expenses/"+expenseID, "")

	assertStatus(t, rec, http.StatusOK)
	if deleted != expenseID {
		t.Errorf("expected %s deleted, got %s", expenseID, deleted)
	}
	if len(audit.entries) != 1 || audit.entries[0].action != "DELETE_EXPENSE" {
		t.Errorf("expected DELETE_EXPENSE audit, got %v", audit.entries)
	}
}
