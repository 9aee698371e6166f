package services

import (
	"time"

	"github.com/shopspring/decimal"

	"renovo/internal/models"
	"renovo/internal/pagination"
)

// ProjectInput holds the fields needed to create a project. When
// GeneratePhases is set the default phase plan is laid out from StartDate;
// when BudgetTotal is set a budget is created alongside the project.
type ProjectInput struct {
	Name                  string
	HouseType             models.HouseType
	FloorArea             float64
	StartDate             time.Time
	EstimatedDurationDays int
	Notes                 string
	GeneratePhases        bool
	BudgetTotal           *decimal.Decimal
	WarningThreshold      *float64
}

// ProjectUpdate holds optional project fields. Nil fields are left unchanged.
type ProjectUpdate struct {
	Name                  *string
	HouseType             *models.HouseType
	FloorArea             *float64
	StartDate             *time.Time
	EstimatedDurationDays *int
	Notes                 *string
	IsActive              *bool
}

// PhaseSummary is one phase row of a project summary.
type PhaseSummary struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Type           models.PhaseType   `json:"type"`
	Status         models.PhaseStatus `json:"status"`
	IsEnabled      bool               `json:"is_enabled"`
	Progress       float64            `json:"progress"`
	CompletedTasks int                `json:"completed_tasks"`
	TotalTasks     int                `json:"total_tasks"`
	DelayedDays    int                `json:"delayed_days"`
}

// ProjectSummary is the rollup of a project's schedule, tasks and budget.
type ProjectSummary struct {
	ProjectID           string         `json:"project_id"`
	Name                string         `json:"name"`
	OverallProgress     float64        `json:"overall_progress"`
	ActualDaysUsed      int            `json:"actual_days_used"`
	RemainingDays       int            `json:"remaining_days"`
	EstimatedEndDate    time.Time      `json:"estimated_end_date"`
	IsDelayed           bool           `json:"is_delayed"`
	EnabledPhaseCount   int            `json:"enabled_phase_count"`
	CompletedPhaseCount int            `json:"completed_phase_count"`
	DelayedPhaseCount   int            `json:"delayed_phase_count"`
	CompletedTaskCount  int            `json:"completed_task_count"`
	TotalTaskCount      int            `json:"total_task_count"`
	OverdueTaskCount    int            `json:"overdue_task_count"`
	Phases              []PhaseSummary `json:"phases"`
	Budget              *BudgetSummary `json:"budget,omitempty"`
}

// ProjectServicer defines the contract for project-related business logic.
type ProjectServicer interface {
	CreateProject(in ProjectInput) (*models.Project, error)
	GetProjects(page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.Project], error)
	GetProjectByID(projectID string) (*models.Project, error)
	UpdateProject(projectID string, in ProjectUpdate) (*models.Project, error)
	DeleteProject(projectID string) error
	GetProjectSummary(projectID string) (*ProjectSummary, error)
	GenerateDefaultPhases(projectID string) ([]models.Phase, error)
	GetOverdueTasks(projectID string) ([]models.Task, error)
}

// PhaseInput holds the fields needed to create a phase. A nil SortOrder puts
// the phase after the project's last one.
type PhaseInput struct {
	Name             string
	Type             models.PhaseType
	SortOrder        *int
	PlannedStartDate time.Time
	PlannedEndDate   time.Time
	Notes            string
}

// PhaseUpdate holds optional phase fields. Nil fields are left unchanged.
type PhaseUpdate struct {
	Name             *string
	SortOrder        *int
	PlannedStartDate *time.Time
	PlannedEndDate   *time.Time
	IsEnabled        *bool
	Notes            *string
}

// PhaseServicer defines the contract for phase-related business logic.
// Transitions report whether the phase actually changed.
type PhaseServicer interface {
	CreatePhase(projectID string, in PhaseInput) (*models.Phase, error)
	GetProjectPhases(projectID string) ([]models.Phase, error)
	GetPhaseByID(phaseID string) (*models.Phase, error)
	UpdatePhase(phaseID string, in PhaseUpdate) (*models.Phase, error)
	DeletePhase(phaseID string) error
	StartPhase(phaseID string, at *time.Time) (*models.Phase, bool, error)
	CompletePhase(phaseID string, at *time.Time) (*models.Phase, bool, error)
	SyncPhase(phaseID string) (*models.Phase, bool, error)
}

// TaskInput holds the fields needed to create a task.
type TaskInput struct {
	Title            string
	Description      string
	AssigneeName     string
	AssigneeContact  string
	PlannedStartDate *time.Time
	PlannedEndDate   *time.Time
	Photos           []string
}

// TaskUpdate holds optional task fields. Nil fields are left unchanged.
// Status is not editable here; use TransitionTask.
type TaskUpdate struct {
	Title            *string
	Description      *string
	AssigneeName     *string
	AssigneeContact  *string
	PlannedStartDate *time.Time
	PlannedEndDate   *time.Time
	Photos           []string
	SortOrder        *int

	// Clear flags unset a planned date. A date set in the same update wins.
	ClearPlannedStartDate bool
	ClearPlannedEndDate   bool
}

// TaskTransition is the outcome of a task action together with the owning
// phase after it was reconciled with its tasks.
type TaskTransition struct {
	Task         *models.Task  `json:"task"`
	Changed      bool          `json:"changed"`
	Phase        *models.Phase `json:"phase"`
	PhaseChanged bool          `json:"phase_changed"`
}

// TaskServicer defines the contract for task-related business logic.
type TaskServicer interface {
	CreateTask(phaseID string, in TaskInput) (*models.Task, error)
	GetPhaseTasks(phaseID string) ([]models.Task, error)
	GetTaskByID(taskID string) (*models.Task, error)
	UpdateTask(taskID string, in TaskUpdate) (*models.Task, error)
	DeleteTask(taskID string) error
	TransitionTask(taskID string, action models.TaskAction, at *time.Time) (*TaskTransition, error)
}

// BudgetSummary is the computed state of a budget at a point in time.
type BudgetSummary struct {
	BudgetID             string                                    `json:"budget_id"`
	TotalAmount          decimal.Decimal                           `json:"total_amount"`
	TotalExpenses        decimal.Decimal                           `json:"total_expenses"`
	RemainingBudget      decimal.Decimal                           `json:"remaining_budget"`
	UsagePercentage      float64                                   `json:"usage_percentage"`
	WarningThreshold     float64                                   `json:"warning_threshold"`
	IsOverBudget         bool                                      `json:"is_over_budget"`
	HasReachedWarning    bool                                      `json:"has_reached_warning_threshold"`
	EstimatedOverage     decimal.Decimal                           `json:"estimated_overage"`
	CurrentMonthExpenses decimal.Decimal                           `json:"current_month_expenses"`
	ExpenseCount         int                                       `json:"expense_count"`
	ByCategory           []models.CategoryAmount                   `json:"by_category"`
	ByParentCategory     map[models.ParentCategory]decimal.Decimal `json:"by_parent_category"`
	ByMonth              []models.MonthAmount                      `json:"by_month"`
}

// BudgetServicer defines the contract for budget-related business logic.
// A project has at most one budget.
type BudgetServicer interface {
	SetBudget(projectID string, total decimal.Decimal, warningThreshold *float64) (*models.Budget, error)
	GetBudget(projectID string) (*models.Budget, error)
	UpdateTotalAmount(projectID string, total decimal.Decimal) (*models.Budget, error)
	UpdateWarningThreshold(projectID string, threshold float64) (*models.Budget, error)
	GetBudgetSummary(projectID string) (*BudgetSummary, error)
}

// ExpenseInput holds the fields needed to record an expense.
type ExpenseInput struct {
	Amount      decimal.Decimal
	Category    models.ExpenseCategory
	Date        time.Time
	Notes       string
	VendorName  string
	PaymentType models.PaymentType
	Photos      []string
}

// ExpenseUpdate holds optional expense fields. Nil fields are left unchanged.
type ExpenseUpdate struct {
	Amount      *decimal.Decimal
	Category    *models.ExpenseCategory
	Date        *time.Time
	Notes       *string
	VendorName  *string
	PaymentType *models.PaymentType
	Photos      []string
}

// ExpenseFilter holds optional filter parameters for listing expenses.
// Month is any instant inside the wanted calendar month.
type ExpenseFilter struct {
	Category *models.ExpenseCategory
	Parent   *models.ParentCategory
	Month    *time.Time
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(projectID string, in ExpenseInput) (*models.Expense, error)
	GetProjectExpenses(projectID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(expenseID string) (*models.Expense, error)
	UpdateExpense(expenseID string, in ExpenseUpdate) (*models.Expense, error)
	DeleteExpense(expenseID string) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(action, resourceType, resourceID, projectID, clientIP string, changes map[string]interface{})
}
