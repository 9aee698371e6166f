// Package server assembles the HTTP router from services and handlers.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"renovo/internal/handlers"
	"renovo/internal/logger"
	"renovo/internal/middleware"
	"renovo/internal/models"
	"renovo/internal/services"
)

// Options tune the services behind the router.
type Options struct {
	// Now is the service clock. Nil means the wall clock.
	Now func() time.Time
	// DefaultWarningThreshold applies to budgets created without one.
	DefaultWarningThreshold float64
	// Swagger mounts the API docs at /swagger.
	Swagger bool
	// RequestLogging logs one line per request.
	RequestLogging bool
}

// NewRouter wires services and handlers over db and registers every route.
func NewRouter(db *gorm.DB, opts Options) *gin.Engine {
	now := services.Clock(opts.Now)

	// Initialize services
	projectService := services.NewProjectService(db, now, opts.DefaultWarningThreshold)
	phaseService := services.NewPhaseService(db, now)
	taskService := services.NewTaskService(db, now)
	budgetService := services.NewBudgetService(db, now, opts.DefaultWarningThreshold)
	expenseService := services.NewExpenseService(db, now)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	catalogHandler := handlers.NewCatalogHandler()
	projectHandler := handlers.NewProjectHandler(projectService, auditService)
	phaseHandler := handlers.NewPhaseHandler(phaseService, auditService)
	taskHandler := handlers.NewTaskHandler(taskService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, auditService)

	router := gin.New()
	router.Use(gin.Recovery())
	if opts.RequestLogging {
		router.Use(middleware.RequestLogging())
	}
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS())

	if opts.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.GET("/api/health", health(db))

	v1 := router.Group("/api/v1")

	catalog := v1.Group("/catalog")
	catalog.GET("/categories", catalogHandler.GetCategories)
	catalog.GET("/phase-types", catalogHandler.GetPhaseTypes)

	projects := v1.Group("/projects")
	projects.POST("", projectHandler.CreateProject)
	projects.GET("", projectHandler.GetProjects)
	projects.GET("/:id", projectHandler.GetProject)
	projects.PUT("/:id", projectHandler.UpdateProject)
	projects.DELETE("/:id", projectHandler.DeleteProject)
	projects.GET("/:id/summary", projectHandler.GetProjectSummary)
	projects.GET("/:id/phases", phaseHandler.GetProjectPhases)
	projects.POST("/:id/phases", phaseHandler.CreatePhase)
	projects.POST("/:id/phases/generate", projectHandler.GenerateDefaultPhases)
	projects.GET("/:id/tasks/overdue", projectHandler.GetOverdueTasks)
	projects.GET("/:id/budget", budgetHandler.GetBudget)
	projects.PUT("/:id/budget", budgetHandler.SetBudget)
	projects.PUT("/:id/budget/amount", budgetHandler.UpdateBudgetAmount)
	projects.PUT("/:id/budget/threshold", budgetHandler.UpdateBudgetThreshold)
	projects.GET("/:id/budget/summary", budgetHandler.GetBudgetSummary)
	projects.GET("/:id/expenses", expenseHandler.GetProjectExpenses)
	projects.POST("/:id/expenses", expenseHandler.CreateExpense)

	phases := v1.Group("/phases")
	phases.GET("/:id", phaseHandler.GetPhase)
	phases.PUT("/:id", phaseHandler.UpdatePhase)
	phases.DELETE("/:id", phaseHandler.DeletePhase)
	phases.POST("/:id/start", phaseHandler.StartPhase)
	phases.POST("/:id/complete", phaseHandler.CompletePhase)
	phases.POST("/:id/sync", phaseHandler.SyncPhase)
	phases.GET("/:id/tasks", taskHandler.GetPhaseTasks)
	phases.POST("/:id/tasks", taskHandler.CreateTask)

	tasks := v1.Group("/tasks")
	tasks.GET("/:id", taskHandler.GetTask)
	tasks.PUT("/:id", taskHandler.UpdateTask)
	tasks.DELETE("/:id", taskHandler.DeleteTask)
	for _, action := range []models.TaskAction{
		models.TaskActionStart,
		models.TaskActionComplete,
		models.TaskActionIssue,
		models.TaskActionCancel,
		models.TaskActionReset,
	} {
		tasks.POST("/:id/"+string(action), taskHandler.Transition(action))
	}

	expenses := v1.Group("/expenses")
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	return router
}

// health reports whether the database answers.
func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			logger.Get().Warnw("health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
