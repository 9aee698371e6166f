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

// ProjectHandler handles project-related requests.
type ProjectHandler struct {
	projectService services.ProjectServicer
	auditService   services.AuditServicer
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService services.ProjectServicer, auditService services.AuditServicer) *ProjectHandler {
	return &ProjectHandler{projectService: projectService, auditService: auditService}
}

// CreateProjectRequest represents the request payload for creating a project.
type CreateProjectRequest struct {
	Name                  string           `json:"name" binding:"required,min=1,max=200"`
	HouseType             models.HouseType `json:"house_type" binding:"required,house_type"`
	FloorArea             float64          `json:"floor_area" binding:"gte=0"`
	StartDate             time.Time        `json:"start_date" binding:"required"`
	EstimatedDurationDays int              `json:"estimated_duration_days" binding:"gte=0"`
	Notes                 string           `json:"notes" binding:"max=2000"`
	GeneratePhases        bool             `json:"generate_phases"`
	BudgetTotal           *decimal.Decimal `json:"budget_total" binding:"omitempty,gte=0"`
	WarningThreshold      *float64         `json:"warning_threshold"`
}

// UpdateProjectRequest represents the request payload for updating a project.
type UpdateProjectRequest struct {
	Name                  *string           `json:"name" binding:"omitempty,min=1,max=200"`
	HouseType             *models.HouseType `json:"house_type" binding:"omitempty,house_type"`
	FloorArea             *float64          `json:"floor_area" binding:"omitempty,gte=0"`
	StartDate             *time.Time        `json:"start_date"`
	EstimatedDurationDays *int              `json:"estimated_duration_days" binding:"omitempty,gte=0"`
	Notes                 *string           `json:"notes" binding:"omitempty,max=2000"`
	IsActive              *bool             `json:"is_active"`
}

// CreateProject handles the creation of a new project.
// @Summary     Create a project
// @Description Create a renovation project, optionally with the default phase plan and a budget
// @Tags        projects
// @Accept      json
// @Produce     json
// @Param       request body CreateProjectRequest true "Project details"
// @Success     201 {object} models.Project "Project created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	project, err := h.projectService.CreateProject(services.ProjectInput{
		Name:                  req.Name,
		HouseType:             req.HouseType,
		FloorArea:             req.FloorArea,
		StartDate:             req.StartDate,
		EstimatedDurationDays: req.EstimatedDurationDays,
		Notes:                 req.Notes,
		GeneratePhases:        req.GeneratePhases,
		BudgetTotal:           req.BudgetTotal,
		WarningThreshold:      req.WarningThreshold,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("CREATE_PROJECT", "project", project.ID, project.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "generate_phases": req.GeneratePhases, "with_budget": req.BudgetTotal != nil})

	c.JSON(http.StatusCreated, gin.H{"project": project})
}

// GetProjects handles listing projects.
// @Summary     Get projects
// @Description Get a paginated list of projects
// @Tags        projects
// @Produce     json
// @Param       is_active query bool false "Filter by active status"
// @Param       page      query int  false "Page number (default 1)"
// @Param       page_size query int  false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Project] "Paginated projects"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects [get]
func (h *ProjectHandler) GetProjects(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	isActive, err := parseOptionalBool(c, "is_active")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.projectService.GetProjects(page, isActive)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProject handles retrieving a project with its phases, tasks and budget.
// @Summary     Get project by ID
// @Description Get a project with its whole graph
// @Tags        projects
// @Produce     json
// @Param       id path string true "Project ID"
// @Success     200 {object} models.Project "Project details"
// @Failure     400 {object} ErrorResponse "Invalid project ID"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	project, err := h.projectService.GetProjectByID(projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// UpdateProject handles updating an existing project.
// @Summary     Update project
// @Description Update an existing project's details
// @Tags        projects
// @Accept      json
// @Produce     json
// @Param       id      path string               true "Project ID"
// @Param       request body UpdateProjectRequest true "Updated project details"
// @Success     200 {object} models.Project "Updated project"
// @Failure     400 {object} ErrorResponse "Invalid input or project ID"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	project, err := h.projectService.UpdateProject(projectID, services.ProjectUpdate{
		Name:                  req.Name,
		HouseType:             req.HouseType,
		FloorArea:             req.FloorArea,
		StartDate:             req.StartDate,
		EstimatedDurationDays: req.EstimatedDurationDays,
		Notes:                 req.Notes,
		IsActive:              req.IsActive,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("UPDATE_PROJECT", "project", project.ID, project.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// DeleteProject handles deleting a project and everything it owns.
// @Summary     Delete project
// @Description Delete a project with its budget, expenses, phases and tasks
// @Tags        projects
// @Produce     json
// @Param       id path string true "Project ID"
// @Success     200 {object} MessageResponse "Project deleted"
// @Failure     400 {object} ErrorResponse "Invalid project ID"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.projectService.DeleteProject(projectID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("DELETE_PROJECT", "project", projectID, projectID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

// GetProjectSummary handles the project rollup.
// @Summary     Get project summary
// @Description Progress, schedule, task counts and budget summary for a project
// @Tags        projects
// @Produce     json
// @Param       id path string true "Project ID"
// @Success     200 {object} services.ProjectSummary "Project summary"
// @Failure     400 {object} ErrorResponse "Invalid project ID"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{id}/summary [get]
func (h *ProjectHandler) GetProjectSummary(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.projectService.GetProjectSummary(projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GenerateDefaultPhases handles laying out the default phase plan.
// @Summary     Generate default phases
// @Description Add one phase per built-in phase type the project does not have yet
// @Tags        phases
// @Produce     json
// @Param       id path string true "Project ID"
// @Success     201 {array}  models.Phase "Created phases"
// @Failure     400 {object} ErrorResponse "Invalid project ID"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{id}/phases/generate [post]
func (h *ProjectHandler) GenerateDefaultPhases(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	phases, err := h.projectService.GenerateDefaultPhases(projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("GENERATE_PHASES", "project", projectID, projectID, c.ClientIP(),
		map[string]interface{}{"count": len(phases)})

	c.JSON(http.StatusCreated, gin.H{"phases": phases})
}

// GetOverdueTasks handles listing a project's overdue tasks.
// @Summary     Get overdue tasks
// @Description Unfinished tasks past their planned end date, earliest first
// @Tags        tasks
// @Produce     json
// @Param       id path string true "Project ID"
// @Success     200 {array}  models.Task "Overdue tasks"
// @Failure     400 {object} ErrorResponse "Invalid project ID"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{id}/tasks/overdue [get]
func (h *ProjectHandler) GetOverdueTasks(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	tasks, err := h.projectService.GetOverdueTasks(projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}
