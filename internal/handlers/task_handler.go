package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "renovo/internal/errors"
	"renovo/internal/models"
	"renovo/internal/services"
)

// TaskHandler handles task-related requests.
type TaskHandler struct {
	taskService  services.TaskServicer
	auditService services.AuditServicer
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService services.TaskServicer, auditService services.AuditServicer) *TaskHandler {
	return &TaskHandler{taskService: taskService, auditService: auditService}
}

// CreateTaskRequest represents the request payload for creating a task.
type CreateTaskRequest struct {
	Title            string     `json:"title" binding:"required,min=1,max=200"`
	Description      string     `json:"description" binding:"max=2000"`
	AssigneeName     string     `json:"assignee_name" binding:"max=100"`
	AssigneeContact  string     `json:"assignee_contact" binding:"max=100"`
	PlannedStartDate *time.Time `json:"planned_start_date"`
	PlannedEndDate   *time.Time `json:"planned_end_date"`
	Photos           []string   `json:"photos" binding:"omitempty,dive,min=1,max=500"`
}

// UpdateTaskRequest represents the request payload for updating a task.
type UpdateTaskRequest struct {
	Title            *string    `json:"title" binding:"omitempty,min=1,max=200"`
	Description      *string    `json:"description" binding:"omitempty,max=2000"`
	AssigneeName     *string    `json:"assignee_name" binding:"omitempty,max=100"`
	AssigneeContact  *string    `json:"assignee_contact" binding:"omitempty,max=100"`
	PlannedStartDate *time.Time `json:"planned_start_date"`
	PlannedEndDate   *time.Time `json:"planned_end_date"`
	Photos           []string   `json:"photos" binding:"omitempty,dive,min=1,max=500"`
	SortOrder        *int       `json:"sort_order" binding:"omitempty,gte=0"`

	ClearPlannedStartDate bool `json:"clear_planned_start_date"`
	ClearPlannedEndDate   bool `json:"clear_planned_end_date"`
}

// CreateTask handles appending a task to a phase.
// @Summary     Create a task
// @Description Append a pending task to a phase. A completed phase is reopened.
// @Tags        tasks
// @Accept      json
// @Produce     json
// @Param       id      path string            true "Phase ID"
// @Param       request body CreateTaskRequest true "Task details"
// @Success     201 {object} models.Task "Task created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Phase not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /phases/{id}/tasks [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	phaseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	task, err := h.taskService.CreateTask(phaseID, services.TaskInput{
		Title:            req.Title,
		Description:      req.Description,
		AssigneeName:     req.AssigneeName,
		AssigneeContact:  req.AssigneeContact,
		PlannedStartDate: req.PlannedStartDate,
		PlannedEndDate:   req.PlannedEndDate,
		Photos:           req.Photos,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("CREATE_TASK", "task", task.ID, "", c.ClientIP(),
		map[string]interface{}{"phase_id": phaseID, "title": req.Title})

	c.JSON(http.StatusCreated, gin.H{"task": task})
}

// GetPhaseTasks handles listing a phase's tasks.
// @Summary     Get phase tasks
// @Description Get a phase's tasks in order
// @Tags        tasks
// @Produce     json
// @Param       id path string true "Phase ID"
// @Success     200 {array}  models.Task "Tasks"
// @Failure     400 {object} ErrorResponse "Invalid phase ID"
// @Failure     404 {object} ErrorResponse "Phase not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /phases/{id}/tasks [get]
func (h *TaskHandler) GetPhaseTasks(c *gin.Context) {
	phaseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	tasks, err := h.taskService.GetPhaseTasks(phaseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// GetTask handles retrieving a task.
// @Summary     Get task by ID
// @Tags        tasks
// @Produce     json
// @Param       id path string true "Task ID"
// @Success     200 {object} models.Task "Task details"
// @Failure     400 {object} ErrorResponse "Invalid task ID"
// @Failure     404 {object} ErrorResponse "Task not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /tasks/{id} [get]
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	task, err := h.taskService.GetTaskByID(taskID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

// UpdateTask handles updating a task's details.
// @Summary     Update task
// @Description Update a task's details. Status changes go through the action endpoints.
// @Tags        tasks
// @Accept      json
// @Produce     json
// @Param       id      path string            true "Task ID"
// @Param       request body UpdateTaskRequest true "Updated task details"
// @Success     200 {object} models.Task "Updated task"
// @Failure     400 {object} ErrorResponse "Invalid input or task ID"
// @Failure     404 {object} ErrorResponse "Task not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	taskID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	task, err := h.taskService.UpdateTask(taskID, services.TaskUpdate{
		Title:            req.Title,
		Description:      req.Description,
		AssigneeName:     req.AssigneeName,
		AssigneeContact:  req.AssigneeContact,
		PlannedStartDate: req.PlannedStartDate,
		PlannedEndDate:   req.PlannedEndDate,
		Photos:           req.Photos,
		SortOrder:        req.SortOrder,

		ClearPlannedStartDate: req.ClearPlannedStartDate,
		ClearPlannedEndDate:   req.ClearPlannedEndDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("UPDATE_TASK", "task", task.ID, "", c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"task": task})
}

// DeleteTask handles deleting a task.
// @Summary     Delete task
// @Description Delete a task and reconcile its phase
// @Tags        tasks
// @Produce     json
// @Param       id path string true "Task ID"
// @Success     200 {object} MessageResponse "Task deleted"
// @Failure     400 {object} ErrorResponse "Invalid task ID"
// @Failure     404 {object} ErrorResponse "Task not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	taskID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.taskService.DeleteTask(taskID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("DELETE_TASK", "task", taskID, "", c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// Transition returns a handler that applies action to the task in the path.
// @Summary     Change task status
// @Description Apply start, complete, issue, cancel or reset to a task, then reconcile its phase.
// @Description Start only moves a pending task; the response reports whether anything changed.
// @Tags        tasks
// @Accept      json
// @Produce     json
// @Param       id      path string            true  "Task ID"
// @Param       action  path string            true  "start, complete, issue, cancel or reset"
// @Param       request body TransitionRequest false "Optional completion time"
// @Success     200 {object} services.TaskTransition "Task, phase, and whether each changed"
// @Failure     400 {object} ErrorResponse "Invalid input or task ID"
// @Failure     404 {object} ErrorResponse "Task not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /tasks/{id}/{action} [post]
func (h *TaskHandler) Transition(action models.TaskAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := parsePathID(c, "id")
		if err != nil {
			respondWithError(c, err)
			return
		}

		at, err := bindTransition(c)
		if err != nil {
			respondWithError(c, err)
			return
		}

		result, err := h.taskService.TransitionTask(taskID, action, at)
		if err != nil {
			respondWithError(c, err)
			return
		}

		if result.Changed || result.PhaseChanged {
			h.auditService.Log(strings.ToUpper(string(action))+"_TASK", "task", result.Task.ID, result.Phase.ProjectID, c.ClientIP(),
				map[string]interface{}{"status": result.Task.Status, "phase_changed": result.PhaseChanged})
		}

		c.JSON(http.StatusOK, result)
	}
}
