package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "renovo/internal/errors"
	"renovo/internal/models"
	"renovo/internal/services"
)

// PhaseHandler handles phase-related requests.
type PhaseHandler struct {
	phaseService services.PhaseServicer
	auditService services.AuditServicer
}

// NewPhaseHandler creates a new PhaseHandler.
func NewPhaseHandler(phaseService services.PhaseServicer, auditService services.AuditServicer) *PhaseHandler {
	return &PhaseHandler{phaseService: phaseService, auditService: auditService}
}

// CreatePhaseRequest represents the request payload for creating a phase.
type CreatePhaseRequest struct {
	Name             string           `json:"name" binding:"max=100"`
	Type             models.PhaseType `json:"type" binding:"required,phase_type"`
	SortOrder        *int             `json:"sort_order" binding:"omitempty,gte=0"`
	PlannedStartDate time.Time        `json:"planned_start_date" binding:"required"`
	PlannedEndDate   time.Time        `json:"planned_end_date" binding:"required"`
	Notes            string           `json:"notes" binding:"max=2000"`
}

// UpdatePhaseRequest represents the request payload for updating a phase.
type UpdatePhaseRequest struct {
	Name             *string    `json:"name" binding:"omitempty,min=1,max=100"`
	SortOrder        *int       `json:"sort_order" binding:"omitempty,gte=0"`
	PlannedStartDate *time.Time `json:"planned_start_date"`
	PlannedEndDate   *time.Time `json:"planned_end_date"`
	IsEnabled        *bool      `json:"is_enabled"`
	Notes            *string    `json:"notes" binding:"omitempty,max=2000"`
}

// CreatePhase handles adding a phase to a project.
// @Summary     Create a phase
// @Description Add a phase to a project. Without a name the phase type's display name is used.
// @Tags        phases
// @Accept      json
// @Produce     json
// @Param       id      path string             true "Project ID"
// @Param       request body CreatePhaseRequest true "Phase details"
// @Success     201 {object} models.Phase "Phase created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{id}/phases [post]
func (h *PhaseHandler) CreatePhase(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreatePhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	phase, err := h.phaseService.CreatePhase(projectID, services.PhaseInput{
		Name:             req.Name,
		Type:             req.Type,
		SortOrder:        req.SortOrder,
		PlannedStartDate: req.PlannedStartDate,
		PlannedEndDate:   req.PlannedEndDate,
		Notes:            req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("CREATE_PHASE", "phase", phase.ID, projectID, c.ClientIP(),
		map[string]interface{}{"type": req.Type})

	c.JSON(http.StatusCreated, gin.H{"phase": phase})
}

// GetProjectPhases handles listing a project's phases.
// @Summary     Get project phases
// @Description Get a project's phases with their tasks, in order
// @Tags        phases
// @Produce     json
// @Param       id path string true "Project ID"
// @Success     200 {array}  models.Phase "Phases"
// @Failure     400 {object} ErrorResponse "Invalid project ID"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{id}/phases [get]
func (h *PhaseHandler) GetProjectPhases(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	phases, err := h.phaseService.GetProjectPhases(projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"phases": phases})
}

// GetPhase handles retrieving a phase.
// @Summary     Get phase by ID
// @Description Get a phase with its tasks
// @Tags        phases
// @Produce     json
// @Param       id path string true "Phase ID"
// @Success     200 {object} models.Phase "Phase details"
// @Failure     400 {object} ErrorResponse "Invalid phase ID"
// @Failure     404 {object} ErrorResponse "Phase not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /phases/{id} [get]
func (h *PhaseHandler) GetPhase(c *gin.Context) {
	phaseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	phase, err := h.phaseService.GetPhaseByID(phaseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"phase": phase})
}

// UpdatePhase handles updating a phase's plan, order or enabled flag.
// @Summary     Update phase
// @Description Update a phase. Completion is changed only through the transition endpoints.
// @Tags        phases
// @Accept      json
// @Produce     json
// @Param       id      path string             true "Phase ID"
// @Param       request body UpdatePhaseRequest true "Updated phase details"
// @Success     200 {object} models.Phase "Updated phase"
// @Failure     400 {object} ErrorResponse "Invalid input or phase ID"
// @Failure     404 {object} ErrorResponse "Phase not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /phases/{id} [put]
func (h *PhaseHandler) UpdatePhase(c *gin.Context) {
	phaseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	phase, err := h.phaseService.UpdatePhase(phaseID, services.PhaseUpdate{
		Name:             req.Name,
		SortOrder:        req.SortOrder,
		PlannedStartDate: req.PlannedStartDate,
		PlannedEndDate:   req.PlannedEndDate,
		IsEnabled:        req.IsEnabled,
		Notes:            req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	changes := map[string]interface{}{}
	if req.IsEnabled != nil {
		changes["is_enabled"] = *req.IsEnabled
	}
	h.auditService.Log("UPDATE_PHASE", "phase", phase.ID, phase.ProjectID, c.ClientIP(), changes)

	c.JSON(http.StatusOK, gin.H{"phase": phase})
}

// DeletePhase handles deleting a phase and its tasks.
// @Summary     Delete phase
// @Description Delete a phase together with its tasks
// @Tags        phases
// @Produce     json
// @Param       id path string true "Phase ID"
// @Success     200 {object} MessageResponse "Phase deleted"
// @Failure     400 {object} ErrorResponse "Invalid phase ID"
// @Failure     404 {object} ErrorResponse "Phase not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /phases/{id} [delete]
func (h *PhaseHandler) DeletePhase(c *gin.Context) {
	phaseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.phaseService.DeletePhase(phaseID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("DELETE_PHASE", "phase", phaseID, "", c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Phase deleted successfully"})
}

// StartPhase handles recording a phase's actual start.
// @Summary     Start phase
// @Description Record the actual start. A phase that already started is left unchanged and changed=false is returned.
// @Tags        phases
// @Accept      json
// @Produce     json
// @Param       id      path string            true  "Phase ID"
// @Param       request body TransitionRequest false "Optional start time"
// @Success     200 {object} map[string]interface{} "Phase and whether it changed"
// @Failure     400 {object} ErrorResponse "Invalid input or phase ID"
// @Failure     404 {object} ErrorResponse "Phase not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /phases/{id}/start [post]
func (h *PhaseHandler) StartPhase(c *gin.Context) {
	h.transition(c, "START_PHASE", h.phaseService.StartPhase)
}

// CompletePhase handles completing a phase and all of its unfinished tasks.
// @Summary     Complete phase
// @Description Complete the phase and force-complete every unfinished task. Completing twice is a no-op.
// @Tags        phases
// @Accept      json
// @Produce     json
// @Param       id      path string            true  "Phase ID"
// @Param       request body TransitionRequest false "Optional completion time"
// @Success     200 {object} map[string]interface{} "Phase and whether it changed"
// @Failure     400 {object} ErrorResponse "Invalid input or phase ID"
// @Failure     404 {object} ErrorResponse "Phase not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /phases/{id}/complete [post]
func (h *PhaseHandler) CompletePhase(c *gin.Context) {
	h.transition(c, "COMPLETE_PHASE", h.phaseService.CompletePhase)
}

// SyncPhase handles reconciling a phase with its tasks.
// @Summary     Sync phase
// @Description Derive the phase's start and completion from its tasks
// @Tags        phases
// @Produce     json
// @Param       id path string true "Phase ID"
// @Success     200 {object} map[string]interface{} "Phase and whether it changed"
// @Failure     400 {object} ErrorResponse "Invalid phase ID"
// @Failure     404 {object} ErrorResponse "Phase not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /phases/{id}/sync [post]
func (h *PhaseHandler) SyncPhase(c *gin.Context) {
	h.transition(c, "SYNC_PHASE", func(phaseID string, _ *time.Time) (*models.Phase, bool, error) {
		return h.phaseService.SyncPhase(phaseID)
	})
}

func (h *PhaseHandler) transition(c *gin.Context, action string, apply func(string, *time.Time) (*models.Phase, bool, error)) {
	phaseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	at, err := bindTransition(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	phase, changed, err := apply(phaseID, at)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if changed {
		h.auditService.Log(action, "phase", phase.ID, phase.ProjectID, c.ClientIP(),
			map[string]interface{}{"is_completed": phase.IsCompleted, "tasks": len(phase.Tasks)})
	}

	c.JSON(http.StatusOK, gin.H{"phase": phase, "changed": changed})
}
