package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "renovo/internal/errors"
	"renovo/internal/models"
	"renovo/internal/pagination"
	"renovo/internal/services"
)

// --- mock project service ---

type mockProjectService struct {
	createProjectFn         func(in services.ProjectInput) (*models.Project, error)
	getProjectsFn           func(page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.Project], error)
	getProjectByIDFn        func(projectID string) (*models.Project, error)
	updateProjectFn         func(projectID string, in services.ProjectUpdate) (*models.Project, error)
	deleteProjectFn         func(projectID string) error
	getProjectSummaryFn     func(projectID string) (*services.ProjectSummary, error)
	generateDefaultPhasesFn func(projectID string) ([]models.Phase, error)
	getOverdueTasksFn       func(projectID string) ([]models.Task, error)
}

func (m *mockProjectService) CreateProject(in services.ProjectInput) (*models.Project, error) {
	if m.createProjectFn != nil {
		return m.createProjectFn(in)
	}
	return &models.Project{}, nil
}

func (m *mockProjectService) GetProjects(page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.Project], error) {
	if m.getProjectsFn != nil {
		return m.getProjectsFn(page, isActive)
	}
	resp := pagination.NewPageResponse([]models.Project{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockProjectService) GetProjectByID(projectID string) (*models.Project, error) {
	if m.getProjectByIDFn != nil {
		return m.getProjectByIDFn(projectID)
	}
	return &models.Project{}, nil
}

func (m *mockProjectService) UpdateProject(projectID string, in services.ProjectUpdate) (*models.Project, error) {
	if m.updateProjectFn != nil {
		return m.updateProjectFn(projectID, in)
	}
	return &models.Project{}, nil
}

func (m *mockProjectService) DeleteProject(projectID string) error {
	if m.deleteProjectFn != nil {
		return m.deleteProjectFn(projectID)
	}
	return nil
}

func (m *mockProjectService) GetProjectSummary(projectID string) (*services.ProjectSummary, error) {
	if m.getProjectSummaryFn != nil {
		return m.getProjectSummaryFn(projectID)
	}
	return &services.ProjectSummary{}, nil
}

func (m *mockProjectService) GenerateDefaultPhases(projectID string) ([]models.Phase, error) {
	if m.generateDefaultPhasesFn != nil {
		return m.generateDefaultPhasesFn(projectID)
	}
	return []models.Phase{}, nil
}

func (m *mockProjectService) GetOverdueTasks(projectID string) ([]models.Task, error) {
	if m.getOverdueTasksFn != nil {
		return m.getOverdueTasksFn(projectID)
	}
	return []models.Task{}, nil
}

var _ services.ProjectServicer = (*mockProjectService)(nil)

func setupProjectRouter(handler *ProjectHandler) *gin.Engine {
	r := newTestRouter()
	r.POST("/projects", handler.CreateProject)
	r.GET("/projects", handler.GetProjects)
	r.GET("/projects/:id", handler.GetProject)
	r.PUT("/projects/:id", handler.UpdateProject)
	r.DELETE("/projects/:id", handler.DeleteProject)
	r.GET("/projects/:id/summary", handler.GetProjectSummary)
	r.POST("/projects/:id/phases/generate", handler.GenerateDefaultPhases)
	r.GET("/projects/:id/tasks/overdue", handler.GetOverdueTasks)
	return r
}

func TestProjectHandler_CreateProject(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var got services.ProjectInput
		svc := &mockProjectService{
			createProjectFn: func(in services.ProjectInput) (*models.Project, error) {
				got = in
				return &models.Project{
					Base:      models.Base{ID: projectID},
					Name:      in.Name,
					HouseType: in.HouseType,
					StartDate: in.StartDate,
					IsActive:  true,
				}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupProjectRouter(NewProjectHandler(svc, audit))

		rec := doRequest(r, "POST", "/projects",
			`{"name":"Loft","house_type":"apartment","start_date":"2026-03-01T00:00:00Z","estimated_duration_days":90,"generate_phases":true,"budget_total":"85000.50"}`)

		assertStatus(t, rec, http.StatusCreated)
		project := parseJSON(t, rec)["project"].(map[string]interface{})
		if project["name"] != "Loft" {
			t.Errorf("expected Loft, got %v", project["name"])
		}
		if !got.GeneratePhases {
			t.Error("expected generate_phases to be passed through")
		}
		if got.BudgetTotal == nil || got.BudgetTotal.String() != "85000.5" {
			t.Errorf("expected budget total 85000.5, got %v", got.BudgetTotal)
		}
		if len(audit.entries) != 1 || audit.entries[0].action != "CREATE_PROJECT" {
			t.Errorf("expected a CREATE_PROJECT audit entry, got %v", audit.entries)
		}
	})

	t.Run("returns 400 on unknown house type", func(t *testing.T) {
		r := setupProjectRouter(NewProjectHandler(&mockProjectService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/projects",
			`{"name":"Loft","house_type":"castle","start_date":"2026-03-01T00:00:00Z"}`)

		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on missing start date", func(t *testing.T) {
		r := setupProjectRouter(NewProjectHandler(&mockProjectService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/projects", `{"name":"Loft","house_type":"villa"}`)

		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on negative budget", func(t *testing.T) {
		r := setupProjectRouter(NewProjectHandler(&mockProjectService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/projects",
			`{"name":"Loft","house_type":"villa","start_date":"2026-03-01T00:00:00Z","budget_total":-5}`)

		assertStatus(t, rec, http.StatusBadRequest)
	})
}

func TestProjectHandler_GetProjects(t *testing.T) {
	t.Run("passes is_active filter", func(t *testing.T) {
		var gotActive *bool
		svc := &mockProjectService{
			getProjectsFn: func(page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.Project], error) {
				gotActive = isActive
				resp := pagination.NewPageResponse([]models.Project{{Name: "A"}}, 1, 20, 1)
				return &resp, nil
			},
		}
		r := setupProjectRouter(NewProjectHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/projects?is_active=false", "")

		assertStatus(t, rec, http.StatusOK)
		if gotActive == nil || *gotActive {
			t.Error("expected is_active=false to reach the service")
		}
		if parseJSON(t, rec)["total_items"].(float64) != 1 {
			t.Error("expected paginated response")
		}
	})

	t.Run("returns 400 on bad is_active", func(t *testing.T) {
		r := setupProjectRouter(NewProjectHandler(&mockProjectService{}, &mockAuditService{}))
		rec := doRequest(r, "GET", "/projects?is_active=maybe", "")
		assertStatus(t, rec, http.StatusBadRequest)
	})

	t.Run("returns 400 on oversized page", func(t *testing.T) {
		r := setupProjectRouter(NewProjectHandler(&mockProjectService{}, &mockAuditService{}))
		rec := doRequest(r, "GET", "/projects?page_size=500", "")
		assertStatus(t, rec, http.StatusBadRequest)
	})
}

func TestProjectHandler_GetProject(t *testing.T) {
	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockProjectService{
			getProjectByIDFn: func(string) (*models.Project, error) {
				return nil, apperrors.ErrProjectNotFound
			},
		}
		r := setupProjectRouter(NewProjectHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/projects/"+projectID, "")

		assertStatus(t, rec, http.StatusNotFound)
		assertErrorCode(t, parseJSON(t, rec), "PROJECT_NOT_FOUND")
	})

	t.Run("returns 400 on bad id", func(t *testing.T) {
		r := setupProjectRouter(NewProjectHandler(&mockProjectService{}, &mockAuditService{}))
		rec := doRequest(r, "GET", "/projects/abc", "")
		assertStatus(t, rec, http.StatusBadRequest)
	})
}

func TestProjectHandler_UpdateProject(t *testing.T) {
	var got services.ProjectUpdate
	svc := &mockProjectService{
		updateProjectFn: func(id string, in services.ProjectUpdate) (*models.Project, error) {
			got = in
			return &models.Project{Base: models.Base{ID: id}, Name: *in.Name}, nil
		},
	}
	r := setupProjectRouter(NewProjectHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "PUT", "/projects/"+projectID, `{"name":"Loft 2","is_active":false}`)

	assertStatus(t, rec, http.StatusOK)
	if got.IsActive == nil || *got.IsActive {
		t.Error("expected is_active=false to be passed")
	}
	if got.Notes != nil {
		t.Error("absent fields must stay nil")
	}
}

func TestProjectHandler_DeleteProject(t *testing.T) {
	var deleted string
	svc := &mockProjectService{
		deleteProjectFn: func(id string) error {
			deleted = id
			return nil
		},
	}
	audit := &mockAuditService{}
	r := setupProjectRouter(NewProjectHandler(svc, audit))

	rec := doRequest(r, "DELETE", "/projects/"+projectID, "")

	assertStatus(t, rec, http.StatusOK)
	if deleted != projectID {
		t.Errorf("expected %s deleted, got %s", projectID, deleted)
	}
	if len(audit.entries) != 1 || audit.entries[0].projectID != projectID {
		t.Error("expected delete to be audited with its project")
	}
}

func TestProjectHandler_GetProjectSummary(t *testing.T) {
	svc := &mockProjectService{
		getProjectSummaryFn: func(id string) (*services.ProjectSummary, error) {
			return &services.ProjectSummary{
				ProjectID:        id,
				OverallProgress:  0.25,
				EstimatedEndDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
				Phases:           []services.PhaseSummary{},
			}, nil
		},
	}
	r := setupProjectRouter(NewProjectHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "GET", "/projects/"+projectID+"/summary", "")

	assertStatus(t, rec, http.StatusOK)
	summary := parseJSON(t, rec)["summary"].(map[string]interface{})
	if summary["overall_progress"].(float64) != 0.25 {
		t.Errorf("expected progress 0.25, got %v", summary["overall_progress"])
	}
	if _, ok := summary["budget"]; ok {
		t.Error("expected budget to be omitted when absent")
	}
}

func TestProjectHandler_GenerateDefaultPhases(t *testing.T) {
	svc := &mockProjectService{
		generateDefaultPhasesFn: func(string) ([]models.Phase, error) {
			return []models.Phase{{Name: "Design", Type: models.PhaseTypeDesign}}, nil
		},
	}
	r := setupProjectRouter(NewProjectHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "POST", "/projects/"+projectID+"/phases/generate", "")

	assertStatus(t, rec, http.StatusCreated)
	if len(parseJSON(t, rec)["phases"].([]interface{})) != 1 {
		t.Error("expected generated phases in response")
	}
}

func TestProjectHandler_GetOverdueTasks(t *testing.T) {
	svc := &mockProjectService{
		getOverdueTasksFn: func(string) ([]models.Task, error) {
			return nil, apperrors.ErrProjectNotFound
		},
	}
	r := setupProjectRouter(NewProjectHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "GET", "/projects/"+projectID+"/tasks/overdue", "")

	assertStatus(t, rec, http.StatusNotFound)
}
