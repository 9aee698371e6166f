package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "renovo/internal/errors"
	"renovo/internal/logger"
	"renovo/internal/middleware"
	"renovo/internal/services"
	"renovo/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// newTestRouter returns an engine with the error middleware the real router
// installs, so error bodies render the same way.
func newTestRouter() *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	return r
}

// Fixed IDs used across handler tests.
const (
	projectID = "0190f5a4-1c2d-7e3f-8a9b-0c1d2e3f4a5b"
	phaseID   = "0190f5a4-1c2d-7e3f-8a9b-0c1d2e3f4a5c"
	taskID    = "0190f5a4-1c2d-7e3f-8a9b-0c1d2e3f4a5d"
	budgetID  = "0190f5a4-1c2d-7e3f-8a9b-0c1d2e3f4a5e"
	expenseID = "0190f5a4-1c2d-7e3f-8a9b-0c1d2e3f4a5f"
)

// --- mock audit service ---

type auditEntry struct {
	action       string
	resourceType string
	resourceID   string
	projectID    string
}

type mockAuditService struct {
	entries []auditEntry
}

func (m *mockAuditService) Log(action, resourceType, resourceID, projectID, _ string, _ map[string]interface{}) {
	m.entries = append(m.entries, auditEntry{action, resourceType, resourceID, projectID})
}

var _ services.AuditServicer = (*mockAuditService)(nil)

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d (%s), got %d: %s", want, http.StatusText(want), rec.Code, rec.Body.String())
	}
}

func TestParsePathID(t *testing.T) {
	r := newTestRouter()
	r.GET("/things/:id", func(c *gin.Context) {
		id, err := parsePathID(c, "id")
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	t.Run("canonicalizes", func(t *testing.T) {
		rec := doRequest(r, "GET", "/things/0190F5A4-1C2D-7E3F-8A9B-0C1D2E3F4A5B", "")
		assertStatus(t, rec, http.StatusOK)
		if parseJSON(t, rec)["id"] != projectID {
			t.Errorf("expected lower-case id")
		}
	})

	t.Run("rejects_garbage", func(t *testing.T) {
		rec := doRequest(r, "GET", "/things/42", "")
		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestRespondWithError(t *testing.T) {
	r := newTestRouter()
	var aborted bool
	r.GET("/missing", func(c *gin.Context) {
		respondWithError(c, apperrors.ErrTaskNotFound)
		aborted = c.IsAborted()
	})
	r.GET("/broken", func(c *gin.Context) {
		respondWithError(c, errors.New("connection reset"))
	})

	t.Run("app_error", func(t *testing.T) {
		rec := doRequest(r, "GET", "/missing", "")
		assertStatus(t, rec, http.StatusNotFound)
		assertErrorCode(t, parseJSON(t, rec), "TASK_NOT_FOUND")
		if !aborted {
			t.Error("expected the handler chain to be aborted")
		}
	})

	t.Run("unexpected_error", func(t *testing.T) {
		rec := doRequest(r, "GET", "/broken", "")
		assertStatus(t, rec, http.StatusInternalServerError)
		body := parseJSON(t, rec)
		assertErrorCode(t, body, "INTERNAL_ERROR")
		if strings.Contains(rec.Body.String(), "connection reset") {
			t.Error("expected internal detail to stay out of the response")
		}
	})
}
