package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "buildledger/internal/errors"
	"buildledger/internal/models"
	"buildledger/internal/pagination"
	"buildledger/internal/services"
)

func setupPhaseRouter(handler *PhaseHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectProfileID(testProfileID))
	auth.POST("/projects/:projectId/phases", handler.CreatePhase)
	auth.GET("/projects/:projectId/phases", handler.ListPhases)
	auth.GET("/phases/:id", handler.GetPhase)
	auth.PUT("/phases/:id", handler.UpdatePhase)
	auth.DELETE("/phases/:id", handler.DeletePhase)
	auth.GET("/phases/:id/budget", handler.GetPhaseBudget)
	auth.POST("/phases/:id/recompute", handler.RecomputePhase)
	return r
}

func TestPhaseHandler_CreatePhase(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockPhaseService{
			createPhaseFn: func(in services.PhaseInput) (*models.Phase, error) {
				return &models.Phase{
					Base:            models.Base{ID: testPhaseID},
					ProjectID:       in.ProjectID,
					Name:            in.Name,
					BudgetAllocated: in.BudgetAllocated,
				}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupPhaseRouter(NewPhaseHandler(svc, &mockLedgerService{}, audit))

		rec := doRequest(r, "POST", "/projects/"+testProjectID+"/phases",
			`{"name":"Foundations","budget_allocated":50000}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		phase := parseJSON(t, rec)["phase"].(map[string]interface{})
		if phase["name"] != "Foundations" || phase["budget_used"].(float64) != 0 {
			t.Errorf("unexpected phase %v", phase)
		}
		if len(audit.actions) != 1 || audit.actions[0] != "CREATE_PHASE" {
			t.Errorf("expected CREATE_PHASE audit, got %v", audit.actions)
		}
	})

	t.Run("returns 400 on missing name", func(t *testing.T) {
		r := setupPhaseRouter(NewPhaseHandler(&mockPhaseService{}, &mockLedgerService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/projects/"+testProjectID+"/phases", `{"budget_allocated":50000}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on negative allocation", func(t *testing.T) {
		r := setupPhaseRouter(NewPhaseHandler(&mockPhaseService{}, &mockLedgerService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/projects/"+testProjectID+"/phases", `{"name":"Roof","budget_allocated":-1}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestPhaseHandler_ListPhases(t *testing.T) {
	svc := &mockPhaseService{
		listPhasesFn: func(projectID string, page pagination.PageRequest) (*pagination.PageResponse[models.Phase], error) {
			if projectID != testProjectID {
				t.Errorf("unexpected project %s", projectID)
			}
			items := []models.Phase{{Name: "A"}, {Name: "B"}}
			resp := pagination.NewPageResponse(items, 1, 20, 2)
			return &resp, nil
		},
	}
	r := setupPhaseRouter(NewPhaseHandler(svc, &mockLedgerService{}, &mockAuditService{}))

	rec := doRequest(r, "GET", "/projects/"+testProjectID+"/phases", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if n := len(parseJSON(t, rec)["data"].([]interface{})); n != 2 {
		t.Errorf("expected 2 phases, got %d", n)
	}
}

func TestPhaseHandler_UpdatePhase(t *testing.T) {
	t.Run("ignores budget_used in the body", func(t *testing.T) {
		svc := &mockPhaseService{
			updatePhaseFn: func(id string, in services.PhaseUpdate) (*models.Phase, error) {
				if in.BudgetAllocated == nil || *in.BudgetAllocated != 60000 {
					t.Errorf("expected allocation 60000, got %v", in.BudgetAllocated)
				}
				return &models.Phase{Base: models.Base{ID: id}, BudgetAllocated: 60000, BudgetUsed: 12000}, nil
			},
		}
		r := setupPhaseRouter(NewPhaseHandler(svc, &mockLedgerService{}, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/phases/"+testPhaseID, `{"budget_allocated":60000,"budget_used":1}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		phase := parseJSON(t, rec)["phase"].(map[string]interface{})
		if phase["budget_used"].(float64) != 12000 {
			t.Errorf("expected budget_used 12000, got %v", phase["budget_used"])
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockPhaseService{
			updatePhaseFn: func(_ string, _ services.PhaseUpdate) (*models.Phase, error) {
				return nil, apperrors.ErrPhaseNotFound
			},
		}
		r := setupPhaseRouter(NewPhaseHandler(svc, &mockLedgerService{}, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/phases/"+testPhaseID, `{"name":"Roof"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "PHASE_NOT_FOUND")
	})
}

func TestPhaseHandler_DeletePhase(t *testing.T) {
	audit := &mockAuditService{}
	r := setupPhaseRouter(NewPhaseHandler(&mockPhaseService{}, &mockLedgerService{}, audit))

	rec := doRequest(r, "DELETE", "/phases/"+testPhaseID, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if parseJSON(t, rec)["message"] != "Phase deleted successfully" {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
	if len(audit.actions) != 1 || audit.actions[0] != "DELETE_PHASE" {
		t.Errorf("expected DELETE_PHASE audit, got %v", audit.actions)
	}
}

func TestPhaseHandler_GetPhaseBudget(t *testing.T) {
	svc := &mockPhaseService{
		getBudgetStatusFn: func(id string) (*services.PhaseBudgetStatus, error) {
			return &services.PhaseBudgetStatus{
				PhaseID:       id,
				Allocated:     10000,
				Used:          11500,
				Available:     -1500,
				OverAllocated: true,
				Warning:       "phase is over-allocated by 1,500.00",
			}, nil
		},
	}
	r := setupPhaseRouter(NewPhaseHandler(svc, &mockLedgerService{}, &mockAuditService{}))

	rec := doRequest(r, "GET", "/phases/"+testPhaseID+"/budget", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	budget := parseJSON(t, rec)["budget"].(map[string]interface{})
	if budget["over_allocated"] != true {
		t.Errorf("expected over_allocated, got %v", budget)
	}
	if budget["warning"] != "phase is over-allocated by 1,500.00" {
		t.Errorf("unexpected warning %v", budget["warning"])
	}
}

func TestPhaseHandler_RecomputePhase(t *testing.T) {
	t.Run("returns the rebuilt phase", func(t *testing.T) {
		ledger := &mockLedgerService{
			recomputeContainerFn: func(phaseID string) (*models.Phase, error) {
				return &models.Phase{Base: models.Base{ID: phaseID}, BudgetUsed: 35000}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupPhaseRouter(NewPhaseHandler(&mockPhaseService{}, ledger, audit))

		rec := doRequest(r, "POST", "/phases/"+testPhaseID+"/recompute", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		phase := parseJSON(t, rec)["phase"].(map[string]interface{})
		if phase["budget_used"].(float64) != 35000 {
			t.Errorf("expected 35000, got %v", phase["budget_used"])
		}
		if len(audit.actions) != 1 || audit.actions[0] != "RECOMPUTE_PHASE" {
			t.Errorf("expected RECOMPUTE_PHASE audit, got %v", audit.actions)
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		ledger := &mockLedgerService{
			recomputeContainerFn: func(_ string) (*models.Phase, error) {
				return nil, apperrors.ErrPhaseNotFound
			},
		}
		r := setupPhaseRouter(NewPhaseHandler(&mockPhaseService{}, ledger, &mockAuditService{}))

		rec := doRequest(r, "POST", "/phases/"+testPhaseID+"/recompute", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
