package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"buildledger/internal/pagination"
	"buildledger/internal/services"
)

// PhaseHandler handles budget phases of a project.
type PhaseHandler struct {
	phaseService  services.PhaseServicer
	ledgerService services.LedgerServicer
	auditService  services.AuditServicer
}

// NewPhaseHandler creates a new PhaseHandler.
func NewPhaseHandler(phaseService services.PhaseServicer, ledgerService services.LedgerServicer, auditService services.AuditServicer) *PhaseHandler {
	return &PhaseHandler{phaseService: phaseService, ledgerService: ledgerService, auditService: auditService}
}

// CreatePhaseRequest represents the request payload for creating a phase.
type CreatePhaseRequest struct {
	Name            string     `json:"name" binding:"required,min=1,max=200"`
	BudgetAllocated float64    `json:"budget_allocated" binding:"gte=0"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
}

// UpdatePhaseRequest represents the request payload for updating a phase.
// budget_used is derived from contracts and cannot be set.
type UpdatePhaseRequest struct {
	Name            *string    `json:"name" binding:"omitempty,min=1,max=200"`
	BudgetAllocated *float64   `json:"budget_allocated" binding:"omitempty,gte=0"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
}

// CreatePhase handles the creation of a phase.
// @Summary     Create a phase
// @Tags        phases
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       projectId path string             true "Project ID"
// @Param       request   body CreatePhaseRequest true "Phase details"
// @Success     201 {object} models.Phase "Phase created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{projectId}/phases [post]
func (h *PhaseHandler) CreatePhase(c *gin.Context) {
	profileID, err := getProfileID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	projectID, err := parsePathID(c, "projectId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreatePhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	phase, err := h.phaseService.CreatePhase(c.Request.Context(), services.PhaseInput{
		ProjectID:       projectID,
		Name:            req.Name,
		BudgetAllocated: req.BudgetAllocated,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(profileID, "CREATE_PHASE", "phase", phase.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "budget_allocated": req.BudgetAllocated})

	c.JSON(http.StatusCreated, gin.H{"phase": phase})
}

// ListPhases handles listing a project's phases.
// @Summary     List phases
// @Tags        phases
// @Produce     json
// @Security    BearerAuth
// @Param       projectId path  string true  "Project ID"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Phase] "Paginated phases"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{projectId}/phases [get]
func (h *PhaseHandler) ListPhases(c *gin.Context) {
	projectID, err := parsePathID(c, "projectId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.phaseService.ListPhases(c.Request.Context(), projectID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPhase handles retrieving a specific phase.
// @Summary     Get phase by ID
// @Tags        phases
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Phase ID"
// @Success     200 {object} models.Phase "Phase details"
// @Failure     400 {object} ErrorResponse "Invalid phase ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Phase not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /phases/{id} [get]
func (h *PhaseHandler) GetPhase(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	phase, err := h.phaseService.GetPhase(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"phase": phase})
}

// UpdatePhase handles editing a phase.
// @Summary     Update phase
// @Tags        phases
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Phase ID"
// @Param       request body UpdatePhaseRequest true "Fields to change"
// @Success     200 {object} models.Phase "Updated phase"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Phase not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /phases/{id} [put]
func (h *PhaseHandler) UpdatePhase(c *gin.Context) {
	profileID, err := getProfileID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	phase, err := h.phaseService.UpdatePhase(c.Request.Context(), id, services.PhaseUpdate{
		Name:            req.Name,
		BudgetAllocated: req.BudgetAllocated,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(profileID, "UPDATE_PHASE", "phase", id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"phase": phase})
}

// DeletePhase handles deleting a phase.
// @Summary     Delete phase
// @Description Delete a phase. Its contracts stay in the project, unassigned.
// @Tags        phases
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Phase ID"
// @Success     200 {object} MessageResponse "Phase deleted"
// @Failure     400 {object} ErrorResponse "Invalid phase ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Phase not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /phases/{id} [delete]
func (h *PhaseHandler) DeletePhase(c *gin.Context) {
	profileID, err := getProfileID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.phaseService.DeletePhase(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(profileID, "DELETE_PHASE", "phase", id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Phase deleted successfully"})
}

// GetPhaseBudget handles the allocation status of a phase.
// @Summary     Phase budget status
// @Description Allocated, used, available and an over-allocation warning
// @Tags        phases
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Phase ID"
// @Success     200 {object} services.PhaseBudgetStatus "Budget status"
// @Failure     400 {object} ErrorResponse "Invalid phase ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Phase not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /phases/{id}/budget [get]
func (h *PhaseHandler) GetPhaseBudget(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	status, err := h.phaseService.GetPhaseBudgetStatus(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": status})
}

// RecomputePhase handles rebuilding a phase's budget_used from its contracts.
// @Summary     Recompute phase
// @Description Rebuild budget_used as the sum of the costs of the phase's contracts
// @Tags        phases
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Phase ID"
// @Success     200 {object} models.Phase "Recomputed phase"
// @Failure     400 {object} ErrorResponse "Invalid phase ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Phase not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /phases/{id}/recompute [post]
func (h *PhaseHandler) RecomputePhase(c *gin.Context) {
	profileID, err := getProfileID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	phase, err := h.ledgerService.RecomputeContainer(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(profileID, "RECOMPUTE_PHASE", "phase", id, c.ClientIP(),
		map[string]interface{}{"budget_used": phase.BudgetUsed})

	c.JSON(http.StatusOK, gin.H{"phase": phase})
}
