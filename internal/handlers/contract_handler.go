package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "buildledger/internal/errors"
	"buildledger/internal/pagination"
	"buildledger/internal/repository"
	"buildledger/internal/services"
	"buildledger/internal/uuid"
)

// ContractHandler handles subcontractor contracts (cost assignments).
type ContractHandler struct {
	contractService services.ContractServicer
	auditService    services.AuditServicer
}

// NewContractHandler creates a new ContractHandler.
func NewContractHandler(contractService services.ContractServicer, auditService services.AuditServicer) *ContractHandler {
	return &ContractHandler{contractService: contractService, auditService: auditService}
}

// CreateContractRequest represents the request payload for creating a contract.
type CreateContractRequest struct {
	PhaseID       *string `json:"phase_id" binding:"omitempty,uuid_id"`
	Subcontractor string  `json:"subcontractor" binding:"required,min=1,max=200"`
	Description   string  `json:"description" binding:"max=1000"`
	Cost          float64 `json:"cost" binding:"gte=0"`
}

// UpdateContractRequest represents the request payload for updating a contract.
type UpdateContractRequest struct {
	Subcontractor *string  `json:"subcontractor" binding:"omitempty,min=1,max=200"`
	Description   *string  `json:"description" binding:"omitempty,max=1000"`
	Cost          *float64 `json:"cost" binding:"omitempty,gte=0"`
}

// ReassignContractRequest moves a contract. A null phase_id unassigns it.
type ReassignContractRequest struct {
	PhaseID *string `json:"phase_id" binding:"omitempty,uuid_id"`
}

// CreateContract handles the creation of a contract.
// @Summary     Create a contract
// @Description Assign a subcontractor cost to the project, optionally within a phase. The phase's budget_used is rebuilt.
// @Tags        contracts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       projectId path string                true "Project ID"
// @Param       request   body CreateContractRequest true "Contract details"
// @Success     201 {object} models.SubcontractorContract "Contract created"
// @Failure     400 {object} ErrorResponse "Invalid input or phase from another project"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Phase not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{projectId}/contracts [post]
func (h *ContractHandler) CreateContract(c *gin.Context) {
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

	var req CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	contract, err := h.contractService.CreateContract(c.Request.Context(), services.ContractInput{
		ProjectID:     projectID,
		PhaseID:       req.PhaseID,
		Subcontractor: req.Subcontractor,
		Description:   req.Description,
		Cost:          req.Cost,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(profileID, "CREATE_CONTRACT", "contract", contract.ID, c.ClientIP(),
		map[string]interface{}{"subcontractor": req.Subcontractor, "cost": req.Cost, "phase_id": req.PhaseID})

	c.JSON(http.StatusCreated, gin.H{"contract": contract})
}

// ListContracts handles listing a project's contracts.
// @Summary     List contracts
// @Tags        contracts
// @Produce     json
// @Security    BearerAuth
// @Param       projectId  path  string true  "Project ID"
// @Param       phase_id   query string false "Only contracts of this phase"
// @Param       unassigned query bool   false "Only contracts without a phase"
// @Param       page       query int    false "Page number (default 1)"
// @Param       page_size  query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.SubcontractorContract] "Paginated contracts"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{projectId}/contracts [get]
func (h *ContractHandler) ListContracts(c *gin.Context) {
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

	var filter repository.ContractFilter
	if v := c.Query("phase_id"); v != "" {
		phaseID, err := uuid.Parse(v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid phase_id"))
			return
		}
		filter.PhaseID = &phaseID
	}
	switch c.Query("unassigned") {
	case "", "false":
	case "true":
		filter.Unassigned = true
	default:
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "unassigned must be 'true' or 'false'"))
		return
	}

	result, err := h.contractService.ListContracts(c.Request.Context(), projectID, filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetContract handles retrieving a specific contract.
// @Summary     Get contract by ID
// @Tags        contracts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Contract ID"
// @Success     200 {object} models.SubcontractorContract "Contract details"
// @Failure     400 {object} ErrorResponse "Invalid contract ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Contract not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /contracts/{id} [get]
func (h *ContractHandler) GetContract(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	contract, err := h.contractService.GetContract(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contract": contract})
}

// UpdateContract handles editing a contract.
// @Summary     Update contract
// @Description Change subcontractor, description or cost. A cost change rebuilds the phase's budget_used.
// @Tags        contracts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Contract ID"
// @Param       request body UpdateContractRequest true "Fields to change"
// @Success     200 {object} models.SubcontractorContract "Updated contract"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Contract not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /contracts/{id} [put]
func (h *ContractHandler) UpdateContract(c *gin.Context) {
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

	var req UpdateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	contract, err := h.contractService.UpdateContract(c.Request.Context(), id, services.ContractUpdate{
		Subcontractor: req.Subcontractor,
		Description:   req.Description,
		Cost:          req.Cost,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(profileID, "UPDATE_CONTRACT", "contract", id, c.ClientIP(),
		map[string]interface{}{"cost": req.Cost})

	c.JSON(http.StatusOK, gin.H{"contract": contract})
}

// ReassignContract handles moving a contract to another phase.
// @Summary     Reassign contract
// @Description Move a contract to a phase of the same project, or unassign it. Both phases are rebuilt.
// @Tags        contracts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                  true "Contract ID"
// @Param       request body ReassignContractRequest true "Destination phase"
// @Success     200 {object} models.SubcontractorContract "Reassigned contract"
// @Failure     400 {object} ErrorResponse "Invalid input or phase from another project"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Contract or phase not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /contracts/{id}/phase [put]
func (h *ContractHandler) ReassignContract(c *gin.Context) {
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

	var req ReassignContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	contract, err := h.contractService.ReassignContract(c.Request.Context(), id, req.PhaseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(profileID, "REASSIGN_CONTRACT", "contract", id, c.ClientIP(),
		map[string]interface{}{"phase_id": req.PhaseID})

	c.JSON(http.StatusOK, gin.H{"contract": contract})
}

// DeleteContract handles deleting a contract.
// @Summary     Delete contract
// @Description Delete a contract with its wires and rebuild its phase
// @Tags        contracts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Contract ID"
// @Success     200 {object} MessageResponse "Contract deleted"
// @Failure     400 {object} ErrorResponse "Invalid contract ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Contract not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /contracts/{id} [delete]
func (h *ContractHandler) DeleteContract(c *gin.Context) {
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

	if err := h.contractService.DeleteContract(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(profileID, "DELETE_CONTRACT", "contract", id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Contract deleted successfully"})
}
