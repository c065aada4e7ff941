package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"buildledger/internal/amortization"
	apperrors "buildledger/internal/errors"
	"buildledger/internal/models"
	"buildledger/internal/pagination"
	"buildledger/internal/repository"
	"buildledger/internal/services"
)

// CommitmentHandler handles bank credits and investor investments.
type CommitmentHandler struct {
	commitmentService services.CommitmentServicer
	auditService      services.AuditServicer
}

// NewCommitmentHandler creates a new CommitmentHandler.
func NewCommitmentHandler(commitmentService services.CommitmentServicer, auditService services.AuditServicer) *CommitmentHandler {
	return &CommitmentHandler{commitmentService: commitmentService, auditService: auditService}
}

// CreateCommitmentRequest represents the request payload for creating a commitment.
type CreateCommitmentRequest struct {
	Kind              models.CommitmentKind `json:"kind" binding:"required,commitment_kind"`
	Counterparty      string                `json:"counterparty" binding:"required,min=1,max=200"`
	Principal         float64               `json:"principal" binding:"required,gt=0"`
	AnnualRatePercent float64               `json:"annual_rate_percent" binding:"gte=0"`
	StartDate         time.Time             `json:"start_date" binding:"required"`
	MaturityDate      *time.Time            `json:"maturity_date"`
	GracePeriod       int                   `json:"grace_period" binding:"gte=0"`
	GraceUnit         models.GraceUnit      `json:"grace_unit" binding:"omitempty,grace_unit"`
	Cadence           amortization.Cadence  `json:"cadence" binding:"omitempty,cadence"`
	Seniority         models.Seniority      `json:"seniority" binding:"omitempty,seniority"`
	StakePercent      float64               `json:"stake_percent" binding:"gte=0,lte=100"`
	InsuranceAddOn    float64               `json:"insurance_add_on" binding:"gte=0"`
	Notes             string                `json:"notes" binding:"max=1000"`
}

// UpdateCommitmentRequest represents the request payload for updating a commitment.
// amount_paid cannot be set here; it follows the recorded payments.
type UpdateCommitmentRequest struct {
	Counterparty       *string               `json:"counterparty" binding:"omitempty,min=1,max=200"`
	Principal          *float64              `json:"principal" binding:"omitempty,gt=0"`
	AnnualRatePercent  *float64              `json:"annual_rate_percent" binding:"omitempty,gte=0"`
	StartDate          *time.Time            `json:"start_date"`
	MaturityDate       *time.Time            `json:"maturity_date"`
	ClearMaturityDate  bool                  `json:"clear_maturity_date"`
	GracePeriod        *int                  `json:"grace_period" binding:"omitempty,gte=0"`
	GraceUnit          *models.GraceUnit     `json:"grace_unit" binding:"omitempty,grace_unit"`
	Cadence            *amortization.Cadence `json:"cadence" binding:"omitempty,cadence"`
	Seniority          *models.Seniority     `json:"seniority" binding:"omitempty,seniority"`
	StakePercent       *float64              `json:"stake_percent" binding:"omitempty,gte=0,lte=100"`
	InsuranceAddOn     *float64              `json:"insurance_add_on" binding:"omitempty,gte=0"`
	Notes              *string               `json:"notes" binding:"omitempty,max=1000"`
	RecalculatePayment bool                  `json:"recalculate_payment"`
}

// CreateCommitment handles the creation of a commitment within a project.
// @Summary     Create a commitment
// @Description Register a bank credit or investor investment. The periodic payment is computed from the terms and stored.
// @Tags        commitments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       projectId path string                  true "Project ID"
// @Param       request   body CreateCommitmentRequest true "Commitment details"
// @Success     201 {object} models.Commitment "Commitment created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Terms cannot be amortized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{projectId}/commitments [post]
func (h *CommitmentHandler) CreateCommitment(c *gin.Context) {
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

	var req CreateCommitmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	commitment, err := h.commitmentService.CreateCommitment(c.Request.Context(), services.CommitmentInput{
		ProjectID:         projectID,
		Kind:              req.Kind,
		Counterparty:      req.Counterparty,
		Principal:         req.Principal,
		AnnualRatePercent: req.AnnualRatePercent,
		StartDate:         req.StartDate,
		MaturityDate:      req.MaturityDate,
		GracePeriod:       req.GracePeriod,
		GraceUnit:         req.GraceUnit,
		Cadence:           req.Cadence,
		Seniority:         req.Seniority,
		StakePercent:      req.StakePercent,
		InsuranceAddOn:    req.InsuranceAddOn,
		Notes:             req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(profileID, "CREATE_COMMITMENT", "commitment", commitment.ID, c.ClientIP(),
		map[string]interface{}{"kind": req.Kind, "counterparty": req.Counterparty, "principal": req.Principal})

	c.JSON(http.StatusCreated, gin.H{"commitment": commitment})
}

// ListCommitments handles listing a project's commitments.
// @Summary     List commitments
// @Description Get a paginated list of a project's commitments, oldest start date first
// @Tags        commitments
// @Produce     json
// @Security    BearerAuth
// @Param       projectId path  string true  "Project ID"
// @Param       kind      query string false "Filter by kind (credit/investment)"
// @Param       seniority query string false "Filter by seniority (senior/junior)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Commitment] "Paginated commitments"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{projectId}/commitments [get]
func (h *CommitmentHandler) ListCommitments(c *gin.Context) {
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

	var filter repository.CommitmentFilter
	if v := c.Query("kind"); v != "" {
		kind := models.CommitmentKind(v)
		if kind != models.CommitmentKindCredit && kind != models.CommitmentKindInvestment {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "kind must be 'credit' or 'investment'"))
			return
		}
		filter.Kind = &kind
	}
	if v := c.Query("seniority"); v != "" {
		seniority := models.Seniority(v)
		if seniority != models.SenioritySenior && seniority != models.SeniorityJunior {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "seniority must be 'senior' or 'junior'"))
			return
		}
		filter.Seniority = &seniority
	}

	result, err := h.commitmentService.ListCommitments(c.Request.Context(), projectID, filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetFinanceSummary handles the project-level financing totals.
// @Summary     Project finance summary
// @Description Totals of principal, paid, remaining and monthly obligations by kind and seniority
// @Tags        commitments
// @Produce     json
// @Security    BearerAuth
// @Param       projectId path string true "Project ID"
// @Success     200 {object} services.ProjectFinanceSummary "Finance summary"
// @Failure     400 {object} ErrorResponse "Invalid project ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{projectId}/finance-summary [get]
func (h *CommitmentHandler) GetFinanceSummary(c *gin.Context) {
	projectID, err := parsePathID(c, "projectId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.commitmentService.GetProjectFinanceSummary(c.Request.Context(), projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"finance_summary": summary})
}

// GetCommitment handles retrieving a specific commitment.
// @Summary     Get commitment by ID
// @Tags        commitments
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Commitment ID"
// @Success     200 {object} models.Commitment "Commitment details"
// @Failure     400 {object} ErrorResponse "Invalid commitment ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Commitment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /commitments/{id} [get]
func (h *CommitmentHandler) GetCommitment(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	commitment, err := h.commitmentService.GetCommitment(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"commitment": commitment})
}

// UpdateCommitment handles editing a commitment's terms.
// @Summary     Update commitment
// @Description Edit terms and metadata. The stored periodic payment changes only with recalculate_payment.
// @Tags        commitments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                  true "Commitment ID"
// @Param       request body UpdateCommitmentRequest true "Fields to change"
// @Success     200 {object} models.Commitment "Updated commitment"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Commitment not found"
// @Failure     422 {object} ErrorResponse "Terms cannot be amortized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /commitments/{id} [put]
func (h *CommitmentHandler) UpdateCommitment(c *gin.Context) {
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

	var req UpdateCommitmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	commitment, err := h.commitmentService.UpdateCommitment(c.Request.Context(), id, services.CommitmentUpdate{
		Counterparty:       req.Counterparty,
		Principal:          req.Principal,
		AnnualRatePercent:  req.AnnualRatePercent,
		StartDate:          req.StartDate,
		MaturityDate:       req.MaturityDate,
		ClearMaturityDate:  req.ClearMaturityDate,
		GracePeriod:        req.GracePeriod,
		GraceUnit:          req.GraceUnit,
		Cadence:            req.Cadence,
		Seniority:          req.Seniority,
		StakePercent:       req.StakePercent,
		InsuranceAddOn:     req.InsuranceAddOn,
		Notes:              req.Notes,
		RecalculatePayment: req.RecalculatePayment,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(profileID, "UPDATE_COMMITMENT", "commitment", id, c.ClientIP(),
		map[string]interface{}{"recalculate_payment": req.RecalculatePayment})

	c.JSON(http.StatusOK, gin.H{"commitment": commitment})
}

// DeleteCommitment handles deleting a commitment with its payments.
// @Summary     Delete commitment
// @Description Delete a commitment and every payment recorded against it
// @Tags        commitments
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Commitment ID"
// @Success     200 {object} MessageResponse "Commitment deleted"
// @Failure     400 {object} ErrorResponse "Invalid commitment ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Commitment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /commitments/{id} [delete]
func (h *CommitmentHandler) DeleteCommitment(c *gin.Context) {
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

	if err := h.commitmentService.DeleteCommitment(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(profileID, "DELETE_COMMITMENT", "commitment", id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Commitment deleted successfully"})
}

// GetCommitmentSummary handles the financial position of a commitment.
// @Summary     Commitment summary
// @Description Paid, remaining, utilization and a fresh quote for the current terms
// @Tags        commitments
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Commitment ID"
// @Success     200 {object} services.CommitmentSummary "Summary"
// @Failure     400 {object} ErrorResponse "Invalid commitment ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Commitment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /commitments/{id}/summary [get]
func (h *CommitmentHandler) GetCommitmentSummary(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.commitmentService.GetCommitmentSummary(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
