package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"buildledger/internal/amortization"
	apperrors "buildledger/internal/errors"
	"buildledger/internal/models"
)

// CalculatorHandler serves live payment quotes while terms are being typed.
// It has no state and never touches the ledger.
type CalculatorHandler struct{}

// NewCalculatorHandler creates a new CalculatorHandler.
func NewCalculatorHandler() *CalculatorHandler {
	return &CalculatorHandler{}
}

// TermsRequest carries partially entered commitment terms. Every field is
// optional so that incomplete forms still get an answer.
type TermsRequest struct {
	Kind              models.CommitmentKind `json:"kind" binding:"omitempty,commitment_kind"`
	Principal         float64               `json:"principal"`
	AnnualRatePercent float64               `json:"annual_rate_percent"`
	StartDate         time.Time             `json:"start_date"`
	MaturityDate      *time.Time            `json:"maturity_date"`
	GracePeriod       int                   `json:"grace_period"`
	GraceUnit         models.GraceUnit      `json:"grace_unit" binding:"omitempty,grace_unit"`
	Cadence           amortization.Cadence  `json:"cadence" binding:"omitempty,cadence"`
}

// terms converts the request the same way a stored commitment is converted,
// so grace months are counted on the calendar from the start date.
func (r *TermsRequest) terms() amortization.Terms {
	unit := r.GraceUnit
	if unit == "" {
		unit = models.GraceUnitDays
		if r.Kind == models.CommitmentKindCredit {
			unit = models.GraceUnitMonths
		}
	}
	c := models.Commitment{
		Principal:         r.Principal,
		AnnualRatePercent: r.AnnualRatePercent,
		StartDate:         r.StartDate,
		MaturityDate:      r.MaturityDate,
		GracePeriod:       r.GracePeriod,
		GraceUnit:         unit,
		Cadence:           r.Cadence,
	}
	return c.Terms()
}

// Quote computes the periodic payment and money multiple for the given terms.
// @Summary     Quote a payment
// @Description Compute the periodic payment and money multiple. Invalid or incomplete terms return an undetermined quote with a reason rather than an error.
// @Tags        calculator
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body TermsRequest true "Commitment terms"
// @Success     200 {object} amortization.Quote "Quote"
// @Failure     400 {object} ErrorResponse "Malformed request"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /calculator/quote [post]
func (h *CalculatorHandler) Quote(c *gin.Context) {
	var req TermsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"quote": amortization.NewQuote(req.terms())})
}

// Schedule returns the period-by-period repayment schedule.
// @Summary     Repayment schedule
// @Description Split each payment into interest and principal over the repayment span
// @Tags        calculator
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body TermsRequest true "Commitment terms"
// @Success     200 {array}  amortization.ScheduleEntry "Schedule"
// @Failure     400 {object} ErrorResponse "Malformed request"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Terms cannot be amortized"
// @Router      /calculator/schedule [post]
func (h *CalculatorHandler) Schedule(c *gin.Context) {
	var req TermsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	entries, err := amortization.Schedule(req.terms())
	if err != nil {
		var ite *amortization.InvalidTermsError
		if errors.As(err, &ite) {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidTerms, ite.Reason))
			return
		}
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"schedule": entries, "periods": len(entries)})
}
