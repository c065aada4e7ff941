package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"buildledger/internal/models"
	"buildledger/internal/services"
)

// PaymentHandler records, edits and deletes payments through the ledger.
// Every mutation updates the owner's stored aggregate in the same transaction.
type PaymentHandler struct {
	ledgerService     services.LedgerServicer
	commitmentService services.CommitmentServicer
	contractService   services.ContractServicer
	auditService      services.AuditServicer
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(
	ledgerService services.LedgerServicer,
	commitmentService services.CommitmentServicer,
	contractService services.ContractServicer,
	auditService services.AuditServicer,
) *PaymentHandler {
	return &PaymentHandler{
		ledgerService:     ledgerService,
		commitmentService: commitmentService,
		contractService:   contractService,
		auditService:      auditService,
	}
}

// RecordPaymentRequest represents the request payload for recording a payment.
type RecordPaymentRequest struct {
	Amount      float64    `json:"amount" binding:"required,gt=0"`
	PaymentDate *time.Time `json:"payment_date"`
	Note        string     `json:"note" binding:"max=500"`
}

// EditPaymentRequest represents the request payload for editing a payment.
// The amount is always required; omitted payment_date and note are kept.
type EditPaymentRequest struct {
	Amount           float64    `json:"amount" binding:"required,gt=0"`
	PaymentDate      *time.Time `json:"payment_date"`
	ClearPaymentDate bool       `json:"clear_payment_date"`
	Note             *string    `json:"note" binding:"omitempty,max=500"`
}

func (h *PaymentHandler) record(c *gin.Context, owner services.PaymentOwner) {
	profileID, err := getProfileID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	payment, err := h.ledgerService.RecordPayment(c.Request.Context(), owner, req.Amount, req.PaymentDate, req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(profileID, "RECORD_PAYMENT", "payment", payment.ID, c.ClientIP(),
		map[string]interface{}{"owner_type": owner.Type, "owner_id": owner.ID, "amount": req.Amount})

	c.JSON(http.StatusCreated, gin.H{"payment": payment})
}

// RecordCommitmentPayment handles a disbursement against a commitment.
// @Summary     Record a commitment payment
// @Description Record a payment and add it to the commitment's amount_paid
// @Tags        payments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Commitment ID"
// @Param       request body RecordPaymentRequest true "Payment details"
// @Success     201 {object} models.Payment "Payment recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Commitment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /commitments/{id}/payments [post]
func (h *PaymentHandler) RecordCommitmentPayment(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	h.record(c, services.CommitmentOwner(id))
}

// RecordContractPayment handles a wire paid to a subcontractor.
// @Summary     Record a contract wire
// @Description Record a wire and add it to the contract's budget_realized
// @Tags        payments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Contract ID"
// @Param       request body RecordPaymentRequest true "Wire details"
// @Success     201 {object} models.Payment "Wire recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Contract not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /contracts/{id}/payments [post]
func (h *PaymentHandler) RecordContractPayment(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	h.record(c, services.ContractOwner(id))
}

// ListCommitmentPayments handles listing a commitment's payments.
// @Summary     List commitment payments
// @Tags        payments
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Commitment ID"
// @Success     200 {array}  models.Payment "Payments"
// @Failure     400 {object} ErrorResponse "Invalid commitment ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Commitment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /commitments/{id}/payments [get]
func (h *PaymentHandler) ListCommitmentPayments(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	payments, err := h.commitmentService.ListCommitmentPayments(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// ListContractPayments handles listing the wires of a contract.
// @Summary     List contract wires
// @Tags        payments
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Contract ID"
// @Success     200 {array}  models.Payment "Wires"
// @Failure     400 {object} ErrorResponse "Invalid contract ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Contract not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /contracts/{id}/payments [get]
func (h *PaymentHandler) ListContractPayments(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	payments, err := h.contractService.ListContractPayments(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// EditPayment handles changing a payment's amount, date or note.
// @Summary     Edit payment
// @Description Replace a payment's amount, and its date or note when given. The owner's aggregate moves by the difference.
// @Tags        payments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Payment ID"
// @Param       request body EditPaymentRequest true "New values"
// @Success     200 {object} models.Payment "Updated payment"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Payment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /payments/{id} [put]
func (h *PaymentHandler) EditPayment(c *gin.Context) {
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

	var req EditPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	payment, err := h.ledgerService.EditPayment(c.Request.Context(), id, services.PaymentEdit{
		Amount:           req.Amount,
		PaymentDate:      req.PaymentDate,
		ClearPaymentDate: req.ClearPaymentDate,
		Note:             req.Note,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(profileID, "EDIT_PAYMENT", "payment", id, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount})

	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

// DeletePayment handles removing a payment.
// @Summary     Delete payment
// @Description Delete a payment and subtract it from the owner's aggregate, never below zero
// @Tags        payments
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Payment ID"
// @Success     200 {object} MessageResponse "Payment deleted"
// @Failure     400 {object} ErrorResponse "Invalid payment ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Payment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /payments/{id} [delete]
func (h *PaymentHandler) DeletePayment(c *gin.Context) {
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

	if err := h.ledgerService.DeletePayment(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(profileID, "DELETE_PAYMENT", "payment", id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Payment deleted successfully"})
}

// CheckLedger compares an owner's stored aggregate with its payments.
// @Summary     Verify a stored aggregate
// @Description Read-only comparison of amount_paid or budget_realized with the sum of payments
// @Tags        payments
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Commitment or contract ID"
// @Success     200 {object} services.AggregateCheck "Check result"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Owner not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /commitments/{id}/ledger-check [get]
// @Router      /contracts/{id}/ledger-check [get]
func (h *PaymentHandler) CheckLedger(ownerType models.PaymentOwnerType) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parsePathID(c, "id")
		if err != nil {
			respondWithError(c, err)
			return
		}

		check, err := h.ledgerService.VerifyAggregate(c.Request.Context(), services.PaymentOwner{Type: ownerType, ID: id})
		if err != nil {
			respondWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"ledger_check": check})
	}
}
