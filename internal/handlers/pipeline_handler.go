package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"buildledger/internal/logger"
	"buildledger/internal/services"
)

// PipelineHandler serves maintenance jobs triggered by schedulers.
type PipelineHandler struct {
	ledgerService services.LedgerServicer
}

// NewPipelineHandler creates a new PipelineHandler.
func NewPipelineHandler(ledgerService services.LedgerServicer) *PipelineHandler {
	return &PipelineHandler{ledgerService: ledgerService}
}

// RecomputeResponse reports a full recompute run.
type RecomputeResponse struct {
	Recomputed int    `json:"recomputed"`
	Error      string `json:"error,omitempty"`
}

// RecomputeAll handles rebuilding budget_used for every phase.
// @Summary     Recompute all phases
// @Description Rebuild budget_used of every phase from its contracts. Phases that fail are skipped and reported.
// @Tags        pipeline
// @Produce     json
// @Param       X-API-Key header string true "Pipeline API key"
// @Success     200 {object} RecomputeResponse "All phases recomputed"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     500 {object} RecomputeResponse "Some phases failed"
// @Router      /pipeline/ledger/recompute [post]
func (h *PipelineHandler) RecomputeAll(c *gin.Context) {
	n, err := h.ledgerService.RecomputeAllContainers(c.Request.Context())
	if err != nil {
		logger.Get().Errorw("pipeline recompute incomplete", "recomputed", n, "error", err)
		c.JSON(http.StatusInternalServerError, RecomputeResponse{Recomputed: n, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, RecomputeResponse{Recomputed: n})
}
