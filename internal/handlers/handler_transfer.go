package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/pharmatrack/ledger-core/internal/core/ports/services"
	"github.com/pharmatrack/ledger-core/internal/dto"
	"github.com/pharmatrack/ledger-core/internal/middleware"
)

// transferHandler handles HTTP requests for cross-ledger transfers.
type transferHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// registerTransferRoutes registers the coordinated transfer route.
func registerTransferRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := &transferHandler{ledgerService: ledgerService}
	rg.POST("/transfers", h.executeTransfer)
}

// executeTransfer godoc
// @Summary Execute a wholesale transfer
// @Description Atomically records the dual stock movement and posts the balancing journal entry
// @Tags transfers
// @Accept json
// @Produce json
// @Param transfer body dto.ExecuteTransferRequest true "Transfer details"
// @Success 201 {object} dto.TransferResult
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Entity has no chart accounts"
// @Failure 409 {object} map[string]string "Insufficient seller stock or concurrency conflict"
// @Failure 422 {object} map[string]string "Lot unusable"
// @Security BearerAuth
// @Router /transfers [post]
func (h *transferHandler) executeTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ExecuteTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ExecuteTransfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	if !req.UnitValue.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unitValue must be positive"})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.ledgerService.ExecuteTransfer(c.Request.Context(), req, actorID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}
