package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pharmatrack/ledger-core/internal/core/domain"
	portssvc "github.com/pharmatrack/ledger-core/internal/core/ports/services"
	"github.com/pharmatrack/ledger-core/internal/dto"
	"github.com/pharmatrack/ledger-core/internal/middleware"
)

// stockHandler handles HTTP requests for the stock movement ledger.
type stockHandler struct {
	stockService portssvc.StockSvcFacade
}

// registerStockRoutes registers routes related to stock movements.
func registerStockRoutes(rg *gin.RouterGroup, stockService portssvc.StockSvcFacade) {
	h := &stockHandler{stockService: stockService}

	stock := rg.Group("/stock")
	{
		stock.POST("/movements", h.recordMovement)
		stock.POST("/sales", h.recordSale)
		stock.POST("/transfers", h.recordDualMovement)
		stock.GET("/balance", h.getBalance)
		stock.GET("/movements", h.listMovements)
	}
}

// recordMovement godoc
// @Summary Record a stock movement
// @Description Appends a single movement to the stock ledger
// @Tags stock
// @Accept json
// @Produce json
// @Param movement body dto.RecordMovementRequest true "Movement details"
// @Success 201 {object} dto.MovementResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 409 {object} map[string]string "Insufficient stock"
// @Failure 422 {object} map[string]string "Lot unusable"
// @Security BearerAuth
// @Router /stock/movements [post]
func (h *stockHandler) recordMovement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordMovement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	movement, err := h.stockService.RecordMovement(c.Request.Context(), req, actorID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToMovementResponse(movement))
}

// recordSale godoc
// @Summary Record a retail sale
// @Description Records a SALE movement against the entity's stock
// @Tags stock
// @Accept json
// @Produce json
// @Param sale body dto.SingleSaleRequest true "Sale details"
// @Success 201 {object} dto.MovementResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 409 {object} map[string]string "Insufficient stock"
// @Failure 422 {object} map[string]string "Lot unusable"
// @Security BearerAuth
// @Router /stock/sales [post]
func (h *stockHandler) recordSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SingleSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordSale", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	movement, err := h.stockService.ProcessSingleSale(c.Request.Context(), req, actorID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToMovementResponse(movement))
}

// recordDualMovement godoc
// @Summary Record a dual stock movement
// @Description Atomically records TRANSFER_OUT from the seller and TRANSFER_IN to the buyer
// @Tags stock
// @Accept json
// @Produce json
// @Param transfer body dto.DualMovementRequest true "Transfer details"
// @Success 201 {object} map[string]dto.MovementResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 409 {object} map[string]string "Insufficient seller stock"
// @Failure 422 {object} map[string]string "Lot unusable"
// @Security BearerAuth
// @Router /stock/transfers [post]
func (h *stockHandler) recordDualMovement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DualMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for DualMovement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	out, in, err := h.stockService.ProcessDualMovement(c.Request.Context(), req, actorID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"out": dto.ToMovementResponse(out),
		"in":  dto.ToMovementResponse(in),
	})
}

// getBalance godoc
// @Summary Get a stock balance
// @Description Computes the current balance for an (entityKind, entityID, lotID) key
// @Tags stock
// @Produce json
// @Param entityKind query string true "Entity kind"
// @Param entityID query string true "Entity ID"
// @Param lotID query string true "Lot ID"
// @Success 200 {object} dto.BalanceResponse
// @Failure 400 {object} map[string]string "Missing or invalid query parameters"
// @Security BearerAuth
// @Router /stock/balance [get]
func (h *stockHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	key, ok := stockKeyFromQuery(c)
	if !ok {
		return
	}

	balance, err := h.stockService.GetBalance(c.Request.Context(), key)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{
		EntityKind: key.EntityKind,
		EntityID:   key.EntityID,
		LotID:      key.LotID,
		Balance:    balance,
	})
}

// listMovements godoc
// @Summary List stock movements
// @Description Returns the ordered movement history for an (entityKind, entityID, lotID) key
// @Tags stock
// @Produce json
// @Param entityKind query string true "Entity kind"
// @Param entityID query string true "Entity ID"
// @Param lotID query string true "Lot ID"
// @Success 200 {array} dto.MovementResponse
// @Failure 400 {object} map[string]string "Missing or invalid query parameters"
// @Security BearerAuth
// @Router /stock/movements [get]
func (h *stockHandler) listMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	key, ok := stockKeyFromQuery(c)
	if !ok {
		return
	}

	movements, err := h.stockService.GetMovementHistory(c.Request.Context(), key)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToMovementResponses(movements))
}

// stockKeyFromQuery builds the key from query params, writing the 400
// response itself when they are missing or invalid.
func stockKeyFromQuery(c *gin.Context) (domain.StockKey, bool) {
	key := domain.StockKey{
		EntityKind: domain.EntityKind(c.Query("entityKind")),
		EntityID:   c.Query("entityID"),
		LotID:      c.Query("lotID"),
	}
	if !key.EntityKind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entityKind must be one of WHOLESALE_PHARMACY, RETAIL_PHARMACY, PUBLIC_FACILITY"})
		return domain.StockKey{}, false
	}
	if key.EntityID == "" || key.LotID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entityID and lotID query parameters are required"})
		return domain.StockKey{}, false
	}
	return key, true
}
