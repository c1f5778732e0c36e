package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sales_backend/internal/returns"
	"sales_backend/internal/sales"
)

// salesHandler holds the sales service and implements HTTP handlers for sales operations.
type salesHandler struct {
	salesService *sales.Service
	logger       *zap.Logger
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(salesService *sales.Service, logger *zap.Logger) *salesHandler {
	return &salesHandler{
		salesService: salesService,
		logger:       logger,
	}
}

// handleCreateSale handles the POST /sales endpoint.
func (h *salesHandler) handleCreateSale(ctx *gin.Context) {
	var req struct {
		UserID string  `json:"user_id"`
		Amount float64 `json:"amount"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	sale, err := h.salesService.CreateSale(req.UserID, req.Amount)
	if err != nil {
		h.logger.Error("failed to create sale", zap.Error(err), zap.String("user_id", req.UserID))
		switch {
		case errors.Is(err, sales.ErrInvalidAmount), errors.Is(err, sales.ErrUserNotFound):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create sale"})
		}
		return
	}

	ctx.JSON(http.StatusCreated, sale)
}

// handleSearchSales handles the GET /sales endpoint.
func (h *salesHandler) handleSearchSales(ctx *gin.Context) {
	userID := ctx.Query("user_id")
	status := ctx.Query("status")

	salesResults, metadata, err := h.salesService.SearchSale(userID, status)
	if err != nil {
		h.logger.Error("error searching sales",
			zap.String("user_filter", userID),
			zap.String("status_filter", status),
			zap.Error(err),
		)
		if errors.Is(err, sales.ErrInvalidStatus) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search sales"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"results": salesResults, "metadata": metadata})
}

// handleUpdateSaleStatus handles the PATCH /sales/:id endpoint.
func (h *salesHandler) handleUpdateSaleStatus(ctx *gin.Context) {
	saleID := ctx.Param("id")
	var req struct {
		Status string `json:"status"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updated, err := h.salesService.UpdateSaleStatus(saleID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, sales.ErrInvalidStatus):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid status value"})
		case errors.Is(err, sales.ErrInvalidTransition):
			ctx.JSON(http.StatusConflict, gin.H{"error": "invalid status transition"})
		default:
			writeDomainError(ctx, err)
		}
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// handleDeleteSale handles the DELETE /sales/:id endpoint. A deleted sale is
// marked cancelled; completed sales and sales with open returns are refused.
func (h *salesHandler) handleDeleteSale(ctx *gin.Context) {
	saleID := ctx.Param("id")

	if err := h.salesService.DeleteSale(saleID); err != nil {
		h.logger.Warn("failed to delete sale", zap.String("sale_id", saleID), zap.Error(err))
		writeDomainError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// returnsHandler holds the returns service and implements HTTP handlers for return operations.
type returnsHandler struct {
	returnsService *returns.Service
	logger         *zap.Logger
}

// NewReturnsHandler creates a new returns handler.
func NewReturnsHandler(returnsService *returns.Service, logger *zap.Logger) *returnsHandler {
	return &returnsHandler{
		returnsService: returnsService,
		logger:         logger,
	}
}

// handleCreateReturn handles the POST /sales/:id/returns endpoint.
func (h *returnsHandler) handleCreateReturn(ctx *gin.Context) {
	saleID := ctx.Param("id")
	var req struct {
		Reason string `json:"reason"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	ret, err := h.returnsService.CreateReturn(saleID, req.Reason)
	if err != nil {
		h.logger.Warn("failed to create return", zap.String("sale_id", saleID), zap.Error(err))
		writeDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, ret)
}

// handleListReturns handles the GET /sales/:id/returns endpoint.
func (h *returnsHandler) handleListReturns(ctx *gin.Context) {
	saleID := ctx.Param("id")

	rets, err := h.returnsService.ListBySale(saleID)
	if err != nil {
		h.logger.Error("failed to list returns", zap.String("sale_id", saleID), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list returns"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"results": rets})
}

// handleUpdateReturnStatus handles the PATCH /returns/:id endpoint.
func (h *returnsHandler) handleUpdateReturnStatus(ctx *gin.Context) {
	returnID := ctx.Param("id")
	var req struct {
		Status string `json:"status"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var (
		ret *returns.Return
		err error
	)
	switch req.Status {
	case returns.StatusProcessed:
		ret, err = h.returnsService.ProcessReturn(returnID)
	case returns.StatusCancelled:
		ret, err = h.returnsService.CancelReturn(returnID)
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid status value"})
		return
	}

	if err != nil {
		if errors.Is(err, returns.ErrInvalidTransition) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "invalid status transition"})
			return
		}
		writeDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, ret)
}

// writeDomainError translates the typed domain errors into HTTP responses.
// DataIntegrityError keeps its structure so clients can render the failure
// without re-deriving any text.
func writeDomainError(ctx *gin.Context, err error) {
	var (
		notFound      *sales.NotFoundError
		businessRule  *sales.BusinessRuleError
		dataIntegrity *sales.DataIntegrityError
	)

	switch {
	case errors.As(err, &notFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &businessRule):
		ctx.JSON(http.StatusConflict, gin.H{"error": businessRule.Message})
	case errors.As(err, &dataIntegrity):
		ctx.JSON(http.StatusConflict, gin.H{
			"error":              dataIntegrity.Message,
			"code":               dataIntegrity.Code,
			"suggestion":         dataIntegrity.Suggestion,
			"resource":           dataIntegrity.Resource,
			"resource_id":        dataIntegrity.ResourceID,
			"dependent_resource": dataIntegrity.DependentResource,
		})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
