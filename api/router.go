package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sales_backend/internal/returns"
	"sales_backend/internal/sales"
)

// InitRoutes registers all sales and returns endpoints on the given Gin
// engine. Services are injected so callers (and tests) control the storage
// and user-service wiring.
func InitRoutes(e *gin.Engine, salesService *sales.Service, returnsService *returns.Service, logger *zap.Logger) {
	salesHandler := NewSalesHandler(salesService, logger)
	returnsHandler := NewReturnsHandler(returnsService, logger)

	e.POST("/sales", salesHandler.handleCreateSale)
	e.GET("/sales", salesHandler.handleSearchSales)
	e.PATCH("/sales/:id", salesHandler.handleUpdateSaleStatus)
	e.DELETE("/sales/:id", salesHandler.handleDeleteSale)

	e.POST("/sales/:id/returns", returnsHandler.handleCreateReturn)
	e.GET("/sales/:id/returns", returnsHandler.handleListReturns)
	e.PATCH("/returns/:id", returnsHandler.handleUpdateReturnStatus)

	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
}
