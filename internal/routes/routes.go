package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	handler "github.com/nntexpressinc/blackhawks-backend/internal/handlers"
	"github.com/nntexpressinc/blackhawks-backend/internal/repository"
	service "github.com/nntexpressinc/blackhawks-backend/internal/services/settlement"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, log *logrus.Logger) {
	batchRepo := repository.NewPaymentBatchRepository(db)
	recordRepo := repository.NewSettlementRecordRepository(db)
	loadRepo := repository.NewLoadRepository(db)
	auditRepo := repository.NewMatchAuditLogRepository(db)

	settlementService := service.NewService(batchRepo, recordRepo, loadRepo, auditRepo, log)
	settlementHandler := handler.NewSettlementHandler(settlementService, log)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Settlement batch routes
	settlements := api.Group("/settlements")
	settlements.POST("/upload", settlementHandler.Upload)
	settlements.GET("", settlementHandler.ListBatches)
	settlements.GET("/:batchId", settlementHandler.GetBatch)
	settlements.GET("/:batchId/records", settlementHandler.ListRecords)
	settlements.DELETE("/:batchId", settlementHandler.DeleteBatch)

	// Load routes
	loads := api.Group("/loads")
	{
		loads.POST("", settlementHandler.CreateLoad)
	}
}
