package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/lucasmd12/fiorence1/handlers"
)

// SetupAuthRoutes sets up protected token inspection routes.
func SetupAuthRoutes(rg *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	rg.GET("/auth/verify", authHandler.Verify)
}

// SetupDevRoutes sets up development-only routes. Never mounted in release
// mode.
func SetupDevRoutes(rg *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	rg.POST("/auth/dev-token", authHandler.DevToken)
}

// SetupDocumentRoutes sets up the ingestion pipeline routes.
func SetupDocumentRoutes(rg *gin.RouterGroup, documentHandler *handlers.DocumentHandler) {
	rg.POST("/documents/upload", documentHandler.Upload)
	rg.POST("/documents/preview-categories", documentHandler.PreviewCategories)
	rg.POST("/documents/suggest-category", documentHandler.SuggestCategory)
}

// SetupTransactionRoutes sets up manual transaction CRUD.
func SetupTransactionRoutes(rg *gin.RouterGroup, transactionHandler *handlers.TransactionHandler) {
	rg.GET("/transactions", transactionHandler.List)
	rg.POST("/transactions", transactionHandler.Create)
	rg.GET("/transactions/:id", transactionHandler.Get)
	rg.PUT("/transactions/:id", transactionHandler.Update)
	rg.DELETE("/transactions/:id", transactionHandler.Delete)
	rg.POST("/transactions/:id/pay", transactionHandler.MarkPaid)
	rg.POST("/transactions/:id/unpay", transactionHandler.MarkPending)
}

// SetupCategoryRoutes sets up category management.
func SetupCategoryRoutes(rg *gin.RouterGroup, categoryHandler *handlers.CategoryHandler) {
	rg.GET("/categories", categoryHandler.List)
	rg.POST("/categories", categoryHandler.Create)
	rg.PUT("/categories/:id", categoryHandler.Update)
	rg.DELETE("/categories/:id", categoryHandler.Delete)
	rg.POST("/categories/seed", categoryHandler.Seed)
}

// SetupRecurringRoutes sets up recurring template listing and the manual
// processing trigger.
func SetupRecurringRoutes(rg *gin.RouterGroup, recurringHandler *handlers.RecurringHandler) {
	rg.GET("/recurring", recurringHandler.List)
	rg.POST("/recurring/process", recurringHandler.Process)
}

// SetupReportRoutes sets up report downloads.
func SetupReportRoutes(rg *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	rg.GET("/reports/export", reportHandler.Export)
}
