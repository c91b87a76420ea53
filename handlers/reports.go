package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lucasmd12/fiorence1/database"
	"github.com/lucasmd12/fiorence1/middleware"
	"github.com/lucasmd12/fiorence1/models"
	"github.com/lucasmd12/fiorence1/services"
)

type ReportHandler struct {
	Transactions *database.TransactionRepo
	Categories   *database.CategoryRepo
	Reports      *services.ReportsService
}

func NewReportHandler(transactions *database.TransactionRepo, categories *database.CategoryRepo, reports *services.ReportsService) *ReportHandler {
	return &ReportHandler{Transactions: transactions, Categories: categories, Reports: reports}
}

// Export downloads the user's transactions as csv (default) or xlsx.
// Query params: format, context, start_date, end_date.
func (h *ReportHandler) Export(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Formato inválido, use csv ou xlsx"})
		return
	}

	filter := database.TransactionFilter{
		Context:   c.Query("context"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}
	if filter.Context != "" && !models.ValidContext(filter.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Contexto inválido"})
		return
	}

	transactions, err := h.Transactions.List(c.Request.Context(), userID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao listar transações"})
		return
	}

	categories, err := h.Categories.ListByUser(c.Request.Context(), userID, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao listar categorias"})
		return
	}
	categoryNames := make(map[string]string, len(categories))
	for _, cat := range categories {
		categoryNames[cat.ID] = cat.Name
	}

	filename := fmt.Sprintf("transacoes_%s.%s", time.Now().Format("2006-01-02"), format)

	var payload []byte
	var contentType string
	switch format {
	case "xlsx":
		payload, err = h.Reports.ExportXLSX(transactions, categoryNames)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		payload, err = h.Reports.ExportCSV(transactions, categoryNames)
		contentType = "text/csv; charset=utf-8"
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao gerar relatório"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
