package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lucasmd12/fiorence1/database"
	"github.com/lucasmd12/fiorence1/middleware"
	"github.com/lucasmd12/fiorence1/services"
)

type RecurringHandler struct {
	Transactions *database.TransactionRepo
	Recurring    *services.RecurringService
}

func NewRecurringHandler(transactions *database.TransactionRepo, recurring *services.RecurringService) *RecurringHandler {
	return &RecurringHandler{Transactions: transactions, Recurring: recurring}
}

// List returns the user's recurring templates.
func (h *RecurringHandler) List(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	recurring := true
	templates, err := h.Transactions.List(c.Request.Context(), userID, database.TransactionFilter{
		Context:   c.Query("context"),
		Recurring: &recurring,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao listar recorrências"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

// Process triggers the daily recurring pass on demand. The scheduler runs it
// automatically; this endpoint exists for operational catch-up.
func (h *RecurringHandler) Process(c *gin.Context) {
	generated, overdue, err := h.Recurring.ProcessDue(c.Request.Context(), time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao processar recorrências"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "generated": generated, "marked_overdue": overdue})
}
