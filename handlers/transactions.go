package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/lucasmd12/fiorence1/database"
	"github.com/lucasmd12/fiorence1/middleware"
	"github.com/lucasmd12/fiorence1/models"
)

// TransactionHandler exposes manual CRUD over a user's transactions. Ingested
// transactions go through the document pipeline instead.
type TransactionHandler struct {
	Transactions *database.TransactionRepo
	Categories   *database.CategoryRepo
}

func NewTransactionHandler(transactions *database.TransactionRepo, categories *database.CategoryRepo) *TransactionHandler {
	return &TransactionHandler{Transactions: transactions, Categories: categories}
}

// List returns the user's transactions, optionally filtered by context,
// status, recurring flag and date range.
func (h *TransactionHandler) List(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	filter := database.TransactionFilter{
		Context:   c.Query("context"),
		Status:    c.Query("status"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}
	if raw := c.Query("recurring"); raw != "" {
		recurring := raw == "true"
		filter.Recurring = &recurring
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

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

func (h *TransactionHandler) Get(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	tx, err := h.Transactions.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar transação"})
		return
	}
	if tx == nil || tx.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transação não encontrada"})
		return
	}

	c.JSON(http.StatusOK, tx)
}

func (h *TransactionHandler) Create(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	var req models.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Data inválida, use o formato aaaa-mm-dd"})
		return
	}
	if req.IsRecurring && (req.RecurringDay < 1 || req.RecurringDay > 31) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dia de recorrência inválido"})
		return
	}

	category, err := h.Categories.FindByID(c.Request.Context(), req.CategoryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao validar categoria"})
		return
	}
	if category == nil || category.UserID != userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Categoria não encontrada"})
		return
	}

	status := models.StatusPending
	if req.Date <= time.Now().UTC().Format("2006-01-02") {
		status = models.StatusPaid
	}

	tx := &models.Transaction{
		UserID:       userID,
		Description:  req.Description,
		Amount:       req.Amount,
		Type:         req.Type,
		Context:      req.Context,
		CategoryID:   req.CategoryID,
		Date:         req.Date,
		DueDate:      req.DueDate,
		Status:       status,
		Source:       models.SourceManual,
		IsRecurring:  req.IsRecurring,
		RecurringDay: req.RecurringDay,
	}

	if _, err := h.Transactions.Insert(c.Request.Context(), tx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao criar transação"})
		return
	}

	c.JSON(http.StatusCreated, tx)
}

func (h *TransactionHandler) Update(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	var req models.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := bson.M{}
	if req.Description != nil {
		patch["description"] = *req.Description
	}
	if req.Amount != nil {
		if *req.Amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Valor deve ser maior que zero"})
			return
		}
		patch["amount"] = *req.Amount
	}
	if req.Type != nil {
		if *req.Type != models.TypeIncome && *req.Type != models.TypeExpense {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Tipo inválido"})
			return
		}
		patch["type"] = *req.Type
	}
	if req.CategoryID != nil {
		category, err := h.Categories.FindByID(c.Request.Context(), *req.CategoryID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao validar categoria"})
			return
		}
		if category == nil || category.UserID != userID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Categoria não encontrada"})
			return
		}
		patch["category_id"] = *req.CategoryID
	}
	if req.Date != nil {
		if _, err := time.Parse("2006-01-02", *req.Date); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Data inválida, use o formato aaaa-mm-dd"})
			return
		}
		patch["date"] = *req.Date
	}
	if req.DueDate != nil {
		patch["due_date"] = *req.DueDate
	}
	if req.Status != nil {
		switch *req.Status {
		case models.StatusPending, models.StatusPaid, models.StatusOverdue:
			patch["status"] = *req.Status
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Status inválido"})
			return
		}
	}
	if req.IsRecurring != nil {
		patch["is_recurring"] = *req.IsRecurring
	}
	if req.RecurringDay != nil {
		if *req.RecurringDay < 1 || *req.RecurringDay > 31 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Dia de recorrência inválido"})
			return
		}
		patch["recurring_day"] = *req.RecurringDay
	}
	if len(patch) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nenhum campo para atualizar"})
		return
	}

	matched, err := h.Transactions.Update(c.Request.Context(), userID, c.Param("id"), patch)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao atualizar transação"})
		return
	}
	if matched == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transação não encontrada"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MarkPaid is a shortcut for the common "confirm payment" action.
func (h *TransactionHandler) MarkPaid(c *gin.Context) {
	h.setStatus(c, models.StatusPaid)
}

func (h *TransactionHandler) MarkPending(c *gin.Context) {
	h.setStatus(c, models.StatusPending)
}

func (h *TransactionHandler) setStatus(c *gin.Context, status string) {
	userID := c.GetString(middleware.ContextUserID)

	matched, err := h.Transactions.Update(c.Request.Context(), userID, c.Param("id"), bson.M{"status": status})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao atualizar transação"})
		return
	}
	if matched == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transação não encontrada"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "status": status})
}

func (h *TransactionHandler) Delete(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	deleted, err := h.Transactions.Delete(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao excluir transação"})
		return
	}
	if deleted == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transação não encontrada"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
