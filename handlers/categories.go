package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/lucasmd12/fiorence1/database"
	"github.com/lucasmd12/fiorence1/middleware"
	"github.com/lucasmd12/fiorence1/models"
	"github.com/lucasmd12/fiorence1/services"
)

type CategoryHandler struct {
	Categories *database.CategoryRepo
	Classifier *services.Classifier
}

func NewCategoryHandler(categories *database.CategoryRepo, classifier *services.Classifier) *CategoryHandler {
	return &CategoryHandler{Categories: categories, Classifier: classifier}
}

func (h *CategoryHandler) List(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	context_ := c.Query("context")
	if context_ != "" && !models.ValidContext(context_) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Contexto inválido"})
		return
	}

	categories, err := h.Categories.ListByUser(c.Request.Context(), userID, context_)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao listar categorias"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// Create adds an explicit category. Unlike pipeline-created categories, the
// caller picks the type; color, icon and emoji fall back to the classifier's
// styling for the name.
func (h *CategoryHandler) Create(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cat := &models.Category{
		UserID:  userID,
		Context: req.Context,
		Name:    req.Name,
		Type:    req.Type,
		Color:   req.Color,
		Icon:    req.Icon,
		Emoji:   req.Emoji,
	}
	if cat.Color == "" {
		cat.Color = h.Classifier.ColorFor(req.Name)
	}
	if cat.Icon == "" {
		cat.Icon = h.Classifier.IconFor(req.Name)
	}
	if cat.Emoji == "" {
		cat.Emoji = h.Classifier.EmojiFor(req.Name)
	}

	if _, err := h.Categories.Insert(c.Request.Context(), cat); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Categoria já existe neste contexto"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao criar categoria"})
		return
	}

	c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	var req models.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := bson.M{}
	if req.Name != "" {
		patch["name"] = req.Name
	}
	if req.Color != "" {
		patch["color"] = req.Color
	}
	if req.Icon != "" {
		patch["icon"] = req.Icon
	}
	if req.Emoji != "" {
		patch["emoji"] = req.Emoji
	}
	if len(patch) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nenhum campo para atualizar"})
		return
	}

	matched, err := h.Categories.Update(c.Request.Context(), userID, c.Param("id"), patch)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Categoria já existe neste contexto"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao atualizar categoria"})
		return
	}
	if matched == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Categoria não encontrada"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	deleted, err := h.Categories.Delete(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao excluir categoria"})
		return
	}
	if deleted == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Categoria não encontrada"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type SeedCategoriesRequest struct {
	Context string `json:"context" binding:"required,oneof=personal business"`
}

// Seed creates the built-in category set in one context. Existing categories
// with the same names are left untouched, so seeding is idempotent.
func (h *CategoryHandler) Seed(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	var req SeedCategoriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created := 0
	for _, name := range h.Classifier.DefaultCategoryNames() {
		cat := &models.Category{
			UserID:  userID,
			Context: req.Context,
			Name:    name,
			Type:    models.TypeExpense,
			Color:   h.Classifier.ColorFor(name),
			Icon:    h.Classifier.IconFor(name),
			Emoji:   h.Classifier.EmojiFor(name),
		}
		_, wasCreated, err := h.Categories.Upsert(c.Request.Context(), cat)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao criar categorias padrão"})
			return
		}
		if wasCreated {
			created++
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "created": created})
}
