package handlers

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lucasmd12/fiorence1/middleware"
	"github.com/lucasmd12/fiorence1/models"
	"github.com/lucasmd12/fiorence1/services"
)

// DocumentHandler exposes the ingestion pipeline: document upload, category
// preview and the read-only category diagnosis.
type DocumentHandler struct {
	Ingestion      *services.IngestionService
	MaxUploadBytes int64
}

func NewDocumentHandler(ingestion *services.IngestionService, maxUploadBytes int64) *DocumentHandler {
	return &DocumentHandler{Ingestion: ingestion, MaxUploadBytes: maxUploadBytes}
}

// Upload ingests one document for the authenticated user.
// Form fields: file (required), context (personal|business, default business),
// auto_save (bool).
func (h *DocumentHandler) Upload(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nenhum arquivo enviado"})
		return
	}
	if fileHeader.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nome de arquivo vazio"})
		return
	}
	if fileHeader.Size > h.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Arquivo excede o tamanho máximo permitido"})
		return
	}

	extension := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileHeader.Filename)), ".")
	if !services.AllowedExtension(extension) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tipo de arquivo não suportado"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao ler arquivo"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.MaxUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao ler arquivo"})
		return
	}
	if int64(len(data)) > h.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Arquivo excede o tamanho máximo permitido"})
		return
	}

	context_ := c.DefaultPostForm("context", models.ContextBusiness)
	autoSave := strings.EqualFold(c.PostForm("auto_save"), "true")

	result, err := h.Ingestion.Ingest(c.Request.Context(), data, extension, context_, userID, autoSave)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyFile),
			errors.Is(err, services.ErrUnsupportedFileType),
			errors.Is(err, services.ErrInvalidContext):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrExtractionFailed):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao processar documento"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":              true,
		"transactions":         result.Transactions,
		"summary":              result.Summary,
		"available_categories": result.AvailableCategories,
		"categories_created":   result.CategoriesCreated,
		"auto_saved":           result.AutoSaved,
		"saved_count":          result.SavedCount,
		"errors":               result.Errors,
	})
}

type PreviewCategoriesRequest struct {
	Descriptions []string `json:"descriptions" binding:"required"`
}

// PreviewCategories suggests a category name per description. Pure preview:
// nothing is persisted.
func (h *DocumentHandler) PreviewCategories(c *gin.Context) {
	var req PreviewCategoriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"suggestions": h.Ingestion.PreviewCategories(req.Descriptions),
	})
}

type SuggestCategoryRequest struct {
	Description string `json:"description" binding:"required"`
	Context     string `json:"context" binding:"required,oneof=personal business"`
}

// SuggestCategory reports whether the suggestion for a description maps to an
// existing category or would create a new one. Read-only.
func (h *DocumentHandler) SuggestCategory(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	var req SuggestCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	diagnosis, err := h.Ingestion.SuggestCategory(c.Request.Context(), userID, req.Context, req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao analisar categoria"})
		return
	}

	c.JSON(http.StatusOK, diagnosis)
}
