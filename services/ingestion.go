package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lucasmd12/fiorence1/models"
)

// Input errors, rejected before any work happens.
var (
	ErrEmptyFile           = errors.New("no file content")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrInvalidContext      = errors.New("context must be personal or business")
)

// ErrExtractionFailed wraps backend failures that abort the whole run.
var ErrExtractionFailed = errors.New("extraction failed")

var allowedExtensions = map[string]bool{
	"pdf": true, "png": true, "jpg": true, "jpeg": true,
	"csv": true, "xlsx": true, "xls": true,
}

// AllowedExtension reports whether uploads with this extension are accepted.
func AllowedExtension(ext string) bool {
	return allowedExtensions[strings.ToLower(strings.TrimPrefix(ext, "."))]
}

// ContentExtractor is the extraction collaborator of the orchestrator.
type ContentExtractor interface {
	Extract(ctx context.Context, data []byte, extension string) (*RawContent, error)
}

// TransactionStore is the slice of the document store used for auto-save.
type TransactionStore interface {
	Insert(ctx context.Context, tx *models.Transaction) (string, error)
}

// IngestionNotifier receives a signal when a run completes, e.g. to push a
// websocket event to the uploading user. May be nil.
type IngestionNotifier interface {
	IngestionCompleted(userID string, result *IngestResult)
}

// SaveError records one failed persistence attempt, keyed by the record's
// position in the validated batch.
type SaveError struct {
	Index       int    `json:"index"`
	Description string `json:"description"`
	Error       string `json:"error"`
}

// IngestResult is the terminal success payload of one ingestion run.
type IngestResult struct {
	Transactions        []models.CandidateTransaction `json:"transactions"`
	Summary             *models.ProcessingSummary     `json:"summary"`
	AvailableCategories []models.Category             `json:"available_categories"`
	CategoriesCreated   int                           `json:"categories_created"`
	AutoSaved           bool                          `json:"auto_saved"`
	SavedCount          int                           `json:"saved_count"`
	Errors              []SaveError                   `json:"errors,omitempty"`
}

// CategoryPreview pairs a description with its suggested category name.
type CategoryPreview struct {
	Description       string `json:"description"`
	SuggestedCategory string `json:"suggested_category"`
}

// IngestionService drives one upload end to end: extraction, parsing,
// classification, category resolution, validation, status assignment,
// summary, and optional persistence.
type IngestionService struct {
	extractor    ContentExtractor
	parser       *Parser
	classifier   *Classifier
	resolver     *Resolver
	validator    *Validator
	categories   CategoryStore
	transactions TransactionStore
	notifier     IngestionNotifier
	log          *logrus.Logger

	now func() time.Time
}

func NewIngestionService(
	extractor ContentExtractor,
	parser *Parser,
	classifier *Classifier,
	resolver *Resolver,
	categories CategoryStore,
	transactions TransactionStore,
	notifier IngestionNotifier,
	log *logrus.Logger,
) *IngestionService {
	return &IngestionService{
		extractor:    extractor,
		parser:       parser,
		classifier:   classifier,
		resolver:     resolver,
		validator:    NewValidator(),
		categories:   categories,
		transactions: transactions,
		notifier:     notifier,
		log:          log,
		now:          time.Now,
	}
}

// Ingest processes one uploaded document for one user. Bad input and
// extraction failure abort the run with an error and no partial results;
// everything after extraction is best-effort and recovered per record.
func (s *IngestionService) Ingest(ctx context.Context, data []byte, extension, context_, userID string, autoSave bool) (*IngestResult, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if !models.ValidContext(context_) {
		return nil, ErrInvalidContext
	}
	if !AllowedExtension(extension) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFileType, extension)
	}

	content, err := s.extractor.Extract(ctx, data, extension)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	candidates := s.parse(content, context_)

	created := s.resolveCategories(ctx, candidates, userID, context_)

	validated := s.validator.Validate(candidates)
	s.assignStatuses(validated)

	result := &IngestResult{
		Transactions:      validated,
		Summary:           BuildSummary(validated),
		CategoriesCreated: created,
	}

	if autoSave {
		result.AutoSaved = true
		result.SavedCount, result.Errors = s.persist(ctx, validated, userID)
	}

	available, err := s.categories.ListByUser(ctx, userID, context_)
	if err != nil {
		// The run itself succeeded; an empty listing is better than failing it.
		s.log.WithError(err).Warn("failed to list categories after ingestion")
	} else {
		result.AvailableCategories = available
	}

	s.log.WithFields(logrus.Fields{
		"user_id":            userID,
		"context":            context_,
		"extension":          extension,
		"transactions":       len(validated),
		"categories_created": created,
		"auto_saved":         autoSave,
		"saved_count":        result.SavedCount,
	}).Info("ingestion run completed")

	if s.notifier != nil {
		s.notifier.IngestionCompleted(userID, result)
	}

	return result, nil
}

// parse runs the parser over every content unit in extractor order. Units
// that do not yield a candidate are skipped; one bad line never aborts the
// batch.
func (s *IngestionService) parse(content *RawContent, context_ string) []models.CandidateTransaction {
	var candidates []models.CandidateTransaction

	switch content.Kind {
	case ContentRows:
		for _, row := range content.Rows {
			if candidate := s.parser.ParseRow(content.Columns, row, context_); candidate != nil {
				candidates = append(candidates, *candidate)
			}
		}
	default:
		for _, line := range strings.Split(content.Text, "\n") {
			if candidate := s.parser.ParseLine(line, context_); candidate != nil {
				candidates = append(candidates, *candidate)
			}
		}
	}

	return candidates
}

// resolveCategories fills CategoryID on each candidate. A resolution failure
// never drops the candidate: it is tagged with an explicit fallback name so
// partial failures stay visible. Returns how many categories were created.
func (s *IngestionService) resolveCategories(ctx context.Context, candidates []models.CandidateTransaction, userID, context_ string) int {
	created := 0
	for i := range candidates {
		id, didCreate, err := s.resolver.Resolve(ctx, userID, context_, candidates[i].Category, candidates[i].Type)
		if err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"user_id":  userID,
				"category": candidates[i].Category,
			}).Warn("category resolution failed, tagging candidate as uncategorized")
			candidates[i].CategoryID = ""
			candidates[i].SuggestedCategoryName = "outros"
			continue
		}
		candidates[i].CategoryID = id
		if didCreate {
			created++
		}
	}
	return created
}

// assignStatuses derives the payment status from the transaction date:
// on or before today means paid, after today means pending. A date that does
// not parse leaves the record pending rather than failing it.
func (s *IngestionService) assignStatuses(candidates []models.CandidateTransaction) {
	today := s.now().Format("2006-01-02")
	for i := range candidates {
		if _, err := time.Parse("2006-01-02", candidates[i].Date); err != nil {
			candidates[i].Status = models.StatusPending
			continue
		}
		if candidates[i].Date <= today {
			candidates[i].Status = models.StatusPaid
		} else {
			candidates[i].Status = models.StatusPending
		}
	}
}

// persist saves every candidate that resolved to a category. Per-record
// failures are collected, not fatal.
func (s *IngestionService) persist(ctx context.Context, candidates []models.CandidateTransaction, userID string) (int, []SaveError) {
	saved := 0
	var saveErrors []SaveError

	for i, candidate := range candidates {
		if candidate.CategoryID == "" {
			continue
		}

		tx := &models.Transaction{
			UserID:      userID,
			Description: candidate.Description,
			Amount:      candidate.Amount,
			Type:        candidate.Type,
			Context:     candidate.Context,
			CategoryID:  candidate.CategoryID,
			Date:        candidate.Date,
			Status:      candidate.Status,
			Source:      candidate.Source,
		}

		if _, err := s.transactions.Insert(ctx, tx); err != nil {
			s.log.WithError(err).WithField("index", i).Warn("failed to save extracted transaction")
			saveErrors = append(saveErrors, SaveError{
				Index:       i,
				Description: candidate.Description,
				Error:       err.Error(),
			})
			continue
		}
		saved++
	}

	return saved, saveErrors
}

// PreviewCategories suggests a category name for each description without
// touching the store.
func (s *IngestionService) PreviewCategories(descriptions []string) []CategoryPreview {
	previews := make([]CategoryPreview, 0, len(descriptions))
	for _, description := range descriptions {
		previews = append(previews, CategoryPreview{
			Description:       description,
			SuggestedCategory: s.classifier.Suggest(description),
		})
	}
	return previews
}

// SuggestCategory is the read-only diagnosis entry point.
func (s *IngestionService) SuggestCategory(ctx context.Context, userID, context_, description string) (*CategoryDiagnosis, error) {
	return s.resolver.Diagnose(ctx, userID, context_, description)
}

// BuildSummary aggregates a validated batch: counts and totals per direction,
// per-category totals, and the covered date range.
func BuildSummary(candidates []models.CandidateTransaction) *models.ProcessingSummary {
	summary := &models.ProcessingSummary{
		Categories: map[string]models.CategorySummary{},
	}
	if len(candidates) == 0 {
		return summary
	}

	summary.TotalTransactions = len(candidates)
	dateRange := &models.DateRange{Start: candidates[0].Date, End: candidates[0].Date}

	for _, candidate := range candidates {
		if candidate.Type == models.TypeIncome {
			summary.IncomeCount++
			summary.TotalIncome += candidate.Amount
		} else {
			summary.ExpenseCount++
			summary.TotalExpenses += candidate.Amount
		}

		name := candidate.Category
		if name == "" {
			name = "outros"
		}
		bucket := summary.Categories[name]
		bucket.Count++
		bucket.Total += candidate.Amount
		summary.Categories[name] = bucket

		if candidate.Date < dateRange.Start {
			dateRange.Start = candidate.Date
		}
		if candidate.Date > dateRange.End {
			dateRange.End = candidate.Date
		}
	}

	summary.NetAmount = summary.TotalIncome - summary.TotalExpenses
	summary.DateRange = dateRange
	return summary
}
