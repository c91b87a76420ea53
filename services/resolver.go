package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lucasmd12/fiorence1/models"
)

// CategoryStore is the slice of the document store the resolver needs.
// Upsert must be idempotent: concurrent calls for the same
// (user, context, name) tuple converge on one stored document.
type CategoryStore interface {
	FindByName(ctx context.Context, userID, context_, name string) (*models.Category, error)
	Upsert(ctx context.Context, cat *models.Category) (*models.Category, bool, error)
	ListByUser(ctx context.Context, userID, context_ string) ([]models.Category, error)
}

// Resolver maps a proposed category name to a stable category id, creating
// the category on first sighting. The check-then-create sequence is
// serialized per (user, context) on top of the store's idempotent upsert, so
// concurrent ingestion runs cannot mint duplicates.
type Resolver struct {
	store      CategoryStore
	classifier *Classifier
	log        *logrus.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewResolver(store CategoryStore, classifier *Classifier, log *logrus.Logger) *Resolver {
	return &Resolver{
		store:      store,
		classifier: classifier,
		log:        log,
		locks:      make(map[string]*sync.Mutex),
	}
}

func (r *Resolver) lockFor(userID, context_ string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := userID + "/" + context_
	lock, ok := r.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[key] = lock
	}
	return lock
}

// Resolve returns the id of the category named name in the user's context,
// creating it when absent. The created flag feeds the run's
// categories_created counter.
//
// New categories are always created with type "expense", whatever the
// transaction's direction. That mirrors the historical behavior of the
// import flow and is kept on purpose until product decides otherwise; see
// DESIGN.md.
func (r *Resolver) Resolve(ctx context.Context, userID, context_, name, direction string) (string, bool, error) {
	_ = direction

	lock := r.lockFor(userID, context_)
	lock.Lock()
	defer lock.Unlock()

	existing, err := r.store.FindByName(ctx, userID, context_, name)
	if err != nil {
		return "", false, fmt.Errorf("category lookup failed: %w", err)
	}
	if existing != nil {
		return existing.ID, false, nil
	}

	stored, created, err := r.store.Upsert(ctx, r.newCategory(userID, context_, name))
	if err != nil {
		return "", false, fmt.Errorf("category create failed: %w", err)
	}
	if created {
		r.log.WithFields(logrus.Fields{
			"user_id":  userID,
			"context":  context_,
			"category": name,
		}).Info("created category on first sighting")
	}
	return stored.ID, created, nil
}

// Diagnose is the read-only variant of Resolve: it reports whether the
// classifier's suggestion for a description maps to an existing category or
// would create a new one, without writing anything.
func (r *Resolver) Diagnose(ctx context.Context, userID, context_, description string) (*CategoryDiagnosis, error) {
	name := r.classifier.Suggest(description)

	existing, err := r.store.FindByName(ctx, userID, context_, name)
	if err != nil {
		return nil, fmt.Errorf("category lookup failed: %w", err)
	}
	if existing != nil {
		return &CategoryDiagnosis{Kind: DiagnosisExisting, Category: existing}, nil
	}

	proposed := r.newCategory(userID, context_, name)
	return &CategoryDiagnosis{Kind: DiagnosisNew, ProposedCategory: proposed}, nil
}

func (r *Resolver) newCategory(userID, context_, name string) *models.Category {
	return &models.Category{
		UserID:    userID,
		Context:   context_,
		Name:      name,
		Type:      models.TypeExpense,
		Color:     r.classifier.ColorFor(name),
		Icon:      r.classifier.IconFor(name),
		Emoji:     r.classifier.EmojiFor(name),
		CreatedAt: time.Now().UTC(),
	}
}

// Diagnosis kinds.
const (
	DiagnosisExisting = "existing"
	DiagnosisNew      = "new"
)

type CategoryDiagnosis struct {
	Kind             string           `json:"kind"`
	Category         *models.Category `json:"category,omitempty"`
	ProposedCategory *models.Category `json:"proposed_category,omitempty"`
}
