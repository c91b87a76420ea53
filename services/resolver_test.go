package services

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasmd12/fiorence1/models"
)

// memCategoryStore is an in-memory CategoryStore with the same idempotence
// contract as the database: one document per (user, context, name).
type memCategoryStore struct {
	mu         sync.Mutex
	categories map[string]*models.Category
}

func newMemCategoryStore() *memCategoryStore {
	return &memCategoryStore{categories: make(map[string]*models.Category)}
}

func storeKey(userID, context_, name string) string {
	return userID + "|" + context_ + "|" + name
}

func (s *memCategoryStore) FindByName(ctx context.Context, userID, context_, name string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cat, ok := s.categories[storeKey(userID, context_, name)]; ok {
		copied := *cat
		return &copied, nil
	}
	return nil, nil
}

func (s *memCategoryStore) Upsert(ctx context.Context, cat *models.Category) (*models.Category, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := storeKey(cat.UserID, cat.Context, cat.Name)
	if existing, ok := s.categories[key]; ok {
		copied := *existing
		return &copied, false, nil
	}

	stored := *cat
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	s.categories[key] = &stored
	copied := stored
	return &copied, true, nil
}

func (s *memCategoryStore) ListByUser(ctx context.Context, userID, context_ string) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Category
	for _, cat := range s.categories {
		if cat.UserID == userID && (context_ == "" || cat.Context == context_) {
			out = append(out, *cat)
		}
	}
	return out, nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestResolveCreatesOnFirstSighting(t *testing.T) {
	store := newMemCategoryStore()
	resolver := NewResolver(store, NewClassifier(), testLogger())
	ctx := context.Background()

	id, created, err := resolver.Resolve(ctx, "user-1", models.ContextBusiness, "Combustível", models.TypeExpense)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, id)

	// Second call finds the same document.
	again, created, err := resolver.Resolve(ctx, "user-1", models.ContextBusiness, "Combustível", models.TypeExpense)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, id, again)
}

func TestResolveNewCategoriesAreStyledExpenses(t *testing.T) {
	store := newMemCategoryStore()
	resolver := NewResolver(store, NewClassifier(), testLogger())
	ctx := context.Background()

	// Category type stays expense even for income transactions.
	_, _, err := resolver.Resolve(ctx, "user-1", models.ContextBusiness, "PIX", models.TypeIncome)
	require.NoError(t, err)

	cat, err := store.FindByName(ctx, "user-1", models.ContextBusiness, "PIX")
	require.NoError(t, err)
	require.NotNil(t, cat)
	assert.Equal(t, models.TypeExpense, cat.Type)
	assert.Equal(t, "#10B981", cat.Color)
	assert.Equal(t, "smartphone", cat.Icon)
	assert.Equal(t, "📱", cat.Emoji)
}

func TestResolveIsContextScoped(t *testing.T) {
	store := newMemCategoryStore()
	resolver := NewResolver(store, NewClassifier(), testLogger())
	ctx := context.Background()

	personal, _, err := resolver.Resolve(ctx, "user-1", models.ContextPersonal, "Outros", models.TypeExpense)
	require.NoError(t, err)
	business, _, err := resolver.Resolve(ctx, "user-1", models.ContextBusiness, "Outros", models.TypeExpense)
	require.NoError(t, err)

	assert.NotEqual(t, personal, business)
}

func TestResolveConcurrentSameName(t *testing.T) {
	store := newMemCategoryStore()
	resolver := NewResolver(store, NewClassifier(), testLogger())
	ctx := context.Background()

	const workers = 32
	ids := make([]string, workers)
	createdCount := make([]bool, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], createdCount[i], errs[i] = resolver.Resolve(ctx, "user-1", models.ContextBusiness, "Alimentação", models.TypeExpense)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	created := 0
	for i := 1; i < workers; i++ {
		assert.Equal(t, ids[0], ids[i], "all workers must resolve to the same category id")
	}
	for _, c := range createdCount {
		if c {
			created++
		}
	}
	assert.Equal(t, 1, created, "exactly one worker creates the category")

	categories, err := store.ListByUser(ctx, "user-1", models.ContextBusiness)
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}

func TestDiagnose(t *testing.T) {
	store := newMemCategoryStore()
	resolver := NewResolver(store, NewClassifier(), testLogger())
	ctx := context.Background()

	// Nothing stored yet: the diagnosis proposes a new category without
	// creating it.
	diagnosis, err := resolver.Diagnose(ctx, "user-1", models.ContextBusiness, "posto shell")
	require.NoError(t, err)
	assert.Equal(t, DiagnosisNew, diagnosis.Kind)
	require.NotNil(t, diagnosis.ProposedCategory)
	assert.Equal(t, "Combustível", diagnosis.ProposedCategory.Name)

	stored, err := store.FindByName(ctx, "user-1", models.ContextBusiness, "Combustível")
	require.NoError(t, err)
	assert.Nil(t, stored, "diagnose must not write")

	// After a resolve, the same diagnosis reports the existing document.
	id, _, err := resolver.Resolve(ctx, "user-1", models.ContextBusiness, "Combustível", models.TypeExpense)
	require.NoError(t, err)

	diagnosis, err = resolver.Diagnose(ctx, "user-1", models.ContextBusiness, "posto shell")
	require.NoError(t, err)
	assert.Equal(t, DiagnosisExisting, diagnosis.Kind)
	require.NotNil(t, diagnosis.Category)
	assert.Equal(t, id, diagnosis.Category.ID)
}
