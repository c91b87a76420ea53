package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasmd12/fiorence1/models"
)

type memRecurringStore struct {
	templates []models.Transaction
	instances []models.Transaction
	overdue   int64
}

func (s *memRecurringStore) ListRecurringTemplates(ctx context.Context, day int) ([]models.Transaction, error) {
	var due []models.Transaction
	for _, tpl := range s.templates {
		if tpl.RecurringDay == day {
			due = append(due, tpl)
		}
	}
	return due, nil
}

func (s *memRecurringStore) HasInstanceForMonth(ctx context.Context, parentID, yearMonth string) (bool, error) {
	for _, inst := range s.instances {
		if inst.ParentID == parentID && len(inst.Date) >= 7 && inst.Date[:7] == yearMonth {
			return true, nil
		}
	}
	return false, nil
}

func (s *memRecurringStore) Insert(ctx context.Context, tx *models.Transaction) (string, error) {
	tx.ID = "instance-" + tx.ParentID
	s.instances = append(s.instances, *tx)
	return tx.ID, nil
}

func (s *memRecurringStore) MarkOverdue(ctx context.Context, today string) (int64, error) {
	return s.overdue, nil
}

func TestProcessDueCreatesMonthlyInstances(t *testing.T) {
	now := time.Date(2025, 8, 5, 9, 0, 0, 0, time.UTC)
	store := &memRecurringStore{
		templates: []models.Transaction{
			{ID: "tpl-1", UserID: "user-1", Description: "Aluguel", Amount: 1500, Type: models.TypeExpense,
				Context: models.ContextPersonal, CategoryID: "cat-1", IsRecurring: true, RecurringDay: 5},
			{ID: "tpl-2", UserID: "user-1", Description: "Internet", Amount: 99.90, Type: models.TypeExpense,
				Context: models.ContextPersonal, CategoryID: "cat-2", IsRecurring: true, RecurringDay: 20},
		},
		overdue: 2,
	}
	service := NewRecurringService(store, testLogger())

	created, overdue, err := service.ProcessDue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, created, "only the day-5 template is due")
	assert.Equal(t, int64(2), overdue)

	require.Len(t, store.instances, 1)
	instance := store.instances[0]
	assert.Equal(t, "tpl-1", instance.ParentID)
	assert.Equal(t, "2025-08-05", instance.Date)
	assert.Equal(t, "2025-08-05", instance.DueDate)
	assert.Equal(t, models.StatusPending, instance.Status)
	assert.Equal(t, models.SourceRecurring, instance.Source)
	assert.Equal(t, "Aluguel", instance.Description)
	assert.False(t, instance.IsRecurring, "instances are not templates themselves")
}

func TestProcessDueIsIdempotentPerMonth(t *testing.T) {
	now := time.Date(2025, 8, 5, 9, 0, 0, 0, time.UTC)
	store := &memRecurringStore{
		templates: []models.Transaction{
			{ID: "tpl-1", UserID: "user-1", Description: "Aluguel", Amount: 1500,
				IsRecurring: true, RecurringDay: 5},
		},
	}
	service := NewRecurringService(store, testLogger())

	created, _, err := service.ProcessDue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	// Running again the same day creates nothing new.
	created, _, err = service.ProcessDue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Len(t, store.instances, 1)
}
