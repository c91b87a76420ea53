package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lucasmd12/fiorence1/models"
)

// RecurringStore is the slice of the document store the recurring job needs.
type RecurringStore interface {
	ListRecurringTemplates(ctx context.Context, day int) ([]models.Transaction, error)
	HasInstanceForMonth(ctx context.Context, parentID, yearMonth string) (bool, error)
	Insert(ctx context.Context, tx *models.Transaction) (string, error)
	MarkOverdue(ctx context.Context, today string) (int64, error)
}

// RecurringService materializes recurring transaction templates into monthly
// instances and moves lapsed pending instances to overdue. It is driven by a
// daily ticker in main.
type RecurringService struct {
	store RecurringStore
	log   *logrus.Logger
}

func NewRecurringService(store RecurringStore, log *logrus.Logger) *RecurringService {
	return &RecurringService{store: store, log: log}
}

// ProcessDue creates this month's instance for every template whose recurring
// day is today, skipping templates that already produced one. It is safe to
// run more than once per day. Returns how many instances were created and how
// many pending transactions were moved to overdue.
func (s *RecurringService) ProcessDue(ctx context.Context, now time.Time) (int, int64, error) {
	today := now.Format("2006-01-02")
	yearMonth := now.Format("2006-01")

	templates, err := s.store.ListRecurringTemplates(ctx, now.Day())
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load recurring templates: %w", err)
	}

	created := 0
	for _, template := range templates {
		exists, err := s.store.HasInstanceForMonth(ctx, template.ID, yearMonth)
		if err != nil {
			s.log.WithError(err).WithField("template_id", template.ID).Warn("failed to check recurring instance")
			continue
		}
		if exists {
			continue
		}

		instance := &models.Transaction{
			UserID:      template.UserID,
			Description: template.Description,
			Amount:      template.Amount,
			Type:        template.Type,
			Context:     template.Context,
			CategoryID:  template.CategoryID,
			Date:        today,
			DueDate:     today,
			Status:      models.StatusPending,
			Source:      models.SourceRecurring,
			ParentID:    template.ID,
		}
		if _, err := s.store.Insert(ctx, instance); err != nil {
			s.log.WithError(err).WithField("template_id", template.ID).Warn("failed to create recurring instance")
			continue
		}
		created++
	}

	overdue, err := s.store.MarkOverdue(ctx, today)
	if err != nil {
		return created, 0, fmt.Errorf("failed to mark overdue transactions: %w", err)
	}

	if created > 0 || overdue > 0 {
		s.log.WithFields(logrus.Fields{
			"created": created,
			"overdue": overdue,
		}).Info("recurring transactions processed")
	}
	return created, overdue, nil
}
