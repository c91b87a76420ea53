package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/lucasmd12/fiorence1/models"
)

// TransactionRepo persists transactions in the transactions collection.
type TransactionRepo struct {
	col *mongo.Collection
}

func NewTransactionRepo(db *mongo.Database) *TransactionRepo {
	return &TransactionRepo{col: db.Collection(transactionsCollection)}
}

func (r *TransactionRepo) Insert(ctx context.Context, tx *models.Transaction) (string, error) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = now
	}
	tx.UpdatedAt = now

	if _, err := r.col.InsertOne(ctx, tx); err != nil {
		return "", fmt.Errorf("failed to insert transaction: %w", err)
	}
	return tx.ID, nil
}

func (r *TransactionRepo) FindByID(ctx context.Context, id string) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&tx)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", id, err)
	}
	return &tx, nil
}

// TransactionFilter narrows List results. Zero values mean "no filter".
type TransactionFilter struct {
	Context   string
	Status    string
	StartDate string
	EndDate   string
	Recurring *bool
}

// List returns a user's transactions newest first.
func (r *TransactionRepo) List(ctx context.Context, userID string, f TransactionFilter) ([]models.Transaction, error) {
	filter := bson.M{"user_id": userID}
	if f.Context != "" {
		filter["context"] = f.Context
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Recurring != nil {
		filter["is_recurring"] = *f.Recurring
	}
	if f.StartDate != "" || f.EndDate != "" {
		dateFilter := bson.M{}
		if f.StartDate != "" {
			dateFilter["$gte"] = f.StartDate
		}
		if f.EndDate != "" {
			dateFilter["$lte"] = f.EndDate
		}
		filter["date"] = dateFilter
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer cursor.Close(ctx)

	transactions := []models.Transaction{}
	if err := cursor.All(ctx, &transactions); err != nil {
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}
	return transactions, nil
}

func (r *TransactionRepo) Update(ctx context.Context, userID, id string, patch bson.M) (int64, error) {
	patch["updated_at"] = time.Now().UTC()
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id, "user_id": userID}, bson.M{"$set": patch})
	if err != nil {
		return 0, fmt.Errorf("failed to update transaction %s: %w", id, err)
	}
	return res.MatchedCount, nil
}

func (r *TransactionRepo) Delete(ctx context.Context, userID, id string) (int64, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete transaction %s: %w", id, err)
	}
	return res.DeletedCount, nil
}

// ListRecurringTemplates returns every recurring template due on the given
// day of month, across all users.
func (r *TransactionRepo) ListRecurringTemplates(ctx context.Context, day int) ([]models.Transaction, error) {
	cursor, err := r.col.Find(ctx, bson.M{"is_recurring": true, "recurring_day": day})
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring templates: %w", err)
	}
	defer cursor.Close(ctx)

	templates := []models.Transaction{}
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, fmt.Errorf("failed to decode recurring templates: %w", err)
	}
	return templates, nil
}

// HasInstanceForMonth reports whether a recurring template already produced an
// instance in the month given as a "yyyy-mm" prefix.
func (r *TransactionRepo) HasInstanceForMonth(ctx context.Context, parentID, yearMonth string) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{
		"parent_id": parentID,
		"date":      bson.M{"$regex": "^" + yearMonth},
	})
	if err != nil {
		return false, fmt.Errorf("failed to count recurring instances: %w", err)
	}
	return count > 0, nil
}

// MarkOverdue flips pending transactions whose due date has passed to overdue.
func (r *TransactionRepo) MarkOverdue(ctx context.Context, today string) (int64, error) {
	res, err := r.col.UpdateMany(ctx,
		bson.M{"status": models.StatusPending, "due_date": bson.M{"$ne": "", "$lt": today}},
		bson.M{"$set": bson.M{"status": models.StatusOverdue, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue transactions: %w", err)
	}
	return res.ModifiedCount, nil
}
