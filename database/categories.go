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

// CategoryRepo persists categories in the categories collection.
type CategoryRepo struct {
	col *mongo.Collection
}

func NewCategoryRepo(db *mongo.Database) *CategoryRepo {
	return &CategoryRepo{col: db.Collection(categoriesCollection)}
}

// FindByName returns the category with the exact (user, context, name) tuple,
// or nil when no such category exists.
func (r *CategoryRepo) FindByName(ctx context.Context, userID, context_, name string) (*models.Category, error) {
	filter := bson.M{"user_id": userID, "context": context_, "name": name}

	var cat models.Category
	err := r.col.FindOne(ctx, filter).Decode(&cat)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find category %q: %w", name, err)
	}
	return &cat, nil
}

// Upsert atomically finds or creates the category identified by
// (user_id, context, name). The $setOnInsert update combined with the unique
// index guarantees that concurrent callers all receive the same document.
// The second return value reports whether this call created it.
func (r *CategoryRepo) Upsert(ctx context.Context, cat *models.Category) (*models.Category, bool, error) {
	if cat.ID == "" {
		cat.ID = uuid.NewString()
	}
	if cat.CreatedAt.IsZero() {
		cat.CreatedAt = time.Now().UTC()
	}

	filter := bson.M{"user_id": cat.UserID, "context": cat.Context, "name": cat.Name}
	update := bson.M{"$setOnInsert": cat}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var stored models.Category
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored); err != nil {
		return nil, false, fmt.Errorf("failed to upsert category %q: %w", cat.Name, err)
	}

	created := stored.ID == cat.ID
	return &stored, created, nil
}

func (r *CategoryRepo) FindByID(ctx context.Context, id string) (*models.Category, error) {
	var cat models.Category
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&cat)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find category %s: %w", id, err)
	}
	return &cat, nil
}

// ListByUser returns the user's categories for one context, sorted by name.
func (r *CategoryRepo) ListByUser(ctx context.Context, userID, context_ string) ([]models.Category, error) {
	filter := bson.M{"user_id": userID}
	if context_ != "" {
		filter["context"] = context_
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepo) Insert(ctx context.Context, cat *models.Category) (string, error) {
	if cat.ID == "" {
		cat.ID = uuid.NewString()
	}
	if cat.CreatedAt.IsZero() {
		cat.CreatedAt = time.Now().UTC()
	}
	if _, err := r.col.InsertOne(ctx, cat); err != nil {
		return "", fmt.Errorf("failed to insert category %q: %w", cat.Name, err)
	}
	return cat.ID, nil
}

// Update patches the given fields on a category owned by userID. Returns the
// number of matched documents so callers can distinguish "not found / not
// yours" from success.
func (r *CategoryRepo) Update(ctx context.Context, userID, id string, patch bson.M) (int64, error) {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id, "user_id": userID}, bson.M{"$set": patch})
	if err != nil {
		return 0, fmt.Errorf("failed to update category %s: %w", id, err)
	}
	return res.MatchedCount, nil
}

func (r *CategoryRepo) Delete(ctx context.Context, userID, id string) (int64, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete category %s: %w", id, err)
	}
	return res.DeletedCount, nil
}
