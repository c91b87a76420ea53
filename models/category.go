package models

import "time"

// Category contexts. Every category (and transaction) lives in exactly one
// context, which partitions a user's data between personal and business books.
const (
	ContextPersonal = "personal"
	ContextBusiness = "business"
)

// Transaction directions, shared with Transaction.Type.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

type Category struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Context   string    `json:"context" bson:"context"`
	Name      string    `json:"name" bson:"name"`
	Type      string    `json:"type" bson:"type"`
	Color     string    `json:"color" bson:"color"`
	Icon      string    `json:"icon" bson:"icon"`
	Emoji     string    `json:"emoji" bson:"emoji"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type CreateCategoryRequest struct {
	Name    string `json:"name" binding:"required"`
	Context string `json:"context" binding:"required,oneof=personal business"`
	Type    string `json:"type" binding:"required,oneof=income expense"`
	Color   string `json:"color"`
	Icon    string `json:"icon"`
	Emoji   string `json:"emoji"`
}

type UpdateCategoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
	Emoji string `json:"emoji"`
}

func ValidContext(c string) bool {
	return c == ContextPersonal || c == ContextBusiness
}
