package models

import "time"

// Transaction statuses. Status is derived at ingestion time by comparing the
// transaction date with "today" and may later move to overdue for recurring
// instances whose due date has passed.
const (
	StatusPending = "pending"
	StatusPaid    = "paid"
	StatusOverdue = "overdue"
)

// Candidate sources.
const (
	SourceDocument    = "document_extraction"
	SourceSpreadsheet = "spreadsheet_extraction"
	SourceRecurring   = "recurring"
	SourceManual      = "manual"
)

// Transaction is the persisted record. Dates are stored in their canonical
// yyyy-mm-dd string form, matching what the parser emits.
type Transaction struct {
	ID           string    `json:"id" bson:"_id"`
	UserID       string    `json:"user_id" bson:"user_id"`
	Description  string    `json:"description" bson:"description"`
	Amount       float64   `json:"amount" bson:"amount"`
	Type         string    `json:"type" bson:"type"`
	Context      string    `json:"context" bson:"context"`
	CategoryID   string    `json:"category_id" bson:"category_id"`
	Date         string    `json:"date" bson:"date"`
	DueDate      string    `json:"due_date,omitempty" bson:"due_date,omitempty"`
	Status       string    `json:"status" bson:"status"`
	Source       string    `json:"source,omitempty" bson:"source,omitempty"`
	IsRecurring  bool      `json:"is_recurring" bson:"is_recurring"`
	RecurringDay int       `json:"recurring_day,omitempty" bson:"recurring_day,omitempty"`
	ParentID     string    `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// CandidateTransaction is an unvalidated, unpersisted record produced by the
// parser during one ingestion run. The resolver fills CategoryID; when
// resolution fails the candidate keeps CategoryID empty and carries an explicit
// suggested name instead of being dropped.
type CandidateTransaction struct {
	Date                  string  `json:"date"`
	Amount                float64 `json:"amount"`
	Type                  string  `json:"type"`
	Description           string  `json:"description"`
	Category              string  `json:"category"`
	CategoryID            string  `json:"category_id,omitempty"`
	SuggestedCategoryName string  `json:"suggested_category_name,omitempty"`
	Context               string  `json:"context"`
	Source                string  `json:"source"`
	Status                string  `json:"status,omitempty"`
	RawLine               string  `json:"raw_line,omitempty"`
}

// CategorySummary aggregates one category inside a ProcessingSummary.
type CategorySummary struct {
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ProcessingSummary describes one ingestion batch after validation.
type ProcessingSummary struct {
	TotalTransactions int                        `json:"total_transactions"`
	IncomeCount       int                        `json:"income_count"`
	ExpenseCount      int                        `json:"expense_count"`
	TotalIncome       float64                    `json:"total_income"`
	TotalExpenses     float64                    `json:"total_expenses"`
	NetAmount         float64                    `json:"net_amount"`
	Categories        map[string]CategorySummary `json:"categories"`
	DateRange         *DateRange                 `json:"date_range,omitempty"`
}

type CreateTransactionRequest struct {
	Description  string  `json:"description" binding:"required"`
	Amount       float64 `json:"amount" binding:"required,gt=0"`
	Type         string  `json:"type" binding:"required,oneof=income expense"`
	Context      string  `json:"context" binding:"required,oneof=personal business"`
	CategoryID   string  `json:"category_id" binding:"required"`
	Date         string  `json:"date" binding:"required"`
	DueDate      string  `json:"due_date"`
	IsRecurring  bool    `json:"is_recurring"`
	RecurringDay int     `json:"recurring_day"`
}

type UpdateTransactionRequest struct {
	Description  *string  `json:"description"`
	Amount       *float64 `json:"amount"`
	Type         *string  `json:"type"`
	CategoryID   *string  `json:"category_id"`
	Date         *string  `json:"date"`
	DueDate      *string  `json:"due_date"`
	Status       *string  `json:"status"`
	IsRecurring  *bool    `json:"is_recurring"`
	RecurringDay *int     `json:"recurring_day"`
}
