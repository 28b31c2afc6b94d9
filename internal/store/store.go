// Package store persists transactions, budgets, and savings goals. Three
// backends implement the same interface: in-memory for tests and local
// development, SQLite for single-node deployments, Firestore for
// production.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/finsight/backend/internal/model"
)

// ErrNotFound is returned when a record does not exist or belongs to a
// different user.
var ErrNotFound = errors.New("record not found")

// Store defines the database operations used by the service.
type Store interface {
	// Transaction operations. ListTransactions returns newest first,
	// optionally bounded by an inclusive date range.
	CreateTransaction(ctx context.Context, txn *model.Transaction) error
	GetTransaction(ctx context.Context, userID, txnID string) (*model.Transaction, error)
	UpdateTransaction(ctx context.Context, txn *model.Transaction) error
	DeleteTransaction(ctx context.Context, userID, txnID string) error
	ListTransactions(ctx context.Context, userID string, startDate, endDate *time.Time) ([]model.Transaction, error)

	// Budget operations. ListBudgets returns budgets ordered by category.
	CreateBudget(ctx context.Context, budget *model.Budget) error
	GetBudget(ctx context.Context, userID, budgetID string) (*model.Budget, error)
	UpdateBudget(ctx context.Context, budget *model.Budget) error
	DeleteBudget(ctx context.Context, userID, budgetID string) error
	ListBudgets(ctx context.Context, userID string) ([]model.Budget, error)

	// Goal operations. AddGoalContribution atomically increments the goal's
	// current amount and returns the updated goal.
	CreateGoal(ctx context.Context, goal *model.Goal) error
	GetGoal(ctx context.Context, userID, goalID string) (*model.Goal, error)
	UpdateGoal(ctx context.Context, goal *model.Goal) error
	DeleteGoal(ctx context.Context, userID, goalID string) error
	ListGoals(ctx context.Context, userID string) ([]model.Goal, error)
	AddGoalContribution(ctx context.Context, userID, goalID string, amount float64) (*model.Goal, error)
}
