package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/finsight/backend/internal/model"
)

const (
	transactionsCollection = "transactions"
	budgetsCollection      = "budgets"
	goalsCollection        = "goals"
)

// FirestoreStore implements Store on Firestore. Documents live in
// top-level collections keyed by record ID, scoped per user through a
// userID field, matching how the service queries them.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore wraps an existing Firestore client.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func (s *FirestoreStore) CreateTransaction(ctx context.Context, txn *model.Transaction) error {
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	_, err := s.client.Collection(transactionsCollection).Doc(txn.ID).Set(ctx, txn)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (s *FirestoreStore) GetTransaction(ctx context.Context, userID, txnID string) (*model.Transaction, error) {
	doc, err := s.client.Collection(transactionsCollection).Doc(txnID).Get(ctx)
	if isNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	var txn model.Transaction
	if err := doc.DataTo(&txn); err != nil {
		return nil, fmt.Errorf("parse transaction: %w", err)
	}
	if txn.UserID != userID {
		return nil, ErrNotFound
	}
	return &txn, nil
}

func (s *FirestoreStore) UpdateTransaction(ctx context.Context, txn *model.Transaction) error {
	if _, err := s.GetTransaction(ctx, txn.UserID, txn.ID); err != nil {
		return err
	}
	if _, err := s.client.Collection(transactionsCollection).Doc(txn.ID).Set(ctx, txn); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return nil
}

func (s *FirestoreStore) DeleteTransaction(ctx context.Context, userID, txnID string) error {
	if _, err := s.GetTransaction(ctx, userID, txnID); err != nil {
		return err
	}
	if _, err := s.client.Collection(transactionsCollection).Doc(txnID).Delete(ctx); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

func (s *FirestoreStore) ListTransactions(ctx context.Context, userID string, startDate, endDate *time.Time) ([]model.Transaction, error) {
	query := s.client.Collection(transactionsCollection).Where("userID", "==", userID)
	if startDate != nil {
		query = query.Where("date", ">=", *startDate)
	}
	if endDate != nil {
		query = query.Where("date", "<=", *endDate)
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	txns := make([]model.Transaction, 0, len(docs))
	for _, doc := range docs {
		var txn model.Transaction
		if err := doc.DataTo(&txn); err != nil {
			return nil, fmt.Errorf("parse transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	sort.Slice(txns, func(i, j int) bool {
		if !txns[i].Date.Equal(txns[j].Date) {
			return txns[i].Date.After(txns[j].Date)
		}
		return txns[i].ID < txns[j].ID
	})
	return txns, nil
}

func (s *FirestoreStore) CreateBudget(ctx context.Context, budget *model.Budget) error {
	if budget.ID == "" {
		budget.ID = uuid.New().String()
	}
	if _, err := s.client.Collection(budgetsCollection).Doc(budget.ID).Set(ctx, budget); err != nil {
		return fmt.Errorf("create budget: %w", err)
	}
	return nil
}

func (s *FirestoreStore) GetBudget(ctx context.Context, userID, budgetID string) (*model.Budget, error) {
	doc, err := s.client.Collection(budgetsCollection).Doc(budgetID).Get(ctx)
	if isNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get budget: %w", err)
	}
	var budget model.Budget
	if err := doc.DataTo(&budget); err != nil {
		return nil, fmt.Errorf("parse budget: %w", err)
	}
	if budget.UserID != userID {
		return nil, ErrNotFound
	}
	return &budget, nil
}

func (s *FirestoreStore) UpdateBudget(ctx context.Context, budget *model.Budget) error {
	if _, err := s.GetBudget(ctx, budget.UserID, budget.ID); err != nil {
		return err
	}
	if _, err := s.client.Collection(budgetsCollection).Doc(budget.ID).Set(ctx, budget); err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return nil
}

func (s *FirestoreStore) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	if _, err := s.GetBudget(ctx, userID, budgetID); err != nil {
		return err
	}
	if _, err := s.client.Collection(budgetsCollection).Doc(budgetID).Delete(ctx); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return nil
}

func (s *FirestoreStore) ListBudgets(ctx context.Context, userID string) ([]model.Budget, error) {
	docs, err := s.client.Collection(budgetsCollection).
		Where("userID", "==", userID).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}

	budgets := make([]model.Budget, 0, len(docs))
	for _, doc := range docs {
		var budget model.Budget
		if err := doc.DataTo(&budget); err != nil {
			return nil, fmt.Errorf("parse budget: %w", err)
		}
		budgets = append(budgets, budget)
	}
	sort.Slice(budgets, func(i, j int) bool {
		return budgets[i].Category < budgets[j].Category
	})
	return budgets, nil
}

func (s *FirestoreStore) CreateGoal(ctx context.Context, goal *model.Goal) error {
	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}
	if _, err := s.client.Collection(goalsCollection).Doc(goal.ID).Set(ctx, goal); err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	return nil
}

func (s *FirestoreStore) GetGoal(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	doc, err := s.client.Collection(goalsCollection).Doc(goalID).Get(ctx)
	if isNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}
	var goal model.Goal
	if err := doc.DataTo(&goal); err != nil {
		return nil, fmt.Errorf("parse goal: %w", err)
	}
	if goal.UserID != userID {
		return nil, ErrNotFound
	}
	return &goal, nil
}

func (s *FirestoreStore) UpdateGoal(ctx context.Context, goal *model.Goal) error {
	if _, err := s.GetGoal(ctx, goal.UserID, goal.ID); err != nil {
		return err
	}
	if _, err := s.client.Collection(goalsCollection).Doc(goal.ID).Set(ctx, goal); err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return nil
}

func (s *FirestoreStore) DeleteGoal(ctx context.Context, userID, goalID string) error {
	if _, err := s.GetGoal(ctx, userID, goalID); err != nil {
		return err
	}
	if _, err := s.client.Collection(goalsCollection).Doc(goalID).Delete(ctx); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return nil
}

func (s *FirestoreStore) ListGoals(ctx context.Context, userID string) ([]model.Goal, error) {
	docs, err := s.client.Collection(goalsCollection).
		Where("userID", "==", userID).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}

	goals := make([]model.Goal, 0, len(docs))
	for _, doc := range docs {
		var goal model.Goal
		if err := doc.DataTo(&goal); err != nil {
			return nil, fmt.Errorf("parse goal: %w", err)
		}
		goals = append(goals, goal)
	}
	sort.Slice(goals, func(i, j int) bool {
		di, dj := goals[i].Deadline, goals[j].Deadline
		switch {
		case di == nil && dj == nil:
			return goals[i].ID < goals[j].ID
		case di == nil:
			return false
		case dj == nil:
			return true
		case !di.Equal(*dj):
			return di.Before(*dj)
		}
		return goals[i].ID < goals[j].ID
	})
	return goals, nil
}

func (s *FirestoreStore) AddGoalContribution(ctx context.Context, userID, goalID string, amount float64) (*model.Goal, error) {
	ref := s.client.Collection(goalsCollection).Doc(goalID)
	var updated model.Goal

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if isNotFound(err) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var goal model.Goal
		if err := doc.DataTo(&goal); err != nil {
			return fmt.Errorf("parse goal: %w", err)
		}
		if goal.UserID != userID {
			return ErrNotFound
		}
		goal.CurrentAmount += amount
		updated = goal
		return tx.Set(ref, &goal)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
