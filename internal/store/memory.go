package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finsight/backend/internal/model"
)

// MemoryStore implements Store with in-memory maps. Safe for concurrent
// use; contents are lost on restart.
type MemoryStore struct {
	mu           sync.RWMutex
	transactions map[string]*model.Transaction
	budgets      map[string]*model.Budget
	goals        map[string]*model.Goal
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		transactions: make(map[string]*model.Transaction),
		budgets:      make(map[string]*model.Budget),
		goals:        make(map[string]*model.Goal),
	}
}

func (s *MemoryStore) CreateTransaction(ctx context.Context, txn *model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	cp := *txn
	s.transactions[txn.ID] = &cp
	return nil
}

func (s *MemoryStore) GetTransaction(ctx context.Context, userID, txnID string) (*model.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	txn, ok := s.transactions[txnID]
	if !ok || txn.UserID != userID {
		return nil, ErrNotFound
	}
	cp := *txn
	return &cp, nil
}

func (s *MemoryStore) UpdateTransaction(ctx context.Context, txn *model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.transactions[txn.ID]
	if !ok || existing.UserID != txn.UserID {
		return ErrNotFound
	}
	cp := *txn
	s.transactions[txn.ID] = &cp
	return nil
}

func (s *MemoryStore) DeleteTransaction(ctx context.Context, userID, txnID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn, ok := s.transactions[txnID]
	if !ok || txn.UserID != userID {
		return ErrNotFound
	}
	delete(s.transactions, txnID)
	return nil
}

func (s *MemoryStore) ListTransactions(ctx context.Context, userID string, startDate, endDate *time.Time) ([]model.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var txns []model.Transaction
	for _, txn := range s.transactions {
		if txn.UserID != userID {
			continue
		}
		if startDate != nil && txn.Date.Before(*startDate) {
			continue
		}
		if endDate != nil && txn.Date.After(*endDate) {
			continue
		}
		txns = append(txns, *txn)
	}
	sort.Slice(txns, func(i, j int) bool {
		if !txns[i].Date.Equal(txns[j].Date) {
			return txns[i].Date.After(txns[j].Date)
		}
		return txns[i].ID < txns[j].ID
	})
	return txns, nil
}

func (s *MemoryStore) CreateBudget(ctx context.Context, budget *model.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if budget.ID == "" {
		budget.ID = uuid.New().String()
	}
	cp := *budget
	s.budgets[budget.ID] = &cp
	return nil
}

func (s *MemoryStore) GetBudget(ctx context.Context, userID, budgetID string) (*model.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	budget, ok := s.budgets[budgetID]
	if !ok || budget.UserID != userID {
		return nil, ErrNotFound
	}
	cp := *budget
	return &cp, nil
}

func (s *MemoryStore) UpdateBudget(ctx context.Context, budget *model.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.budgets[budget.ID]
	if !ok || existing.UserID != budget.UserID {
		return ErrNotFound
	}
	cp := *budget
	s.budgets[budget.ID] = &cp
	return nil
}

func (s *MemoryStore) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	budget, ok := s.budgets[budgetID]
	if !ok || budget.UserID != userID {
		return ErrNotFound
	}
	delete(s.budgets, budgetID)
	return nil
}

func (s *MemoryStore) ListBudgets(ctx context.Context, userID string) ([]model.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var budgets []model.Budget
	for _, budget := range s.budgets {
		if budget.UserID == userID {
			budgets = append(budgets, *budget)
		}
	}
	sort.Slice(budgets, func(i, j int) bool {
		return budgets[i].Category < budgets[j].Category
	})
	return budgets, nil
}

func (s *MemoryStore) CreateGoal(ctx context.Context, goal *model.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}
	cp := *goal
	s.goals[goal.ID] = &cp
	return nil
}

func (s *MemoryStore) GetGoal(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	goal, ok := s.goals[goalID]
	if !ok || goal.UserID != userID {
		return nil, ErrNotFound
	}
	cp := *goal
	return &cp, nil
}

func (s *MemoryStore) UpdateGoal(ctx context.Context, goal *model.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.goals[goal.ID]
	if !ok || existing.UserID != goal.UserID {
		return ErrNotFound
	}
	cp := *goal
	s.goals[goal.ID] = &cp
	return nil
}

func (s *MemoryStore) DeleteGoal(ctx context.Context, userID, goalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	goal, ok := s.goals[goalID]
	if !ok || goal.UserID != userID {
		return ErrNotFound
	}
	delete(s.goals, goalID)
	return nil
}

func (s *MemoryStore) ListGoals(ctx context.Context, userID string) ([]model.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var goals []model.Goal
	for _, goal := range s.goals {
		if goal.UserID == userID {
			goals = append(goals, *goal)
		}
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

func (s *MemoryStore) AddGoalContribution(ctx context.Context, userID, goalID string, amount float64) (*model.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	goal, ok := s.goals[goalID]
	if !ok || goal.UserID != userID {
		return nil, ErrNotFound
	}
	goal.CurrentAmount += amount
	cp := *goal
	return &cp, nil
}
