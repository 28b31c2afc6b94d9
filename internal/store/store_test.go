package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/backend/internal/model"
)

// eachStore runs fn once per backend against a fresh store.
func eachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryStore())
	})
	t.Run("sqlite", func(t *testing.T) {
		s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		fn(t, s)
	})
}

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTxn(userID, dateStr string, amount float64) *model.Transaction {
	return &model.Transaction{
		UserID:   userID,
		Date:     date(dateStr),
		Amount:   amount,
		Type:     model.TypeExpense,
		Category: "Food",
		Merchant: "Cafe",
	}
}

func TestTransactionLifecycle(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		txn := newTxn("alice", "2025-06-10", 42.5)
		require.NoError(t, s.CreateTransaction(ctx, txn))
		require.NotEmpty(t, txn.ID)

		got, err := s.GetTransaction(ctx, "alice", txn.ID)
		require.NoError(t, err)
		assert.Equal(t, txn.ID, got.ID)
		assert.Equal(t, 42.5, got.Amount)
		assert.Equal(t, model.TypeExpense, got.Type)
		assert.Equal(t, "Cafe", got.Merchant)
		assert.Equal(t, "2025-06-10", got.Date.Format("2006-01-02"))

		txn.Amount = 50
		txn.Category = "Transport"
		require.NoError(t, s.UpdateTransaction(ctx, txn))
		got, err = s.GetTransaction(ctx, "alice", txn.ID)
		require.NoError(t, err)
		assert.Equal(t, 50.0, got.Amount)
		assert.Equal(t, "Transport", got.Category)

		require.NoError(t, s.DeleteTransaction(ctx, "alice", txn.ID))
		_, err = s.GetTransaction(ctx, "alice", txn.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestTransactionUserIsolation(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		txn := newTxn("alice", "2025-06-10", 42.5)
		require.NoError(t, s.CreateTransaction(ctx, txn))

		_, err := s.GetTransaction(ctx, "bob", txn.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		stolen := *txn
		stolen.UserID = "bob"
		assert.ErrorIs(t, s.UpdateTransaction(ctx, &stolen), ErrNotFound)
		assert.ErrorIs(t, s.DeleteTransaction(ctx, "bob", txn.ID), ErrNotFound)

		txns, err := s.ListTransactions(ctx, "bob", nil, nil)
		require.NoError(t, err)
		assert.Empty(t, txns)
	})
}

func TestListTransactionsOrderAndRange(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		for _, d := range []string{"2025-06-01", "2025-06-15", "2025-05-20"} {
			require.NoError(t, s.CreateTransaction(ctx, newTxn("alice", d, 10)))
		}

		txns, err := s.ListTransactions(ctx, "alice", nil, nil)
		require.NoError(t, err)
		require.Len(t, txns, 3)
		// Newest first.
		assert.Equal(t, "2025-06-15", txns[0].Date.Format("2006-01-02"))
		assert.Equal(t, "2025-06-01", txns[1].Date.Format("2006-01-02"))
		assert.Equal(t, "2025-05-20", txns[2].Date.Format("2006-01-02"))

		start := date("2025-06-01")
		end := date("2025-06-14")
		ranged, err := s.ListTransactions(ctx, "alice", &start, &end)
		require.NoError(t, err)
		require.Len(t, ranged, 1)
		assert.Equal(t, "2025-06-01", ranged[0].Date.Format("2006-01-02"))

		// Bounds are inclusive.
		end = date("2025-06-15")
		ranged, err = s.ListTransactions(ctx, "alice", &start, &end)
		require.NoError(t, err)
		assert.Len(t, ranged, 2)
	})
}

func TestBudgetLifecycle(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		b := &model.Budget{UserID: "alice", Category: "Food", LimitAmount: 500}
		require.NoError(t, s.CreateBudget(ctx, b))
		require.NotEmpty(t, b.ID)

		got, err := s.GetBudget(ctx, "alice", b.ID)
		require.NoError(t, err)
		assert.Equal(t, 500.0, got.LimitAmount)

		b.LimitAmount = 600
		require.NoError(t, s.UpdateBudget(ctx, b))
		got, err = s.GetBudget(ctx, "alice", b.ID)
		require.NoError(t, err)
		assert.Equal(t, 600.0, got.LimitAmount)

		_, err = s.GetBudget(ctx, "bob", b.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, s.DeleteBudget(ctx, "alice", b.ID))
		assert.ErrorIs(t, s.DeleteBudget(ctx, "alice", b.ID), ErrNotFound)
	})
}

func TestListBudgetsOrderedByCategory(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		for _, cat := range []string{"Transport", "Food", "Entertainment"} {
			require.NoError(t, s.CreateBudget(ctx, &model.Budget{UserID: "alice", Category: cat, LimitAmount: 100}))
		}

		budgets, err := s.ListBudgets(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, budgets, 3)
		assert.Equal(t, "Entertainment", budgets[0].Category)
		assert.Equal(t, "Food", budgets[1].Category)
		assert.Equal(t, "Transport", budgets[2].Category)
	})
}

func TestGoalLifecycleAndContributions(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		g := &model.Goal{UserID: "alice", Name: "Vacation", TargetAmount: 5000, CurrentAmount: 1000}
		require.NoError(t, s.CreateGoal(ctx, g))
		require.NotEmpty(t, g.ID)

		updated, err := s.AddGoalContribution(ctx, "alice", g.ID, 250)
		require.NoError(t, err)
		assert.Equal(t, 1250.0, updated.CurrentAmount)

		updated, err = s.AddGoalContribution(ctx, "alice", g.ID, 250)
		require.NoError(t, err)
		assert.Equal(t, 1500.0, updated.CurrentAmount)

		_, err = s.AddGoalContribution(ctx, "bob", g.ID, 250)
		assert.ErrorIs(t, err, ErrNotFound)

		// The failed contribution must not have leaked into the goal.
		got, err := s.GetGoal(ctx, "alice", g.ID)
		require.NoError(t, err)
		assert.Equal(t, 1500.0, got.CurrentAmount)

		require.NoError(t, s.DeleteGoal(ctx, "alice", g.ID))
		_, err = s.GetGoal(ctx, "alice", g.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestListGoalsOrderedByDeadline(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		later := date("2026-12-31")
		sooner := date("2025-12-31")
		goals := []*model.Goal{
			{UserID: "alice", Name: "No deadline", TargetAmount: 100},
			{UserID: "alice", Name: "Later", TargetAmount: 100, Deadline: &later},
			{UserID: "alice", Name: "Sooner", TargetAmount: 100, Deadline: &sooner},
		}
		for _, g := range goals {
			require.NoError(t, s.CreateGoal(ctx, g))
		}

		got, err := s.ListGoals(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "Sooner", got[0].Name)
		assert.Equal(t, "Later", got[1].Name)
		// Goals without a deadline sort last.
		assert.Equal(t, "No deadline", got[2].Name)
		assert.Nil(t, got[2].Deadline)
	})
}

func TestGoalDeadlineRoundTrip(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		deadline := date("2026-06-30")
		g := &model.Goal{UserID: "alice", Name: "House", TargetAmount: 50000, Deadline: &deadline}
		require.NoError(t, s.CreateGoal(ctx, g))

		got, err := s.GetGoal(ctx, "alice", g.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Deadline)
		assert.Equal(t, "2026-06-30", got.Deadline.Format("2006-01-02"))
	})
}
