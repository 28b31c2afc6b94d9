package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/finsight/backend/internal/model"
)

const sqliteDateLayout = "2006-01-02"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS transactions (
	id               TEXT PRIMARY KEY,
	user_id          TEXT NOT NULL,
	type             TEXT NOT NULL,
	category         TEXT NOT NULL,
	amount           REAL NOT NULL,
	transaction_date TEXT NOT NULL,
	merchant         TEXT NOT NULL DEFAULT '',
	description      TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_transactions_user_date
	ON transactions (user_id, transaction_date);

CREATE TABLE IF NOT EXISTS budgets (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL,
	category     TEXT NOT NULL,
	limit_amount REAL NOT NULL,
	UNIQUE (user_id, category)
);

CREATE TABLE IF NOT EXISTS savings_goals (
	id             TEXT PRIMARY KEY,
	user_id        TEXT NOT NULL,
	name           TEXT NOT NULL,
	target_amount  REAL NOT NULL,
	current_amount REAL NOT NULL DEFAULT 0,
	deadline       TEXT
);

CREATE TABLE IF NOT EXISTS goal_contributions (
	id                TEXT PRIMARY KEY,
	user_id           TEXT NOT NULL,
	goal_id           TEXT NOT NULL,
	amount            REAL NOT NULL,
	contribution_date TEXT NOT NULL
);
`

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at dbPath and
// applies the schema.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateTransaction(ctx context.Context, txn *model.Transaction) error {
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, type, category, amount, transaction_date, merchant, description)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, txn.UserID, string(txn.Type), txn.Category, txn.Amount,
		txn.Date.Format(sqliteDateLayout), txn.Merchant, txn.Description)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetTransaction(ctx context.Context, userID, txnID string) (*model.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, type, category, amount, transaction_date, merchant, description
		 FROM transactions WHERE id = ? AND user_id = ?`, txnID, userID)
	return scanTransaction(row)
}

func (s *SQLiteStore) UpdateTransaction(ctx context.Context, txn *model.Transaction) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET type = ?, category = ?, amount = ?, transaction_date = ?, merchant = ?, description = ?
		 WHERE id = ? AND user_id = ?`,
		string(txn.Type), txn.Category, txn.Amount, txn.Date.Format(sqliteDateLayout),
		txn.Merchant, txn.Description, txn.ID, txn.UserID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) DeleteTransaction(ctx context.Context, userID, txnID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, txnID, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) ListTransactions(ctx context.Context, userID string, startDate, endDate *time.Time) ([]model.Transaction, error) {
	query := `SELECT id, user_id, type, category, amount, transaction_date, merchant, description
		FROM transactions WHERE user_id = ?`
	args := []any{userID}
	if startDate != nil {
		query += ` AND transaction_date >= ?`
		args = append(args, startDate.Format(sqliteDateLayout))
	}
	if endDate != nil {
		query += ` AND transaction_date <= ?`
		args = append(args, endDate.Format(sqliteDateLayout))
	}
	query += ` ORDER BY transaction_date DESC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *txn)
	}
	return txns, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*model.Transaction, error) {
	var txn model.Transaction
	var txType, date string
	err := row.Scan(&txn.ID, &txn.UserID, &txType, &txn.Category, &txn.Amount, &date, &txn.Merchant, &txn.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	txn.Type = model.TransactionType(txType)
	txn.Date, err = time.Parse(sqliteDateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("parse stored date %q: %w", date, err)
	}
	return &txn, nil
}

func (s *SQLiteStore) CreateBudget(ctx context.Context, budget *model.Budget) error {
	if budget.ID == "" {
		budget.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (id, user_id, category, limit_amount) VALUES (?, ?, ?, ?)`,
		budget.ID, budget.UserID, budget.Category, budget.LimitAmount)
	if err != nil {
		return fmt.Errorf("insert budget: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetBudget(ctx context.Context, userID, budgetID string) (*model.Budget, error) {
	var budget model.Budget
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, category, limit_amount FROM budgets WHERE id = ? AND user_id = ?`,
		budgetID, userID).
		Scan(&budget.ID, &budget.UserID, &budget.Category, &budget.LimitAmount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get budget: %w", err)
	}
	return &budget, nil
}

func (s *SQLiteStore) UpdateBudget(ctx context.Context, budget *model.Budget) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE budgets SET category = ?, limit_amount = ? WHERE id = ? AND user_id = ?`,
		budget.Category, budget.LimitAmount, budget.ID, budget.UserID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE id = ? AND user_id = ?`, budgetID, userID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) ListBudgets(ctx context.Context, userID string) ([]model.Budget, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, category, limit_amount FROM budgets WHERE user_id = ? ORDER BY category ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []model.Budget
	for rows.Next() {
		var budget model.Budget
		if err := rows.Scan(&budget.ID, &budget.UserID, &budget.Category, &budget.LimitAmount); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, budget)
	}
	return budgets, rows.Err()
}

func (s *SQLiteStore) CreateGoal(ctx context.Context, goal *model.Goal) error {
	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO savings_goals (id, user_id, name, target_amount, current_amount, deadline)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		goal.ID, goal.UserID, goal.Name, goal.TargetAmount, goal.CurrentAmount, deadlineString(goal.Deadline))
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetGoal(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, target_amount, current_amount, deadline
		 FROM savings_goals WHERE id = ? AND user_id = ?`, goalID, userID)
	return scanGoal(row)
}

func (s *SQLiteStore) UpdateGoal(ctx context.Context, goal *model.Goal) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE savings_goals SET name = ?, target_amount = ?, current_amount = ?, deadline = ?
		 WHERE id = ? AND user_id = ?`,
		goal.Name, goal.TargetAmount, goal.CurrentAmount, deadlineString(goal.Deadline), goal.ID, goal.UserID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) DeleteGoal(ctx context.Context, userID, goalID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM savings_goals WHERE id = ? AND user_id = ?`, goalID, userID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) ListGoals(ctx context.Context, userID string) ([]model.Goal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name, target_amount, current_amount, deadline
		 FROM savings_goals WHERE user_id = ?
		 ORDER BY deadline IS NULL, deadline ASC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []model.Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *goal)
	}
	return goals, rows.Err()
}

func (s *SQLiteStore) AddGoalContribution(ctx context.Context, userID, goalID string, amount float64) (*model.Goal, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin contribution: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE savings_goals SET current_amount = current_amount + ?
		 WHERE id = ? AND user_id = ?`, amount, goalID, userID)
	if err != nil {
		return nil, fmt.Errorf("apply contribution: %w", err)
	}
	if err := requireRow(res); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO goal_contributions (id, user_id, goal_id, amount, contribution_date)
		 VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), userID, goalID, amount, time.Now().UTC().Format(sqliteDateLayout))
	if err != nil {
		return nil, fmt.Errorf("record contribution: %w", err)
	}

	goal, err := scanGoal(tx.QueryRowContext(ctx,
		`SELECT id, user_id, name, target_amount, current_amount, deadline
		 FROM savings_goals WHERE id = ? AND user_id = ?`, goalID, userID))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit contribution: %w", err)
	}
	return goal, nil
}

func scanGoal(row rowScanner) (*model.Goal, error) {
	var goal model.Goal
	var deadline sql.NullString
	err := row.Scan(&goal.ID, &goal.UserID, &goal.Name, &goal.TargetAmount, &goal.CurrentAmount, &deadline)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan goal: %w", err)
	}
	if deadline.Valid && deadline.String != "" {
		d, err := time.Parse(sqliteDateLayout, deadline.String)
		if err != nil {
			return nil, fmt.Errorf("parse stored deadline %q: %w", deadline.String, err)
		}
		goal.Deadline = &d
	}
	return &goal, nil
}

func deadlineString(deadline *time.Time) any {
	if deadline == nil {
		return nil
	}
	return deadline.Format(sqliteDateLayout)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
