// Package model defines the domain entities shared by the store, the
// analytics core, and the HTTP service.
package model

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// TransactionType is either income or expense; no other values are valid.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Transaction is a single dated money movement for one user. Instances are
// created by the persistence layer and treated as read-only everywhere else.
type Transaction struct {
	ID          string          `json:"id,omitempty" firestore:"id"`
	UserID      string          `json:"-" firestore:"userID"`
	Date        time.Time       `json:"date" firestore:"date"`
	Amount      float64         `json:"amount" firestore:"amount"`
	Type        TransactionType `json:"type" firestore:"type"`
	Category    string          `json:"category" firestore:"category"`
	Merchant    string          `json:"merchant,omitempty" firestore:"merchant"`
	Description string          `json:"description,omitempty" firestore:"description"`
}

// Budget is a per-category monthly spending limit. At most one per category
// per user; the persistence layer enforces that.
type Budget struct {
	ID          string  `json:"id,omitempty" firestore:"id"`
	UserID      string  `json:"-" firestore:"userID"`
	Category    string  `json:"category" firestore:"category"`
	LimitAmount float64 `json:"limit_amount" firestore:"limitAmount"`
}

// Goal is a savings goal. Deadline is informational; the timeline
// calculation only consumes the current and target amounts.
type Goal struct {
	ID            string     `json:"id,omitempty" firestore:"id"`
	UserID        string     `json:"-" firestore:"userID"`
	Name          string     `json:"goal_name" firestore:"name"`
	TargetAmount  float64    `json:"target_amount" firestore:"targetAmount"`
	CurrentAmount float64    `json:"current_amount" firestore:"currentAmount"`
	Deadline      *time.Time `json:"deadline,omitempty" firestore:"deadline"`
}

// RawTransaction is a transaction record as handed over by an upstream
// producer before validation: the date is an unparsed string and the amount
// may arrive as a JSON number or a numeric string.
type RawTransaction struct {
	ID          string `json:"id,omitempty"`
	Date        string `json:"date"`
	Amount      any    `json:"amount"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Merchant    string `json:"merchant,omitempty"`
	Description string `json:"description,omitempty"`
}

// DataFormatError reports a raw record field that could not be validated or
// converted. It is a hard failure: malformed input is never silently skipped.
type DataFormatError struct {
	Field string
	Value string
}

func (e *DataFormatError) Error() string {
	return fmt.Sprintf("malformed %s: %q", e.Field, e.Value)
}

// Date layouts accepted from upstream producers, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseDate converts a raw date string to a calendar date.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &DataFormatError{Field: "date", Value: s}
}

// ParseAmount converts a raw amount (JSON number, integer, or numeric
// string) to a non-negative decimal.
func ParseAmount(v any) (float64, error) {
	var amount float64
	switch n := v.(type) {
	case float64:
		amount = n
	case int:
		amount = float64(n)
	case int64:
		amount = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, &DataFormatError{Field: "amount", Value: n}
		}
		amount = parsed
	default:
		return 0, &DataFormatError{Field: "amount", Value: fmt.Sprintf("%v", v)}
	}
	// ParseFloat accepts "NaN" and "Inf" spellings; neither is a decimal.
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, &DataFormatError{Field: "amount", Value: fmt.Sprintf("%v", v)}
	}
	return amount, nil
}

// ParseType validates the transaction type literal.
func ParseType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case TypeIncome:
		return TypeIncome, nil
	case TypeExpense:
		return TypeExpense, nil
	}
	return "", &DataFormatError{Field: "type", Value: s}
}
