// Package analytics implements the predictive core: pure, stateless
// transformations over a single user's normalized transaction history.
// Operations that reason about "now" (month pace, recency windows) take an
// explicit evaluation timestamp so results are deterministic under test.
package analytics

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/finsight/backend/internal/model"
)

// ErrInsufficientData marks an operation that fell below its minimum-sample
// threshold. It is an expected outcome, not a fault: callers render a
// well-defined empty state instead of failing.
var ErrInsufficientData = errors.New("insufficient data for prediction")

// Dataset is the canonical in-memory table every analysis reads. It is
// scoped to one user and treated as immutable once built.
type Dataset struct {
	Transactions []model.Transaction
}

// NewDataset wraps already-typed transactions, as produced by the store.
func NewDataset(txns []model.Transaction) *Dataset {
	return &Dataset{Transactions: txns}
}

// Normalize validates and types raw transaction records into a Dataset.
// An unparseable date, a non-numeric or negative amount, or an unknown type
// fails immediately with a *model.DataFormatError. A missing merchant is
// fine; the field stays empty.
func Normalize(records []model.RawTransaction) (*Dataset, error) {
	txns := make([]model.Transaction, 0, len(records))
	for _, r := range records {
		date, err := model.ParseDate(r.Date)
		if err != nil {
			return nil, err
		}
		amount, err := model.ParseAmount(r.Amount)
		if err != nil {
			return nil, err
		}
		txType, err := model.ParseType(r.Type)
		if err != nil {
			return nil, err
		}
		txns = append(txns, model.Transaction{
			ID:          r.ID,
			Date:        date,
			Amount:      amount,
			Type:        txType,
			Category:    r.Category,
			Merchant:    r.Merchant,
			Description: r.Description,
		})
	}
	return &Dataset{Transactions: txns}, nil
}

// MonthTotal is one row of the per-month income/expense series.
type MonthTotal struct {
	Month    string  `json:"month"` // YYYY-MM
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

// MonthlyTotals sums income and expenses per calendar month, ordered oldest
// first.
func MonthlyTotals(d *Dataset) []MonthTotal {
	byMonth := make(map[string]*MonthTotal)
	for _, t := range d.Transactions {
		key := monthKey(t.Date)
		mt, ok := byMonth[key]
		if !ok {
			mt = &MonthTotal{Month: key}
			byMonth[key] = mt
		}
		switch t.Type {
		case model.TypeIncome:
			mt.Income += t.Amount
		case model.TypeExpense:
			mt.Expenses += t.Amount
		}
	}

	totals := make([]MonthTotal, 0, len(byMonth))
	for _, mt := range byMonth {
		mt.Income = round2(mt.Income)
		mt.Expenses = round2(mt.Expenses)
		totals = append(totals, *mt)
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Month < totals[j].Month
	})
	return totals
}

// monthlyExpenseSeries sums expense amounts per calendar month for
// transactions matching the filter, ordered oldest first.
func monthlyExpenseSeries(d *Dataset, match func(model.Transaction) bool) []float64 {
	byMonth := make(map[string]float64)
	for _, t := range d.Transactions {
		if t.Type != model.TypeExpense {
			continue
		}
		if match != nil && !match(t) {
			continue
		}
		byMonth[monthKey(t.Date)] += t.Amount
	}

	keys := make([]string, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	series := make([]float64, len(keys))
	for i, k := range keys {
		series[i] = byMonth[k]
	}
	return series
}

func monthKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

func sameMonth(t, ref time.Time) bool {
	return t.Year() == ref.Year() && t.Month() == ref.Month()
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev is the n-1 standard deviation; zero for fewer than two values.
func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sumSq float64
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}
