package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/backend/internal/model"
)

func midJune() time.Time {
	return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
}

func TestPredictCashFlowInsufficientData(t *testing.T) {
	d := NewDataset([]model.Transaction{
		income("2025-06-01", 3000),
		expense("2025-06-02", 100, "Food"),
		expense("2025-06-03", 100, "Food"),
		expense("2025-06-04", 100, "Food"),
	})
	_, err := PredictCashFlow(d, midJune())
	require.ErrorIs(t, err, ErrInsufficientData)
}

func TestPredictCashFlowCurrentMonthPace(t *testing.T) {
	// Five transactions, all in the evaluation month, no history to blend.
	d := NewDataset([]model.Transaction{
		income("2025-06-01", 2000),
		expense("2025-06-03", 100, "Food"),
		expense("2025-06-05", 100, "Food"),
		expense("2025-06-10", 100, "Food"),
		expense("2025-06-14", 100, "Food"),
	})

	f, err := PredictCashFlow(d, midJune())
	require.NoError(t, err)

	// 400 spent over 15 elapsed days of a 30-day month -> 800 projected.
	assert.Equal(t, 800.0, f.PredictedExpenses)
	assert.Equal(t, 2000.0, f.CurrentIncome)
	assert.Equal(t, 1200.0, f.PredictedBalance)
	assert.Equal(t, 15, f.DaysRemaining)
	assert.InDelta(t, 26.67, f.AvgDailySpend, 0.001)
	assert.Equal(t, "low", f.Confidence)
}

func TestPredictCashFlowBlendsHistory(t *testing.T) {
	d := NewDataset([]model.Transaction{
		income("2025-05-01", 3000),
		expense("2025-05-05", 800, "Rent"),
		income("2025-06-01", 3000),
		expense("2025-06-02", 100, "Food"),
		expense("2025-06-10", 200, "Food"),
		expense("2025-06-14", 150, "Food"),
	})

	f, err := PredictCashFlow(d, midJune())
	require.NoError(t, err)

	// Pace: 450/15*30 = 900. Historical month sum (both types): 3800.
	// Blend: 0.6*900 + 0.4*3800 = 2060.
	assert.Equal(t, 2060.0, f.PredictedExpenses)
	assert.Equal(t, 3000.0, f.CurrentIncome)
	assert.Equal(t, 940.0, f.PredictedBalance)
	assert.Equal(t, 30.0, f.AvgDailySpend)
}

func TestPredictCashFlowBalanceIdentity(t *testing.T) {
	d := NewDataset([]model.Transaction{
		income("2025-06-01", 3333.33),
		expense("2025-06-02", 123.45, "Food"),
		expense("2025-06-07", 67.89, "Transport"),
		expense("2025-06-11", 250.01, "Shopping"),
		expense("2025-05-20", 900.77, "Rent"),
	})

	f, err := PredictCashFlow(d, midJune())
	require.NoError(t, err)
	assert.Equal(t, round2(f.CurrentIncome-f.PredictedExpenses), f.PredictedBalance)
}

func TestPredictCashFlowConfidenceTiers(t *testing.T) {
	build := func(n int) *Dataset {
		txns := make([]model.Transaction, 0, n)
		for i := 0; i < n; i++ {
			day := i%28 + 1
			txns = append(txns, expense(fmt.Sprintf("2025-06-%02d", day), 10, "Food"))
		}
		return NewDataset(txns)
	}

	tests := []struct {
		n    int
		want string
	}{
		{5, "low"},
		{10, "low"},
		{11, "medium"},
		{30, "medium"},
		{31, "high"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			f, err := PredictCashFlow(build(tt.n), midJune())
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Confidence)
		})
	}
}

func TestPredictCashFlowDeterministic(t *testing.T) {
	d := NewDataset([]model.Transaction{
		income("2025-05-01", 3000),
		expense("2025-05-05", 800, "Rent"),
		income("2025-06-01", 3000),
		expense("2025-06-02", 100, "Food"),
		expense("2025-06-10", 200, "Food"),
	})

	first, err := PredictCashFlow(d, midJune())
	require.NoError(t, err)
	second, err := PredictCashFlow(d, midJune())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPredictLinearCashFlow(t *testing.T) {
	d := NewDataset([]model.Transaction{
		income("2025-04-01", 1000),
		expense("2025-04-10", 100, "Food"),
		income("2025-05-01", 1000),
		expense("2025-05-10", 200, "Food"),
	})

	f, err := PredictLinearCashFlow(d)
	require.NoError(t, err)

	// Expenses 100, 200 fit slope 100; next month predicts 300.
	assert.Equal(t, 300.0, f.PredictedExpenses)
	assert.Equal(t, 1000.0, f.PredictedIncome)
	assert.Equal(t, 700.0, f.PredictedBalance)
	assert.Equal(t, "medium", f.Confidence)
	require.Len(t, f.HistoricalData, 2)
	assert.Equal(t, "2025-04", f.HistoricalData[0].Month)
}

func TestPredictLinearCashFlowInsufficientData(t *testing.T) {
	d := NewDataset([]model.Transaction{
		income("2025-06-01", 1000),
		expense("2025-06-10", 100, "Food"),
	})
	_, err := PredictLinearCashFlow(d)
	require.ErrorIs(t, err, ErrInsufficientData)
}
