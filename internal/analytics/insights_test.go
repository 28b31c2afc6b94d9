package analytics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/backend/internal/model"
)

// June 2025: the 1st is a Sunday, the 2nd a Monday, the 7th a Saturday.

func TestGenerateSpendingInsightsTopDayAndWeekend(t *testing.T) {
	d := NewDataset([]model.Transaction{
		expense("2025-06-07", 100, "Food"), // Saturday
		expense("2025-06-01", 100, "Food"), // Sunday
		expense("2025-06-02", 50, "Food"),  // Monday
		expense("2025-06-03", 50, "Food"),  // Tuesday
		expense("2025-06-09", 250, "Food"), // Monday
	})

	insights := GenerateSpendingInsights(d)

	assert.Equal(t, "Monday", insights.TopSpendingDay)
	assert.Equal(t, 100.0, insights.WeekendVsWeekday.WeekendAvg)
	// Weekday expenses: 50, 50, 250 average to ~116.67.
	assert.InDelta(t, 116.67, insights.WeekendVsWeekday.WeekdayAvg, 0.001)
	assert.InDelta(t, -14.3, insights.WeekendVsWeekday.DifferencePct, 0.001)
}

func TestGenerateSpendingInsightsMonthlyTrend(t *testing.T) {
	base := []model.Transaction{
		expense("2025-03-10", 100, "Food"),
		expense("2025-04-10", 100, "Food"),
	}

	tests := []struct {
		name string
		last model.Transaction
		want string
	}{
		{"increasing", expense("2025-05-10", 150, "Food"), "increasing"},
		{"decreasing", expense("2025-05-10", 50, "Food"), "decreasing"},
		{"stable", expense("2025-05-10", 105, "Food"), "stable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDataset(append(append([]model.Transaction{}, base...), tt.last))
			assert.Equal(t, tt.want, GenerateSpendingInsights(d).MonthlyTrend)
		})
	}
}

func TestGenerateSpendingInsightsSingleMonthTrend(t *testing.T) {
	d := NewDataset([]model.Transaction{
		expense("2025-06-01", 100, "Food"),
		expense("2025-06-15", 200, "Food"),
	})
	assert.Equal(t, "insufficient_data", GenerateSpendingInsights(d).MonthlyTrend)
}

func TestGenerateSpendingInsightsConcentration(t *testing.T) {
	t.Run("highly concentrated", func(t *testing.T) {
		d := NewDataset([]model.Transaction{
			expense("2025-06-01", 1900, "Rent"),
			expense("2025-06-02", 100, "Food"),
		})
		assert.Equal(t, "highly_concentrated", GenerateSpendingInsights(d).CategoryConcentration)
	})

	t.Run("diversified", func(t *testing.T) {
		var txns []model.Transaction
		for i, cat := range []string{"Food", "Rent", "Transport", "Utilities", "Health", "Travel", "Pets", "Gifts", "Books", "Music"} {
			txns = append(txns, expense(fmt.Sprintf("2025-06-%02d", i+1), 100, cat))
		}
		assert.Equal(t, "diversified", GenerateSpendingInsights(NewDataset(txns)).CategoryConcentration)
	})

	t.Run("no expenses", func(t *testing.T) {
		d := NewDataset([]model.Transaction{income("2025-06-01", 3000)})
		assert.Equal(t, "diversified", GenerateSpendingInsights(d).CategoryConcentration)
	})
}

func TestGenerateSpendingInsightsImpulseScore(t *testing.T) {
	var txns []model.Transaction
	// Six small non-essential purchases out of twelve expenses.
	for i := 0; i < 6; i++ {
		txns = append(txns, expense(fmt.Sprintf("2025-06-%02d", i+1), 20, "Entertainment"))
	}
	for i := 0; i < 6; i++ {
		txns = append(txns, expense(fmt.Sprintf("2025-06-%02d", i+10), 1000, "Rent"))
	}

	insights := GenerateSpendingInsights(NewDataset(txns))
	assert.Equal(t, 50.0, insights.ImpulseSpendingScore)
}

func TestGenerateSpendingInsightsImpulseScoreNeedsVolume(t *testing.T) {
	var txns []model.Transaction
	for i := 0; i < 9; i++ {
		txns = append(txns, expense(fmt.Sprintf("2025-06-%02d", i+1), 20, "Shopping"))
	}

	// Fewer than ten expense transactions: score pinned to zero.
	assert.Equal(t, 0.0, GenerateSpendingInsights(NewDataset(txns)).ImpulseSpendingScore)
}

func TestGenerateSpendingInsightsLargePurchasesNotImpulse(t *testing.T) {
	var txns []model.Transaction
	for i := 0; i < 12; i++ {
		txns = append(txns, expense(fmt.Sprintf("2025-06-%02d", i+1), 500, "Shopping"))
	}

	// Non-essential category but above the small-purchase cutoff.
	assert.Equal(t, 0.0, GenerateSpendingInsights(NewDataset(txns)).ImpulseSpendingScore)
}

func TestGenerateSpendingInsightsDeterministic(t *testing.T) {
	var txns []model.Transaction
	for i := 0; i < 20; i++ {
		txns = append(txns, expense(fmt.Sprintf("2025-06-%02d", i+1), float64(10+i), fmt.Sprintf("Cat%d", i%5)))
	}
	d := NewDataset(txns)

	first := GenerateSpendingInsights(d)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, GenerateSpendingInsights(d))
	}
}
