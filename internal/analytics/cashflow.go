package analytics

import (
	"time"

	"github.com/finsight/backend/internal/model"
)

// CashFlowForecast projects the end-of-month balance from current-month
// spending pace blended with historical monthly averages.
type CashFlowForecast struct {
	PredictedBalance  float64      `json:"predicted_balance"`
	PredictedExpenses float64      `json:"predicted_expenses"`
	CurrentIncome     float64      `json:"current_income"`
	DaysRemaining     int          `json:"days_remaining"`
	Confidence        string       `json:"confidence"`
	AvgDailySpend     float64      `json:"avg_daily_spend"`
	HistoricalData    []MonthTotal `json:"historical_data,omitempty"`
}

// PredictCashFlow projects the balance at the end of the month containing
// now. Requires at least 5 transactions, else ErrInsufficientData.
//
// Current-month expenses are extrapolated linearly from the days elapsed;
// when any history exists before the current month, the projection is
// blended 60/40 with the historical mean of per-month summed amounts.
func PredictCashFlow(d *Dataset, now time.Time) (*CashFlowForecast, error) {
	if len(d.Transactions) < 5 {
		return nil, ErrInsufficientData
	}

	var income, expenses float64
	for _, t := range d.Transactions {
		if !sameMonth(t.Date, now) {
			continue
		}
		switch t.Type {
		case model.TypeIncome:
			income += t.Amount
		case model.TypeExpense:
			expenses += t.Amount
		}
	}

	daysPassed := now.Day()
	totalDays := daysInMonth(now)

	var avgDailyExpense float64
	if daysPassed > 0 {
		avgDailyExpense = expenses / float64(daysPassed)
	}
	projected := avgDailyExpense * float64(totalDays)

	// Blend with the historical per-month average (both types summed, the
	// pace projection weighted 60%).
	monthStart := startOfMonth(now)
	historical := make(map[string]float64)
	for _, t := range d.Transactions {
		if t.Date.Before(monthStart) {
			historical[monthKey(t.Date)] += t.Amount
		}
	}
	if len(historical) > 0 {
		var sum float64
		for _, v := range historical {
			sum += v
		}
		monthlyAvg := sum / float64(len(historical))
		projected = 0.6*projected + 0.4*monthlyAvg
	}

	confidence := "low"
	switch {
	case len(d.Transactions) > 30:
		confidence = "high"
	case len(d.Transactions) > 10:
		confidence = "medium"
	}

	currentIncome := round2(income)
	predictedExpenses := round2(projected)
	return &CashFlowForecast{
		PredictedBalance:  round2(currentIncome - predictedExpenses),
		PredictedExpenses: predictedExpenses,
		CurrentIncome:     currentIncome,
		DaysRemaining:     totalDays - daysPassed,
		Confidence:        confidence,
		AvgDailySpend:     round2(avgDailyExpense),
	}, nil
}

// LinearCashFlowForecast projects next month's balance from an OLS fit over
// the monthly expense series.
type LinearCashFlowForecast struct {
	PredictedExpenses float64      `json:"predicted_expenses"`
	PredictedIncome   float64      `json:"predicted_income"`
	PredictedBalance  float64      `json:"predicted_balance"`
	Confidence        string       `json:"confidence"`
	HistoricalData    []MonthTotal `json:"historical_data"`
}

// PredictLinearCashFlow fits expenses against month index and predicts the
// next month; income is predicted as the historical mean. Requires at least
// 2 months of data, else ErrInsufficientData.
func PredictLinearCashFlow(d *Dataset) (*LinearCashFlowForecast, error) {
	months := MonthlyTotals(d)
	if len(months) < 2 {
		return nil, ErrInsufficientData
	}

	expenses := make([]float64, len(months))
	incomes := make([]float64, len(months))
	for i, m := range months {
		expenses[i] = m.Expenses
		incomes[i] = m.Income
	}

	slope, intercept := leastSquares(expenses)
	predictedExpenses := round2(slope*float64(len(months)) + intercept)
	predictedIncome := round2(mean(incomes))

	return &LinearCashFlowForecast{
		PredictedExpenses: predictedExpenses,
		PredictedIncome:   predictedIncome,
		PredictedBalance:  round2(predictedIncome - predictedExpenses),
		Confidence:        "medium",
		HistoricalData:    months,
	}, nil
}
