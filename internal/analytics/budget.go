package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/finsight/backend/internal/model"
)

// BudgetRisk is one at-risk category: its current-month spend extrapolated
// linearly past the configured limit.
type BudgetRisk struct {
	Category         string  `json:"category"`
	BudgetLimit      float64 `json:"budget_limit"`
	CurrentSpent     float64 `json:"current_spent"`
	ProjectedTotal   float64 `json:"projected_total"`
	OverrunAmount    float64 `json:"overrun_amount"`
	RiskLevel        string  `json:"risk_level"`
	DaysUntilOverrun int     `json:"days_until_overrun"`
}

// PredictBudgetOverrun extrapolates each budgeted category's current-month
// spend to month end and reports those projected past their limit, sorted
// by descending overrun. Categories with no spend this month contribute
// zero and are simply never at risk. The daily-rate extrapolation is
// deliberately unsmoothed: a single large early-month purchase projects
// large, matching the pace model used throughout.
func PredictBudgetOverrun(d *Dataset, limits map[string]float64, now time.Time) []BudgetRisk {
	currentDay := now.Day()
	totalDays := daysInMonth(now)

	spent := make(map[string]float64)
	for _, t := range d.Transactions {
		if t.Type != model.TypeExpense || !sameMonth(t.Date, now) {
			continue
		}
		spent[t.Category] += t.Amount
	}

	var atRisk []BudgetRisk
	for category, limit := range limits {
		catSpent := spent[category]

		var dailyRate float64
		if currentDay > 0 {
			dailyRate = catSpent / float64(currentDay)
		}
		projected := dailyRate * float64(totalDays)
		if projected <= limit {
			continue
		}

		riskLevel := "medium"
		if projected > limit*1.2 {
			riskLevel = "high"
		}

		daysUntilOverrun := totalDays - currentDay
		if dailyRate > 0 {
			daysUntilOverrun = int(math.Max(0, math.Floor((limit-catSpent)/dailyRate)))
		}

		atRisk = append(atRisk, BudgetRisk{
			Category:         category,
			BudgetLimit:      limit,
			CurrentSpent:     round2(catSpent),
			ProjectedTotal:   round2(projected),
			OverrunAmount:    round2(projected - limit),
			RiskLevel:        riskLevel,
			DaysUntilOverrun: daysUntilOverrun,
		})
	}

	sort.Slice(atRisk, func(i, j int) bool {
		if atRisk[i].OverrunAmount != atRisk[j].OverrunAmount {
			return atRisk[i].OverrunAmount > atRisk[j].OverrunAmount
		}
		return atRisk[i].Category < atRisk[j].Category
	})
	return atRisk
}
