package analytics

import (
	"sort"
	"time"

	"github.com/finsight/backend/internal/model"
)

// DashboardStats summarizes the current calendar month.
type DashboardStats struct {
	TotalIncome      float64 `json:"total_income"`
	TotalExpenses    float64 `json:"total_expenses"`
	TransactionCount int     `json:"transaction_count"`
}

// CategoryTotal is one row of the per-category expense breakdown.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// DashboardSummary computes current-month totals and the expense breakdown
// by category, largest first.
func DashboardSummary(d *Dataset, now time.Time) (DashboardStats, []CategoryTotal) {
	var stats DashboardStats
	byCategory := make(map[string]float64)

	for _, t := range d.Transactions {
		if !sameMonth(t.Date, now) {
			continue
		}
		stats.TransactionCount++
		switch t.Type {
		case model.TypeIncome:
			stats.TotalIncome += t.Amount
		case model.TypeExpense:
			stats.TotalExpenses += t.Amount
			byCategory[t.Category] += t.Amount
		}
	}
	stats.TotalIncome = round2(stats.TotalIncome)
	stats.TotalExpenses = round2(stats.TotalExpenses)

	breakdown := make([]CategoryTotal, 0, len(byCategory))
	for category, total := range byCategory {
		breakdown = append(breakdown, CategoryTotal{Category: category, Total: round2(total)})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Total != breakdown[j].Total {
			return breakdown[i].Total > breakdown[j].Total
		}
		return breakdown[i].Category < breakdown[j].Category
	})
	return stats, breakdown
}

// DayPattern is expense activity for one weekday.
type DayPattern struct {
	DayOfWeek        string  `json:"day_of_week"`
	TransactionCount int     `json:"transaction_count"`
	TotalAmount      float64 `json:"total_amount"`
}

// MerchantSummary is aggregate expense activity at one merchant.
type MerchantSummary struct {
	Merchant   string  `json:"merchant"`
	Visits     int     `json:"visits"`
	TotalSpent float64 `json:"total_spent"`
}

// SpendingPatterns reports expense activity per weekday, Monday through
// Sunday, and the top ten merchants by total spend.
func SpendingPatterns(d *Dataset) ([]DayPattern, []MerchantSummary) {
	var counts [7]int
	var totals [7]float64
	merchants := make(map[string]*MerchantSummary)

	for _, t := range d.Transactions {
		if t.Type != model.TypeExpense {
			continue
		}
		wd := t.Date.Weekday()
		counts[wd]++
		totals[wd] += t.Amount

		if t.Merchant == "" {
			continue
		}
		ms, ok := merchants[t.Merchant]
		if !ok {
			ms = &MerchantSummary{Merchant: t.Merchant}
			merchants[t.Merchant] = ms
		}
		ms.Visits++
		ms.TotalSpent += t.Amount
	}

	weekOrder := []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}
	days := make([]DayPattern, 0, len(weekOrder))
	for _, wd := range weekOrder {
		days = append(days, DayPattern{
			DayOfWeek:        wd.String(),
			TransactionCount: counts[wd],
			TotalAmount:      round2(totals[wd]),
		})
	}

	top := make([]MerchantSummary, 0, len(merchants))
	for _, ms := range merchants {
		ms.TotalSpent = round2(ms.TotalSpent)
		top = append(top, *ms)
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].TotalSpent != top[j].TotalSpent {
			return top[i].TotalSpent > top[j].TotalSpent
		}
		return top[i].Merchant < top[j].Merchant
	})
	if len(top) > 10 {
		top = top[:10]
	}
	return days, top
}
