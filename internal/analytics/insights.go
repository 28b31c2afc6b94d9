package analytics

import (
	"time"

	"github.com/finsight/backend/internal/model"
)

// impulseCategories is the fixed set of non-essential categories counted by
// the impulse score, together with the small-purchase cutoff.
var impulseCategories = map[string]bool{
	"Entertainment": true,
	"Shopping":      true,
	"Food & Dining": true,
}

const impulseAmountCutoff = 50

// WeekendComparison contrasts mean expense size on weekends vs weekdays.
type WeekendComparison struct {
	WeekendAvg    float64 `json:"weekend_avg"`
	WeekdayAvg    float64 `json:"weekday_avg"`
	DifferencePct float64 `json:"difference_pct"`
}

// SpendingInsights is the composite behavioral report.
type SpendingInsights struct {
	TopSpendingDay        string            `json:"top_spending_day"`
	WeekendVsWeekday      WeekendComparison `json:"weekend_vs_weekday"`
	MonthlyTrend          string            `json:"monthly_trend"`
	CategoryConcentration string            `json:"category_concentration"`
	ImpulseSpendingScore  float64           `json:"impulse_spending_score"`
}

// GenerateSpendingInsights composes the four sub-analyses plus the top
// spending weekday into one report.
func GenerateSpendingInsights(d *Dataset) *SpendingInsights {
	return &SpendingInsights{
		TopSpendingDay:        topSpendingDay(d),
		WeekendVsWeekday:      weekendAnalysis(d),
		MonthlyTrend:          monthlyTrend(d),
		CategoryConcentration: categoryConcentration(d),
		ImpulseSpendingScore:  impulseScore(d),
	}
}

// topSpendingDay sums all transaction amounts, both types, per weekday and
// returns the busiest weekday's name. Ties resolve to the earlier weekday,
// Sunday first.
func topSpendingDay(d *Dataset) string {
	var totals [7]float64
	for _, t := range d.Transactions {
		totals[t.Date.Weekday()] += t.Amount
	}
	best := time.Sunday
	for day := time.Monday; day <= time.Saturday; day++ {
		if totals[day] > totals[best] {
			best = day
		}
	}
	return best.String()
}

func weekendAnalysis(d *Dataset) WeekendComparison {
	var weekendSum, weekdaySum float64
	var weekendN, weekdayN int
	for _, t := range d.Transactions {
		if t.Type != model.TypeExpense {
			continue
		}
		if wd := t.Date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekendSum += t.Amount
			weekendN++
		} else {
			weekdaySum += t.Amount
			weekdayN++
		}
	}

	var weekendAvg, weekdayAvg float64
	if weekendN > 0 {
		weekendAvg = weekendSum / float64(weekendN)
	}
	if weekdayN > 0 {
		weekdayAvg = weekdaySum / float64(weekdayN)
	}

	var differencePct float64
	if weekdayAvg > 0 {
		differencePct = round1((weekendAvg/weekdayAvg - 1) * 100)
	}
	return WeekendComparison{
		WeekendAvg:    round2(weekendAvg),
		WeekdayAvg:    round2(weekdayAvg),
		DifferencePct: differencePct,
	}
}

// monthlyTrend compares the latest month's expense total to the mean of all
// prior months; swings beyond ±10% classify as increasing or decreasing.
func monthlyTrend(d *Dataset) string {
	series := monthlyExpenseSeries(d, nil)
	if len(series) < 2 {
		return "insufficient_data"
	}

	lastMonth := series[len(series)-1]
	avgPrevious := mean(series[:len(series)-1])

	var change float64
	if avgPrevious > 0 {
		change = (lastMonth/avgPrevious - 1) * 100
	}
	switch {
	case change > 10:
		return "increasing"
	case change < -10:
		return "decreasing"
	default:
		return "stable"
	}
}

// categoryConcentration computes the Herfindahl index over category expense
// shares and buckets it.
func categoryConcentration(d *Dataset) string {
	byCategory := make(map[string]float64)
	var total float64
	for _, t := range d.Transactions {
		if t.Type != model.TypeExpense {
			continue
		}
		byCategory[t.Category] += t.Amount
		total += t.Amount
	}
	if total == 0 {
		return "diversified"
	}

	var hhi float64
	for _, amount := range byCategory {
		share := amount / total
		hhi += share * share
	}
	hhi *= 100

	switch {
	case hhi > 25:
		return "highly_concentrated"
	case hhi > 15:
		return "moderately_concentrated"
	default:
		return "diversified"
	}
}

// impulseScore is the share of expense transactions that are small
// purchases in non-essential categories; zero below 10 expense
// transactions.
func impulseScore(d *Dataset) float64 {
	var expenses, impulse int
	for _, t := range d.Transactions {
		if t.Type != model.TypeExpense {
			continue
		}
		expenses++
		if impulseCategories[t.Category] && t.Amount < impulseAmountCutoff {
			impulse++
		}
	}
	if expenses < 10 {
		return 0
	}
	return round1(float64(impulse) / float64(expenses) * 100)
}
