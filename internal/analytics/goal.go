package analytics

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// GoalStatus literals returned by CalculateGoalTimeline.
const (
	GoalAchieved   = "achieved"
	GoalImpossible = "impossible"
	GoalAchievable = "achievable"
)

// Timeline is one savings scenario: months to goal at a fixed monthly rate.
type Timeline struct {
	Months         float64 `json:"months"`
	MonthlySavings float64 `json:"monthly_savings"`
}

// GoalTimeline reports whether and when a savings goal completes under
// conservative (70% of surplus) and aggressive (90%) saving rates.
type GoalTimeline struct {
	Status               string    `json:"status"`
	Message              string    `json:"message,omitempty"`
	Recommendation       string    `json:"recommendation,omitempty"`
	RemainingAmount      float64   `json:"remaining_amount,omitempty"`
	ConservativeTimeline *Timeline `json:"conservative_timeline,omitempty"`
	AggressiveTimeline   *Timeline `json:"aggressive_timeline,omitempty"`
}

var goalPrinter = message.NewPrinter(language.English)

// CalculateGoalTimeline is deterministic arithmetic over four decimals:
// current savings, target, and average monthly income and expenses.
func CalculateGoalTimeline(currentAmount, targetAmount, monthlyIncome, monthlyExpenses float64) *GoalTimeline {
	remaining := targetAmount - currentAmount
	if remaining <= 0 {
		return &GoalTimeline{
			Status:  GoalAchieved,
			Message: "Goal already reached!",
		}
	}

	surplus := monthlyIncome - monthlyExpenses
	if surplus <= 0 {
		return &GoalTimeline{
			Status:         GoalImpossible,
			Message:        "Current spending exceeds income. Reduce expenses first.",
			Recommendation: goalPrinter.Sprintf("Cut expenses by at least %.2f", round2(math.Abs(surplus)+100)),
		}
	}

	conservativeMonthly := surplus * 0.7
	aggressiveMonthly := surplus * 0.9

	return &GoalTimeline{
		Status:          GoalAchievable,
		RemainingAmount: round2(remaining),
		ConservativeTimeline: &Timeline{
			Months:         round1(remaining / conservativeMonthly),
			MonthlySavings: round2(conservativeMonthly),
		},
		AggressiveTimeline: &Timeline{
			Months:         round1(remaining / aggressiveMonthly),
			MonthlySavings: round2(aggressiveMonthly),
		},
		Recommendation: goalPrinter.Sprintf("Save %.2f per month for comfortable progress", round2(conservativeMonthly)),
	}
}
