package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/finsight/backend/internal/model"
)

// DefaultAnomalyThreshold is the z-score above which a transaction is
// flagged when the caller does not supply its own.
const DefaultAnomalyThreshold = 2.5

// Anomaly is a single flagged transaction whose amount deviates from its
// category's typical distribution.
type Anomaly struct {
	TransactionID string  `json:"transaction_id"`
	Date          string  `json:"date"`
	Category      string  `json:"category"`
	Amount        float64 `json:"amount"`
	ExpectedRange string  `json:"expected_range"`
	Severity      string  `json:"severity"`
}

// DetectAnomalies flags expense transactions whose |z-score| within their
// category exceeds threshold. Categories need at least 3 transactions and
// nonzero variance to participate; datasets under 10 transactions produce
// no anomalies at all.
func DetectAnomalies(d *Dataset, threshold float64) []Anomaly {
	if len(d.Transactions) < 10 {
		return nil
	}

	byCategory := make(map[string][]model.Transaction)
	for _, t := range d.Transactions {
		if t.Type != model.TypeExpense {
			continue
		}
		byCategory[t.Category] = append(byCategory[t.Category], t)
	}

	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var anomalies []Anomaly
	for _, category := range categories {
		txns := byCategory[category]
		if len(txns) < 3 {
			continue
		}

		amounts := make([]float64, len(txns))
		for i, t := range txns {
			amounts[i] = t.Amount
		}
		m := mean(amounts)
		stdDev := sampleStdDev(amounts)
		if stdDev == 0 {
			// All amounts equal; nothing can be anomalous.
			continue
		}

		for _, t := range txns {
			z := (t.Amount - m) / stdDev
			if math.Abs(z) <= threshold {
				continue
			}
			severity := "medium"
			if math.Abs(z) > 3 {
				severity = "high"
			}
			anomalies = append(anomalies, Anomaly{
				TransactionID: t.ID,
				Date:          t.Date.Format("2006-01-02"),
				Category:      category,
				Amount:        t.Amount,
				ExpectedRange: fmt.Sprintf("%.2f - %.2f", round2(m-stdDev), round2(m+stdDev)),
				Severity:      severity,
			})
		}
	}
	return anomalies
}
