package analytics

import (
	"math"

	"github.com/finsight/backend/internal/model"
)

// CategoryForecast predicts next month's spend in one category with a
// dispersion-based confidence band.
type CategoryForecast struct {
	PredictedAmount float64 `json:"predicted_amount"`
	LowerBound      float64 `json:"lower_bound"`
	UpperBound      float64 `json:"upper_bound"`
	AvgHistorical   float64 `json:"avg_historical"`
	Trend           string  `json:"trend"`
}

// PredictCategorySpending fits an OLS trend over the category's monthly
// expense totals and predicts the next month. Requires at least 3 distinct
// months of category data, else ErrInsufficientData.
func PredictCategorySpending(d *Dataset, category string) (*CategoryForecast, error) {
	series := monthlyExpenseSeries(d, func(t model.Transaction) bool {
		return t.Category == category
	})
	if len(series) < 3 {
		return nil, ErrInsufficientData
	}

	slope, intercept := leastSquares(series)
	prediction := slope*float64(len(series)) + intercept
	stdDev := sampleStdDev(series)

	trend := "decreasing"
	if slope > 0 {
		trend = "increasing"
	}

	return &CategoryForecast{
		PredictedAmount: round2(math.Max(0, prediction)),
		LowerBound:      round2(math.Max(0, prediction-stdDev)),
		UpperBound:      round2(prediction + stdDev),
		AvgHistorical:   round2(mean(series)),
		Trend:           trend,
	}, nil
}
