package service

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/finsight/backend/internal/analytics"
	"github.com/finsight/backend/internal/model"
	"github.com/finsight/backend/internal/store"
)

// PredictCashFlowLinear fits a regression over the last six months of
// expenses and extrapolates one month ahead.
func (s *FinanceService) PredictCashFlowLinear(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	start := s.now().AddDate(0, -6, 0)
	txns, err := s.store.ListTransactions(r.Context(), uid, &start, nil)
	if err != nil {
		s.writeStoreError(w, "load transactions", err)
		return
	}

	forecast, err := analytics.PredictLinearCashFlow(analytics.NewDataset(txns))
	if err != nil {
		if errors.Is(err, analytics.ErrInsufficientData) {
			writeError(w, http.StatusBadRequest, "Insufficient data for prediction")
			return
		}
		s.writeStoreError(w, "cash flow prediction", err)
		return
	}
	writeJSON(w, http.StatusOK, forecast)
}

// PredictCashFlowAdvanced blends current-month pace with historical monthly
// averages. Too little history degrades to a low-confidence empty forecast
// rather than an error.
func (s *FinanceService) PredictCashFlowAdvanced(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	d, err := s.dataset(r.Context(), uid)
	if err != nil {
		s.writeStoreError(w, "load transactions", err)
		return
	}

	forecast, err := analytics.PredictCashFlow(d, s.now())
	if err != nil {
		if errors.Is(err, analytics.ErrInsufficientData) {
			writeJSON(w, http.StatusOK, map[string]any{
				"confidence":      "low",
				"message":         "Insufficient data",
				"historical_data": []analytics.MonthTotal{},
			})
			return
		}
		s.writeStoreError(w, "cash flow prediction", err)
		return
	}
	forecast.HistoricalData = analytics.MonthlyTotals(d)
	writeJSON(w, http.StatusOK, forecast)
}

// PredictBudgetRisk projects each budgeted category's month-end spend from
// its current daily pace and reports the ones on track to overrun.
func (s *FinanceService) PredictBudgetRisk(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	var (
		budgets []model.Budget
		txns    []model.Transaction
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		budgets, err = s.store.ListBudgets(ctx, uid)
		return err
	})
	g.Go(func() error {
		var err error
		txns, err = s.store.ListTransactions(ctx, uid, nil, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		s.writeStoreError(w, "load budget risk inputs", err)
		return
	}

	if len(budgets) == 0 {
		writeJSON(w, http.StatusOK, []analytics.BudgetRisk{})
		return
	}

	limits := make(map[string]float64, len(budgets))
	for _, b := range budgets {
		limits[b.Category] = b.LimitAmount
	}

	risks := analytics.PredictBudgetOverrun(analytics.NewDataset(txns), limits, s.now())
	if risks == nil {
		risks = []analytics.BudgetRisk{}
	}
	writeJSON(w, http.StatusOK, risks)
}

// PredictGoalTimeline estimates when a savings goal completes given average
// income and expenses over the most recent months.
func (s *FinanceService) PredictGoalTimeline(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}
	goalID := chi.URLParam(r, "goalID")

	var (
		goal *model.Goal
		txns []model.Transaction
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		goal, err = s.store.GetGoal(ctx, uid, goalID)
		return err
	})
	g.Go(func() error {
		var err error
		txns, err = s.store.ListTransactions(ctx, uid, nil, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "goal not found")
			return
		}
		s.writeStoreError(w, "load goal timeline inputs", err)
		return
	}

	months := analytics.MonthlyTotals(analytics.NewDataset(txns))
	if len(months) == 0 {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "insufficient_data",
			"message": "Not enough transaction history",
		})
		return
	}

	// Average the last three months, or as many as exist.
	recent := months
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}
	var income, expenses float64
	for _, m := range recent {
		income += m.Income
		expenses += m.Expenses
	}
	income /= float64(len(recent))
	expenses /= float64(len(recent))

	timeline := analytics.CalculateGoalTimeline(goal.CurrentAmount, goal.TargetAmount, income, expenses)
	writeJSON(w, http.StatusOK, timeline)
}

// PredictCategorySpending forecasts next month's spend in one category.
func (s *FinanceService) PredictCategorySpending(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	d, err := s.dataset(r.Context(), uid)
	if err != nil {
		s.writeStoreError(w, "load transactions", err)
		return
	}

	forecast, err := analytics.PredictCategorySpending(d, chi.URLParam(r, "category"))
	if err != nil {
		if errors.Is(err, analytics.ErrInsufficientData) {
			writeJSON(w, http.StatusOK, map[string]string{
				"error": "Insufficient data for category prediction",
			})
			return
		}
		s.writeStoreError(w, "category prediction", err)
		return
	}
	writeJSON(w, http.StatusOK, forecast)
}

// DetectAnomalies flags transactions far outside their category's usual
// range. An optional threshold query parameter overrides the default
// z-score cutoff.
func (s *FinanceService) DetectAnomalies(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	threshold := analytics.DefaultAnomalyThreshold
	if v := r.URL.Query().Get("threshold"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "threshold must be a positive number")
			return
		}
		threshold = parsed
	}

	d, err := s.dataset(r.Context(), uid)
	if err != nil {
		s.writeStoreError(w, "load transactions", err)
		return
	}

	anomalies := analytics.DetectAnomalies(d, threshold)
	if anomalies == nil {
		anomalies = []analytics.Anomaly{}
	}
	writeJSON(w, http.StatusOK, anomalies)
}

// DetectSubscriptions reports recurring same-merchant, same-amount charges
// still active within the last sixty days.
func (s *FinanceService) DetectSubscriptions(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	d, err := s.dataset(r.Context(), uid)
	if err != nil {
		s.writeStoreError(w, "load transactions", err)
		return
	}

	subs := analytics.DetectSubscriptions(d, s.now())
	if subs == nil {
		subs = []analytics.Subscription{}
	}
	writeJSON(w, http.StatusOK, subs)
}

// GetSpendingInsights returns the composite behavioral report. A user with
// no history gets the neutral empty report.
func (s *FinanceService) GetSpendingInsights(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	d, err := s.dataset(r.Context(), uid)
	if err != nil {
		s.writeStoreError(w, "load transactions", err)
		return
	}

	if len(d.Transactions) == 0 {
		writeJSON(w, http.StatusOK, &analytics.SpendingInsights{
			TopSpendingDay:        "",
			MonthlyTrend:          "insufficient_data",
			CategoryConcentration: "diversified",
		})
		return
	}
	writeJSON(w, http.StatusOK, analytics.GenerateSpendingInsights(d))
}
