package service

import (
	"net/http"

	"github.com/finsight/backend/internal/analytics"
)

// GetDashboard returns the current month's headline stats plus a category
// breakdown of its expenses.
func (s *FinanceService) GetDashboard(w http.ResponseWriter, r *http.Request) {
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

	stats, breakdown := analytics.DashboardSummary(d, s.now())
	if breakdown == nil {
		breakdown = []analytics.CategoryTotal{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"monthly_stats":      stats,
		"category_breakdown": breakdown,
	})
}

// GetMonthlyTrend returns per-month income and expense totals, oldest first.
func (s *FinanceService) GetMonthlyTrend(w http.ResponseWriter, r *http.Request) {
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

	trend := analytics.MonthlyTotals(d)
	if trend == nil {
		trend = []analytics.MonthTotal{}
	}
	writeJSON(w, http.StatusOK, trend)
}

// GetSpendingPatterns returns day-of-week spending rows and the top
// merchants by total spend.
func (s *FinanceService) GetSpendingPatterns(w http.ResponseWriter, r *http.Request) {
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

	days, merchants := analytics.SpendingPatterns(d)
	if merchants == nil {
		merchants = []analytics.MerchantSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"day_patterns":  days,
		"top_merchants": merchants,
	})
}
