// Package service exposes the analytics core and the store over HTTP/JSON.
// User identity arrives in the X-User-ID header, placed there by the
// upstream authentication layer; this service scopes every operation to it
// but performs no authentication of its own.
package service

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/finsight/backend/internal/store"
)

// FinanceService wires the store to the HTTP handlers. The evaluation
// clock is injectable so handler tests pin time.
type FinanceService struct {
	store  store.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewFinanceService creates a service over the given store.
func NewFinanceService(st store.Store, logger *slog.Logger) *FinanceService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FinanceService{
		store:  st,
		logger: logger,
		now:    time.Now,
	}
}

// Routes builds the API router.
func (s *FinanceService) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", s.ListTransactions)
			r.Post("/", s.CreateTransaction)
			r.Put("/{transactionID}", s.UpdateTransaction)
			r.Delete("/{transactionID}", s.DeleteTransaction)
		})

		r.Route("/budgets", func(r chi.Router) {
			r.Get("/", s.ListBudgets)
			r.Post("/", s.CreateBudget)
			r.Put("/{budgetID}", s.UpdateBudget)
			r.Delete("/{budgetID}", s.DeleteBudget)
		})

		r.Route("/goals", func(r chi.Router) {
			r.Get("/", s.ListGoals)
			r.Post("/", s.CreateGoal)
			r.Put("/{goalID}", s.UpdateGoal)
			r.Delete("/{goalID}", s.DeleteGoal)
			r.Post("/{goalID}/contribute", s.ContributeToGoal)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/dashboard", s.GetDashboard)
			r.Get("/monthly-trend", s.GetMonthlyTrend)
		})

		r.Get("/insights/spending-patterns", s.GetSpendingPatterns)

		r.Route("/predictions", func(r chi.Router) {
			r.Get("/cashflow", s.PredictCashFlowLinear)
			r.Get("/cashflow-advanced", s.PredictCashFlowAdvanced)
			r.Get("/budget-risk", s.PredictBudgetRisk)
			r.Get("/goal-timeline/{goalID}", s.PredictGoalTimeline)
			r.Get("/category/{category}", s.PredictCategorySpending)
			r.Get("/anomalies", s.DetectAnomalies)
			r.Get("/subscriptions", s.DetectSubscriptions)
			r.Get("/spending-insights", s.GetSpendingInsights)
		})
	})

	return r
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *FinanceService) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
