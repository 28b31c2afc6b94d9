package service

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finsight/backend/internal/model"
)

type budgetRequest struct {
	Category    string   `json:"category"`
	LimitAmount *float64 `json:"limit_amount"`
}

func (req *budgetRequest) validate() (string, bool) {
	if req.Category == "" || req.LimitAmount == nil {
		return "missing required fields", false
	}
	if *req.LimitAmount < 0 {
		return "limit_amount must be non-negative", false
	}
	return "", true
}

// ListBudgets returns the user's budgets ordered by category.
func (s *FinanceService) ListBudgets(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	budgets, err := s.store.ListBudgets(r.Context(), uid)
	if err != nil {
		s.writeStoreError(w, "list budgets", err)
		return
	}
	if budgets == nil {
		budgets = []model.Budget{}
	}
	writeJSON(w, http.StatusOK, budgets)
}

// CreateBudget stores a per-category limit.
func (s *FinanceService) CreateBudget(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	var req budgetRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg, ok := req.validate(); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	budget := &model.Budget{
		UserID:      uid,
		Category:    req.Category,
		LimitAmount: *req.LimitAmount,
	}
	if err := s.store.CreateBudget(r.Context(), budget); err != nil {
		s.writeStoreError(w, "create budget", err)
		return
	}
	writeJSON(w, http.StatusCreated, budget)
}

// UpdateBudget replaces a budget's category and limit.
func (s *FinanceService) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	var req budgetRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg, ok := req.validate(); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	budget := &model.Budget{
		ID:          chi.URLParam(r, "budgetID"),
		UserID:      uid,
		Category:    req.Category,
		LimitAmount: *req.LimitAmount,
	}
	if err := s.store.UpdateBudget(r.Context(), budget); err != nil {
		s.writeStoreError(w, "update budget", err)
		return
	}
	writeJSON(w, http.StatusOK, budget)
}

// DeleteBudget removes a budget.
func (s *FinanceService) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	if err := s.store.DeleteBudget(r.Context(), uid, chi.URLParam(r, "budgetID")); err != nil {
		s.writeStoreError(w, "delete budget", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Budget deleted"})
}
