package service

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/finsight/backend/internal/model"
)

type goalRequest struct {
	Name          string   `json:"goal_name"`
	TargetAmount  *float64 `json:"target_amount"`
	CurrentAmount float64  `json:"current_amount"`
	Deadline      string   `json:"deadline"`
}

func (req *goalRequest) toGoal(uid string) (*model.Goal, string) {
	if req.Name == "" || req.TargetAmount == nil {
		return nil, "missing required fields"
	}
	if *req.TargetAmount <= 0 {
		return nil, "target_amount must be positive"
	}
	if req.CurrentAmount < 0 {
		return nil, "current_amount must be non-negative"
	}
	var deadline *time.Time
	if req.Deadline != "" {
		t, err := model.ParseDate(req.Deadline)
		if err != nil {
			return nil, err.Error()
		}
		deadline = &t
	}
	return &model.Goal{
		UserID:        uid,
		Name:          req.Name,
		TargetAmount:  *req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		Deadline:      deadline,
	}, ""
}

// ListGoals returns the user's savings goals, nearest deadline first.
func (s *FinanceService) ListGoals(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	goals, err := s.store.ListGoals(r.Context(), uid)
	if err != nil {
		s.writeStoreError(w, "list goals", err)
		return
	}
	if goals == nil {
		goals = []model.Goal{}
	}
	writeJSON(w, http.StatusOK, goals)
}

// CreateGoal stores a new savings goal.
func (s *FinanceService) CreateGoal(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	var req goalRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	goal, msg := req.toGoal(uid)
	if goal == nil {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if err := s.store.CreateGoal(r.Context(), goal); err != nil {
		s.writeStoreError(w, "create goal", err)
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

// UpdateGoal replaces an existing goal.
func (s *FinanceService) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	var req goalRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	goal, msg := req.toGoal(uid)
	if goal == nil {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	goal.ID = chi.URLParam(r, "goalID")

	if err := s.store.UpdateGoal(r.Context(), goal); err != nil {
		s.writeStoreError(w, "update goal", err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

// DeleteGoal removes a goal and its contribution history.
func (s *FinanceService) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	if err := s.store.DeleteGoal(r.Context(), uid, chi.URLParam(r, "goalID")); err != nil {
		s.writeStoreError(w, "delete goal", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Goal deleted"})
}

// ContributeToGoal atomically adds an amount to a goal's progress.
func (s *FinanceService) ContributeToGoal(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	var req struct {
		Amount *float64 `json:"amount"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount == nil || *req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	goal, err := s.store.AddGoalContribution(r.Context(), uid, chi.URLParam(r, "goalID"), *req.Amount)
	if err != nil {
		s.writeStoreError(w, "contribute to goal", err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}
