package service

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finsight/backend/internal/model"
)

// ListTransactions returns the user's transactions newest first, optionally
// bounded by start_date / end_date query parameters.
func (s *FinanceService) ListTransactions(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	start, end, err := dateRangeQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txns, err := s.store.ListTransactions(r.Context(), uid, start, end)
	if err != nil {
		s.writeStoreError(w, "list transactions", err)
		return
	}
	if txns == nil {
		txns = []model.Transaction{}
	}
	writeJSON(w, http.StatusOK, txns)
}

// CreateTransaction validates a raw record and stores it. Malformed dates
// or amounts are hard 400 failures, never silently skipped.
func (s *FinanceService) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	var raw model.RawTransaction
	if err := decodeBody(r, &raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	txn, err := s.parseTransaction(uid, raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.CreateTransaction(r.Context(), txn); err != nil {
		s.writeStoreError(w, "create transaction", err)
		return
	}
	writeJSON(w, http.StatusCreated, txn)
}

// UpdateTransaction replaces an existing transaction.
func (s *FinanceService) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	var raw model.RawTransaction
	if err := decodeBody(r, &raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	txn, err := s.parseTransaction(uid, raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	txn.ID = chi.URLParam(r, "transactionID")

	if err := s.store.UpdateTransaction(r.Context(), txn); err != nil {
		s.writeStoreError(w, "update transaction", err)
		return
	}
	writeJSON(w, http.StatusOK, txn)
}

// DeleteTransaction removes a transaction.
func (s *FinanceService) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	if err := s.store.DeleteTransaction(r.Context(), uid, chi.URLParam(r, "transactionID")); err != nil {
		s.writeStoreError(w, "delete transaction", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Transaction deleted"})
}

func (s *FinanceService) parseTransaction(uid string, raw model.RawTransaction) (*model.Transaction, error) {
	if raw.Date == "" || raw.Type == "" || raw.Category == "" || raw.Amount == nil {
		return nil, errors.New("missing required fields")
	}
	date, err := model.ParseDate(raw.Date)
	if err != nil {
		return nil, err
	}
	amount, err := model.ParseAmount(raw.Amount)
	if err != nil {
		return nil, err
	}
	txType, err := model.ParseType(raw.Type)
	if err != nil {
		return nil, err
	}
	return &model.Transaction{
		ID:          raw.ID,
		UserID:      uid,
		Date:        date,
		Amount:      amount,
		Type:        txType,
		Category:    raw.Category,
		Merchant:    raw.Merchant,
		Description: raw.Description,
	}, nil
}
