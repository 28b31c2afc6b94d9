package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/finsight/backend/internal/analytics"
	"github.com/finsight/backend/internal/model"
	"github.com/finsight/backend/internal/store"
)

// userID extracts the authenticated user's ID, injected upstream. An empty
// header means the request never passed the auth layer.
func userID(r *http.Request) (string, bool) {
	uid := r.Header.Get("X-User-ID")
	return uid, uid != ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeStoreError maps store failures to response codes.
func (s *FinanceService) writeStoreError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, op+": not found")
		return
	}
	s.logger.Error(op, "error", err)
	writeError(w, http.StatusInternalServerError, op+" failed")
}

// dataset loads the user's full transaction history as the analytics input.
func (s *FinanceService) dataset(ctx context.Context, uid string) (*analytics.Dataset, error) {
	txns, err := s.store.ListTransactions(ctx, uid, nil, nil)
	if err != nil {
		return nil, err
	}
	return analytics.NewDataset(txns), nil
}

// dateRangeQuery parses optional start_date / end_date query parameters.
func dateRangeQuery(r *http.Request) (start, end *time.Time, err error) {
	if v := r.URL.Query().Get("start_date"); v != "" {
		t, perr := model.ParseDate(v)
		if perr != nil {
			return nil, nil, perr
		}
		start = &t
	}
	if v := r.URL.Query().Get("end_date"); v != "" {
		t, perr := model.ParseDate(v)
		if perr != nil {
			return nil, nil, perr
		}
		end = &t
	}
	return start, end, nil
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
