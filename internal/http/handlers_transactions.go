package http

import (
	"net/http"
	"time"

	"financas/internal/core"
	"financas/internal/events"
	"financas/internal/store"
)

type transactionCreateRequest struct {
	Kind        core.Kind  `json:"tipo"`
	Amount      core.Money `json:"valor"`
	Description string     `json:"descricao"`
	Date        *time.Time `json:"data"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionCreateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	// The timestamp defaults to now; the aggregation period is locked to it.
	date := time.Now().UTC()
	if req.Date != nil {
		date = req.Date.UTC()
	}
	month, year := core.PeriodOf(date)

	created, err := s.store.InsertTransaction(r.Context(), core.Transaction{
		Kind:        req.Kind,
		Amount:      req.Amount,
		Description: req.Description,
		Date:        date,
		Month:       month,
		Year:        year,
	})
	if err != nil {
		writeStoreError(w, r, err, "Transaction not found")
		return
	}

	s.publishChange(r.Context(), events.EntityTransaction, events.OpCreated, month, year)
	writeJSON(w, http.StatusOK, created)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	f, ok := queryFilter(w, r)
	if !ok {
		return
	}

	txs, err := s.store.ListTransactions(r.Context(), f)
	if err != nil {
		writeStoreError(w, r, err, "Transaction not found")
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}

	// The period is looked up before deleting so the change event can name it.
	month, year := s.transactionPeriod(r, id)

	if err := s.store.DeleteTransaction(r.Context(), id); err != nil {
		writeStoreError(w, r, err, "Transaction not found")
		return
	}

	if month != 0 {
		s.publishChange(r.Context(), events.EntityTransaction, events.OpDeleted, month, year)
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Transaction deleted successfully"})
}

// transactionPeriod finds the (month, year) a transaction belongs to, or
// zeros when the record cannot be read. Lookup failures are not fatal here:
// the delete itself reports the authoritative error.
func (s *Server) transactionPeriod(r *http.Request, id int64) (month, year int) {
	txs, err := s.store.ListTransactions(r.Context(), store.Filter{})
	if err != nil {
		return 0, 0
	}
	for _, t := range txs {
		if t.ID == id {
			return t.Month, t.Year
		}
	}
	return 0, 0
}
