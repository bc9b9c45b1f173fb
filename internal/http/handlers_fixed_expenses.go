package http

import (
	"net/http"
	"time"

	"financas/internal/core"
	"financas/internal/events"
	"financas/internal/store"
)

type fixedExpenseCreateRequest struct {
	Name   string     `json:"nome"`
	Amount core.Money `json:"valor"`
	DueDay int        `json:"data_vencimento"`
	Month  int        `json:"mes"`
	Year   int        `json:"ano"`
}

type fixedExpenseUpdateRequest struct {
	Paid *bool `json:"pago"`
}

func (s *Server) handleCreateFixedExpense(w http.ResponseWriter, r *http.Request) {
	var req fixedExpenseCreateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	created, err := s.store.InsertFixedExpense(r.Context(), core.FixedExpense{
		Name:      req.Name,
		Amount:    req.Amount,
		DueDay:    req.DueDay,
		Paid:      false,
		Month:     req.Month,
		Year:      req.Year,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		writeStoreError(w, r, err, "Fixed expense not found")
		return
	}

	s.publishChange(r.Context(), events.EntityFixedExpense, events.OpCreated, req.Month, req.Year)
	writeJSON(w, http.StatusOK, created)
}

func (s *Server) handleListFixedExpenses(w http.ResponseWriter, r *http.Request) {
	f, ok := queryFilter(w, r)
	if !ok {
		return
	}

	expenses, err := s.store.ListFixedExpenses(r.Context(), f)
	if err != nil {
		writeStoreError(w, r, err, "Fixed expense not found")
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

// handleUpdateFixedExpense flips the paid flag. Nothing else on the record is
// mutable after creation.
func (s *Server) handleUpdateFixedExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}

	var req fixedExpenseUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Paid == nil {
		writeDetail(w, http.StatusUnprocessableEntity, "field 'pago' is required")
		return
	}

	updated, err := s.store.SetFixedExpensePaid(r.Context(), id, *req.Paid)
	if err != nil {
		writeStoreError(w, r, err, "Fixed expense not found")
		return
	}

	s.publishChange(r.Context(), events.EntityFixedExpense, events.OpUpdated, updated.Month, updated.Year)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteFixedExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}

	month, year := s.fixedExpensePeriod(r, id)

	if err := s.store.DeleteFixedExpense(r.Context(), id); err != nil {
		writeStoreError(w, r, err, "Fixed expense not found")
		return
	}

	if month != 0 {
		s.publishChange(r.Context(), events.EntityFixedExpense, events.OpDeleted, month, year)
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Fixed expense deleted successfully"})
}

func (s *Server) fixedExpensePeriod(r *http.Request, id int64) (month, year int) {
	expenses, err := s.store.ListFixedExpenses(r.Context(), store.Filter{})
	if err != nil {
		return 0, 0
	}
	for _, e := range expenses {
		if e.ID == id {
			return e.Month, e.Year
		}
	}
	return 0, 0
}
