package store

import (
	"context"
	"sort"
	"sync"

	"financas/internal/core"
)

// Memory is an in-process Store used as the default development backend and
// as the fake in tests. A single mutex covers every collection, so the
// delete-then-insert alert replacement is atomic here by construction.
type Memory struct {
	mu     sync.Mutex
	nextID int64

	transactions []core.Transaction
	fixed        []core.FixedExpense
	alerts       []core.AlertConfig
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{nextID: 1}
}

func (m *Memory) allocID() int64 {
	id := m.nextID
	m.nextID++
	return id
}

func (m *Memory) InsertTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = m.allocID()
	m.transactions = append(m.transactions, t)
	return t, nil
}

func (m *Memory) ListTransactions(_ context.Context, f Filter) ([]core.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.Transaction, 0, len(m.transactions))
	for _, t := range m.transactions {
		if f.matches(t.Month, t.Year) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (m *Memory) DeleteTransaction(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.transactions {
		if t.ID == id {
			m.transactions = append(m.transactions[:i], m.transactions[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) InsertFixedExpense(_ context.Context, e core.FixedExpense) (core.FixedExpense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = m.allocID()
	m.fixed = append(m.fixed, e)
	return e, nil
}

func (m *Memory) ListFixedExpenses(_ context.Context, f Filter) ([]core.FixedExpense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.FixedExpense, 0, len(m.fixed))
	for _, e := range m.fixed {
		if f.matches(e.Month, e.Year) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDay < out[j].DueDay
	})
	return out, nil
}

func (m *Memory) SetFixedExpensePaid(_ context.Context, id int64, paid bool) (core.FixedExpense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.fixed {
		if m.fixed[i].ID == id {
			m.fixed[i].Paid = paid
			return m.fixed[i], nil
		}
	}
	return core.FixedExpense{}, ErrNotFound
}

func (m *Memory) DeleteFixedExpense(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.fixed {
		if e.ID == id {
			m.fixed = append(m.fixed[:i], m.fixed[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) ReplaceAlertConfig(_ context.Context, a core.AlertConfig) (core.AlertConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.alerts[:0]
	for _, existing := range m.alerts {
		if existing.Month != a.Month || existing.Year != a.Year {
			kept = append(kept, existing)
		}
	}
	m.alerts = kept
	a.ID = m.allocID()
	m.alerts = append(m.alerts, a)
	return a, nil
}

func (m *Memory) ListAlertConfigs(_ context.Context) ([]core.AlertConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.AlertConfig, len(m.alerts))
	copy(out, m.alerts)
	return out, nil
}

func (m *Memory) FindAlertConfig(_ context.Context, month, year int) (*core.AlertConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.alerts {
		if a.Month == month && a.Year == year {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

func (m *Memory) FindActiveAlertConfig(_ context.Context, month, year int) (*core.AlertConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.alerts {
		if a.Month == month && a.Year == year && a.Active {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

func (m *Memory) Close() error { return nil }
