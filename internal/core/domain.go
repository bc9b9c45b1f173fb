package core

import (
	"time"
)

const (
	// Transaction kinds as they travel on the wire.
	KindIncome  Kind = "receita"
	KindExpense Kind = "despesa"
)

type (
	Kind string

	// Transaction is an ad hoc income or expense entry. Month and Year are
	// derived from Date when the transaction is created and never change
	// afterwards, even though Date itself is stored alongside them.
	Transaction struct {
		ID          int64     `json:"id"`
		Kind        Kind      `json:"tipo"`
		Amount      Money     `json:"valor"`
		Description string    `json:"descricao"`
		Date        time.Time `json:"data"`
		Month       int       `json:"mes"`
		Year        int       `json:"ano"`
	}

	// FixedExpense is a recurring obligation tracked per period. Unlike
	// Transaction, its Month and Year are explicit input fields and may
	// disagree with whatever period DueDay would imply.
	FixedExpense struct {
		ID        int64     `json:"id"`
		Name      string    `json:"nome"`
		Amount    Money     `json:"valor"`
		DueDay    int       `json:"data_vencimento"`
		Paid      bool      `json:"pago"`
		Month     int       `json:"mes"`
		Year      int       `json:"ano"`
		CreatedAt time.Time `json:"created_at"`
	}

	// AlertConfig is the spending limit policy for one period. At most one
	// config is active per (month, year); creating a new one replaces every
	// existing config for that period.
	AlertConfig struct {
		ID           int64 `json:"id"`
		MonthlyLimit Money `json:"limite_mensal"`
		Month        int   `json:"mes"`
		Year         int   `json:"ano"`
		Active       bool  `json:"ativo"`
	}

	// MonthlyReport is the derived financial summary for one period. It is
	// never persisted; every field is a pure function of the stored records.
	MonthlyReport struct {
		Month                int            `json:"mes"`
		Year                 int            `json:"ano"`
		TotalIncome          Money          `json:"total_receitas"`
		TotalVariableExpense Money          `json:"total_despesas"`
		Balance              Money          `json:"saldo"`
		Transactions         []Transaction  `json:"transacoes"`
		FixedExpenses        []FixedExpense `json:"despesas_fixas"`
		TotalFixedExpense    Money          `json:"total_despesas_fixas"`
		FixedPaid            Money          `json:"despesas_fixas_pagas"`
		FixedPending         Money          `json:"despesas_fixas_pendentes"`
		LimitExceeded        bool           `json:"limite_excedido"`
		ConfiguredLimit      *Money         `json:"limite_configurado"`
	}

	// MonthSummary is the dashboard projection of a MonthlyReport.
	MonthSummary struct {
		Month           int   `json:"mes"`
		Income          Money `json:"receitas"`
		TotalExpense    Money `json:"despesas"`
		VariableExpense Money `json:"despesas_variaveis"`
		FixedExpense    Money `json:"despesas_fixas"`
		Balance         Money `json:"saldo"`
	}

	// YearDashboard holds exactly twelve MonthSummary entries, one per
	// calendar month, zero-filled for months without data.
	YearDashboard struct {
		Year   int            `json:"ano"`
		Months []MonthSummary `json:"dados_mensais"`
	}
)

// PeriodOf extracts the (month, year) aggregation key from a timestamp.
func PeriodOf(t time.Time) (month, year int) {
	return int(t.Month()), t.Year()
}

// IsIncome reports whether the transaction adds to the period's income.
func (t Transaction) IsIncome() bool {
	return t.Kind == KindIncome
}

// IsExpense reports whether the transaction counts as a variable expense.
func (t Transaction) IsExpense() bool {
	return t.Kind == KindExpense
}
