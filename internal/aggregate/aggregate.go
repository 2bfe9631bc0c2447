// Package aggregate derives totals and breakdowns from a transaction snapshot.
//
// Every function is pure and recomputes from scratch; nothing is cached
// between calls. Sums use exact decimal arithmetic. Records whose type is
// neither income nor expense (possible only in hand-edited stored data) are
// ignored by every aggregate.
package aggregate

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"finproject/internal/core"
)

// PercentPlaces is the rounding applied to category shares.
const PercentPlaces = 2

var hundred = decimal.NewFromInt(100)

// Totals is the balance overview.
type Totals struct {
	Income       decimal.Decimal
	Expense      decimal.Decimal
	Balance      decimal.Decimal
	Count        int
	IncomeCount  int
	ExpenseCount int
}

// ComputeTotals sums income and expense; Balance is Income minus Expense and
// Count is IncomeCount plus ExpenseCount.
func ComputeTotals(txs []core.Transaction) Totals {
	t := Totals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, tx := range txs {
		switch tx.Type {
		case core.Income:
			t.Income = t.Income.Add(tx.Amount)
			t.IncomeCount++
		case core.Expense:
			t.Expense = t.Expense.Add(tx.Amount)
			t.ExpenseCount++
		}
	}
	t.Balance = t.Income.Sub(t.Expense)
	t.Count = t.IncomeCount + t.ExpenseCount
	return t
}

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Category string
	Amount   decimal.Decimal
}

// Breakdown holds per-category sums for each type, each ordered by descending
// amount with ties kept in first-encountered order.
type Breakdown struct {
	Income  []CategoryAmount
	Expense []CategoryAmount
}

// ByCategory groups amounts by category in a single pass.
func ByCategory(txs []core.Transaction) Breakdown {
	var income, expense categorySums
	for _, tx := range txs {
		switch tx.Type {
		case core.Income:
			income.add(tx.Category, tx.Amount)
		case core.Expense:
			expense.add(tx.Category, tx.Amount)
		}
	}
	return Breakdown{Income: income.sorted(), Expense: expense.sorted()}
}

// For returns the breakdown of one type, nil for an unknown type.
func (b Breakdown) For(t core.Type) []CategoryAmount {
	switch t {
	case core.Income:
		return b.Income
	case core.Expense:
		return b.Expense
	default:
		return nil
	}
}

// Sum returns the summed amount for category within type t, zero if absent.
func (b Breakdown) Sum(t core.Type, category string) decimal.Decimal {
	for _, c := range b.For(t) {
		if c.Category == category {
			return c.Amount
		}
	}
	return decimal.Zero
}

// Total sums every category of a breakdown list.
func Total(cats []CategoryAmount) decimal.Decimal {
	total := decimal.Zero
	for _, c := range cats {
		total = total.Add(c.Amount)
	}
	return total
}

// categorySums accumulates amounts while remembering first-seen order.
type categorySums struct {
	index map[string]int
	items []CategoryAmount
}

func (s *categorySums) add(category string, amount decimal.Decimal) {
	if s.index == nil {
		s.index = map[string]int{}
	}
	if i, ok := s.index[category]; ok {
		s.items[i].Amount = s.items[i].Amount.Add(amount)
		return
	}
	s.index[category] = len(s.items)
	s.items = append(s.items, CategoryAmount{Category: category, Amount: amount})
}

func (s *categorySums) sorted() []CategoryAmount {
	out := slices.Clone(s.items)
	if out == nil {
		out = []CategoryAmount{}
	}
	slices.SortStableFunc(out, func(a, b CategoryAmount) int {
		return b.Amount.Cmp(a.Amount)
	})
	return out
}

// Share is a category amount with its percentage of the type total.
type Share struct {
	CategoryAmount
	Percent decimal.Decimal
}

// Percentages computes amount/total*100 for every entry. When the total is
// zero every share is zero rather than undefined.
func Percentages(cats []CategoryAmount) []Share {
	total := Total(cats)
	out := make([]Share, len(cats))
	for i, c := range cats {
		pct := decimal.Zero
		if !total.IsZero() {
			pct = c.Amount.Mul(hundred).DivRound(total, PercentPlaces)
		}
		out[i] = Share{CategoryAmount: c, Percent: pct}
	}
	return out
}

// Ranked is a category with its 1-based position.
type Ranked struct {
	Rank int
	CategoryAmount
}

// TopN returns the first n entries of an already ordered breakdown list,
// ranked from 1. Fewer are returned when fewer exist.
func TopN(cats []CategoryAmount, n int) []Ranked {
	if n < 0 {
		n = 0
	}
	n = min(n, len(cats))
	out := make([]Ranked, n)
	for i := 0; i < n; i++ {
		out[i] = Ranked{Rank: i + 1, CategoryAmount: cats[i]}
	}
	return out
}

// Order selects how month series are sorted.
type Order int

const (
	// Descending lists the most recent month first; used for detail listings.
	Descending Order = iota
	// Ascending lists months chronologically; used for charts.
	Ascending
)

// MonthTotals are the income and expense sums of one calendar month.
type MonthTotals struct {
	Month   string // YYYY-MM
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Net is income minus expense for the month.
func (m MonthTotals) Net() decimal.Decimal {
	return m.Income.Sub(m.Expense)
}

// ByMonth groups transactions by the YYYY-MM prefix of their date.
func ByMonth(txs []core.Transaction, order Order) []MonthTotals {
	index := map[string]int{}
	var out []MonthTotals
	for _, tx := range txs {
		if !tx.Type.Valid() {
			continue
		}
		key := tx.Date.MonthKey()
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, MonthTotals{Month: key, Income: decimal.Zero, Expense: decimal.Zero})
		}
		switch tx.Type {
		case core.Income:
			out[i].Income = out[i].Income.Add(tx.Amount)
		case core.Expense:
			out[i].Expense = out[i].Expense.Add(tx.Amount)
		}
	}
	if out == nil {
		return []MonthTotals{}
	}
	slices.SortFunc(out, func(a, b MonthTotals) int {
		if order == Ascending {
			return strings.Compare(a.Month, b.Month)
		}
		return strings.Compare(b.Month, a.Month)
	})
	return out
}
