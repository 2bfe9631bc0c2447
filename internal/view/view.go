// Package view filters and orders the transaction history for display.
package view

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"finproject/internal/core"
)

type Filter string

const (
	All         Filter = "all"
	IncomeOnly  Filter = "income"
	ExpenseOnly Filter = "expense"
)

type SortKey string

const (
	// ByDate orders newest first.
	ByDate SortKey = "date"
	// ByAmount orders largest first.
	ByAmount SortKey = "amount"
	// ByCategory orders alphabetically using the configured locale.
	ByCategory SortKey = "category"
)

// DefaultLocale is used for category collation when none is configured.
var DefaultLocale = language.Russian

var (
	ErrUnknownFilter = errors.New("unknown filter")
	ErrUnknownSort   = errors.New("unknown sort key")
)

// ParseFilter maps a query value to a Filter. Empty means All.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return All, nil
	case All, IncomeOnly, ExpenseOnly:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFilter, s)
	}
}

// ParseSort maps a query value to a SortKey. Empty means ByDate.
func ParseSort(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return ByDate, nil
	case ByDate, ByAmount, ByCategory:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSort, s)
	}
}

func (f Filter) match(tx core.Transaction) bool {
	switch f {
	case IncomeOnly:
		return tx.Type == core.Income
	case ExpenseOnly:
		return tx.Type == core.Expense
	default:
		return true
	}
}

type Options struct {
	Filter Filter
	Sort   SortKey
	Locale language.Tag
}

// Result is the displayed slice together with the "shown N of M" counts.
type Result struct {
	Transactions []core.Transaction
	Shown        int
	Total        int
}

// Apply filters then sorts a copy of txs. The sort is stable, so records
// that compare equal keep their collection order. txs is not modified.
func Apply(txs []core.Transaction, opts Options) Result {
	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if opts.Filter.match(tx) {
			out = append(out, tx)
		}
	}

	switch opts.Sort {
	case ByAmount:
		slices.SortStableFunc(out, func(a, b core.Transaction) int {
			return b.Amount.Cmp(a.Amount)
		})
	case ByCategory:
		locale := opts.Locale
		if locale == language.Und {
			locale = DefaultLocale
		}
		// A Collator keeps internal buffers and must not be shared between goroutines.
		c := collate.New(locale)
		slices.SortStableFunc(out, func(a, b core.Transaction) int {
			return c.CompareString(a.Category, b.Category)
		})
	default:
		slices.SortStableFunc(out, func(a, b core.Transaction) int {
			return b.Date.Compare(a.Date)
		})
	}

	return Result{Transactions: out, Shown: len(out), Total: len(txs)}
}
