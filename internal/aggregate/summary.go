package aggregate

import "finproject/internal/core"

// DefaultTopN is how many leading expense categories a summary ranks.
const DefaultTopN = 3

type Options struct {
	TopN int
}

// Summary bundles every derived view the overview screen needs.
type Summary struct {
	Totals        Totals
	Breakdown     Breakdown
	IncomeShares  []Share
	ExpenseShares []Share
	// MonthsDetail is newest first, MonthsChart oldest first.
	MonthsDetail []MonthTotals
	MonthsChart  []MonthTotals
	TopExpenses  []Ranked
}

// Summarize computes a full summary. A zero TopN uses DefaultTopN.
func Summarize(txs []core.Transaction, opts Options) Summary {
	if opts.TopN == 0 {
		opts.TopN = DefaultTopN
	}
	b := ByCategory(txs)
	return Summary{
		Totals:        ComputeTotals(txs),
		Breakdown:     b,
		IncomeShares:  Percentages(b.Income),
		ExpenseShares: Percentages(b.Expense),
		MonthsDetail:  ByMonth(txs, Descending),
		MonthsChart:   ByMonth(txs, Ascending),
		TopExpenses:   TopN(b.Expense, opts.TopN),
	}
}
