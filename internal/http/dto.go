package http

import (
	"finproject/internal/aggregate"
	"finproject/internal/core"
	"finproject/internal/view"
)

// Amounts are rendered as fixed two-decimal strings so clients never see
// float rounding.

type transactionDTO struct {
	ID           string    `json:"id"`
	Amount       string    `json:"amount"`
	SignedAmount string    `json:"signed_amount"`
	Category     string    `json:"category"`
	Type         core.Type `json:"type"`
	Description  string    `json:"description"`
	Date         string    `json:"date"`
}

func toTransactionDTO(tx core.Transaction) transactionDTO {
	return transactionDTO{
		ID:           tx.ID,
		Amount:       core.FormatAmount(tx.Amount),
		SignedAmount: tx.SignedAmount(),
		Category:     tx.Category,
		Type:         tx.Type,
		Description:  tx.Description,
		Date:         tx.Date.String(),
	}
}

type historyDTO struct {
	Shown        int              `json:"shown"`
	Total        int              `json:"total"`
	Filter       view.Filter      `json:"filter"`
	Sort         view.SortKey     `json:"sort"`
	Transactions []transactionDTO `json:"transactions"`
}

func toHistoryDTO(res view.Result, opts view.Options) historyDTO {
	out := historyDTO{
		Shown:        res.Shown,
		Total:        res.Total,
		Filter:       opts.Filter,
		Sort:         opts.Sort,
		Transactions: make([]transactionDTO, len(res.Transactions)),
	}
	for i, tx := range res.Transactions {
		out.Transactions[i] = toTransactionDTO(tx)
	}
	return out
}

type totalsDTO struct {
	Income       string `json:"income"`
	Expense      string `json:"expense"`
	Balance      string `json:"balance"`
	Count        int    `json:"count"`
	IncomeCount  int    `json:"income_count"`
	ExpenseCount int    `json:"expense_count"`
}

type shareDTO struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Percent  string `json:"percent"`
}

type monthDTO struct {
	Month   string `json:"month"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Net     string `json:"net"`
}

type rankedDTO struct {
	Rank     int    `json:"rank"`
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

type summaryDTO struct {
	Totals     totalsDTO `json:"totals"`
	Categories struct {
		Income  []shareDTO `json:"income"`
		Expense []shareDTO `json:"expense"`
	} `json:"categories"`
	Months struct {
		Detail []monthDTO `json:"detail"`
		Chart  []monthDTO `json:"chart"`
	} `json:"months"`
	TopExpenses []rankedDTO `json:"top_expenses"`
}

func toSummaryDTO(s aggregate.Summary) summaryDTO {
	var out summaryDTO
	out.Totals = totalsDTO{
		Income:       core.FormatAmount(s.Totals.Income),
		Expense:      core.FormatAmount(s.Totals.Expense),
		Balance:      core.FormatAmount(s.Totals.Balance),
		Count:        s.Totals.Count,
		IncomeCount:  s.Totals.IncomeCount,
		ExpenseCount: s.Totals.ExpenseCount,
	}
	out.Categories.Income = toShareDTOs(s.IncomeShares)
	out.Categories.Expense = toShareDTOs(s.ExpenseShares)
	out.Months.Detail = toMonthDTOs(s.MonthsDetail)
	out.Months.Chart = toMonthDTOs(s.MonthsChart)

	out.TopExpenses = make([]rankedDTO, len(s.TopExpenses))
	for i, r := range s.TopExpenses {
		out.TopExpenses[i] = rankedDTO{Rank: r.Rank, Category: r.Category, Amount: core.FormatAmount(r.Amount)}
	}
	return out
}

func toShareDTOs(shares []aggregate.Share) []shareDTO {
	out := make([]shareDTO, len(shares))
	for i, s := range shares {
		out[i] = shareDTO{
			Category: s.Category,
			Amount:   core.FormatAmount(s.Amount),
			Percent:  s.Percent.StringFixed(aggregate.PercentPlaces),
		}
	}
	return out
}

func toMonthDTOs(months []aggregate.MonthTotals) []monthDTO {
	out := make([]monthDTO, len(months))
	for i, m := range months {
		out[i] = monthDTO{
			Month:   m.Month,
			Income:  core.FormatAmount(m.Income),
			Expense: core.FormatAmount(m.Expense),
			Net:     core.FormatAmount(m.Net()),
		}
	}
	return out
}
