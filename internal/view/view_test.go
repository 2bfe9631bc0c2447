package view

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"finproject/internal/core"
)

func tx(id string, typ core.Type, amount, category string, day int) core.Transaction {
	return core.Transaction{
		ID:       id,
		Type:     typ,
		Amount:   decimal.RequireFromString(amount),
		Category: category,
		Date:     core.NewDate(2024, 1, day),
	}
}

func ids(txs []core.Transaction) []string {
	out := make([]string, len(txs))
	for i, t := range txs {
		out[i] = t.ID
	}
	return out
}

func sample() []core.Transaction {
	return []core.Transaction{
		tx("a", core.Expense, "100", "Food", 15),
		tx("b", core.Income, "500", "Salary", 10),
		tx("c", core.Expense, "30", "Transport", 20),
		tx("d", core.Income, "75.5", "Gift", 10),
		tx("e", core.Expense, "100", "Housing", 1),
	}
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    Filter
		wantErr bool
	}{
		{"", All, false},
		{"all", All, false},
		{"Income", IncomeOnly, false},
		{" expense ", ExpenseOnly, false},
		{"transfers", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFilter(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFilter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSort(t *testing.T) {
	got, err := ParseSort("")
	require.NoError(t, err)
	assert.Equal(t, ByDate, got)

	got, err = ParseSort("AMOUNT")
	require.NoError(t, err)
	assert.Equal(t, ByAmount, got)

	_, err = ParseSort("description")
	assert.ErrorIs(t, err, ErrUnknownSort)
}

func TestApplyAllIsIdentityUpToOrder(t *testing.T) {
	txs := sample()
	res := Apply(txs, Options{Filter: All, Sort: ByDate})
	assert.ElementsMatch(t, ids(txs), ids(res.Transactions))
	assert.Equal(t, 5, res.Shown)
	assert.Equal(t, 5, res.Total)
}

func TestApplyFilterUnionIsWholeCollection(t *testing.T) {
	txs := sample()
	income := Apply(txs, Options{Filter: IncomeOnly})
	expense := Apply(txs, Options{Filter: ExpenseOnly})

	for _, t2 := range income.Transactions {
		assert.Equal(t, core.Income, t2.Type)
	}
	for _, t2 := range expense.Transactions {
		assert.Equal(t, core.Expense, t2.Type)
	}
	union := append(ids(income.Transactions), ids(expense.Transactions)...)
	assert.ElementsMatch(t, ids(txs), union)
	assert.Equal(t, 2, income.Shown)
	assert.Equal(t, 5, income.Total)
}

func TestApplySortByDateNewestFirstStable(t *testing.T) {
	res := Apply(sample(), Options{Sort: ByDate})
	// b and d share a date and keep collection order.
	assert.Equal(t, []string{"c", "a", "b", "d", "e"}, ids(res.Transactions))
}

func TestApplySortByAmountDescending(t *testing.T) {
	res := Apply(sample(), Options{Sort: ByAmount})
	got := res.Transactions
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1].Amount.GreaterThanOrEqual(got[i].Amount))
	}
	assert.Equal(t, []string{"b", "a", "e", "d", "c"}, ids(got))
}

func TestApplySortByCategory(t *testing.T) {
	res := Apply(sample(), Options{Sort: ByCategory, Locale: language.English})
	var cats []string
	for _, t2 := range res.Transactions {
		cats = append(cats, t2.Category)
	}
	assert.Equal(t, []string{"Food", "Gift", "Housing", "Salary", "Transport"}, cats)
}

func TestApplySortByCategoryCyrillic(t *testing.T) {
	txs := []core.Transaction{
		tx("1", core.Expense, "1", "Жильё", 1),
		tx("2", core.Expense, "1", "Ёлка", 1),
		tx("3", core.Expense, "1", "Авто", 1),
		tx("4", core.Expense, "1", "Еда", 1),
	}
	res := Apply(txs, Options{Sort: ByCategory})
	var cats []string
	for _, t2 := range res.Transactions {
		cats = append(cats, t2.Category)
	}
	assert.Equal(t, []string{"Авто", "Еда", "Ёлка", "Жильё"}, cats)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	txs := sample()
	before := ids(txs)
	Apply(txs, Options{Sort: ByAmount, Filter: ExpenseOnly})
	assert.Equal(t, before, ids(txs))
}

func TestApplyEmpty(t *testing.T) {
	res := Apply(nil, Options{Filter: IncomeOnly, Sort: ByCategory})
	assert.Empty(t, res.Transactions)
	assert.NotNil(t, res.Transactions)
	assert.Zero(t, res.Shown)
	assert.Zero(t, res.Total)
}
