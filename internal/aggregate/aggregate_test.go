package aggregate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finproject/internal/core"
)

func tx(id string, typ core.Type, amount, category, date string) core.Transaction {
	d, err := core.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return core.Transaction{
		ID:       id,
		Type:     typ,
		Amount:   decimal.RequireFromString(amount),
		Category: category,
		Date:     d,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func TestComputeTotals(t *testing.T) {
	txs := []core.Transaction{
		tx("1", core.Expense, "100", "Food", "2024-01-15"),
		tx("2", core.Income, "500", "Salary", "2024-01-10"),
	}

	got := ComputeTotals(txs)
	assertDec(t, "500", got.Income)
	assertDec(t, "100", got.Expense)
	assertDec(t, "400", got.Balance)
	assert.Equal(t, 2, got.Count)
	assert.Equal(t, 1, got.IncomeCount)
	assert.Equal(t, 1, got.ExpenseCount)
}

func TestComputeTotalsEmpty(t *testing.T) {
	got := ComputeTotals(nil)
	assert.True(t, got.Income.IsZero())
	assert.True(t, got.Expense.IsZero())
	assert.True(t, got.Balance.IsZero())
	assert.Zero(t, got.Count)
}

func TestUnknownTypeIsIgnored(t *testing.T) {
	txs := []core.Transaction{
		tx("1", core.Expense, "100", "Food", "2024-01-15"),
		tx("2", core.Type("transfer"), "999", "Food", "2024-03-01"),
		tx("3", core.Income, "500", "Salary", "2024-01-10"),
	}

	totals := ComputeTotals(txs)
	assertDec(t, "500", totals.Income)
	assertDec(t, "100", totals.Expense)
	assertDec(t, "400", totals.Balance)
	assert.Equal(t, 2, totals.Count)

	b := ByCategory(txs)
	assert.Nil(t, b.For(core.Type("transfer")))
	assertDec(t, "0", b.Sum(core.Type("transfer"), "Food"))
	assertDec(t, "100", b.Sum(core.Expense, "Food"))

	months := ByMonth(txs, Ascending)
	require.Len(t, months, 1)
	assert.Equal(t, "2024-01", months[0].Month)
}

func TestComputeTotalsNegativeBalance(t *testing.T) {
	got := ComputeTotals([]core.Transaction{
		tx("1", core.Expense, "10.10", "Food", "2024-01-15"),
		tx("2", core.Expense, "0.20", "Food", "2024-01-16"),
	})
	assertDec(t, "-10.30", got.Balance)
}

func TestByCategorySumsAndOrders(t *testing.T) {
	txs := []core.Transaction{
		tx("1", core.Expense, "50", "Food", "2024-01-01"),
		tx("2", core.Expense, "30", "Transport", "2024-01-02"),
		tx("3", core.Expense, "70", "Food", "2024-01-03"),
		tx("4", core.Income, "1000", "Salary", "2024-01-04"),
		tx("5", core.Expense, "200", "Housing", "2024-01-05"),
	}

	b := ByCategory(txs)
	require.Len(t, b.Expense, 3)
	assert.Equal(t, "Housing", b.Expense[0].Category)
	assert.Equal(t, "Food", b.Expense[1].Category)
	assertDec(t, "120", b.Expense[1].Amount)
	assert.Equal(t, "Transport", b.Expense[2].Category)

	require.Len(t, b.Income, 1)
	assertDec(t, "1000", b.Sum(core.Income, "Salary"))
	assert.True(t, b.Sum(core.Expense, "Salary").IsZero())
}

func TestByCategoryTiesKeepFirstSeenOrder(t *testing.T) {
	txs := []core.Transaction{
		tx("1", core.Expense, "10", "Transport", "2024-01-01"),
		tx("2", core.Expense, "10", "Food", "2024-01-02"),
		tx("3", core.Expense, "10", "Health", "2024-01-03"),
	}

	b := ByCategory(txs)
	got := []string{b.Expense[0].Category, b.Expense[1].Category, b.Expense[2].Category}
	assert.Equal(t, []string{"Transport", "Food", "Health"}, got)
}

func TestByCategoryEmpty(t *testing.T) {
	b := ByCategory(nil)
	assert.Empty(t, b.Income)
	assert.Empty(t, b.Expense)
	assert.NotNil(t, b.Expense)
}

func TestPercentages(t *testing.T) {
	single := Percentages([]CategoryAmount{{Category: "Food", Amount: dec("120")}})
	require.Len(t, single, 1)
	assertDec(t, "100", single[0].Percent)

	shares := Percentages([]CategoryAmount{
		{Category: "Food", Amount: dec("2")},
		{Category: "Transport", Amount: dec("1")},
	})
	assertDec(t, "66.67", shares[0].Percent)
	assertDec(t, "33.33", shares[1].Percent)
}

func TestPercentagesZeroTotal(t *testing.T) {
	shares := Percentages([]CategoryAmount{
		{Category: "Food", Amount: decimal.Zero},
		{Category: "Other", Amount: decimal.Zero},
	})
	for _, s := range shares {
		assert.True(t, s.Percent.IsZero())
	}
	assert.Empty(t, Percentages(nil))
}

func TestTopN(t *testing.T) {
	cats := []CategoryAmount{
		{Category: "Housing", Amount: dec("200")},
		{Category: "Food", Amount: dec("120")},
		{Category: "Transport", Amount: dec("30")},
		{Category: "Other", Amount: dec("5")},
	}

	top := TopN(cats, 3)
	require.Len(t, top, 3)
	for i, r := range top {
		assert.Equal(t, i+1, r.Rank)
		assert.Equal(t, cats[i].Category, r.Category)
	}

	assert.Len(t, TopN(cats[:2], 3), 2)
	assert.Empty(t, TopN(cats, 0))
	assert.Empty(t, TopN(cats, -1))
	assert.Empty(t, TopN(nil, 3))
}

func TestByMonth(t *testing.T) {
	txs := []core.Transaction{
		tx("1", core.Expense, "100", "Food", "2024-01-15"),
		tx("2", core.Income, "500", "Salary", "2024-01-10"),
		tx("3", core.Expense, "40", "Food", "2024-03-02"),
		tx("4", core.Income, "20", "Gifts", "2023-12-31"),
	}

	desc := ByMonth(txs, Descending)
	require.Len(t, desc, 3)
	assert.Equal(t, []string{"2024-03", "2024-01", "2023-12"},
		[]string{desc[0].Month, desc[1].Month, desc[2].Month})

	jan := desc[1]
	assertDec(t, "500", jan.Income)
	assertDec(t, "100", jan.Expense)
	assertDec(t, "400", jan.Net())

	asc := ByMonth(txs, Ascending)
	assert.Equal(t, []string{"2023-12", "2024-01", "2024-03"},
		[]string{asc[0].Month, asc[1].Month, asc[2].Month})

	assert.Empty(t, ByMonth(nil, Ascending))
}

func TestSummarize(t *testing.T) {
	txs := []core.Transaction{
		tx("1", core.Expense, "50", "Food", "2024-01-01"),
		tx("2", core.Expense, "70", "Food", "2024-01-02"),
		tx("3", core.Expense, "30", "Transport", "2024-02-02"),
		tx("4", core.Expense, "10", "Health", "2024-02-03"),
		tx("5", core.Expense, "5", "Other", "2024-02-04"),
		tx("6", core.Income, "500", "Salary", "2024-02-05"),
	}

	s := Summarize(txs, Options{})
	assertDec(t, "500", s.Totals.Income)
	assertDec(t, "165", s.Totals.Expense)
	require.Len(t, s.TopExpenses, DefaultTopN)
	assert.Equal(t, "Food", s.TopExpenses[0].Category)
	require.Len(t, s.IncomeShares, 1)
	assertDec(t, "100", s.IncomeShares[0].Percent)
	assert.Equal(t, "2024-02", s.MonthsDetail[0].Month)
	assert.Equal(t, "2024-01", s.MonthsChart[0].Month)

	s = Summarize(txs, Options{TopN: 1})
	assert.Len(t, s.TopExpenses, 1)
}

func TestAggregationIsIdempotent(t *testing.T) {
	txs := []core.Transaction{
		tx("1", core.Expense, "50", "Food", "2024-01-01"),
		tx("2", core.Income, "500", "Salary", "2024-02-05"),
	}
	assert.Equal(t, Summarize(txs, Options{}), Summarize(txs, Options{}))
}
