package persistence

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"finproject/internal/core"
	"finproject/internal/kv"
	"finproject/internal/kv/memory"
)

type mockKV struct {
	mock.Mock
}

func (m *mockKV) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *mockKV) Set(ctx context.Context, key string, value []byte) error {
	return m.Called(ctx, key, value).Error(0)
}

func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

func sampleTransactions() []core.Transaction {
	return []core.Transaction{
		{
			ID:       "0190c5a4-7b1e-7cc2-9d3f-1a2b3c4d5e6f",
			Amount:   decimal.NewFromInt(500),
			Category: "Salary",
			Type:     core.Income,
			Date:     core.NewDate(2024, 1, 15),
		},
		{
			ID:          "1704880000000",
			Amount:      decimal.RequireFromString("100.25"),
			Category:    "Food",
			Type:        core.Expense,
			Description: "groceries",
			Date:        core.NewDate(2024, 1, 10),
		},
	}
}

func TestLoadMissingSlotIsEmpty(t *testing.T) {
	logger, _ := newTestLogger()
	a := NewAdapter(memory.New(), "", logger)

	got := a.Load(context.Background())
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, DefaultKey, a.Key())
}

func TestLoadMalformedBlobIsEmpty(t *testing.T) {
	ctx := context.Background()
	for name, blob := range map[string]string{
		"invalid syntax": `[{"id": 1, "amount": `,
		"not an array":   `{"id": 1}`,
		"bad date":       `[{"id":1,"amount":1,"category":"Food","type":"expense","description":"","date":"10/01/2024"}]`,
		"bad amount":     `[{"id":1,"amount":"lots","category":"Food","type":"expense","description":"","date":"2024-01-10"}]`,
		"fractional id":  `[{"id":1.5,"amount":1,"category":"Food","type":"expense","description":"","date":"2024-01-10"}]`,
	} {
		t.Run(name, func(t *testing.T) {
			store := memory.New()
			require.NoError(t, store.Set(ctx, DefaultKey, []byte(blob)))
			logger, logs := newTestLogger()

			got := NewAdapter(store, DefaultKey, logger).Load(ctx)
			assert.Empty(t, got)
			assert.Contains(t, logs.String(), "corrupted")
		})
	}
}

func TestLoadBlankBlobIsEmpty(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Set(ctx, DefaultKey, []byte("  \n")))
	assert.Empty(t, NewAdapter(store, DefaultKey, nil).Load(ctx))
}

func TestLoadReadErrorIsEmpty(t *testing.T) {
	ctx := context.Background()
	m := &mockKV{}
	m.On("Get", mock.Anything, DefaultKey).Return(nil, errors.New("disk on fire"))
	logger, logs := newTestLogger()

	assert.Empty(t, NewAdapter(m, DefaultKey, logger).Load(ctx))
	assert.Contains(t, logs.String(), "disk on fire")
	m.AssertExpectations(t)
}

func TestLoadLegacyBlob(t *testing.T) {
	ctx := context.Background()
	legacy := `[
		{"id":1705312800000,"amount":500,"category":"Зарплата","type":"income","description":"","date":"2024-01-15"},
		{"id":1704880000000,"amount":100.5,"category":"Еда","type":"expense","description":"обед","date":"2024-01-10"}
	]`
	store := memory.New()
	require.NoError(t, store.Set(ctx, DefaultKey, []byte(legacy)))

	got := NewAdapter(store, DefaultKey, nil).Load(ctx)
	require.Len(t, got, 2)
	assert.Equal(t, "1705312800000", got[0].ID)
	assert.True(t, got[1].Amount.Equal(decimal.RequireFromString("100.5")))
	assert.Equal(t, "Еда", got[1].Category)
	assert.Equal(t, core.NewDate(2024, 1, 10), got[1].Date)
}

func TestLoadDropsDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	blob := `[
		{"id":"a","amount":1,"category":"Food","type":"expense","description":"first","date":"2024-01-10"},
		{"id":"a","amount":2,"category":"Food","type":"expense","description":"second","date":"2024-01-11"},
		{"id":"b","amount":3,"category":"Gift","type":"income","description":"","date":"2024-01-12"}
	]`
	store := memory.New()
	require.NoError(t, store.Set(ctx, DefaultKey, []byte(blob)))
	logger, logs := newTestLogger()

	got := NewAdapter(store, DefaultKey, logger).Load(ctx)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Description)
	assert.Equal(t, "b", got[1].ID)
	assert.Contains(t, logs.String(), "duplicate id")
}

func TestSaveThenLoad(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	a := NewAdapter(store, DefaultKey, nil)

	want := sampleTransactions()
	a.Save(ctx, want)

	raw, err := store.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"id":"0190c5a4-7b1e-7cc2-9d3f-1a2b3c4d5e6f","amount":500,"category":"Salary","type":"income","description":"","date":"2024-01-15"},
		{"id":1704880000000,"amount":100.25,"category":"Food","type":"expense","description":"groceries","date":"2024-01-10"}
	]`, string(raw))

	got := a.Load(ctx)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.True(t, want[i].Amount.Equal(got[i].Amount))
		assert.Equal(t, want[i].Date, got[i].Date)
	}
}

func TestSaveEmptyCollectionWritesEmptyArray(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	NewAdapter(store, DefaultKey, nil).Save(ctx, nil)

	raw, err := store.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestSaveFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	m := &mockKV{}
	m.On("Set", mock.Anything, DefaultKey, mock.Anything).Return(kv.ErrQuotaExceeded)
	logger, logs := newTestLogger()

	assert.NotPanics(t, func() {
		NewAdapter(m, DefaultKey, logger).Save(ctx, sampleTransactions())
	})
	assert.Contains(t, logs.String(), "Failed to persist transactions")
	m.AssertExpectations(t)
}

func TestRecordIDForms(t *testing.T) {
	assert.True(t, isDigits("1704880000000"))
	assert.True(t, isDigits("0"))
	assert.False(t, isDigits("007"))
	assert.False(t, isDigits(""))
	assert.False(t, isDigits("12a"))
}
