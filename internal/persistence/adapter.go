// Package persistence saves the transaction collection to a key-value slot and
// restores it at startup. Neither direction ever fails from the caller's point
// of view: a broken blob loads as an empty collection and a failed write only
// costs durability.
package persistence

import (
	"bytes"
	"context"
	"errors"
	"log/slog"

	"finproject/internal/core"
	"finproject/internal/kv"
)

// DefaultKey is the slot the collection is stored under.
const DefaultKey = "finproject-transactions"

type Adapter struct {
	store  kv.Store
	key    string
	logger *slog.Logger
}

func NewAdapter(store kv.Store, key string, logger *slog.Logger) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{store: store, key: key, logger: logger}
}

// Key returns the slot name.
func (a *Adapter) Key() string {
	return a.key
}

// Load reads the stored collection. Missing, blank or undecodable data yields
// an empty collection; records repeating an earlier id are dropped.
func (a *Adapter) Load(ctx context.Context) []core.Transaction {
	data, err := a.store.Get(ctx, a.key)
	if errors.Is(err, kv.ErrNotFound) {
		a.logger.InfoContext(ctx, "No stored transactions, starting empty", "key", a.key)
		return []core.Transaction{}
	}
	if err != nil {
		a.logger.WarnContext(ctx, "Failed to read stored transactions, starting empty", "key", a.key, "error", err)
		return []core.Transaction{}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []core.Transaction{}
	}

	txs, err := Decode(data)
	if err != nil {
		a.logger.WarnContext(ctx, "Stored transactions are corrupted, starting empty",
			"key", a.key, "bytes", len(data), "error", err)
		return []core.Transaction{}
	}

	seen := make(map[string]struct{}, len(txs))
	out := txs[:0]
	for _, tx := range txs {
		if _, dup := seen[tx.ID]; dup {
			a.logger.WarnContext(ctx, "Dropping transaction with duplicate id", "key", a.key, "id", tx.ID)
			continue
		}
		seen[tx.ID] = struct{}{}
		out = append(out, tx)
	}

	a.logger.InfoContext(ctx, "Loaded stored transactions", "key", a.key, "count", len(out))
	return out
}

// Save overwrites the slot with the whole collection. Failures are logged and
// swallowed; the in-memory collection stays authoritative.
func (a *Adapter) Save(ctx context.Context, txs []core.Transaction) {
	data, err := Encode(txs)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to encode transactions", "key", a.key, "error", err)
		return
	}
	if err := a.store.Set(ctx, a.key, data); err != nil {
		a.logger.ErrorContext(ctx, "Failed to persist transactions",
			"key", a.key, "count", len(txs), "bytes", len(data), "error", err)
		return
	}
	a.logger.DebugContext(ctx, "Persisted transactions", "key", a.key, "count", len(txs))
}
