// Package store owns the canonical transaction collection. It is the only
// place the collection is mutated, and every mutation is persisted right away.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"finproject/internal/core"
)

var ErrDuplicateID = errors.New("transaction id already exists")

// Persister loads the collection once and saves it after every mutation.
// Both directions are best effort; see persistence.Adapter.
type Persister interface {
	Load(ctx context.Context) []core.Transaction
	Save(ctx context.Context, txs []core.Transaction)
}

// Store holds transactions newest first.
type Store struct {
	mu        sync.RWMutex
	items     []core.Transaction
	persister Persister
	logger    *slog.Logger
}

// Open hydrates a store from p.
func Open(ctx context.Context, p Persister, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	items := p.Load(ctx)
	if items == nil {
		items = []core.Transaction{}
	}
	return &Store{items: items, persister: p, logger: logger}
}

// Add puts tx at the head of the collection and persists it. The record must
// already be well-formed; only id uniqueness is checked here.
func (s *Store) Add(ctx context.Context, tx core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(tx.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateID, tx.ID)
	}
	s.items = slices.Insert(s.items, 0, tx)
	s.persist(ctx)

	s.logger.DebugContext(ctx, "Transaction added",
		"id", tx.ID, "type", tx.Type, "category", tx.Category,
		"amount", core.FormatAmount(tx.Amount), "count", len(s.items))
	return nil
}

// Remove deletes the record with id. It reports whether anything was removed;
// an unknown id changes nothing and writes nothing.
func (s *Store) Remove(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		s.logger.DebugContext(ctx, "Remove of unknown transaction ignored", "id", id)
		return false
	}
	s.items = slices.Delete(s.items, i, i+1)
	s.persist(ctx)

	s.logger.DebugContext(ctx, "Transaction removed", "id", id, "count", len(s.items))
	return true
}

// All returns a copy of the collection in stored order.
func (s *Store) All() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

func (s *Store) Get(id string) (core.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.items[i], true
	}
	return core.Transaction{}, false
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// persist writes the collection through. The mutation is already committed in
// memory, so the write must not be abandoned when the caller's context ends.
func (s *Store) persist(ctx context.Context) {
	s.persister.Save(context.WithoutCancel(ctx), s.items)
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.items, func(tx core.Transaction) bool { return tx.ID == id })
}
