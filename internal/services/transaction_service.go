package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/text/language"

	"finproject/internal/aggregate"
	"finproject/internal/amqp"
	"finproject/internal/core"
	"finproject/internal/form"
	"finproject/internal/log"
	"finproject/internal/store"
	"finproject/internal/view"
)

// ErrNotConfirmed is returned when the user declines a destructive action.
var ErrNotConfirmed = errors.New("deletion not confirmed")

// EventPublisher receives change notifications after a successful mutation.
type EventPublisher interface {
	Publish(ctx context.Context, kind amqp.EventKind, tx core.Transaction) error
}

// ConfirmFunc asks whether tx may be deleted.
type ConfirmFunc func(tx core.Transaction) bool

// Confirmed is a ConfirmFunc that always agrees, for callers that already asked.
func Confirmed(core.Transaction) bool { return true }

type Config struct {
	// Locale drives the category sort of History; zero means view.DefaultLocale.
	Locale language.Tag
	// TopN is the default number of ranked expense categories in Summary.
	TopN int
	// Normalizer turns drafts into records; its zero value uses UUIDv7 ids and the wall clock.
	Normalizer form.Normalizer
}

// TransactionService is the command interface over the transaction store.
type TransactionService struct {
	store     *store.Store
	publisher EventPublisher
	logger    *slog.Logger
	cfg       Config
}

// NewTransactionService wires the store with an optional publisher (nil disables events).
func NewTransactionService(st *store.Store, publisher EventPublisher, logger *slog.Logger, cfg Config) *TransactionService {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TopN == 0 {
		cfg.TopN = aggregate.DefaultTopN
	}
	if cfg.Locale == language.Und {
		cfg.Locale = view.DefaultLocale
	}
	return &TransactionService{
		store:     st,
		publisher: publisher,
		logger:    logger,
		cfg:       cfg,
	}
}

// NewDraft returns an empty form preset to today.
func (s *TransactionService) NewDraft() form.Draft {
	now := time.Now
	if s.cfg.Normalizer.Now != nil {
		now = s.cfg.Normalizer.Now
	}
	return form.NewDraft(core.DateOf(now()))
}

// Submit validates the draft and records it. A *form.ValidationError means
// nothing was stored and the caller should keep the draft.
func (s *TransactionService) Submit(ctx context.Context, d form.Draft) (core.Transaction, error) {
	tx, err := s.cfg.Normalizer.Normalize(d)
	if err != nil {
		return core.Transaction{}, err
	}

	if err := s.store.Add(ctx, tx); err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "Transaction added",
		log.NewFields().WithTransaction(tx).WithOperation(log.OpCreate).ToSlice()...)

	s.publish(ctx, amqp.TransactionAdded, tx)
	return tx, nil
}

// Delete removes the record with id once confirm agrees. An unknown id is a
// no-op and confirm is never called for it.
func (s *TransactionService) Delete(ctx context.Context, id string, confirm ConfirmFunc) error {
	tx, ok := s.store.Get(id)
	if !ok {
		s.logger.DebugContext(ctx, "Delete of unknown transaction ignored", log.FieldTransactionID, id)
		return nil
	}

	if confirm == nil || !confirm(tx) {
		return ErrNotConfirmed
	}

	// Lost a race with a concurrent delete; nothing left to do.
	if !s.store.Remove(ctx, id) {
		return nil
	}

	s.logger.InfoContext(ctx, "Transaction removed",
		log.NewFields().WithTransaction(tx).WithOperation(log.OpDelete).ToSlice()...)
	s.publish(ctx, amqp.TransactionRemoved, tx)
	return nil
}

// History returns the filtered and sorted listing.
func (s *TransactionService) History(_ context.Context, opts view.Options) view.Result {
	if opts.Locale == language.Und {
		opts.Locale = s.cfg.Locale
	}
	return view.Apply(s.store.All(), opts)
}

// Summary aggregates the whole collection, recomputed on every call.
func (s *TransactionService) Summary(_ context.Context, opts aggregate.Options) aggregate.Summary {
	if opts.TopN == 0 {
		opts.TopN = s.cfg.TopN
	}
	return aggregate.Summarize(s.store.All(), opts)
}

// Categories lists the selectable categories for t.
func (s *TransactionService) Categories(t core.Type) []string {
	return core.Categories(t)
}

func (s *TransactionService) publish(ctx context.Context, kind amqp.EventKind, tx core.Transaction) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, kind, tx); err != nil {
		// The record is already stored; events are best effort.
		s.logger.ErrorContext(ctx, "Failed to publish transaction event",
			"kind", kind, log.FieldTransactionID, tx.ID, log.FieldError, err)
	}
}
