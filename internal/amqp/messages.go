package amqp

import (
	"encoding/json"
	"time"

	"finproject/internal/core"
)

// EventKind names what happened to a transaction.
type EventKind string

const (
	TransactionAdded   EventKind = "transaction.added"
	TransactionRemoved EventKind = "transaction.removed"
)

// TransactionEvent is the change notification published after each mutation.
// Amount is rendered with two decimals so consumers need no decimal library.
type TransactionEvent struct {
	Kind      EventKind `json:"kind"`
	ID        string    `json:"id"`
	Type      core.Type `json:"type"`
	Category  string    `json:"category"`
	Amount    string    `json:"amount"`
	Date      string    `json:"date"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTransactionEvent describes tx under the given kind, stamped with the current time.
func NewTransactionEvent(kind EventKind, tx core.Transaction) *TransactionEvent {
	return &TransactionEvent{
		Kind:      kind,
		ID:        tx.ID,
		Type:      tx.Type,
		Category:  tx.Category,
		Amount:    core.FormatAmount(tx.Amount),
		Date:      tx.Date.String(),
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
