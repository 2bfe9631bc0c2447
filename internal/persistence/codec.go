package persistence

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"finproject/internal/core"
)

// record is the stored shape of a transaction: the flat JSON object the
// collection has always been saved as, without any version envelope.
type record struct {
	ID          recordID    `json:"id"`
	Amount      json.Number `json:"amount"`
	Category    string      `json:"category"`
	Type        core.Type   `json:"type"`
	Description string      `json:"description"`
	Date        core.Date   `json:"date"`
}

// recordID accepts both numeric ids (timestamps written by older versions)
// and string ids. Ids made only of digits are written back as numbers.
type recordID string

func (id recordID) MarshalJSON() ([]byte, error) {
	if isDigits(string(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *recordID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = recordID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a number or a string: %w", err)
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return fmt.Errorf("id %s is not an integer", n)
	}
	*id = recordID(n.String())
	return nil
}

func isDigits(s string) bool {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Encode serializes the collection as a JSON array.
func Encode(txs []core.Transaction) ([]byte, error) {
	out := make([]record, len(txs))
	for i, tx := range txs {
		out[i] = record{
			ID:          recordID(tx.ID),
			Amount:      json.Number(tx.Amount.String()),
			Category:    tx.Category,
			Type:        tx.Type,
			Description: tx.Description,
			Date:        tx.Date,
		}
	}
	return json.Marshal(out)
}

// Decode parses a stored JSON array. Any malformed element fails the whole blob.
func Decode(data []byte) ([]core.Transaction, error) {
	var in []record
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	txs := make([]core.Transaction, len(in))
	for i, r := range in {
		amount, err := decimal.NewFromString(r.Amount.String())
		if err != nil {
			return nil, fmt.Errorf("decode transaction %d amount %q: %w", i, r.Amount, err)
		}
		txs[i] = core.Transaction{
			ID:          string(r.ID),
			Amount:      amount,
			Category:    r.Category,
			Type:        r.Type,
			Description: r.Description,
			Date:        r.Date,
		}
	}
	return txs, nil
}
