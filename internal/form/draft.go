// Package form turns raw user input into well-formed transactions.
package form

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofrs/uuid/v5"

	"finproject/internal/core"
)

// Field names used in validation errors and request bodies.
const (
	FieldAmount      = "amount"
	FieldCategory    = "category"
	FieldType        = "type"
	FieldDescription = "description"
	FieldDate        = "date"
)

// Draft is the unvalidated content of the add-transaction form.
type Draft struct {
	Amount      string    `json:"amount"`
	Category    string    `json:"category"`
	Type        core.Type `json:"type"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
}

// NewDraft returns the initial form state: an expense dated today.
func NewDraft(today core.Date) Draft {
	return Draft{Type: core.Expense, Date: today.String()}
}

// SetType switches the transaction type. Categories belong to a type, so a
// previously chosen category is cleared when the type actually changes.
func (d *Draft) SetType(t core.Type) {
	if d.Type != t {
		d.Category = ""
	}
	d.Type = t
}

// CategoryOptions returns the categories the draft may currently choose from.
func (d Draft) CategoryOptions() []string {
	return core.Categories(d.Type)
}

// FieldError ties a validation failure to the form field that caused it.
type FieldError struct {
	Field string
	Err   error
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e FieldError) Unwrap() error {
	return e.Err
}

// ValidationError lists every problem found in a draft.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return "invalid transaction: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() []error {
	errs := make([]error, len(e.Fields))
	for i, f := range e.Fields {
		errs[i] = f
	}
	return errs
}

// Messages maps each failing field to its message, for transport.
func (e *ValidationError) Messages() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		out[f.Field] = f.Err.Error()
	}
	return out
}

func (e *ValidationError) add(field string, err error) {
	e.Fields = append(e.Fields, FieldError{Field: field, Err: err})
}

// AsValidationError unwraps err into a *ValidationError when it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	ok := errors.As(err, &verr)
	return verr, ok
}

// Normalizer validates drafts and builds transactions from them.
type Normalizer struct {
	// NewID returns a fresh transaction id. Defaults to a UUIDv7.
	NewID func() (string, error)
	// Now supplies the date used when the draft has none. Defaults to time.Now.
	Now func() time.Time
}

// Normalize validates d and returns the record to hand to the store. On
// failure it returns a *ValidationError; d itself is never modified.
func (n Normalizer) Normalize(d Draft) (core.Transaction, error) {
	verr := &ValidationError{}

	amount, err := core.ParseAmount(d.Amount)
	if err != nil {
		verr.add(FieldAmount, err)
	}

	typ := d.Type
	if !typ.Valid() {
		verr.add(FieldType, fmt.Errorf("%w: %q", core.ErrInvalidType, d.Type))
	}

	category := strings.TrimSpace(d.Category)
	switch {
	case category == "":
		verr.add(FieldCategory, core.ErrEmptyCategory)
	case typ.Valid() && !core.IsCategory(typ, category):
		verr.add(FieldCategory, fmt.Errorf("%w: %q is not a %s category", core.ErrUnknownCategory, category, typ))
	}

	description := strings.TrimSpace(d.Description)
	if utf8.RuneCountInString(description) > core.MaxDescriptionLength {
		verr.add(FieldDescription, core.ErrDescriptionLimit)
	}

	date := core.DateOf(n.now())
	if strings.TrimSpace(d.Date) != "" {
		parsed, err := core.ParseDate(d.Date)
		if err != nil {
			verr.add(FieldDate, err)
		}
		date = parsed
	}

	if len(verr.Fields) > 0 {
		return core.Transaction{}, verr
	}

	id, err := n.newID()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("generate transaction id: %w", err)
	}

	return core.Transaction{
		ID:          id,
		Amount:      amount,
		Category:    category,
		Type:        typ,
		Description: description,
		Date:        date,
	}, nil
}

func (n Normalizer) now() time.Time {
	if n.Now != nil {
		return n.Now()
	}
	return time.Now()
}

func (n Normalizer) newID() (string, error) {
	if n.NewID != nil {
		return n.NewID()
	}
	return NewID()
}

// NewID returns a time-ordered UUIDv7 string.
func NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
