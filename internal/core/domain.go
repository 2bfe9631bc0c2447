package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	Income  Type = "income"
	Expense Type = "expense"
)

// DateLayout is the ISO calendar date format used for storage and transport.
const DateLayout = "2006-01-02"

type (
	// Type tells whether a transaction brings money in or takes it out.
	Type string

	// Date is a calendar date without time of day, always at UTC midnight.
	Date struct {
		time.Time
	}

	Transaction struct {
		ID          string
		Amount      decimal.Decimal
		Category    string
		Type        Type
		Description string
		Date        Date
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyCategory    = errors.New("empty category")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyID          = errors.New("empty transaction id")
	ErrDescriptionLimit = errors.New("description too long (max 200 characters)")
)

// MaxDescriptionLength bounds the optional free-text note, in characters.
const MaxDescriptionLength = 200

// ParseType accepts "income" or "expense", case-insensitively.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
	return t, nil
}

func (t Type) Valid() bool {
	switch t {
	case Income, Expense:
		return true
	default:
		return false
	}
}

func (t Type) String() string {
	return string(t)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: parsed}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: date cannot be zero", ErrInvalidDate)
	}
	return nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// MonthKey returns the "YYYY-MM" prefix used for monthly grouping.
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

// Compare returns -1, 0 or +1 ordering d before, equal to or after other.
func (d Date) Compare(other Date) int {
	return d.Time.Compare(other.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// IsIncome reports whether the transaction adds to the balance.
func (t Transaction) IsIncome() bool {
	return t.Type == Income
}

// Validate checks the record constraints enforced at insertion time.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if !t.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, t.Type)
	}
	if t.Amount.IsNegative() {
		return fmt.Errorf("%w: must not be negative", ErrInvalidAmount)
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if utf8.RuneCountInString(t.Description) > MaxDescriptionLength {
		return ErrDescriptionLimit
	}
	return t.Date.Validate()
}
