package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Categories use the labels shown to the user; they are also what gets persisted.
const (
	Food          Category = "Makanan"
	Transport     Category = "Transportasi"
	Entertainment Category = "Hiburan"
	Shopping      Category = "Belanja"
	Bills         Category = "Tagihan"
	Salary        Category = "Gaji"
	Freelance     Category = "Freelance"
	Investment    Category = "Investasi"
	Other         Category = "Lainnya"
)

// DateLayout is the wire and storage format of a Date.
const DateLayout = "2006-01-02"

type (
	TransactionType string

	Category string

	// Date is a calendar day without time of day.
	Date struct {
		time.Time
	}

	// Transaction is one ledger entry. It is immutable once created.
	Transaction struct {
		ID          string          `json:"id"`
		Description string          `json:"description"`
		Amount      Money           `json:"amount"`
		Category    Category        `json:"category"`
		Type        TransactionType `json:"type"`
		Date        Date            `json:"date"`
		CreatedAt   time.Time       `json:"createdAt"`
	}

	// Snapshot is the persisted form of the whole ledger.
	// Balance is derived and rewritten on every save.
	Snapshot struct {
		Transactions []Transaction `json:"transactions"`
		Balance      Money         `json:"balance"`
	}

	// Draft is the user input for a new transaction. Amount is kept as typed.
	Draft struct {
		Description string          `json:"description"`
		Amount      string          `json:"amount"`
		Category    Category        `json:"category"`
		Type        TransactionType `json:"type"`
		Date        string          `json:"date"`
	}
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyID          = errors.New("empty id")
	ErrDuplicateID      = errors.New("duplicate id")
)

// ValidationError reports why a draft was declined. It matches both
// ErrValidation and the specific cause with errors.Is.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() []error {
	return []error{ErrValidation, e.Err}
}

// FieldName is the draft field that failed.
func (e *ValidationError) FieldName() string {
	return e.Field
}

func invalid(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

// Categories lists the selectable categories in display order.
func Categories() []Category {
	return []Category{Food, Transport, Entertainment, Shopping, Bills, Salary, Freelance, Investment, Other}
}

// IsKnown reports whether c is one of the fixed categories.
func (c Category) IsKnown() bool {
	for _, k := range Categories() {
		if c == k {
			return true
		}
	}
	return false
}

// Normalize maps unknown or empty categories to Other.
func (c Category) Normalize() Category {
	if c.IsKnown() {
		return c
	}
	return Other
}

func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t as seen in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a date string in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// SameMonth reports whether d falls in the calendar month of ref.
func (d Date) SameMonth(ref time.Time) bool {
	return d.Year() == ref.Year() && d.Month() == ref.Month()
}

// SameDay reports whether d is the calendar day of ref.
func (d Date) SameDay(ref time.Time) bool {
	y, m, day := ref.Date()
	return d.Year() == y && d.Month() == m && d.Day() == day
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, b)
	}
	// Stored dates are plain YYYY-MM-DD, but full timestamps are tolerated.
	if len(s) > len(DateLayout) {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			*d = DateOf(t)
			return nil
		}
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Usable reports why a stored record cannot take part in the ledger views.
// Descriptions are not checked: older data may hold blank ones.
func (t Transaction) Usable() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// RestoreTransactions cleans a list read back from storage. Unusable records
// are dropped; missing or repeated ids are replaced by a derived id so every
// id is unique. Each change is reported in problems. The result only depends
// on the input, so restoring the same data twice gives the same ids.
func RestoreTransactions(list []Transaction) (kept []Transaction, problems []error) {
	kept = make([]Transaction, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for i, t := range list {
		if err := t.Usable(); err != nil {
			problems = append(problems, fmt.Errorf("transaction %d dropped: %w", i, err))
			continue
		}
		_, dup := seen[t.ID]
		if blank := strings.TrimSpace(t.ID) == ""; blank || dup {
			cause := ErrDuplicateID
			if blank {
				cause = ErrEmptyID
			}
			id := derivedID(t.ID, i, seen)
			problems = append(problems, fmt.Errorf("transaction %d: %w %q, now %q", i, cause, t.ID, id))
			t.ID = id
		}
		seen[t.ID] = struct{}{}
		kept = append(kept, t)
	}
	return kept, problems
}

func derivedID(base string, i int, seen map[string]struct{}) string {
	if strings.TrimSpace(base) == "" {
		base = "restored"
	}
	for n := i + 1; ; n++ {
		id := base + "-" + strconv.Itoa(n)
		if _, taken := seen[id]; !taken {
			return id
		}
	}
}

// Resolve turns a draft into the fields of a new transaction. Defaults:
// today for an empty date, Other for an empty category, expense for an empty type.
func (d Draft) Resolve(today time.Time) (Transaction, error) {
	desc := strings.TrimSpace(d.Description)
	if desc == "" {
		return Transaction{}, invalid("description", ErrEmptyDescription)
	}
	amount, err := ParseAmount(d.Amount)
	if err != nil {
		return Transaction{}, invalid("amount", err)
	}

	typ := TransactionType(strings.ToLower(strings.TrimSpace(string(d.Type))))
	if typ == "" {
		typ = Expense
	}
	if !typ.IsValid() {
		return Transaction{}, invalid("type", ErrInvalidType)
	}

	date := DateOf(today)
	if strings.TrimSpace(d.Date) != "" {
		date, err = ParseDate(d.Date)
		if err != nil || date.IsZero() {
			return Transaction{}, invalid("date", ErrInvalidDate)
		}
	}

	cat := Category(strings.TrimSpace(string(d.Category)))
	if cat == "" {
		cat = Other
	}

	return Transaction{
		Description: desc,
		Amount:      amount,
		Category:    cat,
		Type:        typ,
		Date:        date,
	}, nil
}
