package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income     TransactionType = "income"
	Expense    TransactionType = "expense"
	Saving     TransactionType = "saving"
	Investment TransactionType = "investment"
)

// DefaultCurrency is used when a transaction carries no currency code.
const DefaultCurrency = "USD"

type (
	TransactionType string

	// Transaction is a single dated financial record.
	Transaction struct {
		ID          string          `json:"id"`
		Date        Date            `json:"date"`
		Description string          `json:"description"`
		Amount      Money           `json:"amount"`
		Type        TransactionType `json:"type"`
		Category    string          `json:"category"` // soft reference to Category.Name
		Currency    string          `json:"currency"`
	}

	// NewTransaction is the user-entered part of a transaction; the
	// repository assigns the id and currency.
	NewTransaction struct {
		Date        Date            `json:"date"`
		Description string          `json:"description"`
		Amount      Money           `json:"amount"`
		Type        TransactionType `json:"type"`
		Category    string          `json:"category"`
	}

	Category struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Icon  string `json:"icon"`
		Color string `json:"color"`
	}
)

var (
	ErrInvalidType       = errors.New("invalid transaction type")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrEmptyDescription  = errors.New("empty description")
	ErrShortDescription  = errors.New("description must be at least 2 characters")
	ErrEmptyCategory     = errors.New("empty category")
	ErrFutureDate        = errors.New("date cannot be in the future")
	ErrZeroDate          = errors.New("date cannot be zero")
	ErrDescriptionLength = errors.New("description too long (max 200 characters)")
)

// Types returns the closed set of transaction types in display order.
func Types() []TransactionType {
	return []TransactionType{Income, Expense, Saving, Investment}
}

// Valid reports whether t is one of the four known tags.
func (t TransactionType) Valid() bool {
	switch t {
	case Income, Expense, Saving, Investment:
		return true
	default:
		return false
	}
}

func (t TransactionType) String() string {
	return string(t)
}

// Validate applies the data-entry rules for a user-entered record. now is
// the reference instant for the "not in the future" rule.
func (n NewTransaction) Validate(now time.Time) error {
	if n.Date.IsZero() {
		return ErrZeroDate
	}
	if n.Date.After(now) {
		return ErrFutureDate
	}
	desc := strings.TrimSpace(n.Description)
	if desc == "" {
		return ErrEmptyDescription
	}
	if len([]rune(desc)) < 2 {
		return ErrShortDescription
	}
	if len(n.Description) > 200 {
		return ErrDescriptionLength
	}
	if err := n.Amount.Validate(); err != nil {
		return err
	}
	if !n.Type.Valid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(n.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// Build turns the input into a full transaction.
func (n NewTransaction) Build(id, currency string) Transaction {
	return Transaction{
		ID:          id,
		Date:        n.Date,
		Description: n.Description,
		Amount:      n.Amount,
		Type:        n.Type,
		Category:    n.Category,
		Currency:    currency,
	}
}

// Input strips the repository-owned fields from t.
func (t Transaction) Input() NewTransaction {
	return NewTransaction{
		Date:        t.Date,
		Description: t.Description,
		Amount:      t.Amount,
		Type:        t.Type,
		Category:    t.Category,
	}
}
