package domain

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"personal-ledger/internal/errors"
)

// rowTimeFormat is RFC 3339 with fixed nine-digit fractional seconds.
// Timestamps are always UTC, so the encoded column sorts lexicographically
// in chronological order and the store's ORDER BY stays correct.
const rowTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Transaction is the canonical in-memory form of a ledger entry. An empty
// Description means "no description"; both states collapse at construction.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Payee       string          `json:"payee"`
	Description string          `json:"description,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
}

// NewTransaction builds a transaction with a freshly generated identifier.
// The ID is assigned here and never by callers.
func NewTransaction(amount decimal.Decimal, payee string, timestamp time.Time, description string) Transaction {
	return Transaction{
		ID:          uuid.New(),
		Amount:      amount,
		Payee:       payee,
		Description: description,
		Timestamp:   timestamp.UTC(),
	}
}

// ContentEquals reports whether two transactions carry the same submitted
// content. Identifiers are generated server-side, so reconciliation matches
// on the fields the submitter actually provided.
func (t Transaction) ContentEquals(o Transaction) bool {
	return t.Payee == o.Payee &&
		t.Amount.Equal(o.Amount) &&
		t.Description == o.Description
}

// TransactionRow is the storage form: every field a storage-safe scalar.
// Application code obtains rows only through ToRow.
type TransactionRow struct {
	ID          string
	Amount      string
	Description sql.NullString
	Payee       string
	Timestamp   string
}

// ToRow converts to the storage form. Total: it cannot fail.
func (t Transaction) ToRow() TransactionRow {
	var description sql.NullString
	if t.Description != "" {
		description = sql.NullString{String: t.Description, Valid: true}
	}

	return TransactionRow{
		ID:          t.ID.String(),
		Amount:      t.Amount.String(),
		Description: description,
		Payee:       t.Payee,
		Timestamp:   t.Timestamp.UTC().Format(rowTimeFormat),
	}
}

// TransactionFromRow parses a stored row back into a transaction. The first
// field that fails to parse aborts the conversion with a MalformedRowError
// naming it.
func TransactionFromRow(row TransactionRow) (Transaction, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return Transaction{}, errors.NewMalformedRowError("id", err)
	}

	amount, err := decimal.NewFromString(row.Amount)
	if err != nil {
		return Transaction{}, errors.NewMalformedRowError("amount", err)
	}

	timestamp, err := time.Parse(time.RFC3339Nano, row.Timestamp)
	if err != nil {
		return Transaction{}, errors.NewMalformedRowError("timestamp", err)
	}

	var description string
	if row.Description.Valid {
		description = row.Description.String
	}

	return Transaction{
		ID:          id,
		Amount:      amount,
		Payee:       row.Payee,
		Description: description,
		Timestamp:   timestamp.UTC(),
	}, nil
}

type TransactionRepository interface {
	CreateTransaction(tx Transaction) error
	ListTransactions() ([]Transaction, error)
}
