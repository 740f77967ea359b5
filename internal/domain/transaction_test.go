package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "personal-ledger/internal/errors"
)

func TestRowRoundTrip(t *testing.T) {
	timestamp := time.Date(2024, 3, 7, 18, 22, 5, 123456789, time.UTC)

	tests := []struct {
		name        string
		amount      string
		payee       string
		description string
	}{
		{"simple amount", "10.00", "Alice", "groceries"},
		{"negative amount", "-42.50", "Bob", ""},
		{"precision beyond float range", "19.999999999", "Carol", "for keeps"},
		{"large value", "123456789012345.678901", "Dave", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			original := NewTransaction(amount, tt.payee, timestamp, tt.description)

			got, err := TransactionFromRow(original.ToRow())
			require.NoError(t, err)

			assert.Equal(t, original.ID, got.ID)
			assert.True(t, original.Amount.Equal(got.Amount), "amount %s round-tripped to %s", original.Amount, got.Amount)
			assert.Equal(t, tt.amount, got.Amount.String(), "decimal precision must survive storage")
			assert.Equal(t, original.Payee, got.Payee)
			assert.Equal(t, original.Description, got.Description)
			assert.True(t, original.Timestamp.Equal(got.Timestamp), "timestamp %v round-tripped to %v", original.Timestamp, got.Timestamp)
		})
	}
}

func TestToRowIsDeterministic(t *testing.T) {
	tx := NewTransaction(decimal.RequireFromString("5.25"), "Bob", time.Now(), "lunch")

	assert.Equal(t, tx.ToRow(), tx.ToRow())
}

func TestNewTransactionAssignsFreshID(t *testing.T) {
	amount := decimal.RequireFromString("1.00")

	a := NewTransaction(amount, "Alice", time.Now(), "")
	b := NewTransaction(amount, "Alice", time.Now(), "")

	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEmpty(t, a.ID.String())
}

func TestNewTransactionNormalizesTimestampToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	local := time.Date(2024, 6, 1, 14, 0, 0, 0, loc)

	tx := NewTransaction(decimal.RequireFromString("3.00"), "Alice", local, "")

	assert.Equal(t, time.UTC, tx.Timestamp.Location())
	assert.True(t, local.Equal(tx.Timestamp))
}

func TestEmptyDescriptionEqualsNoDescription(t *testing.T) {
	amount := decimal.RequireFromString("10.00")
	timestamp := time.Now()

	withEmpty := NewTransaction(amount, "Alice", timestamp, "")

	assert.Equal(t, "", withEmpty.Description)

	// Stored as NULL, not as an empty string.
	row := withEmpty.ToRow()
	assert.False(t, row.Description.Valid)

	got, err := TransactionFromRow(row)
	require.NoError(t, err)
	assert.Equal(t, "", got.Description)
}

func TestTransactionFromRowMalformed(t *testing.T) {
	valid := NewTransaction(decimal.RequireFromString("9.99"), "Alice", time.Now(), "ok").ToRow()

	tests := []struct {
		name      string
		mutate    func(*TransactionRow)
		wantField string
	}{
		{"non-uuid id", func(r *TransactionRow) { r.ID = "not-a-uuid" }, "id"},
		{"non-numeric amount", func(r *TransactionRow) { r.Amount = "ten dollars" }, "amount"},
		{"unparseable timestamp", func(r *TransactionRow) { r.Timestamp = "yesterday" }, "timestamp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := valid
			tt.mutate(&row)

			_, err := TransactionFromRow(row)
			require.Error(t, err)

			malformed, ok := err.(*apperrors.MalformedRowError)
			require.True(t, ok, "expected *MalformedRowError, got %T", err)
			assert.Equal(t, tt.wantField, malformed.Field)
		})
	}
}

func TestRowTimestampOrderingMatchesTime(t *testing.T) {
	// The timestamp column is text; the store's ORDER BY only works if the
	// encoding sorts like the times do, fractional seconds included.
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	times := []time.Time{
		base,
		base.Add(250 * time.Millisecond),
		base.Add(500 * time.Millisecond),
		base.Add(time.Second),
		base.Add(time.Hour),
	}

	amount := decimal.RequireFromString("1.00")
	var prev string
	for i, ts := range times {
		row := NewTransaction(amount, "Alice", ts, "").ToRow()
		if i > 0 {
			assert.Less(t, prev, row.Timestamp)
		}
		prev = row.Timestamp
	}
}

func TestContentEquals(t *testing.T) {
	amount := decimal.RequireFromString("10.00")
	a := NewTransaction(amount, "Alice", time.Now(), "coffee")

	same := NewTransaction(decimal.RequireFromString("10"), "Alice", time.Now(), "coffee")
	assert.True(t, a.ContentEquals(same), "content match ignores generated IDs and timestamps")

	differentPayee := NewTransaction(amount, "Bob", time.Now(), "coffee")
	assert.False(t, a.ContentEquals(differentPayee))

	differentAmount := NewTransaction(decimal.RequireFromString("10.01"), "Alice", time.Now(), "coffee")
	assert.False(t, a.ContentEquals(differentAmount))

	differentDescription := NewTransaction(amount, "Alice", time.Now(), "")
	assert.False(t, a.ContentEquals(differentDescription))
}
