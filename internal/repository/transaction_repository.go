package repository

import (
	"log/slog"

	"github.com/lib/pq"

	"personal-ledger/internal/domain"
	"personal-ledger/internal/errors"
)

// transactionsTable maps domain.Transaction to its stored row. The column
// set matches the transactions table; rows come back newest first.
var transactionsTable = &Table[domain.Transaction, domain.TransactionRow]{
	Name:    "transactions",
	Columns: []string{"id", "amount", "description", "payee", "timestamp"},
	OrderBy: "timestamp DESC",
	ToRow:   domain.Transaction.ToRow,
	FromRow: domain.TransactionFromRow,
	Args: func(r domain.TransactionRow) []interface{} {
		return []interface{}{r.ID, r.Amount, r.Description, r.Payee, r.Timestamp}
	},
	Scan: func(scan func(dest ...interface{}) error) (domain.TransactionRow, error) {
		var r domain.TransactionRow
		err := scan(&r.ID, &r.Amount, &r.Description, &r.Payee, &r.Timestamp)
		return r, err
	},
}

type transactionRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewTransactionRepository(db SQLExecutor, logger *slog.Logger) domain.TransactionRepository {
	return &transactionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *transactionRepository) CreateTransaction(tx domain.Transaction) error {
	err := transactionsTable.CreateOne(r.db, tx)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				r.logger.Warn("Duplicate transaction id", "transaction_id", tx.ID)
				return errors.ErrDuplicateTransaction
			}
		}
		r.logger.Error("Failed to create transaction",
			"transaction_id", tx.ID,
			"payee", tx.Payee,
			"amount", tx.Amount,
			"error", err)
		return errors.NewAppError(errors.PersistFailed, "failed to create transaction").WithDetails(err.Error())
	}

	r.logger.Info("Transaction created successfully", "transaction_id", tx.ID)
	return nil
}

func (r *transactionRepository) ListTransactions() ([]domain.Transaction, error) {
	transactions, err := transactionsTable.ReadMany(r.db)
	if err != nil {
		// A malformed row names its field and fails the whole read; the
		// snapshot is untrustworthy, not merely incomplete.
		if malformed, ok := err.(*errors.MalformedRowError); ok {
			r.logger.Error("Stored transaction row failed to parse", "field", malformed.Field, "error", malformed.Err)
			return nil, malformed
		}
		r.logger.Error("Failed to list transactions", "error", err)
		return nil, errors.NewAppError(errors.ReadFailed, "failed to list transactions").WithDetails(err.Error())
	}

	return transactions, nil
}
