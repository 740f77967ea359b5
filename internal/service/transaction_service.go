package service

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"personal-ledger/internal/domain"
	"personal-ledger/internal/errors"
	"personal-ledger/internal/ledger"
)

// TransactionService parses submissions at the boundary, hands them to the
// reconciliation engine, and drives persistence.
type TransactionService struct {
	repo   domain.TransactionRepository
	engine *ledger.Engine
	logger *slog.Logger
}

func NewTransactionService(
	repo domain.TransactionRepository,
	engine *ledger.Engine,
	logger *slog.Logger,
) *TransactionService {
	return &TransactionService{
		repo:   repo,
		engine: engine,
		logger: logger,
	}
}

type RecordRequest struct {
	Amount      string
	Payee       string
	Description string
	Timestamp   string
}

// Record validates and parses a submission, registers it as pending, then
// persists it and settles the outcome. The returned submission is valid even
// when err is non-nil, so the caller can surface the failed entry; a nil
// submission means the input never made it past parsing.
func (s *TransactionService) Record(req *RecordRequest) (*ledger.Submission, error) {
	s.logger.Info("Processing submission", "payee", req.Payee, "amount", req.Amount)

	tx, err := s.parseRequest(req)
	if err != nil {
		return nil, err
	}

	sub := s.engine.Submit(tx)

	err = s.repo.CreateTransaction(tx)
	s.engine.Settle(sub, err)
	if err != nil {
		s.logger.Error("Submission persistence failed", "seq", sub.Seq, "error", err)
		return sub, err
	}

	s.logger.Info("Submission persisted", "seq", sub.Seq, "transaction_id", tx.ID)
	return sub, nil
}

// List returns the merged view of pending submissions and the confirmed
// snapshot. On a read error the view still carries everything previously
// known, pending entries included.
func (s *TransactionService) List() (ledger.View, error) {
	return s.engine.View()
}

// Dismiss drops a failed submission from the view.
func (s *TransactionService) Dismiss(seq uint64) bool {
	return s.engine.Dismiss(seq)
}

func (s *TransactionService) parseRequest(req *RecordRequest) (domain.Transaction, error) {
	if req.Payee == "" {
		return domain.Transaction{}, errors.ErrEmptyPayee
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return domain.Transaction{}, errors.NewAppError(errors.InvalidAmount, "invalid amount format").WithDetails(err.Error())
	}

	// An omitted timestamp means "now"; anything supplied must be RFC 3339.
	timestamp := time.Now().UTC()
	if req.Timestamp != "" {
		timestamp, err = time.Parse(time.RFC3339Nano, req.Timestamp)
		if err != nil {
			return domain.Transaction{}, errors.NewAppError(errors.InvalidInput, "invalid timestamp format").WithDetails(err.Error())
		}
	}

	// Empty-string description and no description are the same state;
	// NewTransaction stores both as "".
	return domain.NewTransaction(amount, req.Payee, timestamp, req.Description), nil
}
