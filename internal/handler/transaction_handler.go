package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"personal-ledger/internal/domain"
	"personal-ledger/internal/errors"
	"personal-ledger/internal/service"
)

type TransactionHandler struct {
	transactionService *service.TransactionService
}

func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

type CreateTransactionRequest struct {
	Amount      string `json:"amount"`
	Payee       string `json:"payee"`
	Description string `json:"description,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
}

type CreateTransactionResponse struct {
	TransactionID string `json:"transaction_id"`
	Seq           uint64 `json:"seq"`
}

type PendingTransaction struct {
	Seq         uint64             `json:"seq"`
	Transaction domain.Transaction `json:"transaction"`
}

type FailedTransaction struct {
	Seq         uint64             `json:"seq"`
	Transaction domain.Transaction `json:"transaction"`
	Error       string             `json:"error"`
}

// ListTransactionsResponse is the merged view: pending submissions first (in
// submission order), then the confirmed list (newest first), with failed
// submissions reported alongside.
type ListTransactionsResponse struct {
	Pending      []PendingTransaction `json:"pending"`
	Transactions []domain.Transaction `json:"transactions"`
	Failed       []FailedTransaction  `json:"failed,omitempty"`
}

func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body").WithDetails(err.Error()))
		return
	}

	sub, err := h.transactionService.Record(&service.RecordRequest{
		Amount:      req.Amount,
		Payee:       req.Payee,
		Description: req.Description,
		Timestamp:   req.Timestamp,
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			writeError(w, appErr)
		} else {
			writeError(w, errors.NewAppError(errors.InternalError, "an unexpected error occurred").WithDetails(err.Error()))
		}
		return
	}

	writeJSON(w, http.StatusCreated, CreateTransactionResponse{
		TransactionID: sub.Transaction.ID.String(),
		Seq:           sub.Seq,
	})
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	view, err := h.transactionService.List()

	resp := ListTransactionsResponse{
		Pending:      make([]PendingTransaction, 0, len(view.Pending)),
		Transactions: view.Transactions,
	}
	if resp.Transactions == nil {
		resp.Transactions = []domain.Transaction{}
	}
	for _, p := range view.Pending {
		resp.Pending = append(resp.Pending, PendingTransaction{Seq: p.Seq, Transaction: p.Transaction})
	}
	for _, f := range view.Failed {
		resp.Failed = append(resp.Failed, FailedTransaction{Seq: f.Seq, Transaction: f.Transaction, Error: f.Err.Error()})
	}

	// A read error does not blank the list: the previous snapshot and the
	// pending section are still served, with the error reported beside them.
	envelope := Response{Data: resp}
	if err != nil {
		envelope.Error = toError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(envelope)
}

func (h *TransactionHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	seqStr := mux.Vars(r)["seq"]
	seq, err := strconv.ParseUint(seqStr, 10, 64)
	if err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid submission sequence").WithDetails(err.Error()))
		return
	}

	if !h.transactionService.Dismiss(seq) {
		writeError(w, errors.NewAppErrorf(errors.InvalidInput, "no failed submission with seq %d", seq))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
