package ledger

import (
	"log/slog"
	"sync"

	"personal-ledger/internal/domain"
)

type submissionState int

const (
	statePending submissionState = iota
	stateConfirmed
	stateFailed
)

// Submission tracks one accepted transaction from the moment it is handed to
// the engine until a snapshot corroborates it or persistence reports failure.
type Submission struct {
	Seq         uint64
	Transaction domain.Transaction

	state submissionState
	err   error
}

// PendingEntry is a submission awaiting corroboration, rendered ahead of the
// confirmed list.
type PendingEntry struct {
	Seq         uint64
	Transaction domain.Transaction
}

// FailedEntry is a submission the store rejected. It stays in the view until
// dismissed, so the caller can re-offer the input for resubmission.
type FailedEntry struct {
	Seq         uint64
	Transaction domain.Transaction
	Err         error
}

// View is the merged ordered list: pending submissions in submission order,
// then the confirmed snapshot in store order. Pending entries are never
// interleaved into the confirmed ordering.
type View struct {
	Pending      []PendingEntry
	Transactions []domain.Transaction
	Failed       []FailedEntry
}

// Engine reconciles the confirmed snapshot read from the repository with
// submissions that are still in flight. It performs no retries and no write
// buffering; every refresh re-queries the store.
type Engine struct {
	repo   domain.TransactionRepository
	logger *slog.Logger

	mu           sync.Mutex
	version      uint64
	nextSeq      uint64
	fetched      bool
	refreshArmed bool
	snapshot     []domain.Transaction
	submissions  []*Submission
}

func NewEngine(repo domain.TransactionRepository, logger *slog.Logger) *Engine {
	return &Engine{
		repo:   repo,
		logger: logger,
	}
}

// Submit accepts a transaction for persistence and registers it as pending,
// making it visible in the merged view before the store has confirmed
// anything. The version counter increments exactly once per submission,
// whatever its eventual outcome. Submit performs no I/O.
func (e *Engine) Submit(tx domain.Transaction) *Submission {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextSeq++
	e.version++

	sub := &Submission{
		Seq:         e.nextSeq,
		Transaction: tx,
		state:       statePending,
	}
	e.submissions = append(e.submissions, sub)

	e.logger.Info("Submission accepted", "seq", sub.Seq, "payee", tx.Payee, "version", e.version)
	return sub
}

// Settle records the outcome of the persistence call for a submission. A
// failure marks it Failed immediately; success arms exactly one snapshot
// refresh, performed by the next View, so the pending entry can be replaced
// by its confirmed counterpart.
func (e *Engine) Settle(sub *Submission, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if sub.state != statePending {
		return
	}

	if err != nil {
		sub.state = stateFailed
		sub.err = err
		e.logger.Warn("Submission failed", "seq", sub.Seq, "error", err)
		return
	}

	e.refreshArmed = true
}

// View returns the merged ordered view. It fetches a fresh snapshot only
// when one is armed (or on first use) — one fetch per settled submission,
// never one per render. A failed fetch keeps the previous snapshot, leaves
// pending entries visible, and is reported through the returned error rather
// than surfacing as an empty list.
func (e *Engine) View() (View, error) {
	e.mu.Lock()
	needFetch := !e.fetched || e.refreshArmed
	e.refreshArmed = false
	e.mu.Unlock()

	var fetchErr error
	if needFetch {
		fetchErr = e.refresh()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buildViewLocked(), fetchErr
}

// Refresh forces a snapshot re-fetch regardless of the version counter. It
// is the retry hook for callers that saw a read error; the engine itself
// never retries.
func (e *Engine) Refresh() error {
	return e.refresh()
}

func (e *Engine) refresh() error {
	snapshot, err := e.repo.ListTransactions()

	e.mu.Lock()
	defer e.mu.Unlock()

	if err != nil {
		e.logger.Error("Snapshot refresh failed", "error", err)
		return err
	}

	e.snapshot = snapshot
	e.fetched = true
	return nil
}

// Version reports how many submissions have been attempted.
func (e *Engine) Version() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.version
}

// Dismiss drops a failed submission from the view, reporting whether the
// sequence number named one. Pending and confirmed submissions are not
// dismissable.
func (e *Engine) Dismiss(seq uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, sub := range e.submissions {
		if sub.Seq == seq && sub.state == stateFailed {
			e.submissions = append(e.submissions[:i], e.submissions[i+1:]...)
			return true
		}
	}
	return false
}

// buildViewLocked merges pending submissions with the current snapshot. A
// pending submission whose content appears in the snapshot is superseded:
// it transitions to Confirmed and only the snapshot copy stays visible.
// Matching is by submitted content, not ID, because the generated ID is not
// known to the submitter until persistence completes.
func (e *Engine) buildViewLocked() View {
	view := View{
		Transactions: append([]domain.Transaction(nil), e.snapshot...),
	}

	remaining := e.submissions[:0]
	for _, sub := range e.submissions {
		switch sub.state {
		case statePending:
			if e.snapshotContainsLocked(sub.Transaction) {
				sub.state = stateConfirmed
				e.logger.Info("Submission confirmed", "seq", sub.Seq)
				continue
			}
			remaining = append(remaining, sub)
			view.Pending = append(view.Pending, PendingEntry{Seq: sub.Seq, Transaction: sub.Transaction})
		case stateFailed:
			remaining = append(remaining, sub)
			view.Failed = append(view.Failed, FailedEntry{Seq: sub.Seq, Transaction: sub.Transaction, Err: sub.err})
		}
	}
	e.submissions = remaining

	return view
}

func (e *Engine) snapshotContainsLocked(tx domain.Transaction) bool {
	for _, confirmed := range e.snapshot {
		if confirmed.ContentEquals(tx) {
			return true
		}
	}
	return false
}
