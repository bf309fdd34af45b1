package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ledgerly/internal/core"
	"ledgerly/internal/ledger"
)

// ErrTransactionNotFound is returned when an id matches nothing.
var ErrTransactionNotFound = errors.New("transaction not found")

// ValidationError reports a rejected user input.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return "invalid transaction: " + e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

// TransactionService applies the data-entry rules in front of the
// repository, which itself accepts anything.
type TransactionService struct {
	repo   *ledger.Repository
	now    func() time.Time
	logger *slog.Logger
}

func NewTransactionService(repo *ledger.Repository, logger *slog.Logger) *TransactionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransactionService{repo: repo, now: time.Now, logger: logger}
}

// Create validates in and adds it to the ledger.
func (s *TransactionService) Create(ctx context.Context, in core.NewTransaction) (core.Transaction, error) {
	if err := in.Validate(s.now()); err != nil {
		s.logger.WarnContext(ctx, "Rejected new transaction", "error", err)
		return core.Transaction{}, &ValidationError{Err: err}
	}
	return s.repo.Add(ctx, in), nil
}

// Edit validates tx and replaces the stored entry with the same id.
func (s *TransactionService) Edit(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Input().Validate(s.now()); err != nil {
		s.logger.WarnContext(ctx, "Rejected transaction edit", "id", tx.ID, "error", err)
		return core.Transaction{}, &ValidationError{Err: err}
	}
	if tx.Currency == "" {
		tx.Currency = s.repo.Currency()
	}
	if !s.repo.Update(ctx, tx) {
		return core.Transaction{}, fmt.Errorf("update %s: %w", tx.ID, ErrTransactionNotFound)
	}
	return tx, nil
}

// Remove deletes the entry with id.
func (s *TransactionService) Remove(ctx context.Context, id string) error {
	if !s.repo.Delete(ctx, id) {
		return fmt.Errorf("delete %s: %w", id, ErrTransactionNotFound)
	}
	return nil
}
