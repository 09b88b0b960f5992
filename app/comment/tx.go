package comment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// withinTx runs fn inside one unit of work owned by this call. The handle is
// committed when fn succeeds and rolled back on any other path, including a
// panic in fn. Every failure is reported as ErrTransactionFailed wrapping the
// cause.
func (s *Service) withinTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.repository.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrTransactionFailed, err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		// Rolled back already when ctx was cancelled.
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			zap.L().Error("Failed to roll back comment transaction", zap.Error(err))
		}
	}()

	if err := fn(tx); err != nil {
		return fmt.Errorf("%w: %w", ErrTransactionFailed, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrTransactionFailed, err)
	}
	committed = true

	return nil
}
