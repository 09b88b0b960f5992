package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// PurgeGroup soft-deletes every live comment of a group and zeroes the
// counters of its roots. It returns the number of comments deleted. The roots
// are locked first: replies already holding a root lock commit before the
// deletes read, and later replies fail their increment on the deleted root.
func (r *PgRepository) PurgeGroup(ctx context.Context, groupID int64) (int64, error) {
	var deleted int64
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		roots := make([]int64, 0)
		if err := tx.SelectContext(ctx, &roots, `SELECT id FROM comments
			WHERE group_id = $1 AND parent_id IS NULL
			ORDER BY id
			FOR UPDATE`, groupID); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `UPDATE comments SET deleted_at = now(), updated_at = now()
			WHERE group_id = $1 AND deleted_at IS NULL`, groupID)
		if err != nil {
			return err
		}
		if deleted, err = res.RowsAffected(); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `UPDATE comments SET child_count = 0
			WHERE group_id = $1 AND parent_id IS NULL AND child_count <> 0`, groupID)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to purge group %d: %w", groupID, err)
	}
	return deleted, nil
}

// ReconcileChildCounts resets every root counter that no longer equals the
// number of its live replies and returns the ids it repaired. Each root is
// fixed under its own row lock, which is the lock reply writers take, so an
// in-flight reply is counted exactly once.
func (r *PgRepository) ReconcileChildCounts(ctx context.Context) ([]int64, error) {
	candidates := make([]int64, 0)
	query := `SELECT r.id FROM comments r
		WHERE r.parent_id IS NULL
		AND r.child_count <> (
			SELECT COUNT(*) FROM comments c WHERE c.parent_id = r.id AND c.deleted_at IS NULL
		)
		ORDER BY r.id`
	if err := r.db.SelectContext(ctx, &candidates, query); err != nil {
		return nil, fmt.Errorf("failed to find drifted counters: %w", err)
	}

	repaired := make([]int64, 0, len(candidates))
	for _, id := range candidates {
		var fixed bool
		err := r.inTx(ctx, func(tx *sqlx.Tx) error {
			var locked int64
			if err := tx.GetContext(ctx, &locked, `SELECT id FROM comments WHERE id = $1 FOR UPDATE`, id); err != nil {
				return err
			}

			res, err := tx.ExecContext(ctx, `UPDATE comments SET child_count = live.n
				FROM (SELECT COUNT(*) AS n FROM comments WHERE parent_id = $1 AND deleted_at IS NULL) live
				WHERE id = $1 AND child_count <> live.n`, id)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			fixed = n == 1
			return err
		})
		if err != nil {
			return repaired, fmt.Errorf("failed to reconcile comment %d: %w", id, err)
		}
		if fixed {
			repaired = append(repaired, id)
		}
	}
	return repaired, nil
}

func (r *PgRepository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			zap.L().Error("Failed to roll back", zap.Error(err))
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
