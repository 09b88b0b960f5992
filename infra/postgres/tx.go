package postgres

import (
	"context"

	"github.com/hanghae99-6-d/backend/domain"
	"github.com/jmoiron/sqlx"
)

type pgTx struct {
	tx *sqlx.Tx
}

func (t *pgTx) InsertChild(ctx context.Context, groupID, parentID int64, authorID, content string) (domain.Comment, error) {
	var c domain.Comment
	query := `INSERT INTO comments (group_id, parent_id, author_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + commentColumns

	if err := t.tx.GetContext(ctx, &c, query, groupID, parentID, authorID, content); err != nil {
		return c, mapInsertError(err)
	}
	return c, nil
}

// IncrementChildCount adds one in a single statement. The row lock it takes
// serializes concurrent replies to the same parent.
func (t *pgTx) IncrementChildCount(ctx context.Context, parentID int64) error {
	query := `UPDATE comments SET child_count = child_count + 1
		WHERE id = $1 AND parent_id IS NULL AND deleted_at IS NULL`

	res, err := t.tx.ExecContext(ctx, query, parentID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (t *pgTx) SoftDelete(ctx context.Context, id int64) error {
	res, err := t.tx.ExecContext(ctx, softDeleteQuery, id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// DecrementChildCount also applies to a soft-deleted parent so its
// counter keeps matching the replies that are still listed.
func (t *pgTx) DecrementChildCount(ctx context.Context, parentID int64) error {
	query := `UPDATE comments SET child_count = GREATEST(child_count - 1, 0)
		WHERE id = $1 AND parent_id IS NULL`

	res, err := t.tx.ExecContext(ctx, query, parentID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (t *pgTx) Commit() error {
	return t.tx.Commit()
}

func (t *pgTx) Rollback() error {
	return t.tx.Rollback()
}
