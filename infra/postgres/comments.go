package postgres

import (
	"context"

	"github.com/hanghae99-6-d/backend/domain"
)

const commentColumns = `id, group_id, parent_id, author_id, content, child_count, created_at, updated_at, deleted_at`

func (r *PgRepository) GetComment(ctx context.Context, id int64) (domain.Comment, error) {
	var c domain.Comment
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`

	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		return c, mapNotFound(err)
	}
	return c, nil
}

func (r *PgRepository) GetOwnedComment(ctx context.Context, id int64, authorID string) (domain.Comment, error) {
	var c domain.Comment
	query := `SELECT ` + commentColumns + ` FROM comments
		WHERE id = $1 AND author_id = $2 AND deleted_at IS NULL`

	if err := r.db.GetContext(ctx, &c, query, id, authorID); err != nil {
		return c, mapNotFound(err)
	}
	return c, nil
}

func (r *PgRepository) ListRoots(ctx context.Context, groupID, cursor int64, limit int) ([]domain.Comment, error) {
	comments := make([]domain.Comment, 0)
	query := `SELECT ` + commentColumns + ` FROM comments
		WHERE group_id = $1 AND parent_id IS NULL AND deleted_at IS NULL AND id > $2
		ORDER BY id ASC
		LIMIT $3`

	if err := r.db.SelectContext(ctx, &comments, query, groupID, cursor, limit); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *PgRepository) ListChildren(ctx context.Context, groupID, parentID, cursor int64, limit int) ([]domain.Comment, error) {
	comments := make([]domain.Comment, 0)
	query := `SELECT ` + commentColumns + ` FROM comments
		WHERE group_id = $1 AND parent_id = $2 AND deleted_at IS NULL AND id > $3
		ORDER BY id ASC
		LIMIT $4`

	if err := r.db.SelectContext(ctx, &comments, query, groupID, parentID, cursor, limit); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *PgRepository) InsertRoot(ctx context.Context, groupID int64, authorID, content string) (domain.Comment, error) {
	var c domain.Comment
	query := `INSERT INTO comments (group_id, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING ` + commentColumns

	err := r.db.GetContext(ctx, &c, query, groupID, authorID, content)
	return c, err
}

func (r *PgRepository) UpdateContent(ctx context.Context, id int64, content string) (domain.Comment, error) {
	var c domain.Comment
	query := `UPDATE comments SET content = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + commentColumns

	if err := r.db.GetContext(ctx, &c, query, id, content); err != nil {
		return c, mapNotFound(err)
	}
	return c, nil
}

func (r *PgRepository) SoftDelete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, softDeleteQuery, id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

const softDeleteQuery = `UPDATE comments SET deleted_at = now(), updated_at = now()
	WHERE id = $1 AND deleted_at IS NULL`
