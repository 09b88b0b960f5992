package comment

import (
	"context"

	"github.com/hanghae99-6-d/backend/domain"
)

// Repository is the comment store. Reads and single-row writes only see live
// rows unless the method says otherwise; missing rows are reported as
// ErrNotFound.
type Repository interface {
	BeginTx(ctx context.Context) (Tx, error)

	// GetComment returns the row whether or not it is soft-deleted.
	GetComment(ctx context.Context, id int64) (domain.Comment, error)
	GetOwnedComment(ctx context.Context, id int64, authorID string) (domain.Comment, error)

	ListRoots(ctx context.Context, groupID, cursor int64, limit int) ([]domain.Comment, error)
	ListChildren(ctx context.Context, groupID, parentID, cursor int64, limit int) ([]domain.Comment, error)

	InsertRoot(ctx context.Context, groupID int64, authorID, content string) (domain.Comment, error)
	UpdateContent(ctx context.Context, id int64, content string) (domain.Comment, error)
	SoftDelete(ctx context.Context, id int64) error
}

// Tx is one unit of work. The child counter can only be written through a Tx
// so that it always moves together with the child row it counts.
type Tx interface {
	InsertChild(ctx context.Context, groupID, parentID int64, authorID, content string) (domain.Comment, error)
	// IncrementChildCount adds one to a live root's counter in place.
	IncrementChildCount(ctx context.Context, parentID int64) error
	SoftDelete(ctx context.Context, id int64) error
	DecrementChildCount(ctx context.Context, parentID int64) error

	Commit() error
	Rollback() error
}
