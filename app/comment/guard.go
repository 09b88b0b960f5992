package comment

import (
	"context"
	"errors"
	"fmt"

	"github.com/hanghae99-6-d/backend/domain"
)

type commentLookup interface {
	GetComment(ctx context.Context, id int64) (domain.Comment, error)
	GetOwnedComment(ctx context.Context, id int64, authorID string) (domain.Comment, error)
}

type Guard struct {
	lookup commentLookup
}

func NewGuard(lookup commentLookup) *Guard {
	return &Guard{lookup: lookup}
}

// RequireExists loads a comment including soft-deleted rows.
func (g *Guard) RequireExists(ctx context.Context, commentID int64) (domain.Comment, error) {
	c, err := g.lookup.GetComment(ctx, commentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return domain.Comment{}, fmt.Errorf("comment %d: %w", commentID, ErrNotFound)
		}
		return domain.Comment{}, fmt.Errorf("failed to load comment %d: %w", commentID, err)
	}
	return c, nil
}

// RequireOwnership loads a live comment written by authorID.
func (g *Guard) RequireOwnership(ctx context.Context, authorID string, commentID int64) (domain.Comment, error) {
	c, err := g.lookup.GetOwnedComment(ctx, commentID, authorID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return domain.Comment{}, fmt.Errorf("comment %d: %w", commentID, ErrAccessDenied)
		}
		return domain.Comment{}, fmt.Errorf("failed to load comment %d: %w", commentID, err)
	}
	return c, nil
}
