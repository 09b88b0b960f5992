package comment

import (
	"context"
	"errors"
	"fmt"

	"github.com/hanghae99-6-d/backend/domain"
	"github.com/hanghae99-6-d/backend/pkg/events"
	"go.uber.org/zap"
)

const defaultPageSize = 20

// Service implements the comment use cases independently of the transport.
type Service struct {
	repository     Repository
	guard          *Guard
	eventPublisher events.Publisher
	serviceName    string
	pageSize       int
}

type Option func(*Service)

// WithPublisher enables domain events. A nil publisher disables them.
func WithPublisher(publisher events.Publisher, serviceName string) Option {
	return func(s *Service) {
		s.eventPublisher = publisher
		s.serviceName = serviceName
	}
}

func WithPageSize(pageSize int) Option {
	return func(s *Service) {
		if pageSize > 0 {
			s.pageSize = pageSize
		}
	}
}

func NewService(repository Repository, opts ...Option) *Service {
	s := &Service{
		repository:  repository,
		guard:       NewGuard(repository),
		serviceName: "comment",
		pageSize:    defaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListRoots returns one page of live root comments with id > offset, oldest first.
func (s *Service) ListRoots(ctx context.Context, groupID, offset int64) ([]domain.CommentView, error) {
	rows, err := s.repository.ListRoots(ctx, groupID, offset, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments of group %d: %w", groupID, err)
	}
	return domain.Views(rows), nil
}

func (s *Service) CreateRoot(ctx context.Context, groupID int64, authorID, content string) (domain.Comment, error) {
	c, err := s.repository.InsertRoot(ctx, groupID, authorID, content)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("failed to create comment in group %d: %w", groupID, err)
	}

	s.publishCreated(ctx, events.CommentCreatedEvent, c)
	return c, nil
}

// ListChildren returns one page of live replies to parentID. A soft-deleted
// parent still lists its replies.
func (s *Service) ListChildren(ctx context.Context, groupID, parentID, offset int64) ([]domain.CommentView, error) {
	parent, err := s.guard.RequireExists(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if parent.GroupID != groupID {
		return nil, fmt.Errorf("comment %d is not in group %d: %w", parentID, groupID, ErrNotFound)
	}

	rows, err := s.repository.ListChildren(ctx, groupID, parentID, offset, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list replies of comment %d: %w", parentID, err)
	}
	return domain.Views(rows), nil
}

// CreateChild inserts a reply and bumps the parent's counter in one unit of
// work. The counter is incremented in place rather than set from the value
// read here, so concurrent replies cannot overwrite each other.
func (s *Service) CreateChild(ctx context.Context, groupID, parentID int64, authorID, content string) (domain.Comment, error) {
	parent, err := s.guard.RequireExists(ctx, parentID)
	if err != nil {
		return domain.Comment{}, err
	}
	if parent.IsDeleted() || parent.GroupID != groupID {
		return domain.Comment{}, fmt.Errorf("comment %d in group %d: %w", parentID, groupID, ErrNotFound)
	}
	if !parent.IsRoot() {
		return domain.Comment{}, fmt.Errorf("comment %d: %w", parentID, ErrNestingNotAllowed)
	}

	var child domain.Comment
	err = s.withinTx(ctx, func(tx Tx) error {
		var err error
		child, err = tx.InsertChild(ctx, groupID, parentID, authorID, content)
		if err != nil {
			return fmt.Errorf("insert reply: %w", err)
		}
		if err := tx.IncrementChildCount(ctx, parentID); err != nil {
			return fmt.Errorf("increment reply count of %d: %w", parentID, err)
		}
		return nil
	})
	if err != nil {
		zap.L().Warn("Reply creation rolled back",
			zap.Int64("parentId", parentID),
			zap.Int("priorChildCount", parent.ChildCount),
			zap.Error(err),
		)
		return domain.Comment{}, err
	}

	s.publishCreated(ctx, events.CommentChildCreatedEvent, child)
	return child, nil
}

func (s *Service) UpdateComment(ctx context.Context, authorID string, commentID int64, content string) error {
	if _, err := s.guard.RequireOwnership(ctx, authorID, commentID); err != nil {
		return err
	}

	updated, err := s.repository.UpdateContent(ctx, commentID, content)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("comment %d: %w", commentID, ErrAccessDenied)
		}
		return fmt.Errorf("failed to update comment %d: %w", commentID, err)
	}

	s.publishUpdated(ctx, updated)
	return nil
}

// DeleteComment soft-deletes a comment. Deleting a reply also decrements its
// parent's counter in the same unit of work; deleting a root leaves its
// replies in place.
func (s *Service) DeleteComment(ctx context.Context, authorID string, commentID int64) error {
	c, err := s.guard.RequireOwnership(ctx, authorID, commentID)
	if err != nil {
		return err
	}

	if c.IsRoot() {
		if err := s.repository.SoftDelete(ctx, commentID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("comment %d: %w", commentID, ErrAccessDenied)
			}
			return fmt.Errorf("failed to delete comment %d: %w", commentID, err)
		}
	} else {
		parentID := *c.ParentID
		err := s.withinTx(ctx, func(tx Tx) error {
			if err := tx.SoftDelete(ctx, commentID); err != nil {
				return fmt.Errorf("delete reply: %w", err)
			}
			if err := tx.DecrementChildCount(ctx, parentID); err != nil {
				return fmt.Errorf("decrement reply count of %d: %w", parentID, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	s.publishDeleted(ctx, c)
	return nil
}
