package comment

import (
	"context"
	"time"

	"github.com/hanghae99-6-d/backend/domain"
	"github.com/hanghae99-6-d/backend/pkg/events"
	"go.uber.org/zap"
)

func (s *Service) publishCreated(ctx context.Context, name string, c domain.Comment) {
	s.publish(ctx, name, c.ID, events.CommentCreatedPayload{
		ID:        c.ID,
		GroupID:   c.GroupID,
		ParentID:  c.ParentID,
		AuthorID:  c.AuthorID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	})
}

func (s *Service) publishUpdated(ctx context.Context, c domain.Comment) {
	s.publish(ctx, events.CommentUpdatedEvent, c.ID, events.CommentUpdatedPayload{
		ID:        c.ID,
		AuthorID:  c.AuthorID,
		Content:   c.Content,
		UpdatedAt: c.UpdatedAt,
	})
}

func (s *Service) publishDeleted(ctx context.Context, c domain.Comment) {
	s.publish(ctx, events.CommentDeletedEvent, c.ID, events.CommentDeletedPayload{
		ID:        c.ID,
		GroupID:   c.GroupID,
		ParentID:  c.ParentID,
		AuthorID:  c.AuthorID,
		DeletedAt: time.Now().UTC(),
	})
}

// publish is best effort: the write has already committed.
func (s *Service) publish(ctx context.Context, name string, commentID int64, payload any) {
	if s.eventPublisher == nil {
		return
	}

	headers := events.NewHeaders(s.serviceName)

	event, err := events.NewEvent(name, events.EventVersionV1, payload, headers)
	if err != nil {
		zap.L().Error("Failed to build comment event", zap.String("event", name), zap.Error(err))
		return
	}

	if err := s.eventPublisher.Publish(ctx, events.CommentExchange, event, headers); err != nil {
		zap.L().Error("Failed to publish comment event",
			zap.String("event", name),
			zap.Int64("commentId", commentID),
			zap.Error(err),
		)
	}
}
