package consumers

import (
	"context"
	"errors"
	"fmt"

	"github.com/hanghae99-6-d/backend/pkg/events"
	"go.uber.org/zap"
)

var ErrMalformedPayload = errors.New("malformed payload")

// GroupPurger removes the comments of a deleted group.
type GroupPurger interface {
	PurgeGroup(ctx context.Context, groupID int64) (int64, error)
}

type GroupEventHandler struct {
	purger GroupPurger
	logger *zap.Logger
}

func NewGroupEventHandler(purger GroupPurger, logger *zap.Logger) *GroupEventHandler {
	return &GroupEventHandler{
		purger: purger,
		logger: logger,
	}
}

func (h *GroupEventHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	h.logger.Info("Group event received",
		zap.String("event", event.Event),
		zap.String("version", event.Version),
		zap.String("traceId", event.TraceID),
	)

	switch event.Event {
	case events.GroupDeletedEvent:
		return h.handleGroupDeleted(ctx, event)
	default:
		h.logger.Warn("Unknown group event type", zap.String("event", event.Event))
		return nil
	}
}

func (h *GroupEventHandler) handleGroupDeleted(ctx context.Context, event *events.Event) error {
	var payload events.GroupDeletedPayload
	if err := event.DecodePayload(&payload); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	if payload.GroupID <= 0 {
		return fmt.Errorf("%w: groupId missing or invalid", ErrMalformedPayload)
	}

	deleted, err := h.purger.PurgeGroup(ctx, payload.GroupID)
	if err != nil {
		return err
	}

	h.logger.Info("Purged comments of deleted group",
		zap.Int64("groupId", payload.GroupID),
		zap.Int64("deleted", deleted),
		zap.String("traceId", event.TraceID),
	)
	return nil
}
