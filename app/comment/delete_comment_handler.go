package comment

import (
	"context"

	"github.com/hanghae99-6-d/backend/pkg/httperror"
)

type DeleteCommentHandler struct {
	service *Service
}

func NewDeleteCommentHandler(service *Service) *DeleteCommentHandler {
	return &DeleteCommentHandler{
		service: service,
	}
}

type DeleteCommentRequest struct {
	CommentID int64 `params:"commentId" json:"-" validate:"required,gt=0"`
}

type DeleteCommentResponse struct {
}

func (h *DeleteCommentHandler) Handle(ctx context.Context, req *DeleteCommentRequest) (*DeleteCommentResponse, error) {
	if err := validateRequest("destroy", req); err != nil {
		return nil, err
	}

	userID, err := requireUserID(ctx, "destroy")
	if err != nil {
		return nil, err
	}

	if err := h.service.DeleteComment(ctx, userID, req.CommentID); err != nil {
		return nil, toHTTPError("destroy", err)
	}

	return nil, httperror.NoContent("comments.destroy.success", "Comment deleted", nil)
}
