package comment

import (
	"context"
)

type UpdateCommentHandler struct {
	service *Service
}

func NewUpdateCommentHandler(service *Service) *UpdateCommentHandler {
	return &UpdateCommentHandler{
		service: service,
	}
}

type UpdateCommentRequest struct {
	CommentID int64  `params:"commentId" json:"-" validate:"required,gt=0"`
	Content   string `json:"content" validate:"required,max=1000"`
}

type UpdateCommentResponse struct {
}

func (h *UpdateCommentHandler) Handle(ctx context.Context, req *UpdateCommentRequest) (*UpdateCommentResponse, error) {
	if err := validateRequest("update", req); err != nil {
		return nil, err
	}

	userID, err := requireUserID(ctx, "update")
	if err != nil {
		return nil, err
	}

	if err := h.service.UpdateComment(ctx, userID, req.CommentID, req.Content); err != nil {
		return nil, toHTTPError("update", err)
	}

	return &UpdateCommentResponse{}, nil
}
