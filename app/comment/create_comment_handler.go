package comment

import (
	"context"
)

type CreateCommentHandler struct {
	service *Service
}

func NewCreateCommentHandler(service *Service) *CreateCommentHandler {
	return &CreateCommentHandler{
		service: service,
	}
}

type CreateCommentRequest struct {
	GroupID int64  `params:"groupId" json:"-" validate:"required,gt=0"`
	Content string `json:"content" validate:"required,max=1000"`
}

type CreateCommentResponse struct {
}

func (h *CreateCommentHandler) Handle(ctx context.Context, req *CreateCommentRequest) (*CreateCommentResponse, error) {
	if err := validateRequest("create", req); err != nil {
		return nil, err
	}

	userID, err := requireUserID(ctx, "create")
	if err != nil {
		return nil, err
	}

	if _, err := h.service.CreateRoot(ctx, req.GroupID, userID, req.Content); err != nil {
		return nil, toHTTPError("create", err)
	}

	return &CreateCommentResponse{}, nil
}
