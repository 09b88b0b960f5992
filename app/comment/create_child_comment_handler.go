package comment

import (
	"context"
)

type CreateChildCommentHandler struct {
	service *Service
}

func NewCreateChildCommentHandler(service *Service) *CreateChildCommentHandler {
	return &CreateChildCommentHandler{
		service: service,
	}
}

type CreateChildCommentRequest struct {
	GroupID  int64  `params:"groupId" json:"-" validate:"required,gt=0"`
	ParentID int64  `params:"parentId" json:"-" validate:"required,gt=0"`
	Content  string `json:"content" validate:"required,max=1000"`
}

func (h *CreateChildCommentHandler) Handle(ctx context.Context, req *CreateChildCommentRequest) (*CreateCommentResponse, error) {
	if err := validateRequest("create_child", req); err != nil {
		return nil, err
	}

	userID, err := requireUserID(ctx, "create_child")
	if err != nil {
		return nil, err
	}

	if _, err := h.service.CreateChild(ctx, req.GroupID, req.ParentID, userID, req.Content); err != nil {
		return nil, toHTTPError("create_child", err)
	}

	return &CreateCommentResponse{}, nil
}
