package comment

import (
	"context"

	"github.com/hanghae99-6-d/backend/domain"
)

type GetCommentsHandler struct {
	service *Service
}

func NewGetCommentsHandler(service *Service) *GetCommentsHandler {
	return &GetCommentsHandler{
		service: service,
	}
}

type GetCommentsRequest struct {
	GroupID int64 `params:"groupId" json:"-" validate:"required,gt=0"`
	Offset  int64 `query:"offset" json:"-" validate:"gte=0"`
}

type GetCommentsResponse struct {
	Comments []domain.CommentView `json:"comments"`
}

func (h *GetCommentsHandler) Handle(ctx context.Context, req *GetCommentsRequest) (*GetCommentsResponse, error) {
	if err := validateRequest("index", req); err != nil {
		return nil, err
	}

	comments, err := h.service.ListRoots(ctx, req.GroupID, req.Offset)
	if err != nil {
		return nil, toHTTPError("index", err)
	}

	return &GetCommentsResponse{
		Comments: comments,
	}, nil
}
