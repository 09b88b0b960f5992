package comment

import (
	"context"
)

type GetChildCommentsHandler struct {
	service *Service
}

func NewGetChildCommentsHandler(service *Service) *GetChildCommentsHandler {
	return &GetChildCommentsHandler{
		service: service,
	}
}

type GetChildCommentsRequest struct {
	GroupID  int64 `params:"groupId" json:"-" validate:"required,gt=0"`
	ParentID int64 `params:"parentId" json:"-" validate:"required,gt=0"`
	Offset   int64 `query:"offset" json:"-" validate:"gte=0"`
}

func (h *GetChildCommentsHandler) Handle(ctx context.Context, req *GetChildCommentsRequest) (*GetCommentsResponse, error) {
	if err := validateRequest("children", req); err != nil {
		return nil, err
	}

	comments, err := h.service.ListChildren(ctx, req.GroupID, req.ParentID, req.Offset)
	if err != nil {
		return nil, toHTTPError("children", err)
	}

	return &GetCommentsResponse{
		Comments: comments,
	}, nil
}
