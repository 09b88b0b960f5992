package grpc

import (
	"context"
	"errors"

	"github.com/hanghae99-6-d/backend/app/comment"
	"github.com/hanghae99-6-d/backend/domain"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	CommentServiceName      = "comments.v1.CommentService"
	GetChildCountFullMethod = "/" + CommentServiceName + "/GetChildCount"
)

// CommentServiceServer serves reply counters to other services. Requests and
// replies are well-known wrapper messages so no generated code is needed.
type CommentServiceServer interface {
	GetChildCount(ctx context.Context, req *wrapperspb.Int64Value) (*wrapperspb.Int64Value, error)
}

type commentReader interface {
	GetComment(ctx context.Context, id int64) (domain.Comment, error)
}

type CommentService struct {
	repository commentReader
}

func NewCommentService(repository commentReader) *CommentService {
	return &CommentService{repository: repository}
}

func RegisterCommentServiceServer(registrar grpc.ServiceRegistrar, srv CommentServiceServer) {
	registrar.RegisterService(&CommentServiceDesc, srv)
}

// GetChildCount returns the reply counter of a live root comment.
func (s *CommentService) GetChildCount(ctx context.Context, req *wrapperspb.Int64Value) (*wrapperspb.Int64Value, error) {
	if req.GetValue() <= 0 {
		return nil, status.Error(codes.InvalidArgument, "comment id must be positive")
	}

	c, err := s.repository.GetComment(ctx, req.GetValue())
	if err != nil {
		return nil, mapError(err)
	}
	if c.IsDeleted() {
		return nil, status.Error(codes.NotFound, "comment not found")
	}
	if !c.IsRoot() {
		return nil, status.Error(codes.InvalidArgument, "replies have no reply counter")
	}

	return wrapperspb.Int64(int64(c.ChildCount)), nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, comment.ErrNotFound):
		return status.Error(codes.NotFound, "comment not found")
	case errors.Is(err, comment.ErrAccessDenied):
		return status.Error(codes.PermissionDenied, "access denied")
	case errors.Is(err, comment.ErrTransactionFailed):
		return status.Error(codes.Aborted, "transaction failed")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

func getChildCountHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.Int64Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CommentServiceServer).GetChildCount(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GetChildCountFullMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CommentServiceServer).GetChildCount(ctx, req.(*wrapperspb.Int64Value))
	}
	return interceptor(ctx, in, info, handler)
}

var CommentServiceDesc = grpc.ServiceDesc{
	ServiceName: CommentServiceName,
	HandlerType: (*CommentServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetChildCount",
			Handler:    getChildCountHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "comments/v1/comment.proto",
}

// CommentClient calls CommentService over an existing connection.
type CommentClient struct {
	cc grpc.ClientConnInterface
}

func NewCommentClient(cc grpc.ClientConnInterface) *CommentClient {
	return &CommentClient{cc: cc}
}

func (c *CommentClient) GetChildCount(ctx context.Context, commentID int64, opts ...grpc.CallOption) (int64, error) {
	out := new(wrapperspb.Int64Value)
	if err := c.cc.Invoke(ctx, GetChildCountFullMethod, wrapperspb.Int64(commentID), out, opts...); err != nil {
		return 0, err
	}
	return out.GetValue(), nil
}
