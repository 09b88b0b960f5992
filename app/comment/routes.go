package comment

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hanghae99-6-d/backend/internal/handler"
)

func RegisterRoutes(router fiber.Router, service *Service) {
	router.Get("/groups/:groupId/comments",
		handler.Handle[GetCommentsRequest, GetCommentsResponse](NewGetCommentsHandler(service), fiber.StatusOK))
	router.Post("/groups/:groupId/comments",
		handler.Handle[CreateCommentRequest, CreateCommentResponse](NewCreateCommentHandler(service), fiber.StatusCreated))
	router.Get("/groups/:groupId/comments/:parentId/children",
		handler.Handle[GetChildCommentsRequest, GetCommentsResponse](NewGetChildCommentsHandler(service), fiber.StatusOK))
	router.Post("/groups/:groupId/comments/:parentId/children",
		handler.Handle[CreateChildCommentRequest, CreateCommentResponse](NewCreateChildCommentHandler(service), fiber.StatusCreated))
	router.Patch("/comments/:commentId",
		handler.Handle[UpdateCommentRequest, UpdateCommentResponse](NewUpdateCommentHandler(service), fiber.StatusOK))
	router.Delete("/comments/:commentId",
		handler.Handle[DeleteCommentRequest, DeleteCommentResponse](NewDeleteCommentHandler(service), fiber.StatusNoContent))
}
