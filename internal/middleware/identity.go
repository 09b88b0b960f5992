package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/hanghae99-6-d/backend/pkg/httperror"
)

type contextKey string

const userIDKey contextKey = "UserID"

// NewIdentityMiddleware trusts the identity headers set by the gateway after it
// verified the session. Requests without them are rejected.
func NewIdentityMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Header values alias the request buffer, which fasthttp reuses.
		userID := utils.CopyString(strings.TrimSpace(c.Get("User-ID")))
		authorization := strings.TrimSpace(c.Get("Authorization"))

		if userID == "" || authorization == "" {
			return unauthorized(c)
		}

		userCtx := c.UserContext()
		if userCtx == nil {
			userCtx = context.Background()
		}

		c.SetUserContext(WithUserID(userCtx, userID))
		return c.Next()
	}
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

func unauthorized(c *fiber.Ctx) error {
	err := httperror.Unauthorized(
		"comment.identity.unauthorized",
		"Identity headers missing",
		nil,
	)

	return c.Status(err.Status).JSON(fiber.Map{
		"code":    err.Code,
		"message": err.Message,
	})
}
