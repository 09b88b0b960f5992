package comment

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/hanghae99-6-d/backend/internal/middleware"
	"github.com/hanghae99-6-d/backend/pkg/httperror"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateRequest(op string, req any) error {
	if err := validate.Struct(req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return httperror.BadRequest(
				"comments."+op+".validation_failed",
				"Validation failed for the request",
				ve.Error(),
			)
		}

		return httperror.InternalServerError(
			"comments."+op+".validation_error",
			"An unexpected validation error occurred",
			nil,
		)
	}
	return nil
}

func requireUserID(ctx context.Context, op string) (string, error) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		return "", httperror.Unauthorized("comments."+op+".unauthorized", "Missing user identity", nil)
	}
	return userID, nil
}

// toHTTPError maps service failures to one stable response category each.
func toHTTPError(op string, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return httperror.NotFound("comments."+op+".not_found", "Comment not found", nil)
	case errors.Is(err, ErrAccessDenied):
		return httperror.Forbidden("comments."+op+".forbidden", "You cannot modify this comment", nil)
	case errors.Is(err, ErrTransactionFailed):
		return httperror.Conflict("comments."+op+".transaction_failed", "The comment could not be saved, try again", nil)
	case errors.Is(err, ErrNestingNotAllowed):
		return httperror.BadRequest("comments."+op+".nesting_not_allowed", "Replies cannot be replied to", nil)
	default:
		return httperror.InternalServerError("comments."+op+".internal_error", "Comment request failed", nil)
	}
}
