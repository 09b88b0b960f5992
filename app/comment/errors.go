package comment

import "errors"

var (
	// ErrNotFound means the comment or parent does not exist, or is deleted
	// where a live row is required.
	ErrNotFound = errors.New("comment not found")

	// ErrAccessDenied covers both "not yours" and "does not exist" so callers
	// cannot probe for comments they do not own.
	ErrAccessDenied = errors.New("comment access denied")

	ErrTransactionFailed = errors.New("comment transaction failed")

	ErrNestingNotAllowed = errors.New("replies cannot be replied to")
)
