package events

import "time"

// Domain constants
const (
	CommentDomain   = "comment"
	CommentExchange = "group.comment"
	GroupExchange   = "group.group"
)

// Event names
const (
	CommentCreatedEvent      = "comment.created"
	CommentChildCreatedEvent = "comment.child.created"
	CommentUpdatedEvent      = "comment.updated"
	CommentDeletedEvent      = "comment.deleted"

	// Published by the group service.
	GroupDeletedEvent = "group.deleted"
)

// Event versions
const (
	EventVersionV1 = "v1"
)

type CommentCreatedPayload struct {
	ID        int64     `json:"id"`
	GroupID   int64     `json:"groupId"`
	ParentID  *int64    `json:"parentId,omitempty"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type CommentUpdatedPayload struct {
	ID        int64     `json:"id"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CommentDeletedPayload struct {
	ID        int64     `json:"id"`
	GroupID   int64     `json:"groupId"`
	ParentID  *int64    `json:"parentId,omitempty"`
	AuthorID  string    `json:"authorId"`
	DeletedAt time.Time `json:"deletedAt"`
}

type GroupDeletedPayload struct {
	GroupID   int64     `json:"groupId"`
	DeletedAt time.Time `json:"deletedAt"`
}
