package domain

import "time"

// Comment is a row of the comments table. A nil ParentID marks a root;
// ChildCount is only maintained on roots.
type Comment struct {
	ID         int64      `db:"id" json:"commentId"`
	GroupID    int64      `db:"group_id" json:"groupId"`
	ParentID   *int64     `db:"parent_id" json:"parentId"`
	AuthorID   string     `db:"author_id" json:"authorId"`
	Content    string     `db:"content" json:"content"`
	ChildCount int        `db:"child_count" json:"childCount"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updatedAt"`
	DeletedAt  *time.Time `db:"deleted_at" json:"deletedAt,omitempty"`
}

func (c Comment) IsRoot() bool {
	return c.ParentID == nil
}

func (c Comment) IsDeleted() bool {
	return c.DeletedAt != nil
}

// CommentView is the listing shape: the author id is exposed as "user".
type CommentView struct {
	ID         int64     `json:"commentId"`
	GroupID    int64     `json:"groupId"`
	ParentID   *int64    `json:"parentId"`
	User       string    `json:"user"`
	Content    string    `json:"content"`
	ChildCount int       `json:"childCount"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (c Comment) View() CommentView {
	return CommentView{
		ID:         c.ID,
		GroupID:    c.GroupID,
		ParentID:   c.ParentID,
		User:       c.AuthorID,
		Content:    c.Content,
		ChildCount: c.ChildCount,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func Views(comments []Comment) []CommentView {
	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, c.View())
	}
	return views
}
