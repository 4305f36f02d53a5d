package dto

// PostCreateDTO publishes a post in a forum.
type PostCreateDTO struct {
	ForumID string `json:"forum_id" validate:"required"`
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// CommentCreateDTO adds a comment to a post.
type CommentCreateDTO struct {
	PostID  string `json:"post_id" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// CommentCountDTO reports how many comments the caller has written today.
type CommentCountDTO struct {
	Count int `json:"count"`
}
