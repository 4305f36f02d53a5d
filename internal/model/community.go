package model

// Forum is a row of the Foros catalog sheet.
type Forum struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Category    string `json:"category"`
}

// Post is a row of the Posts sheet.
type Post struct {
	ID        string `json:"id"`
	ForumID   string `json:"forum_id"`
	UserEmail string `json:"user_email"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	Likes     int    `json:"likes"`
}

// Comment is a row of the Comentarios sheet.
type Comment struct {
	ID        string `json:"id"`
	PostID    string `json:"post_id"`
	UserEmail string `json:"user_email"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// CommunityUserInfo is the lightweight profile shown next to posts and
// comments.
type CommunityUserInfo struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	ImageURL  string `json:"image_url"`
	IsPremium bool   `json:"is_premium"`
}
