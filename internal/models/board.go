package models

type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

type Post struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	AuthorID       string    `json:"author_id"`
	AuthorUsername string    `json:"author_username,omitempty"`
	CommentsCount  int       `json:"comments_count"`
	LikesCount     int       `json:"likes_count"`
	CreatedAt      Timestamp `json:"created_at"`
	UpdatedAt      Timestamp `json:"updated_at"`
}

// Author falls back to the author id when no username was joined in.
func (p Post) Author() string {
	if p.AuthorUsername != "" {
		return p.AuthorUsername
	}
	if p.AuthorID != "" {
		return p.AuthorID
	}
	return "unknown"
}

type Comment struct {
	ID             string    `json:"id"`
	PostID         string    `json:"post_id"`
	AuthorID       string    `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	Body           string    `json:"body"`
	CreatedAt      Timestamp `json:"created_at"`
}

// Tag is the short label shown in front of a post in the listing.
type Tag string

const (
	TagNotice Tag = "notice"
	TagMaint  Tag = "maint"
	TagLog    Tag = "log"
)

// DeriveTag labels popular posts as notices and busy threads as maintenance.
func DeriveTag(p Post) Tag {
	switch {
	case p.LikesCount > 20:
		return TagNotice
	case p.CommentsCount > 3:
		return TagMaint
	default:
		return TagLog
	}
}
