package models

import (
	"time"
)

// Post lifecycle statuses.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// User is a registered account. PasswordHash and the reset-token fields
// never leave the API.
type User struct {
	ID               uint       `gorm:"primarykey" json:"id"`
	Username         string     `gorm:"uniqueIndex;not null" json:"username"`
	Email            string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash     string     `gorm:"not null" json:"-"`
	ResetTokenHash   *string    `json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// Profile is the public projection of a user nested inside posts and
// comments. Email and credential material stay off the wire; anything beyond
// id and username belongs on the account's own profile endpoint.
type Profile struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	Username string `json:"username"`
}

func (Profile) TableName() string { return "users" }

// Post is an article with a draft/published lifecycle. LikeCount mirrors the
// number of Favorite rows for the post and is maintained on toggle, never
// recomputed.
type Post struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"not null" json:"content"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	Status    string    `gorm:"not null;default:draft;index" json:"status"`
	LikeCount int       `gorm:"not null;default:0" json:"likeCount"`
	AuthorID  uint      `gorm:"not null;index" json:"authorId"`
	Author    Profile   `gorm:"foreignKey:AuthorID" json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Comment belongs to a post. The auto-increment ID doubles as the lazy-loading
// cursor key: monotonic and unique.
type Comment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Content   string    `gorm:"not null" json:"content"`
	PostID    uint      `gorm:"not null;index" json:"postId"`
	UserID    uint      `gorm:"not null" json:"userId"`
	User      Profile   `gorm:"foreignKey:UserID" json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}

// Favorite is a (user, post) pair. The composite unique index is the sole
// source of truth for "is favorited".
type Favorite struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_post" json:"userId"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_user_post;index" json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Sanitized is the public projection of a User.
type Sanitized struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Sanitize strips credential material from a user for API responses.
func (u *User) Sanitize() Sanitized {
	return Sanitized{ID: u.ID, Username: u.Username, Email: u.Email}
}
