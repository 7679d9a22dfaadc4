package models

import (
	"time"

	"gorm.io/datatypes"
)

// Post is a community post.
type Post struct {
	Base
	AuthorID      string                      `gorm:"size:64;not null;index" json:"author_id" validate:"present"`
	Text          string                      `gorm:"type:text;not null" json:"text" validate:"present"`
	Images        datatypes.JSONSlice[string] `json:"images" validate:"dive,http_url"`
	Tags          datatypes.JSONSlice[string] `json:"tags"`
	Likes         int                         `json:"likes"`
	CommentsCount int                         `json:"comments_count"`
}

// NewPost returns a Post holding the declared defaults.
func NewPost() *Post {
	p := &Post{}
	p.Normalize()
	return p
}

// Normalize restores list defaults.
func (p *Post) Normalize() {
	if p.Images == nil {
		p.Images = datatypes.JSONSlice[string]{}
	}
	if p.Tags == nil {
		p.Tags = datatypes.JSONSlice[string]{}
	}
}

// Comment belongs to a post. CreatedAt is whatever the client supplied.
type Comment struct {
	Base
	PostID    string     `gorm:"size:64;not null;index" json:"post_id" validate:"present"`
	AuthorID  string     `gorm:"size:64;not null" json:"author_id" validate:"present"`
	Text      string     `gorm:"type:text;not null" json:"text" validate:"present"`
	Likes     int        `json:"likes"`
	CreatedAt *time.Time `gorm:"autoCreateTime:false" json:"created_at"`
}

// NewComment returns a Comment holding the declared defaults.
func NewComment() *Comment {
	return &Comment{}
}
