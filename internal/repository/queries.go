package repository

import (
	"artlink/internal/featureflags"
	"artlink/internal/models"

	"gorm.io/gorm"
)

// Maximum number of documents returned by each list endpoint. Zero means unbounded.
const (
	UserListLimit    = 0
	ArtworkListLimit = 50
	SupplyListLimit  = 100
	OrderListLimit   = 50
	PostListLimit    = 50
	CommentListLimit = 100
)

// ArtworkQuery filters artworks by tag.
type ArtworkQuery struct {
	Tag string
}

// Filter returns the query as a Filter. An empty tag matches everything.
func (q ArtworkQuery) Filter() Filter {
	if q.Tag == "" {
		return Filter{}
	}
	return Filter{}.ContainsAny("tags", q.Tag)
}

// SupplyQuery filters supplies by category.
type SupplyQuery struct {
	Category string
}

// Filter returns the query as a Filter. An empty category matches everything.
func (q SupplyQuery) Filter() Filter {
	if q.Category == "" {
		return Filter{}
	}
	return Filter{}.Eq("category", q.Category)
}

// PostQuery filters posts by tag.
type PostQuery struct {
	Tag string
}

// Filter returns the query as a Filter. An empty tag matches everything.
func (q PostQuery) Filter() Filter {
	if q.Tag == "" {
		return Filter{}
	}
	return Filter{}.ContainsAny("tags", q.Tag)
}

// CommentQuery selects the comments of one post.
type CommentQuery struct {
	PostID string
}

// Filter returns the query as a Filter. The post id is always applied.
func (q CommentQuery) Filter() Filter {
	return Filter{}.Eq("post_id", q.PostID)
}

// Repositories groups the collections used by the HTTP layer.
type Repositories struct {
	Users            Store[models.User]
	Artworks         Store[models.Artwork]
	PurchaseRequests Store[models.PurchaseRequest]
	Supplies         Store[models.Supply]
	Orders           Store[models.Order]
	Posts            Store[models.Post]
	Comments         Store[models.Comment]
}

// NewRepositories builds every collection on db.
func NewRepositories(db *gorm.DB, flags *featureflags.Manager) *Repositories {
	return &Repositories{
		Users:            NewCollection[models.User](db, flags),
		Artworks:         NewCollection[models.Artwork](db, flags),
		PurchaseRequests: NewCollection[models.PurchaseRequest](db, flags),
		Supplies:         NewCollection[models.Supply](db, flags),
		Orders:           NewCollection[models.Order](db, flags),
		Posts:            NewCollection[models.Post](db, flags),
		Comments:         NewCollection[models.Comment](db, flags),
	}
}
