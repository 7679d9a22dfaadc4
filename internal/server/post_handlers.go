package server

import (
	"artlink/internal/models"
	"artlink/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
// @Summary Create community post
// @Tags community
// @Accept json
// @Produce json
// @Param post body models.Post true "Post"
// @Success 200 {object} CreateResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	return createDocument(c, s.repos.Posts, models.NewPost())
}

// ListPosts handles GET /api/posts
// @Summary List community posts
// @Tags community
// @Produce json
// @Param tag query string false "Tag"
// @Success 200 {array} models.Post
// @Failure 503 {object} models.ErrorResponse
// @Router /posts [get]
func (s *Server) ListPosts(c *fiber.Ctx) error {
	q := repository.PostQuery{Tag: c.Query("tag")}
	return listDocuments(c, s.repos.Posts, q.Filter(), repository.PostListLimit)
}

// CreateComment handles POST /api/comments
// @Summary Comment on a post
// @Tags community
// @Accept json
// @Produce json
// @Param comment body models.Comment true "Comment"
// @Success 200 {object} CreateResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	return createDocument(c, s.repos.Comments, models.NewComment())
}

// ListComments handles GET /api/comments
// @Summary List comments of a post
// @Tags community
// @Produce json
// @Param post_id query string true "Post ID"
// @Success 200 {array} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /comments [get]
func (s *Server) ListComments(c *fiber.Ctx) error {
	// An empty post_id is present and matches nothing; only absence is rejected.
	if !c.Context().QueryArgs().Has("post_id") {
		return respondError(c, models.NewMissingParameterError("post_id"))
	}
	q := repository.CommentQuery{PostID: c.Query("post_id")}
	return listDocuments(c, s.repos.Comments, q.Filter(), repository.CommentListLimit)
}
