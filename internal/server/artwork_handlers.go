package server

import (
	"artlink/internal/models"
	"artlink/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// CreateUser handles POST /api/users
// @Summary Create user
// @Description Register an artist, collector or both.
// @Tags users
// @Accept json
// @Produce json
// @Param user body models.User true "User"
// @Success 200 {object} CreateResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /users [post]
func (s *Server) CreateUser(c *fiber.Ctx) error {
	return createDocument(c, s.repos.Users, models.NewUser())
}

// ListUsers handles GET /api/users
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} models.User
// @Failure 503 {object} models.ErrorResponse
// @Router /users [get]
func (s *Server) ListUsers(c *fiber.Ctx) error {
	return listDocuments(c, s.repos.Users, repository.Filter{}, repository.UserListLimit)
}

// CreateArtwork handles POST /api/artworks
// @Summary Create artwork
// @Description Publish an artwork with its story, images and shipping options.
// @Tags artworks
// @Accept json
// @Produce json
// @Param artwork body models.Artwork true "Artwork"
// @Success 200 {object} CreateResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /artworks [post]
func (s *Server) CreateArtwork(c *fiber.Ctx) error {
	return createDocument(c, s.repos.Artworks, models.NewArtwork())
}

// ListArtworks handles GET /api/artworks
// @Summary List artworks
// @Description Up to 50 artworks, optionally only those carrying a tag.
// @Tags artworks
// @Produce json
// @Param tag query string false "Tag"
// @Success 200 {array} models.Artwork
// @Failure 503 {object} models.ErrorResponse
// @Router /artworks [get]
func (s *Server) ListArtworks(c *fiber.Ctx) error {
	q := repository.ArtworkQuery{Tag: c.Query("tag")}
	return listDocuments(c, s.repos.Artworks, q.Filter(), repository.ArtworkListLimit)
}

// CreatePurchaseRequest handles POST /api/purchase-requests
// @Summary Send a purchase inquiry
// @Tags artworks
// @Accept json
// @Produce json
// @Param request body models.PurchaseRequest true "Purchase request"
// @Success 200 {object} CreateResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /purchase-requests [post]
func (s *Server) CreatePurchaseRequest(c *fiber.Ctx) error {
	return createDocument(c, s.repos.PurchaseRequests, models.NewPurchaseRequest())
}
