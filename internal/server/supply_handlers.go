package server

import (
	"artlink/internal/models"
	"artlink/internal/repository"
	"artlink/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CreateSupply handles POST /api/supplies
// @Summary Create supply
// @Tags supplies
// @Accept json
// @Produce json
// @Param supply body models.Supply true "Supply"
// @Success 200 {object} CreateResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /supplies [post]
func (s *Server) CreateSupply(c *fiber.Ctx) error {
	return createDocument(c, s.repos.Supplies, models.NewSupply())
}

// ListSupplies handles GET /api/supplies
// @Summary List supplies
// @Tags supplies
// @Produce json
// @Param category query string false "Category"
// @Success 200 {array} models.Supply
// @Failure 503 {object} models.ErrorResponse
// @Router /supplies [get]
func (s *Server) ListSupplies(c *fiber.Ctx) error {
	q := repository.SupplyQuery{Category: c.Query("category")}
	return listDocuments(c, s.repos.Supplies, q.Filter(), repository.SupplyListLimit)
}

// CreateOrder handles POST /api/orders. The total is computed from the items
// and the status is always pending.
// @Summary Place an order
// @Tags orders
// @Accept json
// @Produce json
// @Param order body models.OrderInput true "Order"
// @Success 200 {object} CreateResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /orders [post]
func (s *Server) CreateOrder(c *fiber.Ctx) error {
	var in models.OrderInput
	if err := validation.Decode(c.Body(), &in); err != nil {
		return respondError(c, err)
	}

	id, err := s.orderService.CreateOrder(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(CreateResponse{ID: id})
}

// ListOrders handles GET /api/orders
// @Summary List orders
// @Tags orders
// @Produce json
// @Success 200 {array} models.Order
// @Failure 503 {object} models.ErrorResponse
// @Router /orders [get]
func (s *Server) ListOrders(c *fiber.Ctx) error {
	return listDocuments(c, s.repos.Orders, repository.Filter{}, repository.OrderListLimit)
}
