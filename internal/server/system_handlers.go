package server

import "github.com/gofiber/fiber/v2"

// Root handles GET /
func (s *Server) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name":   appName,
		"status": "ok",
	})
}

// Diagnostics handles GET /test. It reports database reachability, a sample of
// collection names and configuration presence, and always answers 200.
func (s *Server) Diagnostics(c *fiber.Ctx) error {
	return c.JSON(s.diagnostics.Report(c.UserContext()))
}
