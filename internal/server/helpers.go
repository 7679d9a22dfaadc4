package server

import (
	"errors"

	"artlink/internal/models"
	"artlink/internal/repository"
	"artlink/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CreateResponse is the body returned by every create endpoint.
type CreateResponse struct {
	ID string `json:"id"`
}

// respondError maps service and repository errors onto the JSON error body.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repository.ErrStorageUnavailable):
		err = models.NewStorageUnavailableError(err)
	case errors.Is(err, repository.ErrStorage):
		err = models.NewStorageError(err)
	}
	return models.RespondWithError(c, models.StatusFor(err), err)
}

// createDocument decodes the body on top of doc, which holds the entity's
// defaults, validates it and stores it.
func createDocument[T any](c *fiber.Ctx, store repository.Store[T], doc *T) error {
	if err := validation.Decode(c.Body(), doc); err != nil {
		return respondError(c, err)
	}

	id, err := store.Create(c.UserContext(), doc)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(CreateResponse{ID: id})
}

func listDocuments[T any](c *fiber.Ctx, store repository.Store[T], filter repository.Filter, limit int) error {
	docs, err := store.List(c.UserContext(), filter, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(docs)
}
