package models

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsApplyDefaults(t *testing.T) {
	t.Parallel()

	u := NewUser()
	assert.Equal(t, RoleBoth, u.Role)
	assert.True(t, u.IsActive)
	require.NotNil(t, u.Bio)
	assert.Equal(t, "", *u.Bio)

	a := NewArtwork()
	assert.Equal(t, AvailabilityAvailable, a.AvailabilityStatus)
	assert.Equal(t, []string{"artist-arranged", "insured-courier", "local-pickup"}, []string(a.ShippingOptions))
	assert.NotNil(t, a.Images)
	assert.NotNil(t, a.Tags)

	pr := NewPurchaseRequest()
	assert.Equal(t, InquiryNew, pr.Status)
	require.NotNil(t, pr.Message)

	assert.Equal(t, 1, NewOrderItem().Quantity)
	assert.Equal(t, 0, NewSupply().Stock)
}

func TestArtworkNormalizeDoesNotShareDefaultShippingOptions(t *testing.T) {
	t.Parallel()

	a := NewArtwork()
	a.ShippingOptions[0] = "changed"

	assert.Equal(t, "artist-arranged", DefaultShippingOptions[0])
}

func TestStatusFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{NewValidationError("bad"), fiber.StatusBadRequest},
		{NewMissingParameterError("post_id"), fiber.StatusBadRequest},
		{NewStorageUnavailableError(errors.New("down")), fiber.StatusServiceUnavailable},
		{NewStorageError(errors.New("boom")), fiber.StatusInternalServerError},
		{NewNotFoundError("route"), fiber.StatusNotFound},
		{errors.New("plain"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestRespondWithError_IncludesFields(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusBadRequest, NewValidationError("Invalid input",
			FieldError{Field: "title", Message: "is required"}))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"error":"Invalid input","code":"VALIDATION_ERROR","fields":[{"field":"title","message":"is required"}]}`, string(body))
}
