package middleware

import (
	"bytes"
	"encoding/json"
	"html"

	"github.com/gofiber/fiber/v2"
	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText strips every HTML element from s. Entities produced by the
// policy are unescaped again so plain text is returned unchanged.
func SanitizeText(s string) string {
	return html.UnescapeString(strictPolicy.Sanitize(s))
}

// SanitizeInput cleans the top-level string fields of JSON bodies on
// POST/PUT/PATCH. Bodies that are not a JSON object pass through untouched so
// the handler reports them. enabled is checked per request.
func SanitizeInput(enabled func() bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch:
		default:
			return c.Next()
		}
		if enabled != nil && !enabled() {
			return c.Next()
		}

		raw := c.Body()
		if len(bytes.TrimSpace(raw)) == 0 {
			return c.Next()
		}

		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var body map[string]any
		if err := dec.Decode(&body); err != nil || body == nil {
			return c.Next()
		}

		changed := false
		for k, v := range body {
			if str, ok := v.(string); ok {
				if clean := SanitizeText(str); clean != str {
					body[k] = clean
					changed = true
				}
			}
		}
		if !changed {
			return c.Next()
		}

		cleaned, err := json.Marshal(body)
		if err != nil {
			return c.Next()
		}
		c.Request().SetBody(cleaned)

		return c.Next()
	}
}
