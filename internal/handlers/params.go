package handlers

import (
	"strconv"

	"cultivate/internal/utils/response"
	"cultivate/internal/validation"

	"github.com/gofiber/fiber/v2"
)

func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// bind parses the JSON body into dst and runs its validate tags. On failure
// the response has already been written and the returned error should be
// passed back to fiber as is.
func bind(c *fiber.Ctx, dst interface{}) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, response.BadRequest(c, "Invalid request format")
	}
	if v := validation.Struct(dst); !v.Valid() {
		return false, response.ValidationError(c, v.Errors)
	}
	return true, nil
}

func invalidID(c *fiber.Ctx) error {
	return response.BadRequest(c, "Invalid ID")
}
