package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// familyIDParam parses the :id route parameter.
func familyIDParam(c *fiber.Ctx) (uint64, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// optionIDParam parses the :optionID route parameter.
func optionIDParam(c *fiber.Ctx) (uint64, bool) {
	id, err := strconv.ParseUint(c.Params("optionID"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
