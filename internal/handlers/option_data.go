package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/mandoxxdev/crm-catalog/internal/services"
	"github.com/mandoxxdev/crm-catalog/internal/utils"
	"gorm.io/gorm"
)

// OptionHandler handles per-family option catalog routes
type OptionHandler struct {
	DB *gorm.DB
}

// GetOptionMap handles GET /api/catalog/families/:id/options
// @Summary Get the per-family option map
// @Description Get the admin-curated allowed values of a family, keyed by variable key
// @Tags Options
// @Accept json
// @Produce json
// @Param id path int true "Family ID"
// @Success 200 {object} map[string][]services.OptionItem
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /catalog/families/{id}/options [get]
func (h *OptionHandler) GetOptionMap(c *fiber.Ctx) error {
	id, ok := familyIDParam(c)
	if !ok {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "catalog.validation.input")
	}

	result, err := services.OptionMap(h.DB, id)
	if err != nil {
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, fmt.Sprintf("Family '%d' not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getOptionMap")
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// AddOption handles POST /api/catalog/families/:id/options/:variable
// @Summary Add an allowed value
// @Description Append an allowed value to a (family, variable) pair; blank values are rejected
// @Tags Options
// @Accept json
// @Produce json
// @Param id path int true "Family ID"
// @Param variable path string true "Variable key"
// @Param body body object true "Value to add"
// @Success 200 {object} services.OptionItem
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /catalog/families/{id}/options/{variable} [post]
func (h *OptionHandler) AddOption(c *fiber.Ctx) error {
	id, ok := familyIDParam(c)
	if !ok {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "catalog.validation.input")
	}
	variable := c.Params("variable")

	var body struct {
		Value string `json:"value"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "catalog.validation.input")
	}

	item, err := services.AddOption(h.DB, id, variable, body.Value)
	if err != nil {
		switch err.Error() {
		case "blank value", "invalid input":
			return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "catalog.validation.input")
		case "not found":
			return utils.NotFoundResponse(c, fmt.Sprintf("Family '%d' not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "addOption")
	}

	return c.Status(fiber.StatusOK).JSON(item)
}

// RemoveOption handles DELETE /api/catalog/families/:id/options/:variable/:optionID
// @Summary Remove an allowed value
// @Description Delete one option by id, scoped to its family and variable
// @Tags Options
// @Accept json
// @Produce json
// @Param id path int true "Family ID"
// @Param variable path string true "Variable key"
// @Param optionID path int true "Option ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /catalog/families/{id}/options/{variable}/{optionID} [delete]
func (h *OptionHandler) RemoveOption(c *fiber.Ctx) error {
	id, ok := familyIDParam(c)
	if !ok {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "catalog.validation.input")
	}
	optionID, ok := optionIDParam(c)
	if !ok {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "catalog.validation.input")
	}
	variable := c.Params("variable")

	if err := services.RemoveOption(h.DB, id, variable, optionID); err != nil {
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, fmt.Sprintf("Option '%d' not found", optionID))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "removeOption")
	}

	return utils.MutationSuccessResponse(c, 0, 1)
}
