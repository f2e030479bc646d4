package handlers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mandoxxdev/crm-catalog/internal/markers"
	"github.com/mandoxxdev/crm-catalog/internal/services"
	"github.com/mandoxxdev/crm-catalog/internal/types"
	"github.com/mandoxxdev/crm-catalog/internal/utils"
	"gorm.io/gorm"
)

// FamilyHandler handles product-family routes
type FamilyHandler struct {
	DB *gorm.DB
}

// familyBody is the create/update payload. Markers arrive as raw JSON and
// are decoded tolerantly: bare array, wrapper object, or legacy field names.
type familyBody struct {
	Name         string           `json:"name"`
	DisplayOrder int              `json:"displayOrder"`
	Version      types.FlexUint64 `json:"version"`
	Markers      json.RawMessage  `json:"markers"`
}

// GetFamilies handles GET /api/catalog/families
// @Summary List families
// @Description Get all product families in display order, marker collections hydrated
// @Tags Families
// @Accept json
// @Produce json
// @Success 200 {array} services.FamilyResult
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /catalog/families [get]
func (h *FamilyHandler) GetFamilies(c *fiber.Ctx) error {
	result, err := services.ListFamilies(h.DB)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getFamilies")
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// GetFamily handles GET /api/catalog/families/:id
// @Summary Get one family
// @Description Get a family record including its marker collection and image filenames
// @Tags Families
// @Accept json
// @Produce json
// @Param id path int true "Family ID"
// @Success 200 {object} services.FamilyResult
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /catalog/families/{id} [get]
func (h *FamilyHandler) GetFamily(c *fiber.Ctx) error {
	id, ok := familyIDParam(c)
	if !ok {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "catalog.validation.input")
	}

	result, err := services.GetFamily(h.DB, id)
	if err != nil {
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, fmt.Sprintf("Family '%d' not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getFamily")
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// CreateFamily handles POST /api/catalog/families
// @Summary Create a family
// @Description Create a family record with its marker collection
// @Tags Families
// @Accept json
// @Produce json
// @Param body body handlers.familyBody true "Family to create"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /catalog/families [post]
func (h *FamilyHandler) CreateFamily(c *fiber.Ctx) error {
	var body familyBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "catalog.validation.input")
	}
	if strings.TrimSpace(body.Name) == "" {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "catalog.validation.input")
	}

	id, err := services.CreateFamily(h.DB, body.Name, body.DisplayOrder, markers.Decode(body.Markers))
	if err != nil {
		if err.Error() == "invalid input" {
			return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "catalog.validation.input")
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "createFamily")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":  "Success",
		"ok":       true,
		"familyId": id,
	})
}

// UpdateFamily handles PUT /api/catalog/families/:id
// @Summary Update a family
// @Description Rewrite a family's name, display order, and marker collection as one update, guarded by a record version check
// @Tags Families
// @Accept json
// @Produce json
// @Param id path int true "Family ID"
// @Param body body handlers.familyBody true "Fields to update"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /catalog/families/{id} [put]
func (h *FamilyHandler) UpdateFamily(c *fiber.Ctx) error {
	id, ok := familyIDParam(c)
	if !ok {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "catalog.validation.input")
	}

	var body familyBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "catalog.validation.input")
	}

	newVersion, affectedRows, err := services.UpdateFamily(
		h.DB, id, body.Version.Uint64(), body.Name, body.DisplayOrder, markers.Decode(body.Markers))
	if err != nil {
		if strings.Contains(err.Error(), "E_VERSION") {
			return utils.VersionErrorResponse(c)
		}
		switch err.Error() {
		case "not found":
			return utils.NotFoundResponse(c, fmt.Sprintf("Family '%d' not found", id))
		case "invalid input":
			return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "catalog.validation.input")
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "updateFamily")
	}

	return utils.MutationSuccessResponse(c, newVersion, affectedRows)
}
