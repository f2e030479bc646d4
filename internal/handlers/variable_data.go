package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/mandoxxdev/crm-catalog/internal/markers"
	"github.com/mandoxxdev/crm-catalog/internal/services"
	"github.com/mandoxxdev/crm-catalog/internal/utils"
	"gorm.io/gorm"
)

// VariableHandler handles technical-variable registry routes
type VariableHandler struct {
	DB *gorm.DB
}

// GetVariables handles GET /api/catalog/variables
// @Summary List active technical variables
// @Description Get the active technical-variable registry, optionally filtered by a search query over name and key
// @Tags Variables
// @Accept json
// @Produce json
// @Param search query string false "Filter over display name and key"
// @Success 200 {array} markers.Variable
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /catalog/variables [get]
func (h *VariableHandler) GetVariables(c *fiber.Ctx) error {
	vars, err := services.ListActiveVariables(h.DB)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getVariables")
	}

	registry := markers.NewRegistry(vars)
	result := registry.Search(c.Query("search"))
	if result == nil {
		result = []markers.Variable{}
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// CreateVariable handles POST /api/catalog/variables
// @Summary Create a technical variable
// @Description Register a new technical variable; the key is immutable afterwards and must be unique among active variables
// @Tags Variables
// @Accept json
// @Produce json
// @Param body body object true "Variable to create"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /catalog/variables [post]
func (h *VariableHandler) CreateVariable(c *fiber.Ctx) error {
	var body struct {
		Key         string `json:"key"`
		DisplayName string `json:"displayName"`
		Category    string `json:"category"`
		DataKind    string `json:"dataKind"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "catalog.validation.input")
	}

	err := services.CreateVariable(h.DB, body.Key, body.DisplayName, body.Category, body.DataKind)
	if err != nil {
		switch err.Error() {
		case "invalid input":
			return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "catalog.validation.input")
		case "duplicate key":
			return utils.ErrorResponse(c, fmt.Sprintf("Variable key '%s' already active", body.Key), fiber.StatusBadRequest, "catalog.validation.duplicate")
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "createVariable")
	}

	return utils.MutationSuccessResponse(c, 0, 1)
}

// UpdateVariable handles PUT /api/catalog/variables/:key
// @Summary Update a technical variable
// @Description Edit an active variable's display name, category, and data kind; the key never changes
// @Tags Variables
// @Accept json
// @Produce json
// @Param key path string true "Variable key"
// @Param body body object true "Fields to update"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /catalog/variables/{key} [put]
func (h *VariableHandler) UpdateVariable(c *fiber.Ctx) error {
	key := c.Params("key")

	var body struct {
		DisplayName string `json:"displayName"`
		Category    string `json:"category"`
		DataKind    string `json:"dataKind"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "catalog.validation.input")
	}

	err := services.UpdateVariable(h.DB, key, body.DisplayName, body.Category, body.DataKind)
	if err != nil {
		switch err.Error() {
		case "invalid input":
			return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "catalog.validation.input")
		case "not found":
			return utils.NotFoundResponse(c, fmt.Sprintf("Variable '%s' not found", key))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "updateVariable")
	}

	return utils.MutationSuccessResponse(c, 0, 1)
}

// DeactivateVariable handles DELETE /api/catalog/variables/:key
// @Summary Deactivate a technical variable
// @Description Retire a variable without deleting it; markers referencing the key degrade to showing the raw key
// @Tags Variables
// @Accept json
// @Produce json
// @Param key path string true "Variable key"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /catalog/variables/{key} [delete]
func (h *VariableHandler) DeactivateVariable(c *fiber.Ctx) error {
	key := c.Params("key")

	if err := services.DeactivateVariable(h.DB, key); err != nil {
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, fmt.Sprintf("Variable '%s' not found", key))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "deactivateVariable")
	}

	return utils.MutationSuccessResponse(c, 0, 1)
}
