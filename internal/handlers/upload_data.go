package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/mandoxxdev/crm-catalog/internal/services"
	"github.com/mandoxxdev/crm-catalog/internal/uploads"
	"github.com/mandoxxdev/crm-catalog/internal/utils"
	"gorm.io/gorm"
)

// UploadHandler handles family image uploads. Each image slot has two
// routes: the multipart endpoint and a -base64 twin taking a JSON body with
// a data URL, for clients behind proxies that corrupt multipart bodies.
type UploadHandler struct {
	DB    *gorm.DB
	Store *uploads.Store
}

// UploadPhoto handles POST /api/catalog/families/:id/photo
// @Summary Upload a family photo
// @Tags Uploads
// @Accept mpfd
// @Produce json
// @Param id path int true "Family ID"
// @Param file formData file true "Image file"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /catalog/families/{id}/photo [post]
func (h *UploadHandler) UploadPhoto(c *fiber.Ctx) error {
	return h.uploadMultipart(c, services.ImagePhoto)
}

// UploadSchematic handles POST /api/catalog/families/:id/schematic
// @Summary Upload a family schematic
// @Tags Uploads
// @Accept mpfd
// @Produce json
// @Param id path int true "Family ID"
// @Param file formData file true "Image file"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /catalog/families/{id}/schematic [post]
func (h *UploadHandler) UploadSchematic(c *fiber.Ctx) error {
	return h.uploadMultipart(c, services.ImageSchematic)
}

// UploadPhotoBase64 handles POST /api/catalog/families/:id/photo-base64
// @Summary Upload a family photo as a base64 data URL
// @Tags Uploads
// @Accept json
// @Produce json
// @Param id path int true "Family ID"
// @Param body body object true "Filename and data URL"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /catalog/families/{id}/photo-base64 [post]
func (h *UploadHandler) UploadPhotoBase64(c *fiber.Ctx) error {
	return h.uploadDataURL(c, services.ImagePhoto)
}

// UploadSchematicBase64 handles POST /api/catalog/families/:id/schematic-base64
// @Summary Upload a family schematic as a base64 data URL
// @Tags Uploads
// @Accept json
// @Produce json
// @Param id path int true "Family ID"
// @Param body body object true "Filename and data URL"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /catalog/families/{id}/schematic-base64 [post]
func (h *UploadHandler) UploadSchematicBase64(c *fiber.Ctx) error {
	return h.uploadDataURL(c, services.ImageSchematic)
}

func (h *UploadHandler) uploadMultipart(c *fiber.Ctx, slot string) error {
	id, ok := familyIDParam(c)
	if !ok {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "catalog.validation.input")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, "Missing 'file' form field", fiber.StatusBadRequest, "catalog.validation.upload")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "catalog.validation.upload")
	}
	defer f.Close()

	stored, err := h.Store.Save(fileHeader.Filename, f)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "uploadImage")
	}

	return h.attach(c, id, slot, stored)
}

func (h *UploadHandler) uploadDataURL(c *fiber.Ctx, slot string) error {
	id, ok := familyIDParam(c)
	if !ok {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "catalog.validation.input")
	}

	var body struct {
		Filename string `json:"filename"`
		Data     string `json:"data"`
	}
	if err := c.BodyParser(&body); err != nil || body.Data == "" {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "catalog.validation.input")
	}

	stored, err := h.Store.SaveDataURL(body.Filename, body.Data)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "catalog.validation.upload")
	}

	return h.attach(c, id, slot, stored)
}

func (h *UploadHandler) attach(c *fiber.Ctx, id uint64, slot, stored string) error {
	if err := services.SetFamilyImage(h.DB, id, slot, stored); err != nil {
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, fmt.Sprintf("Family '%d' not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "uploadImage")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":  "Success",
		"ok":       true,
		"filename": stored,
	})
}
