package controllers

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/castboard/castboard/app/models"
	"github.com/castboard/castboard/app/repository"
	"github.com/castboard/castboard/internal/pkg/database"
	"github.com/castboard/castboard/internal/pkg/entitlements"
	"github.com/castboard/castboard/internal/pkg/usercontext"
)

type galleryRequest struct {
	Title    string `json:"title"`
	CoverURL string `json:"cover_url"`
}

type galleryImageRequest struct {
	URL      string `json:"url"`
	Caption  string `json:"caption"`
	Position int    `json:"position"`
}

// HandleGalleryList returns all galleries of the logged-in user.
func HandleGalleryList(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "login required")
	}

	galleries, err := repository.GetGlobalFactory().GetGalleryRepository().GetByUserID(userID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "gallery_failed", "could not load galleries")
	}

	return c.JSON(fiber.Map{"galleries": galleries})
}

// HandleGalleryCreate adds a new gallery for the logged-in user.
func HandleGalleryCreate(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "login required")
	}

	var req galleryRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_request", "malformed request body")
	}

	repo := repository.GetGlobalFactory().GetGalleryRepository()

	count, err := repo.CountByUserID(userID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "gallery_failed", "could not load galleries")
	}
	limit := entitlements.GalleryLimit(userPlan(userID))
	if count >= int64(limit) {
		return jsonError(c, fiber.StatusUnprocessableEntity, "gallery_limit", "gallery limit for this plan reached")
	}

	gallery := models.Gallery{
		UserID:   userID,
		Title:    req.Title,
		CoverURL: req.CoverURL,
	}
	if err := validateGalleryInput(c, &gallery); err != nil {
		return err
	}

	if err := repo.Create(&gallery); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "create_failed", "could not create gallery")
	}

	return c.Status(fiber.StatusCreated).JSON(gallery)
}

// HandleGalleryGet returns one gallery including its images.
func HandleGalleryGet(c *fiber.Ctx) error {
	gallery, err := loadOwnedGallery(c)
	if err != nil {
		return err
	}

	return c.JSON(gallery)
}

// HandleGalleryUpdate renames a gallery or swaps its cover.
func HandleGalleryUpdate(c *fiber.Ctx) error {
	gallery, err := loadOwnedGallery(c)
	if err != nil {
		return err
	}

	var req galleryRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_request", "malformed request body")
	}

	gallery.Title = req.Title
	gallery.CoverURL = req.CoverURL
	if err := validateGalleryInput(c, gallery); err != nil {
		return err
	}

	if err := repository.GetGlobalFactory().GetGalleryRepository().Update(gallery); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "update_failed", "could not save gallery")
	}

	return c.JSON(gallery)
}

// HandleGalleryDelete removes a gallery and its image records.
func HandleGalleryDelete(c *fiber.Ctx) error {
	gallery, err := loadOwnedGallery(c)
	if err != nil {
		return err
	}

	if err := repository.GetGlobalFactory().GetGalleryRepository().Delete(gallery.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "delete_failed", "could not delete gallery")
	}

	return c.JSON(fiber.Map{"ok": true})
}

// HandleGalleryAddImage attaches an image record to a gallery.
func HandleGalleryAddImage(c *fiber.Ctx) error {
	gallery, err := loadOwnedGallery(c)
	if err != nil {
		return err
	}

	var req galleryImageRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_request", "malformed request body")
	}

	image := models.GalleryImage{
		GalleryID: gallery.ID,
		URL:       req.URL,
		Caption:   req.Caption,
		Position:  req.Position,
	}
	if err := validateStruct(&image); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			return jsonError(c, fiber.StatusBadRequest, "invalid_input", vErrs.Error())
		}
		return jsonError(c, fiber.StatusBadRequest, "invalid_input", "image validation failed")
	}

	if err := repository.GetGlobalFactory().GetGalleryRepository().AddImage(&image); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "create_failed", "could not add image")
	}

	return c.Status(fiber.StatusCreated).JSON(image)
}

// HandleGalleryRemoveImage detaches an image record from a gallery.
func HandleGalleryRemoveImage(c *fiber.Ctx) error {
	gallery, err := loadOwnedGallery(c)
	if err != nil {
		return err
	}

	imageID, err := strconv.ParseUint(c.Params("image_id"), 10, 32)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_id", "image id must be numeric")
	}

	if err := repository.GetGlobalFactory().GetGalleryRepository().RemoveImage(gallery.ID, uint(imageID)); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "delete_failed", "could not remove image")
	}

	return c.JSON(fiber.Map{"ok": true})
}

// loadOwnedGallery resolves the :id param and enforces ownership. A foreign
// gallery answers 404, not 403, so ids cannot be probed.
func loadOwnedGallery(c *fiber.Ctx) (*models.Gallery, error) {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return nil, jsonError(c, fiber.StatusUnauthorized, "unauthorized", "login required")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return nil, jsonError(c, fiber.StatusBadRequest, "invalid_id", "gallery id must be numeric")
	}

	gallery, err := repository.GetGlobalFactory().GetGalleryRepository().GetByID(uint(id))
	if err != nil || gallery.UserID != userID {
		return nil, jsonError(c, fiber.StatusNotFound, "gallery_not_found", "gallery not found")
	}

	return gallery, nil
}

func userPlan(userID uint) entitlements.Plan {
	var billing models.Billing
	if err := database.GetDB().Where("user_id = ?", userID).First(&billing).Error; err != nil {
		return entitlements.PlanNone
	}
	return entitlements.FromBilling(&billing)
}

func validateGalleryInput(c *fiber.Ctx, gallery *models.Gallery) error {
	if err := validateStruct(gallery); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			return jsonError(c, fiber.StatusBadRequest, "invalid_input", vErrs.Error())
		}
		return jsonError(c, fiber.StatusBadRequest, "invalid_input", "gallery validation failed")
	}
	return nil
}
