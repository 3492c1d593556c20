package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/castboard/castboard/app/models"
	"github.com/castboard/castboard/app/repository"
	"github.com/castboard/castboard/internal/pkg/database"
	"github.com/castboard/castboard/internal/pkg/entitlements"
	"github.com/castboard/castboard/internal/pkg/metrics/counter"
	"github.com/castboard/castboard/internal/pkg/usercontext"
)

type websiteRequest struct {
	Subdomain    string `json:"subdomain"`
	CustomDomain string `json:"custom_domain"`
	Template     string `json:"template"`
	AccentColor  string `json:"accent_color"`
	Published    bool   `json:"published"`
}

// Subdomains that would collide with our own infrastructure.
var reservedSubdomains = map[string]bool{
	"www": true, "app": true, "api": true, "mail": true,
	"admin": true, "status": true, "cdn": true,
}

// HandleWebsiteGet returns the sedcard-website configuration of the
// logged-in user.
func HandleWebsiteGet(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "login required")
	}

	config, err := repository.GetGlobalFactory().GetWebsiteRepository().GetByUserID(userID)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "website_not_found", "no website configured yet")
	}

	return c.JSON(config)
}

// HandleWebsiteSave creates or updates the website configuration. A custom
// domain is only accepted when the subscription carries the add-on.
func HandleWebsiteSave(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "login required")
	}

	var req websiteRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_request", "malformed request body")
	}

	subdomain := strings.ToLower(strings.TrimSpace(req.Subdomain))
	if reservedSubdomains[subdomain] {
		return jsonError(c, fiber.StatusUnprocessableEntity, "subdomain_reserved", "this subdomain is reserved")
	}

	repo := repository.GetGlobalFactory().GetWebsiteRepository()

	taken, err := repo.SubdomainTaken(subdomain, userID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "website_failed", "could not check subdomain")
	}
	if taken {
		return jsonError(c, fiber.StatusConflict, "subdomain_taken", "this subdomain is already in use")
	}

	customDomain := strings.ToLower(strings.TrimSpace(req.CustomDomain))
	if customDomain != "" && !hasCustomDomainAddOn(userID) {
		return jsonError(c, fiber.StatusForbidden, "addon_required", "custom domains require the custom domain add-on")
	}

	config, err := repo.GetByUserID(userID)
	if err != nil {
		config = &models.WebsiteConfig{UserID: userID}
	}

	config.Subdomain = subdomain
	config.CustomDomain = customDomain
	config.Template = req.Template
	config.AccentColor = req.AccentColor
	config.Published = req.Published

	if err := validateStruct(config); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			return jsonError(c, fiber.StatusBadRequest, "invalid_input", vErrs.Error())
		}
		return jsonError(c, fiber.StatusBadRequest, "invalid_input", "website validation failed")
	}

	if err := repo.Save(config); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "save_failed", "could not save website configuration")
	}

	return c.JSON(config)
}

// HandlePublicSedcard serves the public sedcard data for a subdomain. No
// authentication; unpublished sites and sites of users without access are
// indistinguishable from missing ones.
func HandlePublicSedcard(c *fiber.Ctx) error {
	subdomain := strings.ToLower(c.Params("subdomain"))

	config, err := repository.GetGlobalFactory().GetWebsiteRepository().GetBySubdomain(subdomain)
	if err != nil || !config.Published {
		return jsonError(c, fiber.StatusNotFound, "not_found", "no sedcard here")
	}

	var billing models.Billing
	if err := database.GetDB().Where("user_id = ?", config.UserID).First(&billing).Error; err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", "no sedcard here")
	}
	if !billing.HasAccess(time.Now()) {
		return jsonError(c, fiber.StatusNotFound, "not_found", "no sedcard here")
	}

	profile, err := repository.GetGlobalFactory().GetProfileRepository().GetByUserID(config.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", "no sedcard here")
	}

	galleries, err := repository.GetGlobalFactory().GetGalleryRepository().GetByUserID(config.UserID)
	if err != nil {
		galleries = nil
	}

	if err := counter.AddSedcardView(config.ID); err != nil {
		log.Errorf("[Sedcard] view counter for site %d failed: %v", config.ID, err)
	}

	return c.JSON(fiber.Map{
		"profile":      profile,
		"galleries":    galleries,
		"template":     config.Template,
		"accent_color": config.AccentColor,
	})
}

func hasCustomDomainAddOn(userID uint) bool {
	var billing models.Billing
	if err := database.GetDB().Where("user_id = ?", userID).First(&billing).Error; err != nil {
		return false
	}
	return entitlements.CustomDomainAllowed(&billing)
}
