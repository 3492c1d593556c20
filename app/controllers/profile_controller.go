package controllers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/castboard/castboard/app/repository"
	"github.com/castboard/castboard/internal/pkg/usercontext"
)

type profileUpdateRequest struct {
	ArtistName string  `json:"artist_name"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Gender     string  `json:"gender"`
	BirthYear  int     `json:"birth_year"`
	City       string  `json:"city"`
	Country    string  `json:"country"`
	HeightCM   int     `json:"height_cm"`
	ChestCM    int     `json:"chest_cm"`
	WaistCM    int     `json:"waist_cm"`
	HipsCM     int     `json:"hips_cm"`
	ShoeSizeEU float64 `json:"shoe_size_eu"`
	HairColor  string  `json:"hair_color"`
	EyeColor   string  `json:"eye_color"`
	Purposes   string  `json:"purposes"`
}

// HandleProfileGet returns the sedcard profile of the logged-in user.
func HandleProfileGet(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "login required")
	}

	profile, err := repository.GetGlobalFactory().GetProfileRepository().GetByUserID(userID)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "profile_not_found", "no profile for this account")
	}

	return c.JSON(profile)
}

// HandleProfileUpdate overwrites the editable sedcard fields. The profile row
// itself is created during provisioning, so there is no create path here.
func HandleProfileUpdate(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "login required")
	}

	var req profileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_request", "malformed request body")
	}

	repo := repository.GetGlobalFactory().GetProfileRepository()
	profile, err := repo.GetByUserID(userID)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "profile_not_found", "no profile for this account")
	}

	profile.ArtistName = req.ArtistName
	profile.FirstName = req.FirstName
	profile.LastName = req.LastName
	profile.Gender = req.Gender
	profile.BirthYear = req.BirthYear
	profile.City = req.City
	profile.Country = req.Country
	profile.HeightCM = req.HeightCM
	profile.ChestCM = req.ChestCM
	profile.WaistCM = req.WaistCM
	profile.HipsCM = req.HipsCM
	profile.ShoeSizeEU = req.ShoeSizeEU
	profile.HairColor = req.HairColor
	profile.EyeColor = req.EyeColor
	profile.Purposes = req.Purposes

	if err := validateStruct(profile); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			return jsonError(c, fiber.StatusBadRequest, "invalid_input", vErrs.Error())
		}
		return jsonError(c, fiber.StatusBadRequest, "invalid_input", "profile validation failed")
	}

	if err := repo.Update(profile); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "update_failed", "could not save profile")
	}

	return c.JSON(profile)
}

var validate = validator.New()

func validateStruct(v any) error {
	return validate.Struct(v)
}
