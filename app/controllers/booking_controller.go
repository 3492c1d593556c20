package controllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/castboard/castboard/app/models"
	"github.com/castboard/castboard/app/repository"
	"github.com/castboard/castboard/internal/pkg/database"
	"github.com/castboard/castboard/internal/pkg/usercontext"
)

const bookingPageSize = 25

type bookingRequest struct {
	Title       string    `json:"title"`
	ClientName  string    `json:"client_name"`
	ClientEmail string    `json:"client_email"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Location    string    `json:"location"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes"`
}

// HandleBookingList returns the bookings of the logged-in user, newest first,
// paginated with ?page=N.
func HandleBookingList(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "login required")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}

	repo := repository.GetGlobalFactory().GetBookingRepository()
	bookings, err := repo.GetByUserID(userID, (page-1)*bookingPageSize, bookingPageSize)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "booking_failed", "could not load bookings")
	}
	total, err := repo.CountByUserID(userID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "booking_failed", "could not load bookings")
	}

	return c.JSON(fiber.Map{
		"bookings": bookings,
		"page":     page,
		"total":    total,
	})
}

// HandleBookingCreate records a new booking request and drops an in-app
// notification for it.
func HandleBookingCreate(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "login required")
	}

	var req bookingRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_request", "malformed request body")
	}

	booking := models.Booking{
		UserID:      userID,
		Title:       req.Title,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Location:    req.Location,
		Status:      models.BookingStatusRequested,
		Notes:       req.Notes,
	}
	if err := validateBookingInput(c, &booking); err != nil {
		return err
	}

	if err := repository.GetGlobalFactory().GetBookingRepository().Create(&booking); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "create_failed", "could not create booking")
	}

	if err := models.CreateNotification(database.GetDB(), userID, models.NotificationKindBooking,
		"New booking: "+booking.Title,
		"A booking request for "+booking.StartsAt.Format("2006-01-02")+" was added."); err != nil {
		log.Errorf("[Booking] notification for booking %d failed: %v", booking.ID, err)
	}

	return c.Status(fiber.StatusCreated).JSON(booking)
}

// HandleBookingUpdate edits a booking, including status transitions.
func HandleBookingUpdate(c *fiber.Ctx) error {
	booking, err := loadOwnedBooking(c)
	if err != nil {
		return err
	}

	var req bookingRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_request", "malformed request body")
	}

	booking.Title = req.Title
	booking.ClientName = req.ClientName
	booking.ClientEmail = req.ClientEmail
	booking.StartsAt = req.StartsAt
	booking.EndsAt = req.EndsAt
	booking.Location = req.Location
	booking.Notes = req.Notes
	if req.Status != "" {
		booking.Status = req.Status
	}
	if err := validateBookingInput(c, booking); err != nil {
		return err
	}

	if err := repository.GetGlobalFactory().GetBookingRepository().Update(booking); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "update_failed", "could not save booking")
	}

	return c.JSON(booking)
}

// HandleBookingDelete removes a booking.
func HandleBookingDelete(c *fiber.Ctx) error {
	booking, err := loadOwnedBooking(c)
	if err != nil {
		return err
	}

	if err := repository.GetGlobalFactory().GetBookingRepository().Delete(booking.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "delete_failed", "could not delete booking")
	}

	return c.JSON(fiber.Map{"ok": true})
}

func loadOwnedBooking(c *fiber.Ctx) (*models.Booking, error) {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return nil, jsonError(c, fiber.StatusUnauthorized, "unauthorized", "login required")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return nil, jsonError(c, fiber.StatusBadRequest, "invalid_id", "booking id must be numeric")
	}

	booking, err := repository.GetGlobalFactory().GetBookingRepository().GetByID(uint(id))
	if err != nil || booking.UserID != userID {
		return nil, jsonError(c, fiber.StatusNotFound, "booking_not_found", "booking not found")
	}

	return booking, nil
}

func validateBookingInput(c *fiber.Ctx, booking *models.Booking) error {
	if !booking.EndsAt.After(booking.StartsAt) {
		return jsonError(c, fiber.StatusBadRequest, "invalid_input", "ends_at must be after starts_at")
	}
	if err := validateStruct(booking); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			return jsonError(c, fiber.StatusBadRequest, "invalid_input", vErrs.Error())
		}
		return jsonError(c, fiber.StatusBadRequest, "invalid_input", "booking validation failed")
	}
	return nil
}
