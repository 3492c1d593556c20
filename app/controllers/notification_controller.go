package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/castboard/castboard/app/repository"
	"github.com/castboard/castboard/internal/pkg/usercontext"
)

const notificationPageSize = 50

// HandleNotificationList returns notifications for the logged-in user plus
// the unread count, newest first.
func HandleNotificationList(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "login required")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}

	repo := repository.GetGlobalFactory().GetNotificationRepository()
	notifications, err := repo.GetByUserID(userID, (page-1)*notificationPageSize, notificationPageSize)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "notification_failed", "could not load notifications")
	}
	unread, err := repo.CountUnread(userID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "notification_failed", "could not load notifications")
	}

	return c.JSON(fiber.Map{
		"notifications": notifications,
		"unread":        unread,
		"page":          page,
	})
}

// HandleNotificationMarkRead stamps a single notification as read. Repeated
// calls are harmless, the first read time wins.
func HandleNotificationMarkRead(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "login required")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_id", "notification id must be numeric")
	}

	if err := repository.GetGlobalFactory().GetNotificationRepository().MarkRead(uint(id), userID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "update_failed", "could not mark notification read")
	}

	return c.JSON(fiber.Map{"ok": true})
}
