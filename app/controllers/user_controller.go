package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/castboard/castboard/app/repository"
	"github.com/castboard/castboard/internal/pkg/usercontext"
	"github.com/castboard/castboard/internal/pkg/utils"
)

// HandleMe returns the account of the logged-in user together with the
// cached plan from the user context.
func HandleMe(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "login required")
	}

	user, err := repository.GetGlobalFactory().GetUserRepository().GetByID(userCtx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "user_not_found", "user not found")
	}

	return c.JSON(fiber.Map{
		"user":       user,
		"plan":       userCtx.Plan,
		"avatar_url": utils.GetGravatarURL(user.Email, 200),
	})
}
