package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/castboard/castboard/app/models"
	"github.com/castboard/castboard/internal/pkg/database"
	"github.com/castboard/castboard/internal/pkg/session"
	"github.com/castboard/castboard/internal/pkg/usercontext"
)

func logFailedLogin(c *fiber.Ctx, email string) {
	ipv4, ipv6 := GetClientIP(c)
	ip := ipv4
	if ip == "" {
		ip = ipv6
	}
	log.Warnf("[Auth] failed login for %s from %s", email, ip)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// HandleLogin authenticates against the user table and establishes a session.
// Accounts come out of the provisioning pipeline with a temporary password;
// this is where it is first used.
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_request", "malformed request body")
	}

	// notice: in production you should not inform the user
	// with detailed messages about login failures
	var user models.User
	result := database.GetDB().Where("email = ?", req.Email).First(&user)
	if result.Error != nil {
		logFailedLogin(c, req.Email)
		return jsonError(c, fiber.StatusUnauthorized, "login_failed", "there is a problem with the login process")
	}

	if !user.CheckPassword(req.Password) {
		logFailedLogin(c, req.Email)
		return jsonError(c, fiber.StatusUnauthorized, "login_failed", "there is a problem with the login process")
	}

	if !user.IsActive() {
		return jsonError(c, fiber.StatusForbidden, "account_disabled", "account is not active")
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "session_error", "could not create session")
	}

	sess.Set(AUTH_KEY, true)
	sess.Set(USER_ID, user.ID)
	sess.Set(USER_NAME, user.Name)
	sess.Set(USER_IS_ADMIN, user.Role == models.ROLE_ADMIN)

	if err := sess.Save(); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "session_error", "could not save session")
	}

	database.GetDB().Model(&user).Update("last_login_at", time.Now())

	return c.JSON(fiber.Map{
		"user": fiber.Map{
			"id":    user.ID,
			"uuid":  user.UUID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// HandleLogout destroys the session.
func HandleLogout(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err == nil {
		_ = sess.Destroy()
	}

	c.Locals(FROM_PROTECTED, false)

	return c.JSON(fiber.Map{"ok": true})
}

// HandleChangePassword swaps the password of the logged-in user after
// verifying the current one. Used to retire the provisioned temp password.
func HandleChangePassword(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "login required")
	}

	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_request", "malformed request body")
	}
	if len(req.NewPassword) < 8 {
		return jsonError(c, fiber.StatusBadRequest, "weak_password", "password must be at least 8 characters")
	}

	var user models.User
	if err := database.GetDB().First(&user, userCtx.UserID).Error; err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "user_lookup_failed", "could not load user")
	}

	if !user.CheckPassword(req.CurrentPassword) {
		return jsonError(c, fiber.StatusForbidden, "wrong_password", "current password does not match")
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "hash_failed", "could not update password")
	}
	if err := database.GetDB().Model(&user).Update("password", user.Password).Error; err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "update_failed", "could not update password")
	}

	return c.JSON(fiber.Map{"ok": true})
}
