package router

import (
	"github.com/castboard/castboard/app/controllers"
	"github.com/castboard/castboard/internal/pkg/middleware"
	"github.com/castboard/castboard/internal/pkg/session"

	"github.com/gofiber/fiber/v2"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	h.registerPublicRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	// Payment processor webhooks (signature-verified in the controller)
	app.Post("/webhook/payment", controllers.HandlePaymentWebhook)

	// Session login lives at the root for the hosted login page
	app.Post("/login", controllers.HandleLogin)

	// Public sedcard sites, served by subdomain
	app.Get("/sedcard/:subdomain", controllers.HandlePublicSedcard)

	// Health probe for the load balancer
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
